package api

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"brochure/server/internal/composer"
)

var (
	previewPolicyOnce sync.Once
	previewPolicy     *bluemonday.Policy
)

// previewHTML turns a composed description into the markup shown on the
// preview page. Bullet paragraphs become lists; every other line break is kept.
func previewHTML(text string) template.HTML {
	var b strings.Builder
	for _, paragraph := range composer.Paragraphs(text) {
		if paragraph == "" {
			continue
		}
		lines := strings.Split(paragraph, "\n")
		var items []string
		for len(lines) > 1 && strings.HasPrefix(lines[len(lines)-1], composer.BulletPrefix) {
			items = append([]string{strings.TrimPrefix(lines[len(lines)-1], composer.BulletPrefix)}, items...)
			lines = lines[:len(lines)-1]
		}

		escaped := make([]string, len(lines))
		for i, line := range lines {
			escaped[i] = html.EscapeString(line)
		}
		b.WriteString("<p>" + strings.Join(escaped, "<br>") + "</p>")

		if len(items) > 0 {
			b.WriteString("<ul>")
			for _, item := range items {
				b.WriteString("<li>" + html.EscapeString(item) + "</li>")
			}
			b.WriteString("</ul>")
		}
	}

	return template.HTML(previewSanitizer().Sanitize(b.String()))
}

func previewSanitizer() *bluemonday.Policy {
	previewPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("p", "br", "ul", "li")
		previewPolicy = policy
	})
	return previewPolicy
}
