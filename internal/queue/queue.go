package queue

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"brochure/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Renderer draws one brochure
type Renderer interface {
	Render(ctx context.Context, text string, spec models.ListingSpec) ([]byte, error)
}

type result struct {
	pdf []byte
	err error
}

type job struct {
	ctx    context.Context
	text   string
	spec   models.ListingSpec
	queued time.Time
	result chan result
}

// RenderQueue bounds the number of brochures rendered at once. Jobs beyond
// the buffer are refused instead of piling up behind slow image fetches.
type RenderQueue struct {
	renderer Renderer
	items    chan *job
	done     chan struct{}
	workers  int
	closed   bool
	mu       sync.RWMutex
	wg       sync.WaitGroup
	logger   *logrus.Logger
}

// NewRenderQueue creates a queue holding up to bufferSize waiting jobs,
// drained by the given number of workers
func NewRenderQueue(renderer Renderer, bufferSize, workers int, logger *logrus.Logger) *RenderQueue {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	if workers < 1 {
		workers = 1
	}

	return &RenderQueue{
		renderer: renderer,
		items:    make(chan *job, bufferSize),
		done:     make(chan struct{}),
		workers:  workers,
		logger:   logger,
	}
}

// Start launches the workers
func (q *RenderQueue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.process()
	}
}

// Render queues a brochure and waits for it. It returns ErrQueueFull when
// no slot is free and ErrQueueClosed once the queue is shut down.
func (q *RenderQueue) Render(ctx context.Context, text string, spec models.ListingSpec) ([]byte, error) {
	j := &job{
		ctx:    ctx,
		text:   text,
		spec:   spec,
		queued: time.Now(),
		result: make(chan result, 1),
	}
	if err := q.push(j); err != nil {
		return nil, err
	}

	select {
	case res := <-j.result:
		return res.pdf, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.done:
		return nil, ErrQueueClosed
	}
}

func (q *RenderQueue) push(j *job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	// Non-blocking send so a busy server answers immediately
	select {
	case q.items <- j:
		q.logger.WithField("queued", len(q.items)).Debug("Queued brochure render")
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *RenderQueue) process() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			return
		case j := <-q.items:
			q.run(j)
		}
	}
}

func (q *RenderQueue) run(j *job) {
	// The caller gave up while the job was waiting
	if err := j.ctx.Err(); err != nil {
		j.result <- result{err: err}
		return
	}

	wait := time.Since(j.queued)
	pdf, err := q.renderer.Render(j.ctx, j.text, j.spec)
	if err != nil {
		q.logger.WithError(err).Debug("Queued render failed")
	}
	q.logger.WithFields(logrus.Fields{
		"wait":     wait.String(),
		"duration": (time.Since(j.queued) - wait).String(),
	}).Debug("Finished brochure render")

	j.result <- result{pdf: pdf, err: err}
}

// Close stops the workers after their current job and refuses new work
func (q *RenderQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Len returns the number of jobs waiting for a worker
func (q *RenderQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *RenderQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
