package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/api/metrics"
	"github.com/ecolenet/school-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ErrStopped is returned for items submitted after the dispatcher shut down.
var ErrStopped = errors.New("dispatcher stopped")

// Handler processes one item.
type Handler[T any] func(ctx context.Context, item T) error

// KeyFunc returns the shard key of an item. Items sharing a key are handled
// by the same worker, in submission order.
type KeyFunc[T any] func(item T) string

type task[T any] struct {
	ctx  context.Context
	item T
	done func(error)
}

// Dispatcher fans batch items out to a fixed set of workers using
// consistent hashing on the item key.
type Dispatcher[T any] struct {
	name    string
	workers []chan task[T]
	handle  Handler[T]
	key     KeyFunc[T]
	log     zerolog.Logger
	stopped chan struct{}
	once    sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher[T any](name string, numWorkers int, key KeyFunc[T], handle Handler[T], log zerolog.Logger) *Dispatcher[T] {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher[T]{
		name:    name,
		workers: make([]chan task[T], numWorkers),
		handle:  handle,
		key:     key,
		log:     log.With().Str("queue", name).Logger(),
		stopped: make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan task[T], channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher[T]) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		d.once.Do(func() { close(d.stopped) })
	}()
}

// Dispatch submits items and blocks until each of them was handled or ctx
// ended. The returned error joins every item failure, in item order.
func (d *Dispatcher[T]) Dispatch(ctx context.Context, items []T) error {
	errs := make([]error, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		t := task[T]{ctx: ctx, item: item, done: func(err error) {
			errs[i] = err
			wg.Done()
		}}
		idx := d.shardIndex(d.key(item))
		select {
		case d.workers[idx] <- t:
			metrics.BatchQueueDepth.WithLabelValues(d.name, strconv.Itoa(idx)).Inc()
		case <-ctx.Done():
			t.done(ctx.Err())
		case <-d.stopped:
			t.done(ErrStopped)
		}
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return errors.Join(errs...)
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrStopped
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher[T]) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher[T]) runWorker(ctx context.Context, id int, ch <-chan task[T]) {
	depth := metrics.BatchQueueDepth.WithLabelValues(d.name, strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ch:
			depth.Dec()
			err := t.ctx.Err()
			if err == nil {
				err = d.handle(t.ctx, t.item)
			}
			if err != nil {
				metrics.BatchItemsTotal.WithLabelValues(d.name, "error").Inc()
				d.log.Warn().Err(err).
					Str("key", d.key(t.item)).
					Int("worker_id", id).
					Msg("batch item failed")
			} else {
				metrics.BatchItemsTotal.WithLabelValues(d.name, "ok").Inc()
			}
			t.done(err)
		}
	}
}

// NewBatchDispatcher returns a dispatcher for ports.BatchItem, which
// satisfies ports.Batcher.
func NewBatchDispatcher(name string, numWorkers int, log zerolog.Logger) *Dispatcher[ports.BatchItem] {
	return NewDispatcher(name, numWorkers,
		func(it ports.BatchItem) string { return it.Key },
		func(ctx context.Context, it ports.BatchItem) error { return it.Run(ctx) },
		log)
}
