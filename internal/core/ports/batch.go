package ports

import "context"

// BatchItem is one unit of a batch submission. Items sharing a Key run in
// submission order.
type BatchItem struct {
	Key string
	Run func(ctx context.Context) error
}

// Batcher runs items concurrently and waits for all of them. The returned
// error joins every item failure.
type Batcher interface {
	Dispatch(ctx context.Context, items []BatchItem) error
}
