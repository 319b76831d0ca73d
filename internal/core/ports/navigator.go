package ports

import "context"

// Navigator moves the client to a route. It is only ever called after the
// session state that motivated the move has been committed.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}
