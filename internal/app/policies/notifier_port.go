package policies

import "context"

// Notifier delivers user-facing messages rendered by a presentation layer
// outside this service. Delivery is best effort; no guarantees are made.
type Notifier interface {
	Send(ctx context.Context, to string, template string, data any) error
}
