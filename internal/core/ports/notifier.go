package ports

import "context"

// Notifier delivers a plain-text message. Delivery may fail; callers decide
// whether a failure matters.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
