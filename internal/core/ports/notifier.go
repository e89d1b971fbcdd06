package ports

import "context"

// Notification is an outbound email.
type Notification struct {
	To      string
	Subject string
	HTML    string
}

// Notifier delivers notifications. Implementations may deliver
// asynchronously; submission flows must not fail when delivery does.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// DedupChecker provides idempotency checks for report submissions.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}
