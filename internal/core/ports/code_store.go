package ports

import "context"

// CodeStore keeps the most recently issued one-time code per identity key.
// Put overwrites any previous code for the key.
type CodeStore interface {
	Put(ctx context.Context, key string, code int) error
	// Get returns the active code and whether one exists.
	Get(ctx context.Context, key string) (int, bool, error)
}

// CodeSender delivers a one-time code to its recipient (SMS gateway, log, ...).
type CodeSender interface {
	SendCode(ctx context.Context, mobile string, code int) error
}
