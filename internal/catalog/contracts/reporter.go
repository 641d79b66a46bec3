package contracts

import "context"

// ErrorReporter forwards internal failures to an asynchronous notification
// channel. Reporting never blocks the calling operation.
type ErrorReporter interface {
	Report(ctx context.Context, operation string, err error)
}
