package ports

import "context"

// UtilService exposes the server's runtime switches.
type UtilService interface {
	// Flag returns the current value of a named switch.
	Flag(ctx context.Context, name string) (bool, error)
	// Set applies every switch in values; unknown names are rejected before
	// anything changes.
	Set(ctx context.Context, values map[string]bool) error
	Throttled() bool
}
