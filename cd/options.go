package cd

import (
	"github.com/rs/zerolog"

	"github.com/fermat-boruvka/gngp/obbtree"
)

// Option configures a Context at construction time.
type Option func(*config)

type config struct {
	flags       obbtree.BuildFlags
	useSAP      bool
	sapSize     int
	maxContacts int
	logger      zerolog.Logger
}

func defaultConfig() config {
	return config{
		flags:       obbtree.DefaultBuildFlags(),
		useSAP:      true,
		sapSize:     1024,
		maxContacts: 20,
		logger:      zerolog.Nop(),
	}
}

// WithBuildFlags sets the OBB tree construction flags used by every
// Geom.Build in this context.
func WithBuildFlags(flags obbtree.BuildFlags) Option {
	return func(c *config) { c.flags = flags }
}

// WithSAP enables the sweep-and-prune broad phase with the given size hint.
func WithSAP(size int) Option {
	return func(c *config) {
		c.useSAP = true
		c.sapSize = size
	}
}

// WithoutSAP disables the broad phase; global queries fall back to testing
// every geom pair.
func WithoutSAP() Option {
	return func(c *config) { c.useSAP = false }
}

// WithMaxContacts bounds the number of contacts a Separate call reports.
func WithMaxContacts(n int) Option {
	if n <= 0 {
		panic("cd: WithMaxContacts requires n > 0")
	}

	return func(c *config) { c.maxContacts = n }
}

// WithLogger attaches a zerolog.Logger for structured diagnostics (geom
// builds, degenerate-shape skips, dirty-geom batches). Defaults to
// zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}
