package xmldiff

import (
	"log"
	"slices"

	"znkr.io/xmldiff/encode"
	"znkr.io/xmldiff/filter"
	"znkr.io/xmldiff/match"
)

// Option configures a diff.
type Option func(*config)

type config struct {
	chunkSizes    []int
	encoder       string
	filter        string
	matcher       string
	emitIdentical bool
	logger        *log.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{
		chunkSizes:    match.DefaultChunkSizes,
		encoder:       encode.Default,
		filter:        filter.Default,
		matcher:       DefaultMatcher,
		emitIdentical: true,
		logger:        log.Default(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}

// WithChunkSizes sets the chunk sizes used by chunk based matchers. The order does not matter.
func WithChunkSizes(sizes ...int) Option {
	return func(c *config) {
		c.chunkSizes = slices.Clone(sizes)
	}
}

// WithEncoder selects the encoder by name or alias, see encode.Registry.
func WithEncoder(name string) Option {
	return func(c *config) {
		c.encoder = name
	}
}

// WithFilter selects the input filter by name or alias, see filter.Registry.
func WithFilter(name string) Option {
	return func(c *config) {
		c.filter = name
	}
}

// WithMatcher selects the matcher by name or alias, see Matchers.
func WithMatcher(name string) Option {
	return func(c *config) {
		c.matcher = name
	}
}

// WithEmitIdentical controls whether a diff is written for identical documents. It is by
// default.
func WithEmitIdentical(emit bool) Option {
	return func(c *config) {
		c.emitIdentical = emit
	}
}

// WithLogger sets the logger for progress messages and warnings. If not set, log.Default() is
// used.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
