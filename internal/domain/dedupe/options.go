package dedupe

type config struct {
	maxSize int
}

// Option applies a configuration option to NewInMemoryDeduper.
type Option func(*config)

// WithMaxSize bounds the number of remembered IDs. Zero or negative keeps
// every ID forever.
func WithMaxSize(maxSize int) Option {
	return func(c *config) {
		c.maxSize = maxSize
	}
}
