package savefile

import "go.uber.org/zap"

// Option configures WriteFile and Create.
type Option func(*config)

type config struct {
	logger *zap.Logger
}

func newConfig(opts []Option) *config {
	c := &config{logger: Logger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger overrides the package logger for a single dump.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
