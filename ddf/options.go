package ddf

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/skdltmxn/ole-go/internal/options"
)

const (
	// DefaultMaxRecordLength bounds the declared length of a single record.
	DefaultMaxRecordLength = 100_000_000

	maxDepth = 64
)

type config struct {
	maxRecordLength int
	logger          logrus.FieldLogger
}

// Option configures a Factory.
type Option = options.Option[*config]

// WithMaxRecordLength sets the largest record length the factory accepts.
func WithMaxRecordLength(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("ddf: max record length must be positive, got %d", n)
		}
		c.maxRecordLength = n
		return nil
	})
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return options.NoError(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}
