package cfb

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/skdltmxn/ole-go/internal/options"
)

// DefaultMaxStreamSize bounds the size of a single stream read into memory.
const DefaultMaxStreamSize = 1 << 30

type config struct {
	blockSize     int
	logger        logrus.FieldLogger
	maxStreamSize int64
	compare       func(a, b string) int
}

func defaultConfig() *config {
	return &config{
		blockSize:     BigBlockSize,
		logger:        discardLogger(),
		maxStreamSize: DefaultMaxStreamSize,
		compare:       CompareNames,
	}
}

// Option configures a FileSystem.
type Option = options.Option[*config]

// WithBigBlockSize selects the sector size for new file systems: 512 (version 3)
// or 4096 (version 4). Opened files keep the size stored in their header.
func WithBigBlockSize(size int) Option {
	return options.New(func(c *config) error {
		if size != BigBlockSize && size != LargeBlockSize {
			return fmt.Errorf("%w: %d", ErrInvalidBlockSize, size)
		}
		c.blockSize = size
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

// WithMaxStreamSize limits the size of streams read or written in one piece.
func WithMaxStreamSize(n int64) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("cfb: max stream size must be positive, got %d", n)
		}
		c.maxStreamSize = n
		return nil
	})
}

// WithLegacyNameOrder orders siblings with LegacyCompareNames when writing.
// Only useful for reproducing files written by old tools.
func WithLegacyNameOrder() Option {
	return options.NoError(func(c *config) {
		c.compare = LegacyCompareNames
	})
}
