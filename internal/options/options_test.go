package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type config struct {
	size int
	name string
}

func withSize(n int) Option[*config] {
	return New(func(c *config) error {
		if n <= 0 {
			return errors.New("size must be positive")
		}
		c.size = n
		return nil
	})
}

func withName(name string) Option[*config] {
	return NoError(func(c *config) { c.name = name })
}

func TestApply(t *testing.T) {
	require := require.New(t)

	c := &config{}
	require.NoError(Apply(c, withSize(512), withName("root"), nil))
	require.Equal(512, c.size)
	require.Equal("root", c.name)
}

func TestApplyStopsOnError(t *testing.T) {
	require := require.New(t)

	c := &config{}
	err := Apply(c, withSize(-1), withName("never"))
	require.Error(err)
	require.Empty(c.name)
}
