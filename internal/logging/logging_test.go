package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestDiscard(t *testing.T) {
	require := require.New(t)

	l := Discard()
	require.Equal(logrus.WarnLevel, l.Level)
	l.Warn("dropped")
}

func TestNewDebug(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	l := NewDebug(&buf)
	l.WithField("sector", 3).Debug("loaded")
	require.Contains(buf.String(), "loaded")
	require.Contains(buf.String(), "sector=3")
	require.NotContains(buf.String(), "time=")
}
