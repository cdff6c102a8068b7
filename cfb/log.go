package cfb

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/skdltmxn/ole-go/internal/logging"
)

func discardLogger() *logrus.Logger {
	return logging.Discard()
}

// NewDebugLogger returns a text logger writing debug output to w.
func NewDebugLogger(w io.Writer) *logrus.Logger {
	return logging.NewDebug(w)
}
