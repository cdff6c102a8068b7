package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// DeflateCodec handles zlib-wrapped deflate streams, the format used for
// compressed metafile pictures inside drawing records.
type DeflateCodec struct {
	level int
}

var _ Codec = (*DeflateCodec)(nil)

// NewDeflateCodec returns a codec using the default zlib level.
func NewDeflateCodec() DeflateCodec {
	return DeflateCodec{level: zlib.DefaultCompression}
}

// NewDeflateCodecLevel returns a codec using the given zlib level.
func NewDeflateCodecLevel(level int) DeflateCodec {
	return DeflateCodec{level: level}
}

// Compress writes data as a zlib stream.
func (c DeflateCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream.
func (c DeflateCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("deflate decompression failed: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("deflate decompression failed: %w", err)
	}
	return out, nil
}
