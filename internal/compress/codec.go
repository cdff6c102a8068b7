// Package compress provides the payload codecs used for embedded pictures and
// for exporting container streams.
package compress

import (
	"fmt"
	"strings"
)

// Compressor compresses a complete payload.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Type identifies a codec.
type Type uint8

const (
	None Type = iota
	Deflate
	Zstd
	S2
	LZ4
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Deflate:
		return "deflate"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// ParseType parses a codec name as printed by Type.String.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return None, nil
	case "deflate", "zlib":
		return Deflate, nil
	case "zstd":
		return Zstd, nil
	case "s2":
		return S2, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, fmt.Errorf("compress: unknown codec %q", s)
	}
}

var builtinCodecs = map[Type]Codec{
	None:    NewNoOpCodec(),
	Deflate: NewDeflateCodec(),
	Zstd:    NewZstdCodec(),
	S2:      NewS2Codec(),
	LZ4:     NewLZ4Codec(),
}

// GetCodec returns the built-in codec for t.
func GetCodec(t Type) (Codec, error) {
	if c, ok := builtinCodecs[t]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("compress: unsupported codec %s", t)
}
