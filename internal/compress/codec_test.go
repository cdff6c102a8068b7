package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("compound document payload "), 200)

	for _, typ := range []Type{None, Deflate, Zstd, S2, LZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			require := require.New(t)

			codec, err := GetCodec(typ)
			require.NoError(err)

			compressed, err := codec.Compress(payload)
			require.NoError(err)
			if typ != None {
				require.Less(len(compressed), len(payload))
			}

			restored, err := codec.Decompress(compressed)
			require.NoError(err)
			require.Equal(payload, restored)
		})
	}
}

func TestParseType(t *testing.T) {
	require := require.New(t)

	for _, typ := range []Type{None, Deflate, Zstd, S2, LZ4} {
		parsed, err := ParseType(typ.String())
		require.NoError(err)
		require.Equal(typ, parsed)
	}

	_, err := ParseType("brotli")
	require.Error(err)
}

func TestDeflateRejectsGarbage(t *testing.T) {
	_, err := NewDeflateCodec().Decompress([]byte{1, 2, 3, 4})
	require.Error(t, err)
}
