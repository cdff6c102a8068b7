package compress

// ZstdCodec uses Zstandard. The implementation is chosen at build time: the
// cgo build links libzstd, the pure build uses klauspost/compress.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a Zstandard codec for the current build.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
