package compress

// NoOpCodec passes data through unchanged.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a pass-through codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (c NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
