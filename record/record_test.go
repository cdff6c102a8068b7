package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixed struct {
	sid     uint16
	data    []byte
	declare int
	fail    error
}

func (f fixed) Sid() uint16 { return f.sid }

func (f fixed) RecordSize() int {
	if f.declare != 0 {
		return f.declare
	}
	return len(f.data)
}

func (f fixed) Serialize(buf []byte) (int, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	return copy(buf, f.data), nil
}

func TestMarshal(t *testing.T) {
	require := require.New(t)

	b, err := Marshal(fixed{sid: 1, data: []byte{1, 2, 3}})
	require.NoError(err)
	require.Equal([]byte{1, 2, 3}, b)

	all, err := MarshalAll([]fixed{{sid: 1, data: []byte{1}}, {sid: 2, data: []byte{2, 3}}})
	require.NoError(err)
	require.Equal([]byte{1, 2, 3}, all)
	require.Equal(3, TotalSize([]fixed{{data: []byte{1}}, {data: []byte{2, 3}}}))
}

func TestMarshalDetectsSizeMismatch(t *testing.T) {
	require := require.New(t)

	_, err := Marshal(fixed{sid: 0xF00B, data: []byte{1, 2}, declare: 4})
	require.ErrorIs(err, ErrSizeMismatch)

	var sm *SizeMismatchError
	require.True(errors.As(err, &sm))
	require.Equal(uint16(0xF00B), sm.Sid)
	require.Equal(4, sm.Declared)
	require.Equal(2, sm.Written)
}

func TestMarshalPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Marshal(fixed{sid: 7, data: []byte{1}, fail: boom})
	require.ErrorIs(t, err, boom)

	_, err = SerializeInto(fixed{data: []byte{1, 2}}, make([]byte, 1))
	require.Error(t, err)
}
