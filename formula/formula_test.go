package formula

import (
	"errors"
	"strings"
	"testing"

	"github.com/skdltmxn/ole-go/internal/stream"
	"github.com/stretchr/testify/require"
)

// SUM(A1:B2)+1 as stored in a cell.
var sumTokens = []byte{
	0x25, 0x00, 0x00, 0x01, 0x00, 0x00, 0xC0, 0x01, 0xC0, // Area A1:B2
	0x19, 0x10, 0x00, 0x00, // Attr sum
	0x1E, 0x01, 0x00, // Int 1
	0x03, // Add
}

func TestReadTokens(t *testing.T) {
	require := require.New(t)

	ptgs, err := ReadTokens(len(sumTokens), stream.NewReader(sumTokens))
	require.NoError(err)
	require.Len(ptgs, 4)

	area, ok := ptgs[0].(*AreaPtg)
	require.True(ok)
	require.Equal(ClassRef, area.Class())
	require.Equal("A1:B2", area.Area.String())

	attr, ok := ptgs[1].(*AttrPtg)
	require.True(ok)
	require.True(attr.IsSum())
	require.Equal(&IntPtg{Value: 1}, ptgs[2])
	require.Equal(Add, ptgs[3])

	require.Equal(len(sumTokens), EncodedSize(ptgs))
	out, err := SerializeTokens(ptgs)
	require.NoError(err)
	require.Equal(sumTokens, out)

	s, err := Render(ptgs)
	require.NoError(err)
	require.Equal("SUM(A1:B2)+1", s)
}

func TestArrayConstantsFollowTokens(t *testing.T) {
	require := require.New(t)

	data := []byte{0x60, 0, 0, 0, 0, 0, 0, 0} // ArrayA token
	data = append(data, 0x01, 0x01, 0x00)     // 2 columns, 2 rows
	data = append(data, 0x01, 0, 0, 0, 0, 0, 0, 0xF0, 0x3F)
	data = append(data, 0x02, 0x01, 0x00, 0x00, 'a')
	data = append(data, 0x04, 0x01, 0, 0, 0, 0, 0, 0, 0)
	data = append(data, 0x10, 0x2A, 0, 0, 0, 0, 0, 0, 0)
	data = append(data, 0xEE)

	r := stream.NewReader(data)
	ptgs, err := ReadTokens(8, r)
	require.NoError(err)
	require.Equal(len(data)-1, r.Offset())

	arr, ok := ptgs[0].(*ArrayPtg)
	require.True(ok)
	require.Equal(ClassArray, arr.Class())
	require.Equal(2, arr.Rows)
	require.Equal(2, arr.Cols)
	require.Equal([]any{1.0, "a", true, ErrorConstant(ErrorNA)}, arr.Values)
	require.Equal(`{1,"a";TRUE,#N/A}`, arr.Literal())

	v, err := arr.Value(1, 0)
	require.NoError(err)
	require.Equal(true, v)
	_, err = arr.Value(2, 0)
	require.Error(err)

	require.Equal(8, EncodedSizeWithoutArrayData(ptgs))
	require.Equal(len(data)-1, EncodedSize(ptgs))
	out, err := SerializeTokens(ptgs)
	require.NoError(err)
	require.Equal(data[:len(data)-1], out)
}

func TestArrayDimensionLimits(t *testing.T) {
	require := require.New(t)

	wide := make([]any, MaxArrayCols+1)
	for i := range wide {
		wide[i] = float64(i)
	}
	_, err := NewArrayPtg([][]any{wide})
	require.ErrorIs(err, ErrInvalidConstant)

	arr, err := NewArrayPtg([][]any{wide[:MaxArrayCols]})
	require.NoError(err)
	out, err := SerializeTokens([]Ptg{arr})
	require.NoError(err)
	ptgs, err := ReadTokens(arr.Size(), stream.NewReader(out))
	require.NoError(err)
	again := ptgs[0].(*ArrayPtg)
	require.Equal(MaxArrayCols, again.Cols)
	require.Equal(arr.Values, again.Values)

	arr.Cols = MaxArrayCols + 1
	arr.Values = append(arr.Values, 1.0)
	_, err = SerializeTokens([]Ptg{arr})
	require.ErrorIs(err, ErrInvalidConstant)

	_, err = SerializeTokens([]Ptg{&ArrayPtg{Cols: 2, Rows: 1, Values: []any{1.0}}})
	require.ErrorIs(err, ErrInvalidConstant)
}

func TestNewArrayPtg(t *testing.T) {
	require := require.New(t)

	arr, err := NewArrayPtg([][]any{{1.0, nil}, {"x", false}})
	require.NoError(err)
	require.Equal(`{1,;"x",FALSE}`, arr.Literal())

	_, err = NewArrayPtg([][]any{{1.0}, {1.0, 2.0}})
	require.ErrorIs(err, ErrInvalidConstant)

	_, err = NewArrayPtg([][]any{{42}})
	require.ErrorIs(err, ErrInvalidConstant)

	f, err := FromTokens([]Ptg{arr})
	require.NoError(err)
	ptgs, err := f.Tokens()
	require.NoError(err)
	require.Equal(arr.Values, ptgs[0].(*ArrayPtg).Values)
}

func TestReadTokensErrors(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		_, err := ReadTokens(2, stream.NewReader([]byte{0x18, 0x00}))
		require.ErrorIs(t, err, ErrUnknownPtg)

		var tokErr *TokenError
		require.True(t, errors.As(err, &tokErr))
		require.Equal(t, 0, tokErr.Offset)
		require.Equal(t, byte(0x18), tokErr.ID)
	})

	t.Run("size mismatch", func(t *testing.T) {
		_, err := ReadTokens(2, stream.NewReader([]byte{0x1E, 0x01, 0x00}))
		require.ErrorIs(t, err, ErrTokenSizeMismatch)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := ReadTokens(9, stream.NewReader([]byte{0x1F, 0x00}))
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad constant type", func(t *testing.T) {
		data := []byte{0x40, 0, 0, 0, 0, 0, 0, 0, 0x00, 0x00, 0x00, 0x03, 0, 0, 0, 0, 0, 0, 0, 0}
		_, err := ReadTokens(8, stream.NewReader(data))
		require.ErrorIs(t, err, ErrInvalidConstant)
	})

	t.Run("array dimensions beyond data", func(t *testing.T) {
		data := []byte{0x40, 0, 0, 0, 0, 0, 0, 0, 0xFF, 0xFF, 0xFF}
		_, err := ReadTokens(8, stream.NewReader(data))
		require.ErrorIs(t, err, ErrTruncated)
		require.ErrorContains(t, err, "array constants")
	})
}

func TestRenderIf(t *testing.T) {
	require := require.New(t)

	pos, err := NewStrPtg("pos")
	require.NoError(err)
	neg, err := NewStrPtg(`say "no"`)
	require.NoError(err)

	ptgs := []Ptg{
		NewRefPtg(CellReference{}, ClassValue),
		&IntPtg{Value: 0},
		GreaterThan,
		NewIfAttr(9),
		pos,
		NewGotoAttr(17),
		neg,
		NewGotoAttr(3),
		NewFuncVarPtg(1, 3, ClassValue),
	}

	f, err := FromTokens(ptgs)
	require.NoError(err)
	require.Equal(`IF(A1>0,"pos","say ""no""")`, f.String())

	decoded, err := f.Tokens()
	require.NoError(err)
	require.Len(decoded, len(ptgs))
	require.Equal(byte(0x44), decoded[0].ID())
	require.Equal(byte(0x42), decoded[8].ID())
	require.Equal("IF", decoded[8].(*FuncVarPtg).Name())
}

func TestRenderFunctions(t *testing.T) {
	require := require.New(t)

	s, err := Render([]Ptg{&NumPtg{Value: -2.5}, NewFuncPtg(24, ClassValue)})
	require.NoError(err)
	require.Equal("ABS(-2.5)", s)

	s, err = Render([]Ptg{NewFuncPtg(19, ClassValue), &IntPtg{Value: 2}, Mul, Paren, UnaryMinus})
	require.NoError(err)
	require.Equal("-(PI()*2)", s)

	s, err = Render([]Ptg{&IntPtg{Value: 50}, Percent, MissArg, NewFuncVarPtg(4, 2, ClassValue)})
	require.NoError(err)
	require.Equal("SUM(50%,)", s)

	_, err = Render([]Ptg{Add})
	require.ErrorIs(err, ErrRender)

	_, err = Render([]Ptg{&IntPtg{Value: 1}, &IntPtg{Value: 2}})
	require.ErrorIs(err, ErrRender)

	_, err = Render([]Ptg{&IntPtg{Value: 1}, NewFuncPtg(4, ClassValue)})
	require.ErrorIs(err, ErrRender, "SUM has no fixed arity")

	s, err = Render(nil)
	require.NoError(err)
	require.Empty(s)
}

func TestCellReference(t *testing.T) {
	require := require.New(t)

	for col, name := range map[int]string{0: "A", 25: "Z", 26: "AA", 701: "ZZ", 702: "AAA"} {
		require.Equal(name, ColumnName(col))
		idx, err := ColumnIndex(name)
		require.NoError(err)
		require.Equal(col, idx)
	}

	ref, err := ParseCellReference("$C$10")
	require.NoError(err)
	require.Equal(CellReference{Row: 9, Col: 2, RowAbs: true, ColAbs: true}, ref)
	require.Equal("$C$10", ref.String())

	for _, bad := range []string{"", "1A", "A0", "A", "$$A1"} {
		_, err := ParseCellReference(bad)
		require.ErrorIs(err, ErrInvalidReference, bad)
	}
}

func TestRefPtgColumnFlags(t *testing.T) {
	require := require.New(t)

	cell, err := ParseCellReference("$B3")
	require.NoError(err)

	out, err := SerializeTokens([]Ptg{NewRefPtg(cell, ClassRef)})
	require.NoError(err)
	require.Equal([]byte{0x24, 0x02, 0x00, 0x01, 0x80}, out)

	ptgs, err := ReadTokens(5, stream.NewReader(out))
	require.NoError(err)
	require.Equal("$B3", ptgs[0].(*RefPtg).Cell.String())

	ref := ptgs[0].(*RefPtg)
	ref.SetClass(ClassArray)
	require.Equal(byte(0x64), ref.ID())
}

func TestAttrChoose(t *testing.T) {
	require := require.New(t)

	attr := NewChooseAttr([]uint16{4, 8}, 12)
	require.Equal(10, attr.Size())

	out, err := SerializeTokens([]Ptg{attr})
	require.NoError(err)
	require.Equal([]byte{0x19, 0x04, 0x02, 0x00, 0x04, 0x00, 0x08, 0x00, 0x0C, 0x00}, out)

	ptgs, err := ReadTokens(len(out), stream.NewReader(out))
	require.NoError(err)
	require.Equal(attr, ptgs[0])

	space := NewSpaceAttr(SpaceBeforeOpenParen, 3)
	require.Equal(SpaceBeforeOpenParen, space.SpaceKind())
	require.Equal(3, space.SpaceCount())
	require.Equal("Attr[space count=3 type=2]", space.String())
}

func TestStrPtg(t *testing.T) {
	require := require.New(t)

	p, err := NewStrPtg("日本")
	require.NoError(err)
	require.Equal(7, p.Size())

	out, err := SerializeTokens([]Ptg{p})
	require.NoError(err)
	require.Equal(byte(strFlagUTF16), out[2])

	ptgs, err := ReadTokens(len(out), stream.NewReader(out))
	require.NoError(err)
	require.Equal("日本", ptgs[0].(*StrPtg).Value)

	_, err = NewStrPtg(strings.Repeat("x", MaxStrLength+1))
	require.Error(err)
}

func TestFormulaWrapper(t *testing.T) {
	require := require.New(t)

	data := append([]byte{byte(len(sumTokens)), 0x00}, sumTokens...)
	data = append(data, 0xFF)

	f, n, err := ParseFormula(data)
	require.NoError(err)
	require.Equal(len(data)-1, n)
	require.Equal(len(sumTokens), f.EncodedTokenSize())
	require.Equal(n, f.EncodedSize())
	require.Equal("SUM(A1:B2)+1", f.String())

	out, err := f.MarshalBinary()
	require.NoError(err)
	require.Equal(data[:n], out)

	ptgs, err := f.Tokens()
	require.NoError(err)
	again, err := FromTokens(ptgs)
	require.NoError(err)
	require.True(f.Equal(again))

	_, ok := f.ExpReference()
	require.False(ok)

	shared, err := FromTokens([]Ptg{NewExpPtg(4, 2)})
	require.NoError(err)
	cell, ok := shared.ExpReference()
	require.True(ok)
	require.Equal(CellReference{Row: 4, Col: 2}, cell)
}

func TestLiterals(t *testing.T) {
	require := require.New(t)

	require.IsType(&IntPtg{}, NumberPtg(3))
	require.IsType(&NumPtg{}, NumberPtg(2.5))
	require.IsType(&NumPtg{}, NumberPtg(-1))
	require.IsType(&NumPtg{}, NumberPtg(70000))

	require.Equal("#DIV/0!", (&ErrPtg{Code: ErrorDiv0}).String())
	require.Equal("#ERR99!", ErrorText(99))
	require.Equal("TRUE", (&BoolPtg{Value: true}).String())
	require.Equal(1, Add.Size())
	require.Equal("Operator(+)", Add.String())
	require.Equal("UnaryMinus", UnaryMinus.String())

	idx, ok := FunctionIndex("VLOOKUP")
	require.True(ok)
	require.Equal("VLOOKUP", FunctionName(idx))
	require.Equal("FUNC9999", NewFuncPtg(9999, ClassValue).Name())
}
