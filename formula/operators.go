package formula

import "github.com/skdltmxn/ole-go/internal/stream"

// OperatorPtg is a one-byte token with no operand data: the arithmetic,
// comparison and reference operators plus Paren and MissArg. Values are
// shared constants.
type OperatorPtg byte

const (
	Add          = OperatorPtg(IDAdd)
	Sub          = OperatorPtg(IDSub)
	Mul          = OperatorPtg(IDMul)
	Div          = OperatorPtg(IDDiv)
	Power        = OperatorPtg(IDPower)
	Concat       = OperatorPtg(IDConcat)
	LessThan     = OperatorPtg(IDLessThan)
	LessEqual    = OperatorPtg(IDLessEqual)
	Equal        = OperatorPtg(IDEqual)
	GreaterEqual = OperatorPtg(IDGreaterEqual)
	GreaterThan  = OperatorPtg(IDGreaterThan)
	NotEqual     = OperatorPtg(IDNotEqual)
	Intersection = OperatorPtg(IDIntersection)
	Union        = OperatorPtg(IDUnion)
	Range        = OperatorPtg(IDRange)
	UnaryPlus    = OperatorPtg(IDUnaryPlus)
	UnaryMinus   = OperatorPtg(IDUnaryMinus)
	Percent      = OperatorPtg(IDPercent)
	Paren        = OperatorPtg(IDParen)
	MissArg      = OperatorPtg(IDMissArg)
)

var operatorInfo = map[OperatorPtg]struct {
	symbol   string
	operands int
}{
	Add:          {"+", 2},
	Sub:          {"-", 2},
	Mul:          {"*", 2},
	Div:          {"/", 2},
	Power:        {"^", 2},
	Concat:       {"&", 2},
	LessThan:     {"<", 2},
	LessEqual:    {"<=", 2},
	Equal:        {"=", 2},
	GreaterEqual: {">=", 2},
	GreaterThan:  {">", 2},
	NotEqual:     {"<>", 2},
	Intersection: {" ", 2},
	Union:        {",", 2},
	Range:        {":", 2},
	UnaryPlus:    {"+", 1},
	UnaryMinus:   {"-", 1},
	Percent:      {"%", 1},
	Paren:        {"()", 1},
	MissArg:      {"", 0},
}

func operatorByID(id byte) (OperatorPtg, bool) {
	op := OperatorPtg(id)
	_, ok := operatorInfo[op]
	return op, ok
}

func (o OperatorPtg) ID() byte  { return byte(o) }
func (o OperatorPtg) Size() int { return 1 }

// Symbol returns the operator as written in a formula.
func (o OperatorPtg) Symbol() string {
	return operatorInfo[o].symbol
}

// NumOperands returns how many operands the operator consumes.
func (o OperatorPtg) NumOperands() int {
	return operatorInfo[o].operands
}

func (o OperatorPtg) String() string {
	switch o {
	case Paren:
		return "Paren"
	case MissArg:
		return "MissArg"
	case Intersection:
		return "Intersection"
	case Union:
		return "Union"
	case UnaryPlus:
		return "UnaryPlus"
	case UnaryMinus:
		return "UnaryMinus"
	}
	return "Operator(" + o.Symbol() + ")"
}

func (o OperatorPtg) write(w *stream.Writer) {
	w.WriteU8(byte(o))
}
