package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// externalFunction is the function index used for add-in and macro calls;
// the callee name is the first argument.
const externalFunction = 255

// Render converts a token run to infix formula text without the leading
// '='. References to other sheets and names are shown by index since no
// workbook is available to resolve them.
func Render(ptgs []Ptg) (string, error) {
	var stack []string
	pop := func(n int) ([]string, error) {
		if n > len(stack) {
			return nil, fmt.Errorf("%w: need %d operands, have %d", ErrRender, n, len(stack))
		}
		args := append([]string(nil), stack[len(stack)-n:]...)
		stack = stack[:len(stack)-n]
		return args, nil
	}

	for _, ptg := range ptgs {
		switch p := ptg.(type) {
		case OperatorPtg:
			args, err := pop(p.NumOperands())
			if err != nil {
				return "", err
			}
			stack = append(stack, renderOperator(p, args))
		case *AttrPtg:
			if !p.IsSum() {
				continue
			}
			args, err := pop(1)
			if err != nil {
				return "", err
			}
			stack = append(stack, "SUM("+args[0]+")")
		case *MemAreaPtg, *MemFuncPtg:
			// The subexpression that follows carries the value.
		case *FuncPtg:
			n := p.NumArgs()
			if n < 0 {
				return "", fmt.Errorf("%w: unknown fixed-arity function %d", ErrRender, p.Index)
			}
			args, err := pop(n)
			if err != nil {
				return "", err
			}
			stack = append(stack, p.Name()+"("+strings.Join(args, ",")+")")
		case *FuncVarPtg:
			args, err := pop(p.NumArgs())
			if err != nil {
				return "", err
			}
			name := p.Name()
			if p.Index == externalFunction && len(args) > 0 {
				name, args = args[0], args[1:]
			}
			stack = append(stack, name+"("+strings.Join(args, ",")+")")
		default:
			stack = append(stack, renderOperand(ptg))
		}
	}

	switch len(stack) {
	case 0:
		return "", nil
	case 1:
		return stack[0], nil
	}
	return "", fmt.Errorf("%w: %d operands left on stack", ErrRender, len(stack))
}

func renderOperator(op OperatorPtg, args []string) string {
	switch op {
	case MissArg:
		return ""
	case Paren:
		return "(" + args[0] + ")"
	case UnaryPlus, UnaryMinus:
		return op.Symbol() + args[0]
	case Percent:
		return args[0] + "%"
	}
	return args[0] + op.Symbol() + args[1]
}

func renderOperand(ptg Ptg) string {
	switch p := ptg.(type) {
	case *StrPtg:
		return `"` + strings.ReplaceAll(p.Value, `"`, `""`) + `"`
	case *NumPtg:
		return strconv.FormatFloat(p.Value, 'G', -1, 64)
	case *RefPtg:
		return p.Cell.String()
	case *AreaPtg:
		return p.Area.String()
	case *Ref3DPtg:
		return fmt.Sprintf("[%d]!%s", p.ExternSheet, p.Cell)
	case *Area3DPtg:
		return fmt.Sprintf("[%d]!%s", p.ExternSheet, p.Area)
	case *NamePtg:
		return fmt.Sprintf("Name%d", p.Index)
	case *NameXPtg:
		return fmt.Sprintf("[%d]!Name%d", p.SheetRef, p.NameIndex)
	case *ArrayPtg:
		return p.Literal()
	case *RefErrPtg, *AreaErrPtg, *DeletedRef3DPtg, *DeletedArea3DPtg:
		return ErrorText(ErrorRef)
	}
	return ptg.String()
}
