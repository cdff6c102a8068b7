package formula

import (
	"fmt"

	"github.com/skdltmxn/ole-go/internal/stream"
)

type function struct {
	name string
	// args is the fixed argument count, or -1 for variable arity.
	args int
}

// Built-in worksheet functions by index.
var functions = map[uint16]function{
	0:   {"COUNT", -1},
	1:   {"IF", -1},
	2:   {"ISNA", 1},
	3:   {"ISERROR", 1},
	4:   {"SUM", -1},
	5:   {"AVERAGE", -1},
	6:   {"MIN", -1},
	7:   {"MAX", -1},
	8:   {"ROW", -1},
	9:   {"COLUMN", -1},
	10:  {"NA", 0},
	11:  {"NPV", -1},
	12:  {"STDEV", -1},
	13:  {"DOLLAR", -1},
	14:  {"FIXED", -1},
	15:  {"SIN", 1},
	16:  {"COS", 1},
	17:  {"TAN", 1},
	18:  {"ATAN", 1},
	19:  {"PI", 0},
	20:  {"SQRT", 1},
	21:  {"EXP", 1},
	22:  {"LN", 1},
	23:  {"LOG10", 1},
	24:  {"ABS", 1},
	25:  {"INT", 1},
	26:  {"SIGN", 1},
	27:  {"ROUND", 2},
	28:  {"LOOKUP", -1},
	29:  {"INDEX", -1},
	30:  {"REPT", 2},
	31:  {"MID", 3},
	32:  {"LEN", 1},
	33:  {"VALUE", 1},
	34:  {"TRUE", 0},
	35:  {"FALSE", 0},
	36:  {"AND", -1},
	37:  {"OR", -1},
	38:  {"NOT", 1},
	39:  {"MOD", 2},
	40:  {"DCOUNT", 3},
	41:  {"DSUM", 3},
	42:  {"DAVERAGE", 3},
	43:  {"DMIN", 3},
	44:  {"DMAX", 3},
	45:  {"DSTDEV", 3},
	46:  {"VAR", -1},
	47:  {"DVAR", 3},
	48:  {"TEXT", 2},
	49:  {"LINEST", -1},
	50:  {"TREND", -1},
	51:  {"LOGEST", -1},
	52:  {"GROWTH", -1},
	53:  {"GOTO", -1},
	54:  {"HALT", -1},
	56:  {"PV", -1},
	57:  {"FV", -1},
	58:  {"NPER", -1},
	59:  {"PMT", -1},
	60:  {"RATE", -1},
	61:  {"MIRR", 3},
	62:  {"IRR", -1},
	63:  {"RAND", 0},
	64:  {"MATCH", -1},
	65:  {"DATE", 3},
	66:  {"TIME", 3},
	67:  {"DAY", 1},
	68:  {"MONTH", 1},
	69:  {"YEAR", 1},
	70:  {"WEEKDAY", -1},
	71:  {"HOUR", 1},
	72:  {"MINUTE", 1},
	73:  {"SECOND", 1},
	74:  {"NOW", 0},
	75:  {"AREAS", 1},
	76:  {"ROWS", 1},
	77:  {"COLUMNS", 1},
	78:  {"OFFSET", -1},
	79:  {"ABSREF", -1},
	80:  {"RELREF", -1},
	81:  {"ARGUMENT", -1},
	82:  {"SEARCH", -1},
	83:  {"TRANSPOSE", 1},
	84:  {"ERROR", -1},
	85:  {"STEP", -1},
	86:  {"TYPE", 1},
	87:  {"ECHO", -1},
	88:  {"SETNAME", -1},
	89:  {"CALLER", 0},
	90:  {"DEREF", -1},
	91:  {"WINDOWS", -1},
	92:  {"SERIES", -1},
	93:  {"DOCUMENTS", -1},
	94:  {"ACTIVECELL", -1},
	95:  {"SELECTION", -1},
	96:  {"RESULT", -1},
	97:  {"ATAN2", 2},
	98:  {"ASIN", 1},
	99:  {"ACOS", 1},
	100: {"CHOOSE", -1},
	101: {"HLOOKUP", -1},
	102: {"VLOOKUP", -1},
	103: {"LINKS", -1},
	104: {"INPUT", -1},
	105: {"ISREF", 1},
	106: {"GETFORMULA", -1},
	107: {"GETNAME", -1},
	108: {"SETVALUE", -1},
	109: {"LOG", -1},
	110: {"EXEC", -1},
	111: {"CHAR", 1},
	112: {"LOWER", 1},
	113: {"UPPER", 1},
	114: {"PROPER", 1},
	115: {"LEFT", -1},
	116: {"RIGHT", -1},
	117: {"EXACT", 2},
	118: {"TRIM", 1},
	119: {"REPLACE", 4},
	120: {"SUBSTITUTE", -1},
	121: {"CODE", 1},
	122: {"NAMES", -1},
	123: {"DIRECTORY", -1},
	124: {"FIND", -1},
	125: {"CELL", -1},
	126: {"ISERR", 1},
	127: {"ISTEXT", 1},
	128: {"ISNUMBER", 1},
	129: {"ISBLANK", 1},
	130: {"T", 1},
	131: {"N", 1},
	132: {"FOPEN", -1},
	133: {"FCLOSE", -1},
	134: {"FSIZE", -1},
	135: {"FREADLN", -1},
	136: {"FREAD", -1},
	137: {"FWRITELN", -1},
	138: {"FWRITE", -1},
	139: {"FPOS", -1},
	140: {"DATEVALUE", 1},
	141: {"TIMEVALUE", 1},
	142: {"SLN", 3},
	143: {"SYD", 4},
	144: {"DDB", -1},
	145: {"GETDEF", -1},
	146: {"REFTEXT", -1},
	147: {"TEXTREF", -1},
	148: {"INDIRECT", -1},
	149: {"REGISTER", -1},
	150: {"CALL", -1},
	151: {"ADDBAR", -1},
	152: {"ADDMENU", -1},
	153: {"ADDCOMMAND", -1},
	154: {"ENABLECOMMAND", -1},
	155: {"CHECKCOMMAND", -1},
	156: {"RENAMECOMMAND", -1},
	157: {"SHOWBAR", -1},
	158: {"DELETEMENU", -1},
	159: {"DELETECOMMAND", -1},
	160: {"GETCHARTITEM", -1},
	161: {"DIALOGBOX", -1},
	162: {"CLEAN", 1},
	163: {"MDETERM", 1},
	164: {"MINVERSE", 1},
	165: {"MMULT", 2},
	166: {"FILES", -1},
	167: {"IPMT", -1},
	168: {"PPMT", -1},
	169: {"COUNTA", -1},
	170: {"CANCELKEY", -1},
	175: {"INITIATE", -1},
	176: {"REQUEST", -1},
	177: {"POKE", -1},
	178: {"EXECUTE", -1},
	179: {"TERMINATE", -1},
	180: {"RESTART", -1},
	181: {"HELP", -1},
	182: {"GETBAR", -1},
	183: {"PRODUCT", -1},
	184: {"FACT", 1},
	185: {"GETCELL", -1},
	186: {"GETWORKSPACE", -1},
	187: {"GETWINDOW", -1},
	188: {"GETDOCUMENT", -1},
	189: {"DPRODUCT", 3},
	190: {"ISNONTEXT", 1},
	191: {"GETNOTE", -1},
	192: {"NOTE", -1},
	193: {"STDEVP", -1},
	194: {"VARP", -1},
	195: {"DSTDEVP", 3},
	196: {"DVARP", 3},
	197: {"TRUNC", -1},
	198: {"ISLOGICAL", 1},
	199: {"DCOUNTA", 3},
	200: {"DELETEBAR", -1},
	201: {"UNREGISTER", -1},
	204: {"USDOLLAR", -1},
	205: {"FINDB", -1},
	206: {"SEARCHB", -1},
	207: {"REPLACEB", 4},
	208: {"LEFTB", -1},
	209: {"RIGHTB", -1},
	210: {"MIDB", 3},
	211: {"LENB", 1},
	212: {"ROUNDUP", 2},
	213: {"ROUNDDOWN", 2},
	214: {"ASC", 1},
	215: {"DBCS", 1},
	216: {"RANK", -1},
	219: {"ADDRESS", -1},
	220: {"DAYS360", 2},
	221: {"TODAY", 0},
	222: {"VDB", -1},
	227: {"MEDIAN", -1},
	228: {"SUMPRODUCT", -1},
	229: {"SINH", 1},
	230: {"COSH", 1},
	231: {"TANH", 1},
	232: {"ASINH", 1},
	233: {"ACOSH", 1},
	234: {"ATANH", 1},
	235: {"DGET", 3},
	236: {"CREATEOBJECT", -1},
	237: {"VOLATILE", -1},
	238: {"LASTERROR", -1},
	239: {"CUSTOMUNDO", -1},
	240: {"CUSTOMREPEAT", -1},
	241: {"FORMULACONVERT", -1},
	242: {"GETLINKINFO", -1},
	243: {"TEXTBOX", -1},
	244: {"INFO", 1},
	245: {"GROUP", -1},
	246: {"GETOBJECT", -1},
	247: {"DB", -1},
	248: {"PAUSE", -1},
	250: {"RESUME", -1},
	252: {"FREQUENCY", 2},
	253: {"ADDTOOLBAR", -1},
	254: {"DELETETOOLBAR", -1},
	256: {"RESETTOOLBAR", -1},
	257: {"EVALUATE", -1},
	258: {"GETTOOLBAR", -1},
	259: {"GETTOOL", -1},
	260: {"SPELLINGCHECK", -1},
	261: {"ERRORTYPE", -1},
	262: {"APPTITLE", -1},
	263: {"WINDOWTITLE", -1},
	264: {"SAVETOOLBAR", -1},
	265: {"ENABLETOOL", -1},
	266: {"PRESSTOOL", -1},
	267: {"REGISTERID", -1},
	268: {"GETWORKBOOK", -1},
	269: {"AVEDEV", -1},
	270: {"BETADIST", -1},
	271: {"GAMMALN", 1},
	272: {"BETAINV", -1},
	273: {"BINOMDIST", 4},
	274: {"CHIDIST", 2},
	275: {"CHIINV", 2},
	276: {"COMBIN", 2},
	277: {"CONFIDENCE", 3},
	278: {"CRITBINOM", 3},
	279: {"EVEN", 1},
	280: {"EXPONDIST", 3},
	281: {"FDIST", 3},
	282: {"FINV", 3},
	283: {"FISHER", 1},
	284: {"FISHERINV", 1},
	285: {"FLOOR", 2},
	286: {"GAMMADIST", 4},
	287: {"GAMMAINV", 3},
	288: {"CEILING", 2},
	289: {"HYPGEOMDIST", 4},
	290: {"LOGNORMDIST", 3},
	291: {"LOGINV", 3},
	292: {"NEGBINOMDIST", 3},
	293: {"NORMDIST", 4},
	294: {"NORMSDIST", 1},
	295: {"NORMINV", 3},
	296: {"NORMSINV", 1},
	297: {"STANDARDIZE", 3},
	298: {"ODD", 1},
	299: {"PERMUT", 2},
	300: {"POISSON", 3},
	301: {"TDIST", 3},
	302: {"WEIBULL", 4},
	303: {"SUMXMY2", 2},
	304: {"SUMX2MY2", 2},
	305: {"SUMX2PY2", 2},
	306: {"CHITEST", 2},
	307: {"CORREL", 2},
	308: {"COVAR", 2},
	309: {"FORECAST", 3},
	310: {"FTEST", 2},
	311: {"INTERCEPT", 2},
	312: {"PEARSON", 2},
	313: {"RSQ", 2},
	314: {"STEYX", 2},
	315: {"SLOPE", 2},
	316: {"TTEST", 4},
	317: {"PROB", -1},
	318: {"DEVSQ", -1},
	319: {"GEOMEAN", -1},
	320: {"HARMEAN", -1},
	321: {"SUMSQ", -1},
	322: {"KURT", -1},
	323: {"SKEW", -1},
	324: {"ZTEST", -1},
	325: {"LARGE", 2},
	326: {"SMALL", 2},
	327: {"QUARTILE", 2},
	328: {"PERCENTILE", 2},
	329: {"PERCENTRANK", -1},
	330: {"MODE", -1},
	331: {"TRIMMEAN", 2},
	332: {"TINV", 2},
	334: {"MOVIECOMMAND", -1},
	335: {"GETMOVIE", -1},
	336: {"CONCATENATE", -1},
	337: {"POWER", 2},
	338: {"PIVOTADDDATA", -1},
	339: {"GETPIVOTTABLE", -1},
	340: {"GETPIVOTFIELD", -1},
	341: {"GETPIVOTITEM", -1},
	342: {"RADIANS", 1},
	343: {"DEGREES", 1},
	344: {"SUBTOTAL", -1},
	345: {"SUMIF", -1},
	346: {"COUNTIF", 2},
	347: {"COUNTBLANK", 1},
	348: {"SCENARIOGET", -1},
	349: {"OPTIONSLISTSGET", -1},
	350: {"ISPMT", 4},
	351: {"DATEDIF", 3},
	352: {"DATESTRING", 1},
	353: {"NUMBERSTRING", 2},
	354: {"ROMAN", -1},
	355: {"OPENDIALOG", -1},
	356: {"SAVEDIALOG", -1},
	357: {"VIEWGET", -1},
	358: {"GETPIVOTDATA", -1},
	359: {"HYPERLINK", -1},
	360: {"PHONETIC", 1},
	361: {"AVERAGEA", -1},
	362: {"MAXA", -1},
	363: {"MINA", -1},
	364: {"STDEVPA", -1},
	365: {"VARPA", -1},
	366: {"STDEVA", -1},
	367: {"VARA", -1},
}

// FunctionName returns the name of a built-in function, or "" if the index
// is unknown.
func FunctionName(index uint16) string {
	return functions[index].name
}

// FunctionIndex looks a built-in function up by name.
func FunctionIndex(name string) (uint16, bool) {
	for idx, f := range functions {
		if f.name == name {
			return idx, true
		}
	}
	return 0, false
}

// fixedArgs returns the argument count of a fixed-arity function, or -1.
func fixedArgs(index uint16) int {
	f, ok := functions[index]
	if !ok {
		return -1
	}
	return f.args
}

func functionLabel(index uint16) string {
	if name := FunctionName(index); name != "" {
		return name
	}
	return fmt.Sprintf("FUNC%d", index)
}

// FuncPtg calls a built-in function with a fixed number of arguments.
type FuncPtg struct {
	operand
	Index uint16
}

// NewFuncPtg creates a fixed-argument function call.
func NewFuncPtg(index uint16, class Class) *FuncPtg {
	return &FuncPtg{operand: operand{class: class}, Index: index}
}

func readFunc(id byte, r *stream.Reader) (Ptg, error) {
	idx, err := r.ReadU16()
	if err != nil {
		return nil, truncated("function index")
	}
	return &FuncPtg{operand: operandFromID(id), Index: idx}, nil
}

func (p *FuncPtg) ID() byte  { return p.id(IDFunc) }
func (p *FuncPtg) Size() int { return 3 }

// Name returns the function name.
func (p *FuncPtg) Name() string { return functionLabel(p.Index) }

// NumArgs returns the function's fixed argument count, or -1 if the index
// is not a known fixed-arity function.
func (p *FuncPtg) NumArgs() int { return fixedArgs(p.Index) }

func (p *FuncPtg) String() string {
	return fmt.Sprintf("Func(%s)%s", p.Name(), p.class)
}

func (p *FuncPtg) write(w *stream.Writer) {
	w.WriteU8(p.ID())
	w.WriteU16(p.Index)
}

const (
	funcVarPromptFlag  = 0x80
	funcVarCommandFlag = 0x8000
)

// FuncVarPtg calls a function with a variable number of arguments.
type FuncVarPtg struct {
	operand
	Args    uint8
	Prompt  bool
	Index   uint16
	Command bool
}

// NewFuncVarPtg creates a variable-argument function call.
func NewFuncVarPtg(index uint16, args uint8, class Class) *FuncVarPtg {
	return &FuncVarPtg{operand: operand{class: class}, Index: index, Args: args}
}

func readFuncVar(id byte, r *stream.Reader) (Ptg, error) {
	n, err := r.ReadU8()
	if err != nil {
		return nil, truncated("argument count")
	}
	idx, err := r.ReadU16()
	if err != nil {
		return nil, truncated("function index")
	}
	return &FuncVarPtg{
		operand: operandFromID(id),
		Args:    n &^ funcVarPromptFlag,
		Prompt:  n&funcVarPromptFlag != 0,
		Index:   idx &^ funcVarCommandFlag,
		Command: idx&funcVarCommandFlag != 0,
	}, nil
}

func (p *FuncVarPtg) ID() byte  { return p.id(IDFuncVar) }
func (p *FuncVarPtg) Size() int { return 4 }

// Name returns the function name.
func (p *FuncVarPtg) Name() string { return functionLabel(p.Index) }

// NumArgs returns the number of arguments on the stack.
func (p *FuncVarPtg) NumArgs() int { return int(p.Args) }

func (p *FuncVarPtg) String() string {
	return fmt.Sprintf("FuncVar(%s, nArgs=%d)%s", p.Name(), p.Args, p.class)
}

func (p *FuncVarPtg) write(w *stream.Writer) {
	n := p.Args
	if p.Prompt {
		n |= funcVarPromptFlag
	}
	idx := p.Index
	if p.Command {
		idx |= funcVarCommandFlag
	}
	w.WriteU8(p.ID())
	w.WriteU8(n)
	w.WriteU16(idx)
}
