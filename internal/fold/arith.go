package fold

import (
	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/primitive"
)

// tryFoldPrimitive computes the compile-time result of call, if every
// actual it needs is itself a folded immediate (or, for enum
// comparisons, an enum constant reference). It covers arithmetic,
// comparison, bitwise, string-concatenation, enum-equality, and
// cast-of-immediate primitives (spec §4.8).
func tryFoldPrimitive(call *ir.CallExpr) (ir.Immediate, bool) {
	actuals := call.Actuals.Slice()
	switch primitive.Tag(call.PrimitiveTag) {
	case primitive.UnaryMinus, primitive.UnaryPlus, primitive.UnaryNot, primitive.UnaryLNot:
		if len(actuals) != 1 {
			return ir.Immediate{}, false
		}
		return foldUnary(primitive.Tag(call.PrimitiveTag), actuals[0])
	case primitive.Add, primitive.Subtract, primitive.Mult, primitive.Div, primitive.Mod,
		primitive.LShift, primitive.RShift, primitive.BitAnd, primitive.BitOr, primitive.BitXor, primitive.Pow,
		primitive.Equal, primitive.NotEqual, primitive.Less, primitive.Greater,
		primitive.LessOrEqual, primitive.GreaterOrEqual:
		if len(actuals) != 2 {
			return ir.Immediate{}, false
		}
		if imm, ok := foldEnumCompare(primitive.Tag(call.PrimitiveTag), actuals[0], actuals[1]); ok {
			return imm, true
		}
		return foldBinary(primitive.Tag(call.PrimitiveTag), actuals[0], actuals[1])
	case primitive.StringConcat:
		if len(actuals) != 2 {
			return ir.Immediate{}, false
		}
		a, ok1 := immediateOf(actuals[0])
		b, ok2 := immediateOf(actuals[1])
		if !ok1 || !ok2 || a.Kind != ir.ImmString || b.Kind != ir.ImmString {
			return ir.Immediate{}, false
		}
		return ir.Immediate{Valid: true, Kind: ir.ImmString, Str: a.Str + b.Str}, true
	case primitive.StringLength:
		if len(actuals) != 1 {
			return ir.Immediate{}, false
		}
		a, ok := immediateOf(actuals[0])
		if !ok || a.Kind != ir.ImmString {
			return ir.Immediate{}, false
		}
		return ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: int64(len(a.Str))}, true
	case primitive.Cast:
		return foldCast(actuals)
	default:
		return ir.Immediate{}, false
	}
}

func foldUnary(tag primitive.Tag, operand ir.Expr) (ir.Immediate, bool) {
	a, ok := immediateOf(operand)
	if !ok {
		return ir.Immediate{}, false
	}
	switch tag {
	case primitive.UnaryMinus:
		switch a.Kind {
		case ir.ImmInt:
			return ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: -a.Int}, true
		case ir.ImmFloat:
			return ir.Immediate{Valid: true, Kind: ir.ImmFloat, Float: -a.Float}, true
		}
	case primitive.UnaryPlus:
		return a, true
	case primitive.UnaryNot:
		if a.Kind == ir.ImmInt {
			return ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: ^a.Int}, true
		}
	case primitive.UnaryLNot:
		if a.Kind == ir.ImmBool {
			return ir.Immediate{Valid: true, Kind: ir.ImmBool, Bool: !a.Bool}, true
		}
	}
	return ir.Immediate{}, false
}

// foldEnumCompare folds equality/inequality between two references to
// enum constants, compared by declared ordinal (spec §4.8, "enum
// operations"). Returns ok=false for any non-enum/non-(in)equality
// combination so the caller falls through to the numeric path.
func foldEnumCompare(tag primitive.Tag, lhs, rhs ir.Expr) (ir.Immediate, bool) {
	if tag != primitive.Equal && tag != primitive.NotEqual {
		return ir.Immediate{}, false
	}
	l, lok := enumOf(lhs)
	r, rok := enumOf(rhs)
	if !lok || !rok {
		return ir.Immediate{}, false
	}
	eq := l == r || (l.Owner == r.Owner && l.Ord == r.Ord)
	if tag == primitive.NotEqual {
		eq = !eq
	}
	return ir.Immediate{Valid: true, Kind: ir.ImmBool, Bool: eq}, true
}

func foldBinary(tag primitive.Tag, lhs, rhs ir.Expr) (ir.Immediate, bool) {
	a, ok1 := immediateOf(lhs)
	b, ok2 := immediateOf(rhs)
	if !ok1 || !ok2 {
		return ir.Immediate{}, false
	}
	if a.Kind == ir.ImmFloat || b.Kind == ir.ImmFloat {
		return foldFloatBinary(tag, asFloat(a), asFloat(b))
	}
	if a.Kind == ir.ImmInt && b.Kind == ir.ImmInt {
		return foldIntBinary(tag, a.Int, b.Int)
	}
	return ir.Immediate{}, false
}

func asFloat(imm ir.Immediate) float64 {
	if imm.Kind == ir.ImmInt {
		return float64(imm.Int)
	}
	return imm.Float
}

func foldIntBinary(tag primitive.Tag, a, b int64) (ir.Immediate, bool) {
	mkInt := func(v int64) (ir.Immediate, bool) {
		return ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: v}, true
	}
	mkBool := func(v bool) (ir.Immediate, bool) {
		return ir.Immediate{Valid: true, Kind: ir.ImmBool, Bool: v}, true
	}
	switch tag {
	case primitive.Add:
		return mkInt(a + b)
	case primitive.Subtract:
		return mkInt(a - b)
	case primitive.Mult:
		return mkInt(a * b)
	case primitive.Div:
		if b == 0 {
			return ir.Immediate{}, false
		}
		return mkInt(a / b)
	case primitive.Mod:
		if b == 0 {
			return ir.Immediate{}, false
		}
		return mkInt(a % b)
	case primitive.LShift:
		return mkInt(a << uint(b))
	case primitive.RShift:
		return mkInt(a >> uint(b))
	case primitive.BitAnd:
		return mkInt(a & b)
	case primitive.BitOr:
		return mkInt(a | b)
	case primitive.BitXor:
		return mkInt(a ^ b)
	case primitive.Pow:
		return mkInt(intPow(a, b))
	case primitive.Equal:
		return mkBool(a == b)
	case primitive.NotEqual:
		return mkBool(a != b)
	case primitive.Less:
		return mkBool(a < b)
	case primitive.Greater:
		return mkBool(a > b)
	case primitive.LessOrEqual:
		return mkBool(a <= b)
	case primitive.GreaterOrEqual:
		return mkBool(a >= b)
	default:
		return ir.Immediate{}, false
	}
}

func foldFloatBinary(tag primitive.Tag, a, b float64) (ir.Immediate, bool) {
	mkFloat := func(v float64) (ir.Immediate, bool) {
		return ir.Immediate{Valid: true, Kind: ir.ImmFloat, Float: v}, true
	}
	mkBool := func(v bool) (ir.Immediate, bool) {
		return ir.Immediate{Valid: true, Kind: ir.ImmBool, Bool: v}, true
	}
	switch tag {
	case primitive.Add:
		return mkFloat(a + b)
	case primitive.Subtract:
		return mkFloat(a - b)
	case primitive.Mult:
		return mkFloat(a * b)
	case primitive.Div:
		if b == 0 {
			return ir.Immediate{}, false
		}
		return mkFloat(a / b)
	case primitive.Equal:
		return mkBool(a == b)
	case primitive.NotEqual:
		return mkBool(a != b)
	case primitive.Less:
		return mkBool(a < b)
	case primitive.Greater:
		return mkBool(a > b)
	case primitive.LessOrEqual:
		return mkBool(a <= b)
	case primitive.GreaterOrEqual:
		return mkBool(a >= b)
	default:
		return ir.Immediate{}, false
	}
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	var result int64 = 1
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

// foldCast folds a cast of an already-immediate value: actuals[0] is
// the target type, actuals[1] the value being cast. Only the
// conversions a param-folded program realistically needs are
// implemented here (int<->float, identity); any other primitive target
// is left unresolved for the emitter's own coercion handling. A target
// that is not a bare TypeSymbol reference passes the value through
// unchanged.
func foldCast(actuals []ir.Expr) (ir.Immediate, bool) {
	if len(actuals) != 2 {
		return ir.Immediate{}, false
	}
	val, ok := immediateOf(actuals[1])
	if !ok {
		return ir.Immediate{}, false
	}
	typeSym, ok := targetTypeOf(actuals[0])
	if !ok {
		return val, true // unknown target: pass the immediate through unchanged
	}
	prim, ok := typeSym.Type.(*ir.PrimitiveType)
	if !ok {
		return ir.Immediate{}, false
	}
	switch {
	case isFloatTypeName(prim.Name) && val.Kind == ir.ImmInt:
		return ir.Immediate{Valid: true, Kind: ir.ImmFloat, Float: float64(val.Int)}, true
	case isIntTypeName(prim.Name) && val.Kind == ir.ImmFloat:
		return ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: int64(val.Float)}, true
	case isIntTypeName(prim.Name) && val.Kind == ir.ImmInt,
		isFloatTypeName(prim.Name) && val.Kind == ir.ImmFloat,
		prim.Name == "bool" && val.Kind == ir.ImmBool,
		prim.Name == "string" && val.Kind == ir.ImmString:
		return val, true
	default:
		return ir.Immediate{}, false
	}
}

func targetTypeOf(e ir.Expr) (*ir.TypeSymbol, bool) {
	se, ok := e.(*ir.SymExpr)
	if !ok {
		return nil, false
	}
	ts, ok := se.Sym.(*ir.TypeSymbol)
	return ts, ok
}

func isFloatTypeName(name string) bool {
	return len(name) >= 4 && name[:4] == "real"
}

func isIntTypeName(name string) bool {
	return (len(name) >= 3 && name[:3] == "int") || (len(name) >= 4 && name[:4] == "uint")
}
