package primitive

import "github.com/pgasc/midc/internal/ir"

// Sentinel primitive types returned by oracles that produce a fixed
// result type regardless of their actuals.
var (
	voidType   ir.Type = &ir.PrimitiveType{Name: "void"}
	boolType   ir.Type = &ir.PrimitiveType{Name: "bool"}
	int64Type  ir.Type = &ir.PrimitiveType{Name: "int(64)"}
	stringType ir.Type = &ir.PrimitiveType{Name: "string"}
)

// actualType reports the static type of call's idx'th actual, so far
// as it can be read off the IR directly (a SymExpr naming a VarSymbol,
// ArgSymbol, or TypeSymbol). Resolving the type of an arbitrary
// sub-expression is the candidate-selection machinery's job, not the
// primitive registry's; oracles only need the common case where an
// actual already names a typed symbol.
func actualType(call *ir.CallExpr, idx int) ir.Type {
	a := call.Actuals.Head()
	for i := 0; a != nil && i < idx; i++ {
		a = a.Next()
	}
	if a == nil {
		return nil
	}
	sym, ok := a.(*ir.SymExpr)
	if !ok {
		return nil
	}
	switch s := sym.Sym.(type) {
	case *ir.VarSymbol:
		if s.Type != nil {
			return s.Type.Type
		}
	case *ir.ArgSymbol:
		if s.Type != nil {
			return s.Type.Type
		}
	case *ir.TypeSymbol:
		return s.Type
	}
	return nil
}

func returnInfoVoid(call *ir.CallExpr) (ir.Type, error)   { return voidType, nil }
func returnInfoBool(call *ir.CallExpr) (ir.Type, error)   { return boolType, nil }
func returnInfoInt64(call *ir.CallExpr) (ir.Type, error)  { return int64Type, nil }
func returnInfoString(call *ir.CallExpr) (ir.Type, error) { return stringType, nil }

// returnInfoFirst yields the first actual's type unchanged, the
// common case for value-preserving primitives (unary/binary ops
// before any numeric widening is applied by the candidate-selection
// pass, move, return, yield).
func returnInfoFirst(call *ir.CallExpr) (ir.Type, error) {
	return actualType(call, 0), nil
}

// returnInfoFirstDeref is returnInfoFirst for primitives that are
// documented to dereference a ref actual (init, typeof); reference
// stripping itself happens upstream once a ref Type representation is
// introduced, so today this is equivalent to returnInfoFirst.
func returnInfoFirstDeref(call *ir.CallExpr) (ir.Type, error) {
	return actualType(call, 0), nil
}

// returnInfoNumericUp approximates the usual-arithmetic-conversions
// result of a binary numeric primitive by the first actual's type;
// the actual widening decision belongs to C5/C7 (coercion and
// promotion wrappers), which re-derive the precise result type during
// candidate disambiguation rather than trusting this oracle alone.
func returnInfoNumericUp(call *ir.CallExpr) (ir.Type, error) {
	return actualType(call, 0), nil
}

// returnInfoGetMemberRef is PRIM_GET_MEMBER's oracle: the type of the
// named field, read off the field-naming second actual.
func returnInfoGetMemberRef(call *ir.CallExpr) (ir.Type, error) {
	return actualType(call, 1), nil
}

// returnInfoGetMember is PRIM_GET_MEMBER_VALUE's oracle, identical to
// returnInfoGetMemberRef until ref-ness is tracked separately.
func returnInfoGetMember(call *ir.CallExpr) (ir.Type, error) {
	return actualType(call, 1), nil
}

// returnInfoCast yields the target type named by the cast's first
// actual.
func returnInfoCast(call *ir.CallExpr) (ir.Type, error) {
	return actualType(call, 0), nil
}

// returnInfoVal/returnInfoRef are get-ref/set-ref's oracles: both
// preserve the referent's type, ref-ness itself being tracked on the
// TypeSymbol's flags rather than as a distinct Type.
func returnInfoVal(call *ir.CallExpr) (ir.Type, error) { return actualType(call, 0), nil }
func returnInfoRef(call *ir.CallExpr) (ir.Type, error) { return actualType(call, 0), nil }

// returnInfoArrayIndex yields an array access's element type; without
// a dedicated array Type this falls back to the array actual's own
// type, matching array_get's behavior prior to C10 lowering introduces
// a distinct element-type slot.
func returnInfoArrayIndex(call *ir.CallExpr) (ir.Type, error) {
	return actualType(call, 0), nil
}

// returnInfoChplAlloc is chpl_alloc's oracle: raw untyped storage,
// cast by the caller immediately after.
func returnInfoChplAlloc(call *ir.CallExpr) (ir.Type, error) {
	return voidType, nil
}
