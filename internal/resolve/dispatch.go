package resolve

import "github.com/pgasc/midc/internal/ir"

// CanParamCoerce reports whether dispatching actualType to formalType
// is a coercion the compiler is willing to perform at compile time
// (spec §4.4 step 2, "the dispatch test"): narrower integers widen,
// bool widens to either integer family, an enum constant coerces to
// int, and an in-range integer immediate narrows to fit a smaller
// formal width.
func CanParamCoerce(actualType ir.Type, actualSym ir.Symbol, formalType ir.Type) bool {
	if isBoolType(formalType) && isBoolType(actualType) {
		return true
	}
	if isIntType(formalType) {
		if isBoolType(actualType) {
			return true
		}
		if isIntType(actualType) && width(actualType) < width(formalType) {
			return true
		}
		if isUintType(actualType) && width(actualType) < width(formalType) {
			return true
		}
		if width(formalType) < 64 {
			if imm, ok := immediateOf(actualSym); ok && fitsInInt(width(formalType), imm) {
				return true
			}
		}
		if _, ok := actualType.(*ir.EnumType); ok {
			return true
		}
	}
	if isUintType(formalType) {
		if isBoolType(actualType) {
			return true
		}
		if isUintType(actualType) && width(actualType) < width(formalType) {
			return true
		}
		if imm, ok := immediateOf(actualSym); ok && fitsInUint(width(formalType), imm) {
			return true
		}
	}
	return false
}

// CanCoerce reports whether actualType can be coerced (as opposed to
// exactly matched or param-coerced) to formalType: integer/bool
// widening already covered by CanParamCoerce, plus integer-to-real,
// real-widening, and numeric-to-complex. Sync and ref unwrapping are
// not handled here; see CanCoerceThroughWrapper.
func CanCoerce(actualType ir.Type, actualSym ir.Symbol, formalType ir.Type, fn *ir.FnSymbol) (bool, bool) {
	var promotes bool
	if CanParamCoerce(actualType, actualSym, formalType) {
		return true, false
	}
	if isRealType(formalType) {
		if (isIntType(actualType) || isUintType(actualType)) && width(formalType) >= 64 {
			return true, false
		}
		if isRealType(actualType) && width(actualType) < width(formalType) {
			return true, false
		}
	}
	if isComplexType(formalType) {
		if (isIntType(actualType) || isUintType(actualType)) && width(formalType) >= 128 {
			return true, false
		}
		if isRealType(actualType) && width(actualType) <= width(formalType)/2 {
			return true, false
		}
		if isImagType(actualType) && width(actualType) <= width(formalType)/2 {
			return true, false
		}
		if isComplexType(actualType) && width(actualType) < width(formalType) {
			return true, false
		}
	}
	return false, promotes
}

// CanCoerceThroughWrapper is CanCoerce's sync/ref unwrapping case: a
// sync variable coerces through its base type, and a ref coerces
// through its value type. Callers that have the actual's owning
// TypeSymbol (and so can see FlagSync/FlagRef) use this in addition
// to CanCoerce; it is kept separate because the plain Type value
// alone cannot answer whether it is wrapped in a ref or sync (that
// bit lives on the TypeSymbol, not the Type).
func CanCoerceThroughWrapper(actualTypeSym *ir.TypeSymbol, formalType ir.Type, fn *ir.FnSymbol) (bool, bool) {
	if actualTypeSym == nil {
		return false, false
	}
	if !actualTypeSym.HasFlag(ir.FlagSync) && !actualTypeSym.HasFlag(ir.FlagRef) {
		return false, false
	}
	return CanDispatch(actualTypeSym.Type, nil, formalType, fn, false)
}

// CanDispatch is the dispatch test: does actualType reach formalType
// by identity (two primitive types with the same name count as
// identical), nil-to-class, coercion (param coercion only, when
// paramCoerce is set), dispatch-parent subtyping, or (when fn is
// non-nil and not "=") scalar promotion. promotes reports whether the
// match relied on promotion, so the caller (C7) knows to synthesize a
// promotion wrapper rather than call fn directly. Ref-to-value and
// sync relaxation are not tested here: a plain Type does not carry
// those flags, and only CanCoerceThroughWrapper, which takes the
// actual's TypeSymbol, checks them.
func CanDispatch(actualType ir.Type, actualSym ir.Symbol, formalType ir.Type, fn *ir.FnSymbol, paramCoerce bool) (bool, bool) {
	if actualType == formalType {
		return true, false
	}
	if a, ok := actualType.(*ir.PrimitiveType); ok {
		if f, ok := formalType.(*ir.PrimitiveType); ok && a.Name == f.Name {
			return true, false
		}
	}
	if actualType == nil {
		if isClassLike(formalType) {
			return true, false
		}
	}
	if !paramCoerce {
		if ok, promotes := CanCoerce(actualType, actualSym, formalType, fn); ok {
			return true, promotes
		}
	} else if CanParamCoerce(actualType, actualSym, formalType) {
		return true, false
	}
	if cl, ok := actualType.(*ir.ClassLikeType); ok {
		for _, parentSym := range cl.DispatchParents {
			if parentSym.Type == formalType {
				return true, false
			}
			if ok, promotes := CanDispatch(parentSym.Type, nil, formalType, fn, paramCoerce); ok {
				return true, promotes
			}
		}
	}
	if fn != nil && fn.Name() != "=" {
		if cl, ok := actualType.(*ir.ClassLikeType); ok && cl.ScalarPromotionType != nil {
			if ok, _ := CanDispatch(cl.ScalarPromotionType.Type, nil, formalType, fn, paramCoerce); ok {
				return true, true
			}
		}
		if pt, ok := actualType.(*ir.PrimitiveType); ok && pt.Promotion != nil {
			if ok, _ := CanDispatch(pt.Promotion.Type, nil, formalType, fn, paramCoerce); ok {
				return true, true
			}
		}
	}
	return false, false
}

// IsDispatchParent reports whether pt is a transitive dispatch parent
// of t. Disambiguate does not call it; its most-specific-type
// criterion goes through MoreSpecific.
func IsDispatchParent(t, pt *ir.TypeSymbol) bool {
	cl, ok := t.Type.(*ir.ClassLikeType)
	if !ok {
		return false
	}
	for _, p := range cl.DispatchParents {
		if p == pt || IsDispatchParent(p, pt) {
			return true
		}
	}
	return false
}

// MoreSpecific reports whether actualType dispatches to (or could
// instantiate) formalType, used when ranking two viable formals for
// the same actual during disambiguation.
func MoreSpecific(fn *ir.FnSymbol, actualType, formalType ir.Type) bool {
	if ok, _ := CanDispatch(actualType, nil, formalType, fn, false); ok {
		return true
	}
	return CanInstantiate(actualType, formalType)
}
