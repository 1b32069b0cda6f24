package resolve

import "github.com/pgasc/midc/internal/ir"

// Generic-family markers a formal's type can name instead of a
// concrete type, widening what canInstantiate accepts (spec glossary,
// "generic family"). Matched by name since PrimitiveType values are
// plain structs rather than interned singletons.
const (
	FamilyAny            = "any"
	FamilyIntegral       = "integral"
	FamilyAnyEnumerated  = "anyEnumerated"
	FamilyNumeric        = "numeric"
	FamilyIteratorRecord = "iteratorRecord"
	FamilyIteratorClass  = "iteratorClass"
)

func familyName(t ir.Type) (string, bool) {
	pt, ok := t.(*ir.PrimitiveType)
	if !ok {
		return "", false
	}
	switch pt.Name {
	case FamilyAny, FamilyIntegral, FamilyAnyEnumerated, FamilyNumeric, FamilyIteratorRecord, FamilyIteratorClass:
		return pt.Name, true
	default:
		return "", false
	}
}

// CanInstantiate reports whether dispatching actualType to formalType
// is an instantiation rather than a dispatch: formalType names a
// generic family actualType belongs to, or the two are the same type
// (same pointer, or primitive types with the same name). Following
// the instantiated-from chain is CanInstantiateSymbol's job.
func CanInstantiate(actualType, formalType ir.Type) bool {
	if fam, ok := familyName(formalType); ok {
		switch fam {
		case FamilyAny:
			return true
		case FamilyIntegral:
			return isIntType(actualType) || isUintType(actualType)
		case FamilyAnyEnumerated:
			_, isEnum := actualType.(*ir.EnumType)
			return isEnum
		case FamilyNumeric:
			return isIntType(actualType) || isUintType(actualType) || isImagType(actualType) || isRealType(actualType) || isComplexType(actualType)
		}
		return false
	}
	if actualType == formalType {
		return true
	}
	if a, ok := actualType.(*ir.PrimitiveType); ok {
		if f, ok := formalType.(*ir.PrimitiveType); ok {
			return a.Name == f.Name
		}
	}
	return false
}

// CanInstantiateSymbol is CanInstantiate lifted to TypeSymbols, also
// following the instantiated-from chain so a twice-instantiated
// generic can still dispatch back to its original generic formal.
func CanInstantiateSymbol(actual, formal *ir.TypeSymbol) bool {
	if actual == nil || formal == nil {
		return false
	}
	if CanInstantiate(actual.Type, formal.Type) {
		return true
	}
	if actual.InstantiatedFrom != nil {
		return CanInstantiateSymbol(actual.InstantiatedFrom, formal)
	}
	return false
}

// Substitution is one generic-formal binding produced by matching a
// call's actuals against a generic function's formals (spec §4.5).
type Substitution struct {
	Formal *ir.ArgSymbol
	Value  ir.Symbol
}

// fingerprint is the structural key an instantiation cache keys on:
// the generic FnSymbol plus, in formal order, the symbol each formal
// was substituted with. Two calls that bind identical substitutions
// share one instantiation (spec glossary, "instantiation memoization").
type fingerprint struct {
	fn  *ir.FnSymbol
	key string
}

func makeFingerprint(fn *ir.FnSymbol, subs []Substitution) fingerprint {
	key := ""
	for _, s := range subs {
		key += s.Formal.Name() + "=" + symbolIdentity(s.Value) + ";"
	}
	return fingerprint{fn: fn, key: key}
}

func symbolIdentity(s ir.Symbol) string {
	if s == nil {
		return "<nil>"
	}
	switch v := s.(type) {
	case *ir.TypeSymbol:
		return "type:" + v.Name()
	case *ir.VarSymbol:
		if v.Immediate.Valid {
			return "imm:" + v.Name()
		}
	}
	return "sym:" + s.Name()
}

// InstantiationCache memoizes generic-function instantiations by
// fingerprint, so resolving the same generic call shape twice (e.g.
// from two call sites with the same actual types) reuses one
// FnSymbol instead of stamping out a duplicate.
type InstantiationCache struct {
	byPrint map[fingerprint]*ir.FnSymbol
}

// NewInstantiationCache returns an empty cache.
func NewInstantiationCache() *InstantiationCache {
	return &InstantiationCache{byPrint: make(map[fingerprint]*ir.FnSymbol)}
}

// Lookup returns a previously memoized instantiation of fn for subs,
// if one exists.
func (c *InstantiationCache) Lookup(fn *ir.FnSymbol, subs []Substitution) (*ir.FnSymbol, bool) {
	inst, ok := c.byPrint[makeFingerprint(fn, subs)]
	return inst, ok
}

// Store memoizes inst as the instantiation of fn for subs.
func (c *InstantiationCache) Store(fn *ir.FnSymbol, subs []Substitution, inst *ir.FnSymbol) {
	c.byPrint[makeFingerprint(fn, subs)] = inst
}

// Instantiate builds a fresh copy of a generic FnSymbol with subs
// applied: each substituted ArgSymbol's Type is replaced by (or its
// VarSymbol rebound to) the bound value, the copy is marked as an
// instantiation of fn, and atPoint records where the instantiation
// was first requested from (spec glossary, "instantiation point"),
// consulted by VisibilityBlock for functions defined inside the
// generic's own body.
func Instantiate(cache *InstantiationCache, fn *ir.FnSymbol, subs []Substitution, atPoint *ir.BlockStmt) *ir.FnSymbol {
	if inst, ok := cache.Lookup(fn, subs); ok {
		return inst
	}
	m := ir.NewSymMap()
	for _, s := range subs {
		if ts, ok := s.Value.(*ir.TypeSymbol); ok {
			m.Put(s.Formal, ts)
		}
	}
	inst := fn.Copy(m).(*ir.FnSymbol)
	inst.InstantiationOf = fn
	inst.InstantiationPoint = atPoint
	inst.RemoveFlag(ir.FnFlagGeneric)
	inst.Substitution = make(map[*ir.ArgSymbol]ir.Symbol, len(subs))
	for _, s := range subs {
		inst.Substitution[s.Formal] = s.Value
	}
	cache.Store(fn, subs, inst)
	return inst
}
