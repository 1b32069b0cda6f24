package resolve

import "github.com/pgasc/midc/internal/ir"

// CallActual is one actual argument as seen by candidate matching: its
// expression, the static type it presents, the symbol it names (when
// it is a bare SymExpr, needed for param-coercion immediate checks),
// and an optional keyword name for named-actual passing.
type CallActual struct {
	Expr ir.Expr
	Type ir.Type
	Sym  ir.Symbol
	Name string // "" unless passed as `name = actual`
}

// AlignedCall is a successfully arity-matched candidate: formalActuals
// maps each of fn's formals (by position) to the actual bound to it
// (nil for an unbound formal whose default expression will supply the
// value), and actualFormals is the inverse, one entry per actual.
type AlignedCall struct {
	Fn            *ir.FnSymbol
	FormalActuals []*CallActual
	ActualFormals []*ir.ArgSymbol
}

// ComputeActualFormalMap aligns actuals against fn's formals (spec
// §4.4 step 1, "arity mapping"): named actuals bind to the
// like-named formal first; remaining positional actuals fill formals
// left-to-right, skipping already-bound ones. Returns ok=false if a
// named actual names no formal, a positional actual has no formal
// left to bind to, or a formal is left unbound with no default.
func ComputeActualFormalMap(fn *ir.FnSymbol, actuals []CallActual) (AlignedCall, bool) {
	n := fn.NumFormals()
	formalActuals := make([]*CallActual, n)
	actualFormals := make([]*ir.ArgSymbol, len(actuals))

	for i := range actuals {
		if actuals[i].Name == "" {
			continue
		}
		matched := false
		for j, formal := range fn.Formals {
			if formal.Name() == actuals[i].Name {
				actualFormals[i] = formal
				formalActuals[j] = &actuals[i]
				matched = true
				break
			}
		}
		if !matched {
			return AlignedCall{}, false
		}
	}

	j := 0
	for i := range actuals {
		if actuals[i].Name != "" {
			continue
		}
		matched := false
		for j < n {
			if formalActuals[j] == nil {
				actualFormals[i] = fn.Formals[j]
				formalActuals[j] = &actuals[i]
				matched = true
				j++
				break
			}
			j++
		}
		if !matched {
			return AlignedCall{}, false
		}
	}

	for k := 0; k < n; k++ {
		if formalActuals[k] == nil && fn.Formals[k].DefaultExpr == nil {
			return AlignedCall{}, false
		}
	}

	return AlignedCall{Fn: fn, FormalActuals: formalActuals, ActualFormals: actualFormals}, true
}

// Candidate is a viable callee together with the dispatch decisions
// (per-formal promotion use) made while checking it, so disambiguation
// does not need to recompute CanDispatch for the winner.
type Candidate struct {
	Aligned  AlignedCall
	Promotes []bool // parallel to Aligned.FormalActuals; true where that formal's match used promotion
}

// AddCandidate is the per-function half of candidate selection: align
// fn's formals against info's actuals, then run the dispatch test on
// every bound pair. A formal bound by a param-marked actual (an
// IntentParam formal whose actual is a compile-time constant) is
// checked with the stricter param-coercion rule instead of the full
// coercion rule, matching the original compiler's instantiatedParam
// handling.
func AddCandidate(fn *ir.FnSymbol, actuals []CallActual) (Candidate, bool) {
	aligned, ok := ComputeActualFormalMap(fn, actuals)
	if !ok {
		return Candidate{}, false
	}

	promotes := make([]bool, len(aligned.FormalActuals))
	for i, formal := range fn.Formals {
		actual := aligned.FormalActuals[i]
		if actual == nil {
			continue // default expression supplies the value; nothing to dispatch-check
		}
		if formal.Type == nil || actual.Type == nil {
			continue // generic formal: resolved by instantiation, not dispatch
		}
		paramCoerce := formal.Intent == ir.IntentParam
		ok, promoted := CanDispatch(actual.Type, actual.Sym, formal.Type.Type, fn, paramCoerce)
		if !ok {
			return Candidate{}, false
		}
		promotes[i] = promoted
	}

	return Candidate{Aligned: aligned, Promotes: promotes}, true
}

// CollectCandidates runs AddCandidate over every visible function,
// returning only those that pass arity alignment and the dispatch
// test against every bound formal (spec §4.4: "every visible function
// is a candidate iff ... ").
func CollectCandidates(visible []*ir.FnSymbol, actuals []CallActual) []Candidate {
	var out []Candidate
	for _, fn := range visible {
		if c, ok := AddCandidate(fn, actuals); ok {
			out = append(out, c)
		}
	}
	return out
}
