package pipeline

import (
	"fmt"

	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/resolve"
	"github.com/pgasc/midc/internal/visibility"
)

// exprType returns the static type actual presents to candidate
// matching, following the same SymExpr/immediate cases C9's folding
// and C11's wide lowering already key on, so a bare unresolved call's
// actual's type is derived the same way everywhere in the pipeline.
func exprType(e ir.Expr) (ir.Type, ir.Symbol) {
	switch n := e.(type) {
	case *ir.SymExpr:
		switch sym := n.Sym.(type) {
		case *ir.VarSymbol:
			if sym.Type != nil {
				return sym.Type.Type, sym
			}
			return nil, sym
		case *ir.ArgSymbol:
			if sym.Type != nil {
				return sym.Type.Type, sym
			}
			return nil, sym
		default:
			return nil, sym
		}
	case *ir.CallExpr:
		if sym, ok := n.Base.(*ir.SymExpr); ok {
			if fn, ok := sym.Sym.(*ir.FnSymbol); ok && fn.RetType != nil {
				return fn.RetType.Type, nil
			}
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// buildActuals turns a CallExpr's actual list into the CallActual
// slice resolve.CollectCandidates matches against.
func BuildActuals(call *ir.CallExpr) []resolve.CallActual {
	var out []resolve.CallActual
	for a := call.Actuals.Head(); a != nil; a = a.Next() {
		t, sym := exprType(a)
		name := ""
		if named, ok := a.(*ir.NamedExpr); ok {
			name = named.ParamName
			t, sym = exprType(named.Actual)
		}
		out = append(out, resolve.CallActual{Expr: a, Type: t, Sym: sym, Name: name})
	}
	return out
}

// setBase replaces call's Base with resolved, fixing up resolved's
// parent pointers by hand since CallExpr.Base is reassigned from
// outside the package that owns adopt(): a bare SymExpr has no
// children of its own, so setting its own two parent fields is
// exactly what adopt would do for it.
func setBase(call *ir.CallExpr, resolved ir.Expr) {
	resolved.SetParentExpr(call)
	resolved.SetParentSymbol(call.ParentSymbol())
	call.Base = resolved
}

// instantiateIfGeneric instantiates fn against aligned's bound
// actuals whenever one of its formals carries a generic marker;
// returns fn unchanged when nothing needs substitution.
func instantiateIfGeneric(cache *resolve.InstantiationCache, fn *ir.FnSymbol, aligned resolve.AlignedCall, atPoint *ir.BlockStmt) *ir.FnSymbol {
	if !fn.HasFlag(ir.FnFlagGeneric) {
		return fn
	}
	var subs []resolve.Substitution
	for i, formal := range fn.Formals {
		actual := aligned.FormalActuals[i]
		if actual == nil || actual.Sym == nil {
			continue
		}
		if formal.Type == nil {
			subs = append(subs, resolve.Substitution{Formal: formal, Value: actual.Sym})
			continue
		}
		if _, isFamily := familyMarker(formal.Type.Type); isFamily {
			subs = append(subs, resolve.Substitution{Formal: formal, Value: actual.Sym})
		}
	}
	if len(subs) == 0 {
		return fn
	}
	return resolve.Instantiate(cache, fn, subs, atPoint)
}

// attach gives a synthesized function (a generic instantiation or a
// wrapper, neither of which resolve/generics.go or resolve/wrappers.go
// inserts into the program tree itself) a DefPoint in the program's
// main module, the same place C10 hoists its own synthesized
// functions to, so it is walked, folded, lowered and emitted like any
// other function.
func attach(p *ir.Program, fn *ir.FnSymbol) {
	if fn.DefPoint() != nil {
		return
	}
	p.Main.Block.Append(ir.NewDefExpr(fn.Pos(), fn, nil, nil))
}

func familyMarker(t ir.Type) (string, bool) {
	pt, ok := t.(*ir.PrimitiveType)
	if !ok {
		return "", false
	}
	switch pt.Name {
	case "any", "integral", "anyEnumerated", "numeric", "iteratorRecord", "iteratorClass":
		return pt.Name, true
	default:
		return "", false
	}
}

// ResolveProgram runs call resolution to a fixpoint: every unresolved
// call site reachable from p is looked up against its enclosing
// block's visible functions, disambiguated, instantiated if generic,
// and wrapped with a promotion wrapper if the winning candidate
// promoted a formal. Default, order and coercion wrappers are not
// synthesized here, and no virtual-method tables are built.
// Returns the number of call sites resolved this run and any
// unresolved-or-ambiguous call sites left over (spec §4.4, §4.5).
func ResolveProgram(p *ir.Program) (int, []error) {
	cache := visibility.NewCache(p)
	for _, fn := range p.Functions() {
		cache.AddFunction(fn)
	}
	instCache := resolve.NewInstantiationCache()
	wrapperCache := resolve.NewWrapperCache()

	resolved := 0
	var errs []error

	for {
		changedThisPass := 0
		var pending []*ir.CallExpr
		p.Walk(func(e ir.Expr) bool {
			if call, ok := e.(*ir.CallExpr); ok && !call.IsPrimitive() {
				if _, unresolved := call.Base.(*ir.UnresolvedSymExpr); unresolved {
					pending = append(pending, call)
				}
			}
			return true
		})
		if len(pending) == 0 {
			break
		}

		for _, call := range pending {
			unresolved := call.Base.(*ir.UnresolvedSymExpr)
			scope := visibility.VisibilityBlock(call)
			visible := cache.Lookup(scope, unresolved.Name)
			if len(visible) == 0 {
				continue
			}

			actuals := BuildActuals(call)
			cands := resolve.CollectCandidates(visible, actuals)
			if len(cands) == 0 {
				continue
			}
			winner, ok := resolve.Disambiguate(cands, actuals, call)
			if !ok {
				errs = append(errs, fmt.Errorf("%s: ambiguous call to %q among %d candidates", call.Pos(), unresolved.Name, len(cands)))
				continue
			}

			fn := instantiateIfGeneric(instCache, winner.Aligned.Fn, winner.Aligned, scope)
			if fn != winner.Aligned.Fn {
				attach(p, fn)
				cache.AddFunction(fn)
			}

			promoteIdx := -1
			for i, promoted := range winner.Promotes {
				if promoted {
					promoteIdx = i
					break
				}
			}
			if promoteIdx >= 0 {
				wrapped := resolve.BuildPromotionWrapper(wrapperCache, fn, promoteIdx, scope)
				if wrapped != fn {
					attach(p, wrapped)
					cache.AddFunction(wrapped)
				}
				fn = wrapped
			}

			setBase(call, ir.NewSymExpr(call.Pos(), fn))
			if caller := callerOf(call); caller != nil {
				fn.AddCaller(caller)
			}
			changedThisPass++
		}

		resolved += changedThisPass
		if changedThisPass == 0 {
			for _, call := range pending {
				unresolved := call.Base.(*ir.UnresolvedSymExpr)
				errs = append(errs, fmt.Errorf("%s: unresolved call to %q", call.Pos(), unresolved.Name))
			}
			break
		}
	}

	return resolved, errs
}

// callerOf walks call's parentSymbol chain to the nearest enclosing
// FnSymbol, for populating FnSymbol.CalledBy (spec §9, call graph).
func callerOf(e ir.Expr) *ir.FnSymbol {
	sym := e.ParentSymbol()
	for sym != nil {
		if fn, ok := sym.(*ir.FnSymbol); ok {
			return fn
		}
		dp := sym.DefPoint()
		if dp == nil {
			return nil
		}
		sym = dp.ParentSymbol()
	}
	return nil
}
