package resolve

import "github.com/pgasc/midc/internal/ir"

// parentBlock walks e's parentExpr chain to the nearest BlockStmt,
// then (once parentExpr runs out) follows the owning symbol's
// instantiation point or its own definition point, same traversal
// isMoreVisible uses to judge use-chain distance — distinct from
// VisibilityBlock, which additionally skips scopeless blocks.
func parentBlock(e ir.Expr) *ir.BlockStmt {
	for tmp := e.ParentExpr(); tmp != nil; tmp = tmp.ParentExpr() {
		if block, ok := tmp.(*ir.BlockStmt); ok {
			return block
		}
	}
	sym := e.ParentSymbol()
	if sym == nil {
		return nil
	}
	if fn, ok := sym.(*ir.FnSymbol); ok && fn.InstantiationPoint != nil {
		return fn.InstantiationPoint
	}
	if sym.DefPoint() == nil {
		return nil
	}
	return parentBlock(sym.DefPoint())
}

// isMoreVisibleInternal is isMoreVisible's recursive search: fn1 wins
// as soon as block is fn1's own definition block, fn2 wins as soon as
// block is fn2's, and otherwise the search continues outward through
// block's parent and its use clauses, all of which must agree fn1 is
// at least as visible for the overall answer to hold.
func isMoreVisibleInternal(block *ir.BlockStmt, fn1, fn2 *ir.FnSymbol, visited map[*ir.BlockStmt]bool) bool {
	if block == nil {
		return true
	}
	if fn1.DefPoint() != nil && fn1.DefPoint().ParentExpr() == ir.Expr(block) {
		return true
	}
	if fn2.DefPoint() != nil && fn2.DefPoint().ParentExpr() == ir.Expr(block) {
		return false
	}
	visited[block] = true

	moreVisible := true
	if parent := parentBlock(block); parent != nil && !visited[parent] {
		moreVisible = moreVisible && isMoreVisibleInternal(parent, fn1, fn2, visited)
	}
	for _, mod := range block.Uses {
		if mod.Block != nil && !visited[mod.Block] {
			moreVisible = moreVisible && isMoreVisibleInternal(mod.Block, fn1, fn2, visited)
		}
	}
	return moreVisible
}

// IsMoreVisible reports whether fn1 is more visible than fn2 from
// expr: nearer along the block/use-chain search from expr outward.
// Assumes both are already known-visible from expr; if that
// assumption is violated it defaults to true.
func IsMoreVisible(expr ir.Expr, fn1, fn2 *ir.FnSymbol) bool {
	if fn1.DefPoint() != nil && fn2.DefPoint() != nil && fn1.DefPoint().ParentExpr() == fn2.DefPoint().ParentExpr() {
		return false
	}
	block, ok := expr.(*ir.BlockStmt)
	if !ok {
		block = parentBlock(expr)
	}
	return isMoreVisibleInternal(block, fn1, fn2, make(map[*ir.BlockStmt]bool))
}

// Disambiguate picks the single most-specific candidate from cands,
// per the six ranking criteria of spec §4.4 step 2: (a) a
// param-instantiated formal beats a non-param one at equal type, (b)
// a non-promoting match beats a promoting one, (c) a non-instantiated
// formal beats an instantiated one at equal type, (d) instantiating a
// concrete generic-family match beats instantiating dtAny, (e) an
// exact actual/formal type match beats one that needed dispatch at
// all, (f) among two still-tied formals the more specific type wins,
// with int-over-uint as the final tiebreak — followed by a visibility
// check and a where-clause preference if every formal still ties.
// Returns ok=false if no single candidate dominates every other.
func Disambiguate(cands []Candidate, actuals []CallActual, scope ir.Expr) (Candidate, bool) {
	for i := range cands {
		c1 := cands[i]
		best := true
		for j := range cands {
			if i == j {
				continue
			}
			c2 := cands[j]
			worse, equal := false, true
			fnPromotes1, fnPromotes2 := false, false

			for k := range actuals {
				actual := actuals[k]
				arg1 := c1.Aligned.ActualFormals[k]
				arg2 := c2.Aligned.ActualFormals[k]
				if arg1 == nil || arg2 == nil {
					continue
				}

				_, argPromotes1 := CanDispatch(actual.Type, actual.Sym, formalTypeOf(arg1), c1.Aligned.Fn, false)
				fnPromotes1 = fnPromotes1 || argPromotes1
				_, argPromotes2 := CanDispatch(actual.Type, actual.Sym, formalTypeOf(arg2), c1.Aligned.Fn, false)
				fnPromotes2 = fnPromotes2 || argPromotes2

				t1, t2 := formalTypeOf(arg1), formalTypeOf(arg2)

				switch {
				case t1 == t2 && arg1.InstantiatedParam && !arg2.InstantiatedParam:
					equal = false
				case t1 == t2 && !arg1.InstantiatedParam && arg2.InstantiatedParam:
					worse = true
				case !argPromotes1 && argPromotes2:
					equal = false
				case argPromotes1 && !argPromotes2:
					worse = true
				case t1 == t2 && arg1.InstantiatedFrom == nil && arg2.InstantiatedFrom != nil:
					equal = false
				case t1 == t2 && arg1.InstantiatedFrom != nil && arg2.InstantiatedFrom == nil:
					worse = true
				case isAnyFamily(arg1.InstantiatedFrom) == false && isAnyFamily(arg2.InstantiatedFrom):
					equal = false
				case isAnyFamily(arg1.InstantiatedFrom) && isAnyFamily(arg2.InstantiatedFrom) == false:
					worse = true
				case actual.Type == t1 && actual.Type != t2:
					equal = false
				case actual.Type == t2 && actual.Type != t1:
					worse = true
				case t1 != t2 && MoreSpecific(c1.Aligned.Fn, t1, t2):
					equal = false
				case t1 != t2 && MoreSpecific(c1.Aligned.Fn, t2, t1):
					worse = true
				case isIntType(t1) && isUintType(t2):
					equal = false
				case isIntType(t2) && isUintType(t1):
					worse = true
				}
			}

			if !fnPromotes1 && fnPromotes2 {
				continue
			}
			if !worse && equal && scope != nil {
				if IsMoreVisible(scope, c1.Aligned.Fn, c2.Aligned.Fn) {
					equal = false
				} else if IsMoreVisible(scope, c2.Aligned.Fn, c1.Aligned.Fn) {
					worse = true
				} else if c1.Aligned.Fn.WhereClause != nil && c2.Aligned.Fn.WhereClause == nil {
					equal = false
				} else if c1.Aligned.Fn.WhereClause == nil && c2.Aligned.Fn.WhereClause != nil {
					worse = true
				}
			}
			if worse || equal {
				best = false
				break
			}
		}
		if best {
			return c1, true
		}
	}
	return Candidate{}, false
}

func formalTypeOf(arg *ir.ArgSymbol) ir.Type {
	if arg.Type == nil {
		return nil
	}
	return arg.Type.Type
}

// isAnyFamily reports whether a formal's instantiated-from type is
// the "any" generic family — the weakest possible instantiation, and
// so the first one disambiguation prefers away from.
func isAnyFamily(t *ir.TypeSymbol) bool {
	if t == nil {
		return false
	}
	pt, ok := t.Type.(*ir.PrimitiveType)
	return ok && pt.Name == FamilyAny
}
