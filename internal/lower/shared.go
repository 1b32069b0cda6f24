// Package lower implements the two fixed-order lowering passes that
// run after folding: C10 (parallel-construct lowering, parallel.go)
// and C11 (wide-reference insertion, wide.go). Both operate on a
// resolved, folded ir.Program and produce new top-level symbols
// rather than mutating expression trees in place wherever a fresh
// function or type is the natural unit of output (spec §4.9, §4.10).
package lower

import "github.com/pgasc/midc/internal/ir"

// freeVars returns, in first-use order, every VarSymbol or ArgSymbol
// referenced inside block but declared outside it: block's live-in
// set (spec §4.9 step 2, "one field per live-in variable").
func freeVars(block *ir.BlockStmt) []ir.Symbol {
	declared := map[ir.Symbol]bool{}
	var markDeclared func(e ir.Expr)
	markDeclared = func(e ir.Expr) {
		if d, ok := e.(*ir.DefExpr); ok && d.Sym != nil {
			declared[d.Sym] = true
		}
		for _, c := range ir.Children(e) {
			markDeclared(c)
		}
	}
	markDeclared(block)

	var order []ir.Symbol
	seen := map[ir.Symbol]bool{}
	var visit func(e ir.Expr)
	visit = func(e ir.Expr) {
		if se, ok := e.(*ir.SymExpr); ok {
			switch se.Sym.(type) {
			case *ir.VarSymbol, *ir.ArgSymbol:
				if !declared[se.Sym] && !seen[se.Sym] {
					seen[se.Sym] = true
					order = append(order, se.Sym)
				}
			}
		}
		for _, c := range ir.Children(e) {
			visit(c)
		}
	}
	visit(block)
	return order
}

func typeOf(sym ir.Symbol) *ir.TypeSymbol {
	switch v := sym.(type) {
	case *ir.VarSymbol:
		return v.Type
	case *ir.ArgSymbol:
		return v.Type
	default:
		return nil
	}
}
