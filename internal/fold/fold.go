// Package fold implements constant folding and param-for unrolling
// (spec §4.8, component C9): a post-order walk folds arithmetic,
// comparison, string-concatenation, enum, and cast-of-immediate
// primitive calls down to a single floating immediate-carrying
// VarSymbol, and any param-for loop whose bounds and stride are
// themselves compile-time constants is replaced by one block copy per
// iteration with the induction variable substituted throughout.
//
// Folding a move's right-hand side into an immediate is only
// propagated onto the move's target VarSymbol when that target is a
// param or const variable with a single reaching definition in the
// function: a restricted stand-in for full reaching-definitions
// dataflow (original_source/compiler/optimizations/
// reachingDefinitionsAnalysis.cpp), scoped down to "assigned exactly
// once in this function" rather than a per-block bit-vector analysis.
package fold

import (
	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/primitive"
)

// Result summarizes what one Fold pass changed.
type Result struct {
	Folded   int
	Unrolled int
}

func (r Result) changed() bool { return r.Folded != 0 || r.Unrolled != 0 }

// Fold runs one normalize/fold/unroll pass over fn's body. It does
// not descend into the bodies of nested functions (begin-block
// functions, inner iterators, ...); the caller folds those
// separately, one FnSymbol at a time.
func Fold(fn *ir.FnSymbol) Result {
	var r Result
	if fn.Body == nil {
		return r
	}
	defs := countMoveDefs(fn.Body)
	processBlockBody(fn.Body, defs, &r)
	return r
}

// FoldProgram folds every function in p to a fixpoint: unrolling a
// param-for loop can expose further constant moves, and folding a
// move can make a later param-for's bounds constant, so passes repeat
// until nothing changes or a bound on iteration count is hit.
func FoldProgram(p *ir.Program) Result {
	var total Result
	for pass := 0; pass < 8; pass++ {
		var r Result
		for _, fn := range p.Functions() {
			fr := Fold(fn)
			r.Folded += fr.Folded
			r.Unrolled += fr.Unrolled
		}
		total.Folded += r.Folded
		total.Unrolled += r.Unrolled
		if !r.changed() {
			break
		}
	}
	return total
}

// countMoveDefs counts, per param/const VarSymbol, how many PRIM_MOVE
// calls in fn's own body (not any nested function) target it. Only a
// symbol with exactly one such move is treated as having a single
// reaching definition and so eligible for constant propagation.
func countMoveDefs(body *ir.BlockStmt) map[*ir.VarSymbol]int {
	counts := make(map[*ir.VarSymbol]int)
	var walk func(e ir.Expr)
	walk = func(e ir.Expr) {
		if e == nil {
			return
		}
		if call, ok := e.(*ir.CallExpr); ok && call.PrimitiveTag == int(primitive.Move) {
			if v := moveTarget(call); v != nil && (v.IsParam || v.IsConst) {
				counts[v]++
			}
		}
		for _, c := range ir.Children(e) {
			walk(c)
		}
	}
	walk(body)
	return counts
}

func moveTarget(call *ir.CallExpr) *ir.VarSymbol {
	first := call.Actuals.Head()
	if first == nil {
		return nil
	}
	se, ok := first.(*ir.SymExpr)
	if !ok {
		return nil
	}
	v, _ := se.Sym.(*ir.VarSymbol)
	return v
}

func moveSource(call *ir.CallExpr) ir.Expr {
	first := call.Actuals.Head()
	if first == nil {
		return nil
	}
	return first.Next()
}

// processBlockBody walks blk's direct statements, unrolling any
// param-for child whose bounds are constant and otherwise folding
// each statement in place.
func processBlockBody(blk *ir.BlockStmt, defs map[*ir.VarSymbol]int, r *Result) {
	s := blk.Body.Head()
	for s != nil {
		next := s.Next()
		if inner, ok := s.(*ir.BlockStmt); ok && inner.BlockInfo == ir.BlockParamFor {
			if tryUnrollParamFor(inner, r) {
				s = next
				continue
			}
		}
		process(s, defs, r)
		s = next
	}
}

// process folds e's children post-order, then, if e is itself a
// foldable primitive call, folds e and replaces it in place.
func process(e ir.Expr, defs map[*ir.VarSymbol]int, r *Result) {
	if e == nil {
		return
	}
	if blk, ok := e.(*ir.BlockStmt); ok {
		processBlockBody(blk, defs, r)
		return
	}
	for _, c := range ir.Children(e) {
		process(c, defs, r)
	}
	call, ok := e.(*ir.CallExpr)
	if !ok || !call.IsPrimitive() {
		return
	}
	if call.PrimitiveTag == int(primitive.Move) {
		foldMove(call, defs, r)
		return
	}
	if imm, ok := tryFoldPrimitive(call); ok {
		repl := ir.NewSymExpr(call.Pos(), immediateSymbol(imm))
		if err := ir.Replace(call, repl); err == nil {
			r.Folded++
		}
	}
}

// foldMove propagates an already-folded immediate right-hand side
// onto its move target's VarSymbol, but only when the target is a
// param/const variable assigned exactly once in the function (the
// restricted reaching-definition check).
func foldMove(call *ir.CallExpr, defs map[*ir.VarSymbol]int, r *Result) {
	target := moveTarget(call)
	if target == nil || !(target.IsParam || target.IsConst) {
		return
	}
	if defs[target] != 1 {
		return
	}
	src := moveSource(call)
	imm, ok := immediateOf(src)
	if !ok {
		return
	}
	if target.Immediate.Valid {
		return
	}
	target.Immediate = imm
	r.Folded++
}

// immediateSymbol builds a fresh, out-of-tree VarSymbol carrying imm,
// analogous to the original compiler's pre-allocated gTrue/gFalse/
// new_IntSymbol leaf globals: a folded constant needs no DefExpr of
// its own, only a SymExpr pointing at it.
func immediateSymbol(imm ir.Immediate) *ir.VarSymbol {
	vs := ir.NewVarSymbol(immediateName(imm), nil)
	vs.Immediate = imm
	vs.IsParam = true
	return vs
}

func immediateName(imm ir.Immediate) string {
	switch imm.Kind {
	case ir.ImmInt:
		return "_imm"
	case ir.ImmFloat:
		return "_imm"
	case ir.ImmString:
		return "_imm"
	case ir.ImmBool:
		return "_imm"
	default:
		return "_imm"
	}
}

func immediateOf(e ir.Expr) (ir.Immediate, bool) {
	se, ok := e.(*ir.SymExpr)
	if !ok {
		return ir.Immediate{}, false
	}
	vs, ok := se.Sym.(*ir.VarSymbol)
	if !ok || !vs.Immediate.Valid {
		return ir.Immediate{}, false
	}
	return vs.Immediate, true
}

func enumOf(e ir.Expr) (*ir.EnumSymbol, bool) {
	se, ok := e.(*ir.SymExpr)
	if !ok {
		return nil, false
	}
	es, ok := se.Sym.(*ir.EnumSymbol)
	return es, ok
}
