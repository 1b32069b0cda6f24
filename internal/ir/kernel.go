package ir

import "fmt"

// inTree reports whether e is reachable from some root (invariant 1:
// every in-tree expression has a non-nil parentSymbol).
func inTree(e Expr) bool { return e != nil && e.ParentSymbol() != nil }

// InTree exposes inTree for callers outside the package (pruning,
// diagnostics) that need to test a node's tree membership.
func InTree(e Expr) bool { return inTree(e) }

// Children returns the direct expression children of e in a stable
// order, used by generic traversal (Visit) instead of per-variant
// recursion scattered across passes.
func Children(e Expr) []Expr {
	switch v := e.(type) {
	case *DefExpr:
		var out []Expr
		if v.Type != nil {
			out = append(out, v.Type)
		}
		if v.Init != nil {
			out = append(out, v.Init)
		}
		return out
	case *CallExpr:
		var out []Expr
		if v.Base != nil {
			out = append(out, v.Base)
		}
		out = append(out, v.Actuals.Slice()...)
		return out
	case *NamedExpr:
		return []Expr{v.Actual}
	case *BlockStmt:
		return v.Body.Slice()
	case *CondStmt:
		out := []Expr{v.Cond, v.Then}
		if v.Else != nil {
			out = append(out, v.Else)
		}
		return out
	case *GotoStmt:
		if v.Label != nil {
			return []Expr{v.Label}
		}
		return nil
	default:
		return nil
	}
}

// Visit performs a pre-order traversal of e and its descendants,
// stopping early (without descending) wherever fn returns false. It
// does not cross from a DefExpr into the body of the FnSymbol it
// defines; use VisitDeep for that.
func Visit(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Visit(c, fn)
	}
}

// VisitDeep is Visit extended to also descend into the body of any
// FnSymbol defined by a DefExpr it encounters, so a single call walks
// an entire module including every nested function.
func VisitDeep(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	if d, ok := e.(*DefExpr); ok {
		if fnSym, ok := d.Sym.(*FnSymbol); ok && fnSym.Body != nil {
			VisitDeep(fnSym.Body, fn)
		}
	}
	for _, c := range Children(e) {
		VisitDeep(c, fn)
	}
}

// setSubtreeParents sets parentExpr on the spliced root (its new
// logical owner) and parentSymbol throughout the subtree, propagating
// ownership after a splice. Descendants below the root already carry
// the correct parentExpr from construction/Append/AppendActual.
func setSubtreeParents(e Expr, parent Expr, sym Symbol) {
	e.SetParentExpr(parent)
	e.SetParentSymbol(sym)
	for _, c := range Children(e) {
		setChildParents(c, sym)
	}
}

// setChildParents sets parentSymbol on c and its descendants without
// touching c's own parentExpr (already correct: either nil, because c
// is a sibling-list member, or set by adopt/NamedExpr construction).
func setChildParents(c Expr, sym Symbol) {
	c.SetParentSymbol(sym)
	for _, gc := range Children(c) {
		setChildParents(gc, sym)
	}
}

// clearSubtreeParents recursively clears parentExpr/parentSymbol on e
// and its descendants, marking the subtree out-of-tree while leaving
// it structurally intact for later re-insertion (spec §5: "remove
// unlinks but leaves subtree intact").
func clearSubtreeParents(e Expr) {
	e.SetParentExpr(nil)
	e.SetParentSymbol(nil)
	for _, c := range Children(e) {
		clearSubtreeParents(c)
	}
}

// replaceInParentSlot asks e's owner (an enclosing expression's named
// child slot, or the symbol that owns e as a top-level body) to swap
// old for new. It returns false if neither owner recognizes old.
func replaceInParentSlot(old, new Expr) bool {
	if parent := old.ParentExpr(); parent != nil {
		return parent.ReplaceChild(old, new)
	}
	sym := old.ParentSymbol()
	if sym == nil {
		return false
	}
	switch s := sym.(type) {
	case *FnSymbol:
		if Expr(s.Body) == old {
			nb, ok := new.(*BlockStmt)
			if !ok {
				return false
			}
			s.Body = nb
			return true
		}
	case *ModuleSymbol:
		if Expr(s.Block) == old {
			nb, ok := new.(*BlockStmt)
			if !ok {
				return false
			}
			s.Block = nb
			return true
		}
	}
	return false
}

// Remove unlinks e from the tree: if e is a sibling-list member, it
// is spliced out of the list (updating head/tail/length); otherwise
// the owning parent's named slot is cleared via ReplaceChild(e, nil).
// The subtree rooted at e is left intact (not deep-destroyed) so it
// may be reinserted elsewhere; parent links on the whole subtree are
// cleared so InTree reports false until that happens.
func Remove(e Expr) error {
	if l := e.List(); l != nil {
		spliceOut(l, e)
	} else if !replaceInParentSlot(e, nil) {
		return fmt.Errorf("ir: remove: %s has no list membership and no recognized parent slot", e.Tag())
	}
	clearSubtreeParents(e)
	return nil
}

// spliceOut removes e from list l, relinking its neighbors.
func spliceOut(l *ExprList, e Expr) {
	prev, next := e.Prev(), e.Next()
	if prev != nil {
		prev.SetNext(next)
	} else {
		l.head = next
	}
	if next != nil {
		next.SetPrev(prev)
	} else {
		l.tail = prev
	}
	l.length--
	e.SetPrev(nil)
	e.SetNext(nil)
	e.SetList(nil)
}

// Replace atomically unlinks e and links new in its place: new must
// not already be in any tree or list. If e is a sibling-list member,
// new takes its exact list position; otherwise new is installed into
// e's owner's named child slot.
func Replace(e, new Expr) error {
	if new.List() != nil || inTree(new) {
		return fmt.Errorf("ir: replace: new node %s is already linked", new.Tag())
	}
	if l := e.List(); l != nil {
		prev, next := e.Prev(), e.Next()
		new.SetPrev(prev)
		new.SetNext(next)
		new.SetList(l)
		if prev != nil {
			prev.SetNext(new)
		} else {
			l.head = new
		}
		if next != nil {
			next.SetPrev(new)
		} else {
			l.tail = new
		}
		setSubtreeParents(new, e.ParentExpr(), e.ParentSymbol())
	} else {
		if !replaceInParentSlot(e, new) {
			return fmt.Errorf("ir: replace: %s has no recognized parent slot", e.Tag())
		}
		setSubtreeParents(new, e.ParentExpr(), e.ParentSymbol())
	}
	clearSubtreeParents(e)
	return nil
}

// InsertBefore splices new immediately before e in e's sibling list.
// Valid only if e is currently a list member.
func InsertBefore(e, new Expr) error {
	l := e.List()
	if l == nil {
		return fmt.Errorf("ir: insertBefore: %s is not in a sibling list", e.Tag())
	}
	if new.List() != nil || inTree(new) {
		return fmt.Errorf("ir: insertBefore: new node %s is already linked", new.Tag())
	}
	prev := e.Prev()
	new.SetPrev(prev)
	new.SetNext(e)
	new.SetList(l)
	if prev != nil {
		prev.SetNext(new)
	} else {
		l.head = new
	}
	e.SetPrev(new)
	l.length++
	setSubtreeParents(new, e.ParentExpr(), e.ParentSymbol())
	return nil
}

// InsertAfter splices new immediately after e in e's sibling list.
// Valid only if e is currently a list member.
func InsertAfter(e, new Expr) error {
	l := e.List()
	if l == nil {
		return fmt.Errorf("ir: insertAfter: %s is not in a sibling list", e.Tag())
	}
	if new.List() != nil || inTree(new) {
		return fmt.Errorf("ir: insertAfter: new node %s is already linked", new.Tag())
	}
	next := e.Next()
	new.SetPrev(e)
	new.SetNext(next)
	new.SetList(l)
	if next != nil {
		next.SetPrev(new)
	} else {
		l.tail = new
	}
	e.SetNext(new)
	l.length++
	setSubtreeParents(new, e.ParentExpr(), e.ParentSymbol())
	return nil
}

// Copy returns a structural deep copy of e. Every DefExpr in the
// result owns a freshly identified symbol; the correspondence between
// old and new symbols is recorded in a fresh SymMap so that sibling
// SymExprs inside the same copy are rewritten consistently (P3).
func Copy(e Expr) Expr {
	return e.Copy(NewSymMap())
}
