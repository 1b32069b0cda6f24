package ir

// ExprList is an intrusive doubly-linked sibling list. The list
// pointers (Expr.Prev/Next) belong to the enclosing owner (a Block's
// body, a Call's actuals, ...); ExprList itself only tracks head,
// tail, and length so that splice operations stay O(1) and the
// invariant "head/tail/length consistent with the chain" (P1) can be
// checked in one place.
type ExprList struct {
	head   Expr
	tail   Expr
	length int
	owner  Expr // the expression or nil; symbols own top-level lists directly
}

// NewExprList builds an ExprList from a slice of already-unlinked
// expressions, splicing them into a single chain.
func NewExprList(items ...Expr) *ExprList {
	l := &ExprList{}
	for _, e := range items {
		l.append(e)
	}
	return l
}

// Head returns the first element of the list, or nil if empty.
func (l *ExprList) Head() Expr { return l.head }

// Tail returns the last element of the list, or nil if empty.
func (l *ExprList) Tail() Expr { return l.tail }

// Len returns the number of elements currently in the list.
func (l *ExprList) Len() int { return l.length }

// Slice materializes the list into a fresh slice, walking Next links.
func (l *ExprList) Slice() []Expr {
	out := make([]Expr, 0, l.length)
	for e := l.head; e != nil; e = e.Next() {
		out = append(out, e)
	}
	return out
}

// append links e onto the tail and sets e's list-membership back link
// to l. Internal helper used by NewExprList and the editing kernel.
func (l *ExprList) append(e Expr) {
	e.SetPrev(l.tail)
	e.SetNext(nil)
	if l.tail != nil {
		l.tail.SetNext(e)
	} else {
		l.head = e
	}
	l.tail = e
	l.length++
	e.SetList(l)
}
