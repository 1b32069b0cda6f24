package ir

import "fmt"

// Violation describes a single invariant failure found by
// CheckInvariants, always fatal when surfaced to the caller (spec §7,
// "internal inconsistency").
type Violation struct {
	Node    Expr
	Rule    string
	Message string
}

func (v Violation) Error() string {
	return fmt.Sprintf("ir invariant %s violated at %s: %s", v.Rule, v.Node.Tag(), v.Message)
}

// CheckInvariants walks e (and, if deep is true, into nested function
// bodies) verifying P1 (tree integrity) and P2 (parent agreement) at
// every node, returning every violation found rather than stopping at
// the first one so a caller can report everything in one pass (spec
// §7's error-collection policy applies to internal checks too).
func CheckInvariants(e Expr, deep bool) []Violation {
	var out []Violation
	visit := Visit
	if deep {
		visit = VisitDeep
	}
	visit(e, func(n Expr) bool {
		if l := n.List(); l != nil {
			if !listContains(l, n) {
				out = append(out, Violation{n, "P1", "node claims list membership but list does not contain it"})
			}
		} else if n.ParentExpr() != nil {
			if !namedSlotHolds(n.ParentExpr(), n) {
				out = append(out, Violation{n, "P1", "node's parentExpr does not recognize it as a named-slot child"})
			}
		}
		if pe := n.ParentExpr(); pe != nil {
			if pe.ParentSymbol() != n.ParentSymbol() {
				out = append(out, Violation{n, "P2", "parentExpr.parentSymbol != parentSymbol"})
			}
		}
		return true
	})
	return out
}

func listContains(l *ExprList, n Expr) bool {
	for e := l.Head(); e != nil; e = e.Next() {
		if e == n {
			return true
		}
	}
	return false
}

func namedSlotHolds(parent, child Expr) bool {
	for _, c := range Children(parent) {
		if c == child {
			return true
		}
	}
	return false
}
