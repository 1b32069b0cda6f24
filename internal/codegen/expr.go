package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/primitive"
)

// renderExpr renders e as a single C-like expression. A call's
// Dispatch field (set by C8) decides whether a resolved virtual call
// prints as a direct call or a vtable-indexed one; codegen never
// re-derives that decision.
func renderExpr(e ir.Expr) string {
	switch n := e.(type) {
	case *ir.SymExpr:
		return renderSym(n.Sym)
	case *ir.UnresolvedSymExpr:
		return n.Name()
	case *ir.CallExpr:
		return renderCall(n)
	case nil:
		return ""
	default:
		return fmt.Sprintf("/* unhandled %T */", e)
	}
}

func renderSym(sym ir.Symbol) string {
	if v, ok := sym.(*ir.VarSymbol); ok && v.Immediate.Valid {
		return renderImmediate(v.Immediate)
	}
	return cName(sym)
}

func renderImmediate(imm ir.Immediate) string {
	switch imm.Kind {
	case ir.ImmInt:
		return strconv.FormatInt(imm.Int, 10)
	case ir.ImmFloat:
		return strconv.FormatFloat(imm.Float, 'g', -1, 64)
	case ir.ImmString:
		return strconv.Quote(imm.Str)
	case ir.ImmBool:
		if imm.Bool {
			return "true"
		}
		return "false"
	default:
		return "0"
	}
}

func renderCall(c *ir.CallExpr) string {
	var actuals []string
	for a := c.Actuals.Head(); a != nil; a = a.Next() {
		actuals = append(actuals, renderExpr(a))
	}
	if c.IsPrimitive() {
		entry, ok := primitive.Lookup(primitive.Tag(c.PrimitiveTag))
		name := "prim_unknown"
		if ok {
			name = entry.Name
		}
		return fmt.Sprintf("%s(%s)", name, strings.Join(actuals, ", "))
	}

	switch c.Dispatch {
	case ir.DispatchVTable:
		return fmt.Sprintf("(*%s->vtable->%s)(%s)", renderExpr(c.Base), renderExpr(c.Base), strings.Join(actuals, ", "))
	case ir.DispatchClassIDChain:
		return fmt.Sprintf("chpl_dispatch_%s(%s)", renderExpr(c.Base), strings.Join(actuals, ", "))
	default:
		return fmt.Sprintf("%s(%s)", renderExpr(c.Base), strings.Join(actuals, ", "))
	}
}
