package astimport

import (
	"fmt"
	"io"

	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/primitive"
	"github.com/tidwall/sjson"
)

var blockKindNames = func() map[ir.BlockTag]string {
	m := make(map[ir.BlockTag]string, len(blockKinds))
	for name, kind := range blockKinds {
		m[kind] = name
	}
	return m
}()

// Dump serializes p back to the normalized-AST JSON shape Load reads,
// one sjson.Set call per field (sjson builds up a document
// incrementally without requiring an intermediate struct, matching
// Load's schema-decoupled, path-based approach). Used by the CLI's
// --dump-ast and --json flags; internal/pipeline does not call it.
func Dump(w io.Writer, p *ir.Program) error {
	doc := "{}"
	var err error
	for i, mod := range p.Modules {
		base := fmt.Sprintf("modules.%d", i)
		doc, err = sjson.Set(doc, base+".name", mod.Name())
		if err != nil {
			return err
		}
		doc, err = sjson.Set(doc, base+".internal", mod.Internal)
		if err != nil {
			return err
		}
		doc, err = dumpBlock(doc, base+".body", mod.Block)
		if err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, doc)
	return err
}

func dumpBlock(doc, path string, block *ir.BlockStmt) (string, error) {
	var err error
	i := 0
	for s := block.Body.Head(); s != nil; s = s.Next() {
		stmtPath := fmt.Sprintf("%s.%d", path, i)
		doc, err = dumpStmt(doc, stmtPath, s)
		if err != nil {
			return "", err
		}
		i++
	}
	if i == 0 {
		doc, err = sjson.SetRaw(doc, path, "[]")
	}
	return doc, err
}

func dumpStmt(doc, path string, e ir.Expr) (string, error) {
	switch n := e.(type) {
	case *ir.DefExpr:
		return dumpDef(doc, path, n)
	case *ir.BlockStmt:
		return dumpBlockNode(doc, path, n)
	default:
		return dumpExpr(doc, path, e)
	}
}

func dumpDef(doc, path string, d *ir.DefExpr) (string, error) {
	var err error
	doc, err = sjson.Set(doc, path+".tag", "def")
	if err != nil {
		return "", err
	}
	switch sym := d.Sym.(type) {
	case *ir.FnSymbol:
		return dumpFn(doc, path+".sym", sym)
	case *ir.VarSymbol:
		return dumpVar(doc, path+".sym", sym)
	default:
		return doc, nil
	}
}

func dumpVar(doc, path string, v *ir.VarSymbol) (string, error) {
	var err error
	doc, err = sjson.Set(doc, path+".tag", "var")
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, path+".name", v.Name())
	if err != nil {
		return "", err
	}
	if v.Type != nil {
		doc, err = sjson.Set(doc, path+".type", v.Type.Name())
		if err != nil {
			return "", err
		}
	}
	doc, err = sjson.Set(doc, path+".const", v.IsConst)
	if err != nil {
		return "", err
	}
	return sjson.Set(doc, path+".param", v.IsParam)
}

func dumpFn(doc, path string, fn *ir.FnSymbol) (string, error) {
	var err error
	doc, err = sjson.Set(doc, path+".tag", "fn")
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, path+".name", fn.Name())
	if err != nil {
		return "", err
	}
	if fn.RetType != nil {
		doc, err = sjson.Set(doc, path+".rettype", fn.RetType.Name())
		if err != nil {
			return "", err
		}
	}
	for i, f := range fn.Formals {
		fpath := fmt.Sprintf("%s.formals.%d", path, i)
		doc, err = sjson.Set(doc, fpath+".name", f.Name())
		if err != nil {
			return "", err
		}
		if f.Type != nil {
			doc, err = sjson.Set(doc, fpath+".type", f.Type.Name())
			if err != nil {
				return "", err
			}
		}
	}
	if fn.Body != nil {
		doc, err = dumpBlockNode(doc, path+".body", fn.Body)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func dumpBlockNode(doc, path string, b *ir.BlockStmt) (string, error) {
	var err error
	doc, err = sjson.Set(doc, path+".tag", "block")
	if err != nil {
		return "", err
	}
	kind := blockKindNames[b.BlockInfo]
	if kind == "" {
		kind = "plain"
	}
	doc, err = sjson.Set(doc, path+".kind", kind)
	if err != nil {
		return "", err
	}
	return dumpBlock(doc, path+".children", b)
}

func dumpExpr(doc, path string, e ir.Expr) (string, error) {
	var err error
	switch n := e.(type) {
	case *ir.CallExpr:
		doc, err = sjson.Set(doc, path+".tag", "call")
		if err != nil {
			return "", err
		}
		if n.IsPrimitive() {
			if entry, ok := primitive.Lookup(primitive.Tag(n.PrimitiveTag)); ok {
				doc, err = sjson.Set(doc, path+".primitive", entry.Name)
				if err != nil {
					return "", err
				}
			}
		} else if sym := symOf(n.Base); sym != "" {
			doc, err = sjson.Set(doc, path+".base", sym)
			if err != nil {
				return "", err
			}
		}
		i := 0
		for a := n.Actuals.Head(); a != nil; a = a.Next() {
			doc, err = dumpExpr(doc, fmt.Sprintf("%s.actuals.%d", path, i), a)
			if err != nil {
				return "", err
			}
			i++
		}
		return doc, nil
	case *ir.SymExpr:
		if n.Sym.Name() == "_imm" {
			return dumpImmediate(doc, path, n.Sym)
		}
		doc, err = sjson.Set(doc, path+".tag", "sym")
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, path+".name", n.Sym.Name())
	case *ir.UnresolvedSymExpr:
		doc, err = sjson.Set(doc, path+".tag", "sym")
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, path+".name", n.Name())
	default:
		return doc, nil
	}
}

func symOf(e ir.Expr) string {
	switch n := e.(type) {
	case *ir.SymExpr:
		return n.Sym.Name()
	case *ir.UnresolvedSymExpr:
		return n.Name()
	default:
		return ""
	}
}

func dumpImmediate(doc, path string, sym ir.Symbol) (string, error) {
	v, ok := sym.(*ir.VarSymbol)
	if !ok || !v.Immediate.Valid {
		return doc, nil
	}
	var err error
	switch v.Immediate.Kind {
	case ir.ImmInt:
		doc, err = sjson.Set(doc, path+".tag", "int")
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, path+".value", v.Immediate.Int)
	case ir.ImmFloat:
		doc, err = sjson.Set(doc, path+".tag", "float")
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, path+".value", v.Immediate.Float)
	case ir.ImmString:
		doc, err = sjson.Set(doc, path+".tag", "string")
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, path+".value", v.Immediate.Str)
	case ir.ImmBool:
		doc, err = sjson.Set(doc, path+".tag", "bool")
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, path+".value", v.Immediate.Bool)
	default:
		return doc, nil
	}
}
