package codegen

import (
	"fmt"

	"github.com/pgasc/midc/internal/ir"
)

// emitModuleTypes writes every class-like type's struct declaration
// and every function's prototype defined at mod's top level into the
// shared header, mirroring a single-translation-unit C backend where
// every module shares one header (spec §6.3).
func emitModuleTypes(h *File, mod *ir.ModuleSymbol) error {
	if mod.Block == nil {
		return nil
	}
	for s := mod.Block.Body.Head(); s != nil; s = s.Next() {
		d, ok := s.(*ir.DefExpr)
		if !ok {
			continue
		}
		switch sym := d.Sym.(type) {
		case *ir.TypeSymbol:
			emitStruct(h, sym)
		case *ir.FnSymbol:
			h.append(prototype(sym) + ";\n")
		}
	}
	return nil
}

func emitStruct(h *File, ts *ir.TypeSymbol) {
	cl, ok := ts.Type.(*ir.ClassLikeType)
	if !ok {
		return
	}
	h.append(fmt.Sprintf("typedef struct %s {\n", cName(ts)))
	for _, field := range cl.Fields {
		switch fs := field.Sym.(type) {
		case *ir.VarSymbol:
			h.append(fmt.Sprintf("  %s %s;\n", cType(fs.Type), cName(fs)))
		}
	}
	h.append(fmt.Sprintf("} %s;\n\n", cName(ts)))
}

// cType renders a TypeSymbol as a C type name; wide and heap-box
// types were already synthesized as their own ClassLikeType by C10/
// C11 and so fall through the same struct-name path as any other
// class-like type.
func cType(ts *ir.TypeSymbol) string {
	if ts == nil {
		return "void"
	}
	if ts.Type != nil && ts.Type.IsClassLike() {
		return cName(ts) + "*"
	}
	return cName(ts)
}

func prototype(fn *ir.FnSymbol) string {
	ret := "void"
	if fn.RetType != nil {
		ret = cType(fn.RetType)
	}
	s := fmt.Sprintf("%s %s(", ret, cName(fn))
	for i, f := range fn.Formals {
		if i > 0 {
			s += ", "
		}
		ty := cType(f.Type)
		if f.Intent == ir.IntentRef || f.Intent == ir.IntentOut || f.Intent == ir.IntentInout {
			ty += "*"
		}
		s += ty + " " + cName(f)
	}
	s += ")"
	return s
}
