package codegen

import (
	"fmt"

	"github.com/pgasc/midc/internal/ir"
)

// emitTypeStructure writes _type_structure.c: the chpl_structType and
// chpl_sizeType tables plus their accessor functions, present only
// when the heterogeneous flag is set (spec §6.3).
func emitTypeStructure(out *Output, p *ir.Program) {
	f := out.file("_type_structure.c")
	f.append("#include \"chpl__header.h\"\n\n#define CHPL_MAX_FIELDS_PER_TYPE 64\n\n")

	var classTypes []*ir.TypeSymbol
	for _, mod := range p.Modules {
		if mod.Block == nil {
			continue
		}
		for s := mod.Block.Body.Head(); s != nil; s = s.Next() {
			if d, ok := s.(*ir.DefExpr); ok {
				if ts, ok := d.Sym.(*ir.TypeSymbol); ok {
					if cl, ok := ts.Type.(*ir.ClassLikeType); ok && cl.Kind == ir.KindClass {
						classTypes = append(classTypes, ts)
					}
				}
			}
		}
	}

	f.append("struct chpl_structType_s chpl_structType[] = {\n")
	for _, ts := range classTypes {
		f.append(fmt.Sprintf("  { .name = %q },\n", cName(ts)))
	}
	f.append("};\n\n")

	f.append("struct chpl_sizeType_s chpl_sizeType[] = {\n")
	for _, ts := range classTypes {
		f.append(fmt.Sprintf("  { .name = %q, .size = sizeof(%s) },\n", cName(ts), cName(ts)))
	}
	f.append("};\n\n")

	f.append("int chpl_getFieldType(int typeIdx, int fieldIdx) { return 0; }\n")
	f.append("int chpl_getFieldOffset(int typeIdx, int fieldIdx) { return 0; }\n")
	f.append("int chpl_getFieldSize(int typeIdx, int fieldIdx) { return 0; }\n")
}

// emitTables appends the private-broadcast table (one entry per
// module-level variable, since a front end with no locale-reachability
// analysis of its own cannot narrow "reachable from more than one
// locale's initialization order" any further than "at module scope")
// and the function-pointer table (one entry per C10-generated nested
// function, indexed by the construct-kind flag it carries) to _main.c.
func emitTables(out *Output, p *ir.Program) {
	f := out.file("_main.c")
	f.append("\nstruct chpl_priv_broadcast_entry_s chpl_priv_broadcast_table[] = {\n")
	for _, mod := range p.Modules {
		if mod.Block == nil {
			continue
		}
		for s := mod.Block.Body.Head(); s != nil; s = s.Next() {
			if d, ok := s.(*ir.DefExpr); ok {
				if v, ok := d.Sym.(*ir.VarSymbol); ok {
					f.append(fmt.Sprintf("  { .name = %q, .addr = &%s },\n", cName(v), cName(v)))
				}
			}
		}
	}
	f.append("};\n\n")

	f.append("struct chpl_fn_ptr_entry_s chpl_fn_ptr_table[] = {\n")
	for _, fn := range p.Functions() {
		if kind := constructKindOf(fn); kind != "" {
			f.append(fmt.Sprintf("  { .kind = %q, .fn = (chpl_fn_p)%s },\n", kind, cName(fn)))
		}
	}
	f.append("};\n")
}

func constructKindOf(fn *ir.FnSymbol) string {
	switch {
	case fn.HasFlag(ir.FnFlagBeginBlockFn):
		return "begin"
	case fn.HasFlag(ir.FnFlagCobeginBlockFn):
		return "cobegin"
	case fn.HasFlag(ir.FnFlagCoforallBlockFn):
		return "coforall"
	case fn.HasFlag(ir.FnFlagOnBlockFn):
		return "on"
	case fn.HasFlag(ir.FnFlagOnBlockFnNonblocking):
		return "on_nonblocking"
	case fn.HasFlag(ir.FnFlagGPUOnBlockFn):
		return "gpu_on"
	default:
		return ""
	}
}
