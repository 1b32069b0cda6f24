package codegen

import (
	"fmt"

	"github.com/pgasc/midc/internal/config"
	"github.com/pgasc/midc/internal/ir"
)

// Emit walks p exactly once and produces the file set of spec.md §6.3:
// a shared header, one file per module, _main.c, _config.c, and
// (when cfg.Heterogeneous) _type_structure.c.
func Emit(p *ir.Program, cfg *config.Config) (*Output, error) {
	out := &Output{}

	header := out.file("chpl__header.h")
	header.append("#ifndef CHPL__HEADER_H\n#define CHPL__HEADER_H\n\n")
	for _, mod := range p.Modules {
		if err := emitModuleTypes(header, mod); err != nil {
			return nil, err
		}
	}
	header.append("\n#endif\n")

	for _, mod := range p.Modules {
		moduleFile := out.file(moduleFileName(mod))
		moduleFile.append(fmt.Sprintf("#include \"chpl__header.h\"\n\n// module %s\n\n", mod.Name()))
		if err := emitModuleFunctions(moduleFile, mod); err != nil {
			return nil, err
		}
	}

	if err := emitMain(out, p); err != nil {
		return nil, err
	}
	emitConfig(out, cfg)
	if cfg != nil && cfg.Heterogeneous {
		emitTypeStructure(out, p)
	}
	emitTables(out, p)

	return out, nil
}

func moduleFileName(mod *ir.ModuleSymbol) string {
	if mod.Name() == "_Program" {
		return "_Program.c"
	}
	return mod.Name() + ".c"
}

func emitMain(out *Output, p *ir.Program) error {
	main := out.file("_main.c")
	main.append("#include \"chpl__header.h\"\n\nint chpl_gen_main(void) {\n")
	for _, fn := range p.Functions() {
		if fn.HasFlag(ir.FnFlagModuleInit) {
			main.append(fmt.Sprintf("  %s();\n", cName(fn)))
		}
	}
	main.append("  return 0;\n}\n")
	return nil
}
