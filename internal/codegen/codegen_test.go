package codegen

import (
	"strings"
	"testing"

	"github.com/pgasc/midc/internal/config"
	"github.com/pgasc/midc/internal/ir"
)

func TestEmitProducesCoreFileSet(t *testing.T) {
	p := ir.NewProgram()
	intTy := ir.NewTypeSymbol("int(64)", &ir.PrimitiveType{Name: "int(64)"})

	fn := ir.NewFnSymbol("main")
	fn.AddFlag(ir.FnFlagModuleInit)
	body := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	x := ir.NewVarSymbol("x", intTy)
	body.Append(ir.NewDefExpr(ir.Pos{}, x, nil, nil))
	body.Append(ir.NewPrimitiveCall(ir.Pos{}, 1 /* Move */, ir.NewSymExpr(ir.Pos{}, x)))
	fn.SetBody(body)
	p.Main.Block.Append(ir.NewDefExpr(ir.Pos{}, fn, nil, nil))

	out, err := Emit(p, config.Default())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	names := map[string]bool{}
	for _, f := range out.Files {
		names[f.Name] = true
	}
	for _, want := range []string{"chpl__header.h", "_Program.c", "_main.c", "_config.c"} {
		if !names[want] {
			t.Errorf("expected emitted file %q, got %v", want, names)
		}
	}
	if names["_type_structure.c"] {
		t.Errorf("did not expect _type_structure.c when Heterogeneous is false")
	}
}

func TestEmitWritesHeterogeneousTypeStructure(t *testing.T) {
	p := ir.NewProgram()
	cfg := config.Default()
	cfg.Heterogeneous = true
	out, err := Emit(p, cfg)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	var found bool
	for _, f := range out.Files {
		if f.Name == "_type_structure.c" {
			found = true
			if !strings.Contains(f.Contents, "CHPL_MAX_FIELDS_PER_TYPE") {
				t.Errorf("expected the fields-per-type macro, got %s", f.Contents)
			}
		}
	}
	if !found {
		t.Fatalf("expected _type_structure.c when Heterogeneous is true")
	}
}

func TestEmitReadsDispatchKindWithoutRederiving(t *testing.T) {
	p := ir.NewProgram()
	fn := ir.NewFnSymbol("caller")
	body := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	callee := ir.NewFnSymbol("callee")
	call := ir.NewCallExpr(ir.Pos{}, ir.NewSymExpr(ir.Pos{}, callee))
	call.Dispatch = ir.DispatchVTable
	body.Append(call)
	fn.SetBody(body)
	p.Main.Block.Append(ir.NewDefExpr(ir.Pos{}, fn, nil, nil))

	out, err := Emit(p, config.Default())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	var programFile *File
	for _, f := range out.Files {
		if f.Name == "_Program.c" {
			programFile = f
		}
	}
	if programFile == nil || !strings.Contains(programFile.Contents, "->vtable->") {
		t.Errorf("expected a vtable-indexed call rendered for DispatchVTable, got %+v", programFile)
	}
}
