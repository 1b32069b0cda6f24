package pipeline

import (
	"strings"
	"testing"

	"github.com/pgasc/midc/internal/config"
	"github.com/pgasc/midc/internal/ir"
)

func buildProgram() *ir.Program {
	pos := ir.Pos{File: "t.chpl", Line: 1, Column: 1}
	intTy := ir.NewTypeSymbol("int(64)", &ir.PrimitiveType{Name: "int(64)"})

	calleeArg := ir.NewArgSymbol("x", intTy, ir.IntentBlank)
	callee := ir.NewFnSymbol("foo")
	callee.Formals = []*ir.ArgSymbol{calleeArg}
	callee.RetType = intTy
	callee.SetBody(ir.NewBlockStmt(pos, ir.BlockPlain))

	body := ir.NewBlockStmt(pos, ir.BlockPlain)
	five := ir.NewVarSymbol("five", intTy)
	five.Immediate = ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: 5}
	body.Append(ir.NewDefExpr(pos, five, nil, nil))
	call := ir.NewCallExpr(pos, ir.NewUnresolvedSymExpr(pos, "foo"), ir.NewSymExpr(pos, five))
	body.Append(call)

	main := ir.NewFnSymbol("chpl_user_main")
	main.AddFlag(ir.FnFlagModuleInit)
	main.SetBody(body)

	p := ir.NewProgram()
	p.Main.Block.Append(ir.NewDefExpr(pos, callee, nil, nil))
	p.Main.Block.Append(ir.NewDefExpr(pos, main, nil, nil))
	return p
}

func TestResolveProgramBindsUnresolvedCall(t *testing.T) {
	p := buildProgram()
	n, errs := ResolveProgram(p)
	if n != 1 {
		t.Fatalf("expected 1 call resolved, got %d (errs=%v)", n, errs)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	var call *ir.CallExpr
	p.Walk(func(e ir.Expr) bool {
		if c, ok := e.(*ir.CallExpr); ok && !c.IsPrimitive() {
			call = c
		}
		return true
	})
	if call == nil {
		t.Fatal("expected to find the call site")
	}
	sym, ok := call.Base.(*ir.SymExpr)
	if !ok {
		t.Fatalf("expected Base resolved to a SymExpr, got %T", call.Base)
	}
	if sym.Sym.Name() != "foo" {
		t.Errorf("expected resolved callee foo, got %s", sym.Sym.Name())
	}
	if sym.ParentExpr() != ir.Expr(call) {
		t.Errorf("resolved Base's parentExpr was not fixed up to the call")
	}
}

func TestRunEmitsResolvedCallSite(t *testing.T) {
	p := buildProgram()
	res, err := Run(p, config.Default(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ResolvedCalls != 1 {
		t.Errorf("expected 1 resolved call, got %d", res.ResolvedCalls)
	}

	var programFile *string
	for _, f := range res.Output.Files {
		if f.Name == "_Program.c" {
			programFile = &f.Contents
		}
	}
	if programFile == nil {
		t.Fatal("expected _Program.c in emitted output")
	}
	if !strings.Contains(*programFile, "foo(5)") {
		t.Errorf("expected resolved call foo(5) in emitted source, got %s", *programFile)
	}
}

func TestRunReportsUnresolvedCall(t *testing.T) {
	pos := ir.Pos{File: "t.chpl", Line: 1, Column: 1}
	p := ir.NewProgram()
	body := ir.NewBlockStmt(pos, ir.BlockPlain)
	body.Append(ir.NewCallExpr(pos, ir.NewUnresolvedSymExpr(pos, "bar")))
	main := ir.NewFnSymbol("chpl_user_main")
	main.AddFlag(ir.FnFlagModuleInit)
	main.SetBody(body)
	p.Main.Block.Append(ir.NewDefExpr(pos, main, nil, nil))

	n, errs := ResolveProgram(p)
	if n != 0 {
		t.Errorf("expected no calls resolved, got %d", n)
	}
	if len(errs) != 1 {
		t.Fatalf("expected one unresolved-call error, got %v", errs)
	}
}
