package lower

import (
	"testing"

	"github.com/pgasc/midc/internal/ir"
	"github.com/pgasc/midc/internal/primitive"
)

func classTypeSym(name string) *ir.TypeSymbol {
	cls := &ir.ClassLikeType{Kind: ir.KindClass, Name: name, Fields: []*ir.DefExpr{
		ir.NewDefExpr(ir.Pos{}, ir.NewVarSymbol("v", intTypeSym()), nil, nil),
	}}
	return ir.NewTypeSymbol(name, cls)
}

func TestBuildWideTypesFlagsSynthesizedType(t *testing.T) {
	node := classTypeSym("Node")
	ws := BuildWideTypes([]*ir.TypeSymbol{node})
	wt, ok := ws.Wide(node)
	if !ok {
		t.Fatalf("expected a wide type for Node")
	}
	if !wt.HasFlag(ir.FlagWideClass) {
		t.Errorf("expected the synthesized type flagged FlagWideClass")
	}
	if _, ok := wt.Type.(*ir.ClassLikeType); !ok {
		t.Errorf("expected the wide type to itself be class-like")
	}
}

func TestCandidateWideTypesFindsModuleScopeVar(t *testing.T) {
	p := ir.NewProgram()
	node := classTypeSym("Node")
	globalVar := ir.NewVarSymbol("gHead", node)
	p.Main.Block.Append(ir.NewDefExpr(ir.Pos{}, globalVar, nil, nil))

	cands := CandidateWideTypes(p)
	if len(cands) != 1 || cands[0] != node {
		t.Fatalf("expected Node picked up as a wide candidate, got %+v", cands)
	}
}

func TestRewriteWideAccessConvertsMemberPrimitives(t *testing.T) {
	p := ir.NewProgram()
	node := classTypeSym("Node")
	globalVar := ir.NewVarSymbol("gHead", node)
	p.Main.Block.Append(ir.NewDefExpr(ir.Pos{}, globalVar, nil, nil))

	fn := ir.NewFnSymbol("touch")
	body := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	local := ir.NewVarSymbol("n", node)
	body.Append(ir.NewDefExpr(ir.Pos{}, local, nil, nil))
	field := node.Type.(*ir.ClassLikeType).Fields[0].Sym
	getCall := ir.NewPrimitiveCall(ir.Pos{}, int(primitive.GetMemberValue), ir.NewSymExpr(ir.Pos{}, local), ir.NewSymExpr(ir.Pos{}, field))
	body.Append(getCall)
	setCall := ir.NewPrimitiveCall(ir.Pos{}, int(primitive.SetMember), ir.NewSymExpr(ir.Pos{}, local), ir.NewSymExpr(ir.Pos{}, field), ir.NewSymExpr(ir.Pos{}, field))
	body.Append(setCall)
	fn.SetBody(body)
	p.Main.Block.Append(ir.NewDefExpr(ir.Pos{}, fn, nil, nil))

	LowerWideProgram(p)

	if primitive.Tag(getCall.PrimitiveTag) != primitive.WideGet {
		t.Errorf("expected GetMemberValue rewritten to WideGet, got tag %d", getCall.PrimitiveTag)
	}
	if primitive.Tag(setCall.PrimitiveTag) != primitive.WidePut {
		t.Errorf("expected SetMember rewritten to WidePut, got tag %d", setCall.PrimitiveTag)
	}
}

func TestLocalBlockNarrowsAccessAndInsertsCheck(t *testing.T) {
	p := ir.NewProgram()
	node := classTypeSym("Node")
	globalVar := ir.NewVarSymbol("gHead", node)
	p.Main.Block.Append(ir.NewDefExpr(ir.Pos{}, globalVar, nil, nil))

	fn := ir.NewFnSymbol("touchLocal")
	body := ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain)
	local := ir.NewVarSymbol("n", node)
	body.Append(ir.NewDefExpr(ir.Pos{}, local, nil, nil))

	localBlock := ir.NewBlockStmt(ir.Pos{}, ir.BlockLocal)
	field := node.Type.(*ir.ClassLikeType).Fields[0].Sym
	getCall := ir.NewPrimitiveCall(ir.Pos{}, int(primitive.GetMemberValue), ir.NewSymExpr(ir.Pos{}, local), ir.NewSymExpr(ir.Pos{}, field))
	localBlock.Append(getCall)
	body.Append(localBlock)
	fn.SetBody(body)
	p.Main.Block.Append(ir.NewDefExpr(ir.Pos{}, fn, nil, nil))

	LowerWideProgram(p)

	if primitive.Tag(getCall.PrimitiveTag) != primitive.GetMemberValue {
		t.Errorf("expected the access inside a local block left narrow, got tag %d", getCall.PrimitiveTag)
	}
	first := localBlock.Body.Head()
	call, ok := first.(*ir.CallExpr)
	if !ok || primitive.Tag(call.PrimitiveTag) != primitive.LocalCheck {
		t.Fatalf("expected a LocalCheck inserted at the head of the local block, got %+v", first)
	}
}
