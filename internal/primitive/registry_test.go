package primitive

import (
	"testing"

	"github.com/pgasc/midc/internal/ir"
)

func TestLookupKnownTags(t *testing.T) {
	tests := []struct {
		tag        Tag
		wantName   string
		essential  bool
		passLineno bool
		atomicSafe bool
	}{
		{Move, "move", true, false, true},
		{Add, "+", false, false, true},
		{Div, "/", true, false, true},
		{SetMember, ".=", true, true, true},
		{LocalCheck, "CHPL_LOCAL_CHECK", true, true, false},
		{ChplAlloc, "chpl_alloc", true, true, false},
		{TxBegin, "tx_begin", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			e, ok := Lookup(tt.tag)
			if !ok {
				t.Fatalf("Lookup(%d): not found", tt.tag)
			}
			if e.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", e.Name, tt.wantName)
			}
			if e.Essential != tt.essential {
				t.Errorf("Essential = %v, want %v", e.Essential, tt.essential)
			}
			if e.PassLineno != tt.passLineno {
				t.Errorf("PassLineno = %v, want %v", e.PassLineno, tt.passLineno)
			}
			if e.AtomicSafe != tt.atomicSafe {
				t.Errorf("AtomicSafe = %v, want %v", e.AtomicSafe, tt.atomicSafe)
			}
		})
	}
}

func TestLookupUnknownTag(t *testing.T) {
	if _, ok := Lookup(Tag(99999)); ok {
		t.Fatalf("Lookup of an unregistered tag should fail")
	}
}

func TestLookupNameRoundTrips(t *testing.T) {
	for _, tag := range []Tag{Add, Subtract, Mult, GetMember, WideGet, SyncLock} {
		e, ok := Lookup(tag)
		if !ok {
			t.Fatalf("Lookup(%d) failed", tag)
		}
		got, ok := LookupName(e.Name)
		if !ok {
			t.Fatalf("LookupName(%q) failed", e.Name)
		}
		if got != tag {
			t.Errorf("LookupName(%q) = %d, want %d", e.Name, got, tag)
		}
	}
}

func TestReturnTypeFirstActual(t *testing.T) {
	intType := ir.NewTypeSymbol("int", &ir.PrimitiveType{Name: "int"})
	x := ir.NewVarSymbol("x", intType)
	ref := ir.NewSymExpr(ir.Pos{}, x)
	call := ir.NewCallExpr(ir.Pos{}, nil, ref)

	got, err := ReturnType(Add, call)
	if err != nil {
		t.Fatalf("ReturnType: %v", err)
	}
	if got == nil || got.TypeName() != "int" {
		t.Errorf("ReturnType(Add) = %v, want int", got)
	}
}

func TestReturnTypeBoolFixed(t *testing.T) {
	call := ir.NewPrimitiveCall(ir.Pos{}, int(Equal))
	got, err := ReturnType(Equal, call)
	if err != nil {
		t.Fatalf("ReturnType: %v", err)
	}
	if got.TypeName() != "bool" {
		t.Errorf("ReturnType(Equal) = %v, want bool", got)
	}
}

func TestReturnTypeUnknownTagErrors(t *testing.T) {
	call := ir.NewPrimitiveCall(ir.Pos{}, 0)
	if _, err := ReturnType(Tag(99999), call); err == nil {
		t.Fatalf("expected an error for an unregistered tag")
	}
}
