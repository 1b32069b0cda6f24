package resolve

import (
	"testing"

	"github.com/pgasc/midc/internal/ir"
)

func TestCanInstantiateFamilies(t *testing.T) {
	tests := []struct {
		name   string
		actual ir.Type
		formal ir.Type
		want   bool
	}{
		{"any accepts int", primType("int(64)"), primType(FamilyAny), true},
		{"integral accepts uint", primType("uint(32)"), primType(FamilyIntegral), true},
		{"integral rejects real", primType("real(64)"), primType(FamilyIntegral), false},
		{"numeric accepts complex", primType("complex(128)"), primType(FamilyNumeric), true},
		{"exact match", primType("bool"), primType("bool"), true},
		{"no match", primType("bool"), primType("string"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanInstantiate(tt.actual, tt.formal); got != tt.want {
				t.Errorf("CanInstantiate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstantiationCacheMemoizes(t *testing.T) {
	generic := ir.NewFnSymbol("identity")
	formal := ir.NewArgSymbol("x", ir.NewTypeSymbol("any", primType(FamilyAny)), ir.IntentType)
	generic.Formals = []*ir.ArgSymbol{formal}
	generic.AddFlag(ir.FnFlagGeneric)
	generic.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))

	intType := ir.NewTypeSymbol("int", primType("int(64)"))
	subs := []Substitution{{Formal: formal, Value: intType}}

	cache := NewInstantiationCache()
	inst1 := Instantiate(cache, generic, subs, nil)
	inst2 := Instantiate(cache, generic, subs, nil)

	if inst1 != inst2 {
		t.Fatalf("identical substitutions should reuse the same instantiation")
	}
	if inst1.InstantiationOf != generic {
		t.Errorf("InstantiationOf = %v, want generic", inst1.InstantiationOf)
	}
	if inst1.HasFlag(ir.FnFlagGeneric) {
		t.Errorf("an instantiation should not still carry FnFlagGeneric")
	}
}

func TestInstantiationCacheDistinguishesSubstitutions(t *testing.T) {
	generic := ir.NewFnSymbol("identity")
	formal := ir.NewArgSymbol("x", ir.NewTypeSymbol("any", primType(FamilyAny)), ir.IntentType)
	generic.Formals = []*ir.ArgSymbol{formal}
	generic.SetBody(ir.NewBlockStmt(ir.Pos{}, ir.BlockPlain))

	intType := ir.NewTypeSymbol("int", primType("int(64)"))
	realType := ir.NewTypeSymbol("real", primType("real(64)"))

	cache := NewInstantiationCache()
	instInt := Instantiate(cache, generic, []Substitution{{Formal: formal, Value: intType}}, nil)
	instReal := Instantiate(cache, generic, []Substitution{{Formal: formal, Value: realType}}, nil)

	if instInt == instReal {
		t.Fatalf("different substitutions must yield distinct instantiations")
	}
}
