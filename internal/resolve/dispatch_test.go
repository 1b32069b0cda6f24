package resolve

import (
	"testing"

	"github.com/pgasc/midc/internal/ir"
)

func primType(name string) ir.Type { return &ir.PrimitiveType{Name: name} }

func TestCanParamCoerceIntWidening(t *testing.T) {
	tests := []struct {
		name   string
		actual ir.Type
		formal ir.Type
		want   bool
	}{
		{"int8 to int64", primType("int(8)"), primType("int(64)"), true},
		{"int64 to int8", primType("int(64)"), primType("int(8)"), false},
		{"bool to int32", primType("bool"), primType("int(32)"), true},
		{"uint8 to int16", primType("uint(8)"), primType("int(16)"), true},
		{"bool to bool", primType("bool"), primType("bool"), true},
		{"string to int", primType("string"), primType("int(64)"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanParamCoerce(tt.actual, nil, tt.formal)
			if got != tt.want {
				t.Errorf("CanParamCoerce(%v, %v) = %v, want %v", tt.actual, tt.formal, got, tt.want)
			}
		})
	}
}

func TestCanParamCoerceImmediateNarrowing(t *testing.T) {
	x := ir.NewVarSymbol("x", nil)
	x.Immediate = ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: 10}

	if !CanParamCoerce(primType("int(64)"), x, primType("int(8)")) {
		t.Errorf("an in-range immediate should param-coerce to a narrower int")
	}

	big := ir.NewVarSymbol("big", nil)
	big.Immediate = ir.Immediate{Valid: true, Kind: ir.ImmInt, Int: 1000}
	if CanParamCoerce(primType("int(64)"), big, primType("int(8)")) {
		t.Errorf("an out-of-range immediate should not param-coerce to int(8)")
	}
}

func TestCanCoerceRealWidening(t *testing.T) {
	if ok, _ := CanCoerce(primType("int(64)"), nil, primType("real(64)"), nil); !ok {
		t.Errorf("int(64) should coerce to real(64)")
	}
	if ok, _ := CanCoerce(primType("real(32)"), nil, primType("real(64)"), nil); !ok {
		t.Errorf("real(32) should coerce to real(64)")
	}
	if ok, _ := CanCoerce(primType("real(64)"), nil, primType("real(32)"), nil); ok {
		t.Errorf("real(64) should not coerce to real(32) (narrowing)")
	}
}

func TestCanDispatchIdentity(t *testing.T) {
	intType := primType("int(64)")
	if ok, promotes := CanDispatch(intType, nil, intType, nil, false); !ok || promotes {
		t.Errorf("identical types should dispatch without promotion")
	}
}

func TestCanDispatchNilToClass(t *testing.T) {
	cls := &ir.ClassLikeType{Kind: ir.KindClass, Name: "C"}
	if ok, _ := CanDispatch(nil, nil, cls, nil, false); !ok {
		t.Errorf("nil should dispatch to any class type")
	}
}

func TestCanDispatchScalarPromotion(t *testing.T) {
	elem := ir.NewTypeSymbol("int", primType("int(64)"))
	arr := &ir.ClassLikeType{Kind: ir.KindRecord, Name: "arr", ScalarPromotionType: elem}
	fn := ir.NewFnSymbol("foo")

	ok, promotes := CanDispatch(arr, nil, primType("int(64)"), fn, false)
	if !ok || !promotes {
		t.Errorf("array-of-int should dispatch to int via promotion, got ok=%v promotes=%v", ok, promotes)
	}

	eqFn := ir.NewFnSymbol("=")
	if ok, _ := CanDispatch(arr, nil, primType("int(64)"), eqFn, false); ok {
		t.Errorf("'=' must never use scalar promotion to dispatch")
	}
}

func TestCanDispatchDispatchParentChain(t *testing.T) {
	parentSym := ir.NewTypeSymbol("Parent", &ir.ClassLikeType{Kind: ir.KindClass, Name: "Parent"})
	child := &ir.ClassLikeType{Kind: ir.KindClass, Name: "Child"}
	child.AddDispatchParent(parentSym)

	if ok, _ := CanDispatch(child, nil, parentSym.Type, nil, false); !ok {
		t.Errorf("a class should dispatch to its dispatch-parent type")
	}
}
