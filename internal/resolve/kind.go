// Package resolve implements candidate selection and disambiguation
// (spec §4.4, component C5): computing the actual-formal alignment
// for a prospective callee, the dispatch test that decides whether an
// actual can be passed to a formal (by identity, ref-relaxation,
// subtype, coercion, or promotion), and the six-criterion ranking that
// picks the most specific candidate when more than one matches.
package resolve

import (
	"strconv"
	"strings"

	"github.com/pgasc/midc/internal/ir"
)

// kind classifies a PrimitiveType's name the way the original
// compiler's is_int_type/is_uint_type/is_real_type family does,
// parsed off names of the form "int(64)", "uint(8)", "real(32)",
// "imag(64)", "complex(128)", "bool", "string".
type kind uint8

const (
	kindOther kind = iota
	kindBool
	kindInt
	kindUint
	kindReal
	kindImag
	kindComplex
)

func classify(t ir.Type) (kind, int) {
	pt, ok := t.(*ir.PrimitiveType)
	if !ok {
		return kindOther, 0
	}
	name := pt.Name
	switch {
	case name == "bool":
		return kindBool, 1
	case strings.HasPrefix(name, "int("):
		return kindInt, parseWidth(name)
	case strings.HasPrefix(name, "uint("):
		return kindUint, parseWidth(name)
	case strings.HasPrefix(name, "real("):
		return kindReal, parseWidth(name)
	case strings.HasPrefix(name, "imag("):
		return kindImag, parseWidth(name)
	case strings.HasPrefix(name, "complex("):
		return kindComplex, parseWidth(name)
	default:
		return kindOther, 0
	}
}

func parseWidth(name string) int {
	open, close := strings.IndexByte(name, '('), strings.IndexByte(name, ')')
	if open < 0 || close < 0 || close < open {
		return 0
	}
	w, err := strconv.Atoi(name[open+1 : close])
	if err != nil {
		return 0
	}
	return w
}

func isBoolType(t ir.Type) bool    { k, _ := classify(t); return k == kindBool }
func isIntType(t ir.Type) bool     { k, _ := classify(t); return k == kindInt }
func isUintType(t ir.Type) bool    { k, _ := classify(t); return k == kindUint }
func isRealType(t ir.Type) bool    { k, _ := classify(t); return k == kindReal }
func isImagType(t ir.Type) bool    { k, _ := classify(t); return k == kindImag }
func isComplexType(t ir.Type) bool { k, _ := classify(t); return k == kindComplex }

func width(t ir.Type) int { _, w := classify(t); return w }

func isClassLike(t ir.Type) bool {
	cl, ok := t.(*ir.ClassLikeType)
	return ok && cl.Kind == ir.KindClass
}

// immediateOf reports the Immediate attached to actualSym if it is a
// VarSymbol carrying a folded compile-time constant, used by
// canParamCoerce's narrowing-fits-in-width checks.
func immediateOf(actualSym ir.Symbol) (ir.Immediate, bool) {
	v, ok := actualSym.(*ir.VarSymbol)
	if !ok || !v.Immediate.Valid {
		return ir.Immediate{}, false
	}
	return v.Immediate, true
}

func fitsInInt(targetWidth int, imm ir.Immediate) bool {
	if imm.Kind != ir.ImmInt {
		return false
	}
	if targetWidth >= 64 {
		return true
	}
	lo, hi := int64(-1)<<(uint(targetWidth)-1), int64(1)<<(uint(targetWidth)-1)-1
	return imm.Int >= lo && imm.Int <= hi
}

func fitsInUint(targetWidth int, imm ir.Immediate) bool {
	if imm.Kind != ir.ImmInt || imm.Int < 0 {
		return false
	}
	if targetWidth >= 64 {
		return true
	}
	hi := int64(1)<<uint(targetWidth) - 1
	return imm.Int <= hi
}
