package resolve

import (
	"testing"

	"github.com/pgasc/midc/internal/ir"
)

func TestDisambiguatePrefersExactTypeOverCoercion(t *testing.T) {
	exact := makeFn("f", ir.NewArgSymbol("a", ir.NewTypeSymbol("int64", primType("int(64)")), ir.IntentBlank))
	widened := makeFn("f", ir.NewArgSymbol("a", ir.NewTypeSymbol("real64", primType("real(64)")), ir.IntentBlank))

	actuals := []CallActual{{Type: primType("int(64)")}}
	c1, ok1 := AddCandidate(exact, actuals)
	c2, ok2 := AddCandidate(widened, actuals)
	if !ok1 || !ok2 {
		t.Fatalf("expected both overloads to be viable candidates")
	}

	winner, ok := Disambiguate([]Candidate{c1, c2}, actuals, nil)
	if !ok {
		t.Fatalf("expected a single winner")
	}
	if winner.Aligned.Fn != exact {
		t.Fatalf("expected the exact-type overload to win over the coercing one")
	}
}

func TestDisambiguatePrefersNonPromotingMatch(t *testing.T) {
	elem := ir.NewTypeSymbol("int", primType("int(64)"))
	arrType := ir.NewTypeSymbol("arr", &ir.ClassLikeType{Kind: ir.KindRecord, Name: "arr", ScalarPromotionType: elem})

	direct := makeFn("f", ir.NewArgSymbol("a", elem, ir.IntentBlank))
	promoting := makeFn("f", ir.NewArgSymbol("a", arrType, ir.IntentBlank))

	actuals := []CallActual{{Type: primType("int(64)")}}
	c1, ok1 := AddCandidate(direct, actuals)
	c2, ok2 := AddCandidate(promoting, actuals)
	if !ok1 {
		t.Fatalf("direct candidate should be viable")
	}
	_ = ok2

	cands := []Candidate{c1}
	if ok2 {
		cands = append(cands, c2)
	}
	winner, ok := Disambiguate(cands, actuals, nil)
	if !ok || winner.Aligned.Fn != direct {
		t.Fatalf("expected the direct (non-promoting) overload to win")
	}
}

func TestDisambiguateNoCandidatesReturnsFalse(t *testing.T) {
	if _, ok := Disambiguate(nil, nil, nil); ok {
		t.Fatalf("expected Disambiguate to report no winner for an empty candidate set")
	}
}

func TestDisambiguateSingleCandidateWins(t *testing.T) {
	fn := makeFn("f", intArg("a"))
	actuals := []CallActual{{Type: primType("int(64)")}}
	c, ok := AddCandidate(fn, actuals)
	if !ok {
		t.Fatalf("expected candidate to be viable")
	}
	winner, ok := Disambiguate([]Candidate{c}, actuals, nil)
	if !ok || winner.Aligned.Fn != fn {
		t.Fatalf("a lone candidate should always win")
	}
}
