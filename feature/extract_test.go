package feature

import (
	"math"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
)

func candidate(id string, signals map[string]float64, categories ...string) *core.ScoredCandidate {
	c := core.NewCandidate(id)
	for k, v := range signals {
		c.SetSignal(k, v)
	}
	c.Categories = categories
	return core.NewScoredCandidate(c)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestExtract_RangeNormalization(t *testing.T) {
	now := time.Now()
	cands := []*core.ScoredCandidate{
		candidate("a", map[string]float64{core.SignalPrice: 10, core.SignalRating: 5, core.SignalPopularity: 100}),
		candidate("b", map[string]float64{core.SignalPrice: 50, core.SignalRating: 3, core.SignalPopularity: 10}),
		candidate("c", map[string]float64{core.SignalPrice: 30, core.SignalRating: 4, core.SignalPopularity: 55}),
	}

	Extract(&core.RecommendContext{}, cands, now)

	// price is inverted before normalization: cheapest gets 1.0
	if !almostEqual(cands[0].Features.Price, 1.0) {
		t.Errorf("price(a) = %v, want 1.0", cands[0].Features.Price)
	}
	if !almostEqual(cands[1].Features.Price, 0.0) {
		t.Errorf("price(b) = %v, want 0.0", cands[1].Features.Price)
	}
	if !almostEqual(cands[2].Features.Price, 0.5) {
		t.Errorf("price(c) = %v, want 0.5", cands[2].Features.Price)
	}

	// rating / popularity: plain position-in-range
	if !almostEqual(cands[0].Features.Rating, 1.0) || !almostEqual(cands[1].Features.Rating, 0.0) {
		t.Errorf("rating = %v/%v, want 1.0/0.0", cands[0].Features.Rating, cands[1].Features.Rating)
	}
	if !almostEqual(cands[2].Features.Popularity, 0.5) {
		t.Errorf("popularity(c) = %v, want 0.5", cands[2].Features.Popularity)
	}

	for _, sc := range cands {
		fv := sc.Features
		for name, v := range map[string]float64{
			"price": fv.Price, "rating": fv.Rating, "popularity": fv.Popularity,
			"category": fv.Category, "custom": fv.Custom,
		} {
			if v < 0 || v > 1 {
				t.Errorf("%s(%s) = %v, out of [0,1]", name, sc.Candidate.ID, v)
			}
		}
	}
}

func TestExtract_SingletonIsNeutral(t *testing.T) {
	// zero-variance rule: a singleton candidate set normalizes to 0.5
	// on every range dimension, never to 0 or 1
	cands := []*core.ScoredCandidate{
		candidate("only", map[string]float64{core.SignalPrice: 42, core.SignalRating: 4.5, core.SignalPopularity: 7}),
	}

	Extract(&core.RecommendContext{}, cands, time.Now())

	fv := cands[0].Features
	if fv.Price != 0.5 || fv.Rating != 0.5 || fv.Popularity != 0.5 {
		t.Errorf("singleton features = %v/%v/%v, want 0.5 each", fv.Price, fv.Rating, fv.Popularity)
	}
	// no affinity targets either: category is neutral too
	if fv.Category != 0.5 {
		t.Errorf("category = %v, want neutral 0.5", fv.Category)
	}
}

func TestExtract_ZeroVarianceTies(t *testing.T) {
	// identical ratings across the set: everyone gets 0.5, ties are not
	// rewarded or punished
	cands := []*core.ScoredCandidate{
		candidate("a", map[string]float64{core.SignalRating: 4}),
		candidate("b", map[string]float64{core.SignalRating: 4}),
	}

	Extract(&core.RecommendContext{}, cands, time.Now())

	if cands[0].Features.Rating != 0.5 || cands[1].Features.Rating != 0.5 {
		t.Errorf("tied ratings = %v/%v, want 0.5/0.5", cands[0].Features.Rating, cands[1].Features.Rating)
	}
}

func TestExtract_MissingSignalIsWorstCase(t *testing.T) {
	cands := []*core.ScoredCandidate{
		candidate("a", map[string]float64{core.SignalRating: 5}),
		candidate("b", map[string]float64{core.SignalRating: 2}),
		candidate("c", map[string]float64{}), // rating missing
	}

	Extract(&core.RecommendContext{}, cands, time.Now())

	// missing is treated as the set minimum, not dropped
	if !almostEqual(cands[2].Features.Rating, 0.0) {
		t.Errorf("missing rating = %v, want 0.0", cands[2].Features.Rating)
	}
	if !almostEqual(cands[0].Features.Rating, 1.0) {
		t.Errorf("rating(a) = %v, want 1.0", cands[0].Features.Rating)
	}
}

func TestExtract_MissingPriceIsWorstCase(t *testing.T) {
	// for the inverted price dimension "worst" means most expensive
	cands := []*core.ScoredCandidate{
		candidate("cheap", map[string]float64{core.SignalPrice: 5}),
		candidate("mid", map[string]float64{core.SignalPrice: 20}),
		candidate("unknown", map[string]float64{}),
	}

	Extract(&core.RecommendContext{}, cands, time.Now())

	if !almostEqual(cands[2].Features.Price, 0.0) {
		t.Errorf("missing price = %v, want 0.0", cands[2].Features.Price)
	}
	if !almostEqual(cands[0].Features.Price, 1.0) {
		t.Errorf("cheapest price = %v, want 1.0", cands[0].Features.Price)
	}
}

func TestExtract_CategoryAffinity(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		targets    []string
		want       float64
	}{
		{"full match", []string{"a", "b"}, []string{"a", "b"}, 1.0},
		{"no match", []string{"x"}, []string{"a", "b"}, 0.0},
		{"partial match", []string{"a", "x"}, []string{"a", "b"}, 0.5},
		{"no targets is neutral", []string{"a"}, nil, 0.5},
		{"no candidate categories", nil, []string{"a"}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := []*core.ScoredCandidate{
				candidate("x", map[string]float64{}, tt.categories...),
			}
			rctx := &core.RecommendContext{TargetCategories: tt.targets}
			Extract(rctx, cands, time.Now())
			if got := cands[0].Features.Category; !almostEqual(got, tt.want) {
				t.Errorf("category = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtract_AgeAndCustom(t *testing.T) {
	now := time.Now()

	fresh := candidate("fresh", map[string]float64{core.SignalCustom: 0.8})
	fresh.Candidate.LastActiveAt = now.AddDate(0, 0, -30)
	stale := candidate("stale", map[string]float64{core.SignalCustom: 1.7}) // clamped
	// stale has zero LastActiveAt: age missing

	cands := []*core.ScoredCandidate{fresh, stale}
	Extract(&core.RecommendContext{}, cands, now)

	if !fresh.Features.HasAge {
		t.Fatal("fresh should have an age")
	}
	if math.Abs(fresh.Features.AgeDays-30) > 0.01 {
		t.Errorf("age = %v days, want ~30", fresh.Features.AgeDays)
	}
	if stale.Features.HasAge {
		t.Error("zero LastActiveAt should mean missing age")
	}

	if !almostEqual(fresh.Features.Custom, 0.8) {
		t.Errorf("custom = %v, want 0.8 passthrough", fresh.Features.Custom)
	}
	if !almostEqual(stale.Features.Custom, 1.0) {
		t.Errorf("custom = %v, want clamped to 1.0", stale.Features.Custom)
	}
}
