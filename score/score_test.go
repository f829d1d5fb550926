package score

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func cfgWith(w core.Weights, decay float64) *core.RecommendationConfig {
	return &core.RecommendationConfig{
		Code:        "test",
		Algorithm:   core.AlgorithmHybrid,
		MaxResults:  10,
		DecayFactor: decay,
		Weights:     w,
		Active:      true,
	}
}

func TestScore_WeightedSum(t *testing.T) {
	fv := core.FeatureVector{
		Price:      1.0,
		Rating:     0.5,
		Popularity: 0.0,
		Category:   1.0,
		Custom:     0.2,
		AgeDays:    0,
		HasAge:     true,
	}
	cfg := cfgWith(core.Weights{
		Price: 0.2, Rating: 0.2, Popularity: 0.2, Recency: 0.2, Category: 0.1, Custom: 0.1,
	}, 0.95)

	got, recency := Score(fv, cfg)
	// recency at age 0 is exactly 1.0
	if recency != 1.0 {
		t.Errorf("recency = %v, want 1.0", recency)
	}
	want := (0.2*1.0 + 0.2*0.5 + 0.2*0.0 + 0.2*1.0 + 0.1*1.0 + 0.1*0.2) / 1.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestScore_ExponentialDecay(t *testing.T) {
	cfg := cfgWith(core.Weights{Recency: 1}, 0.95)

	tests := []struct {
		age  float64
		want float64
	}{
		{0, 1.0},
		{1, 0.95},
		{30, math.Pow(0.95, 30)},
	}
	for _, tt := range tests {
		fv := core.FeatureVector{AgeDays: tt.age, HasAge: true}
		got, _ := Score(fv, cfg)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("score(age=%v) = %v, want %v", tt.age, got, tt.want)
		}
	}

	// missing age is worst case: recency sub-score 0
	got, _ := Score(core.FeatureVector{}, cfg)
	if got != 0 {
		t.Errorf("score(no age) = %v, want 0", got)
	}
}

func TestScore_ZeroWeightsFallback(t *testing.T) {
	// documented fallback: zero weight total degrades to score 0,
	// never divides by zero
	fv := core.FeatureVector{Price: 1, Rating: 1, Popularity: 1, Category: 1, Custom: 1, HasAge: true}
	got, _ := Score(fv, cfgWith(core.Weights{}, 0.95))
	if got != 0 {
		t.Errorf("score = %v, want 0", got)
	}
}

func TestScore_AlwaysInUnitInterval(t *testing.T) {
	cfgs := []*core.RecommendationConfig{
		cfgWith(core.Weights{Price: 0.3, Rating: 0.3, Popularity: 0.2, Recency: 0.2}, 0.95),
		cfgWith(core.Weights{Popularity: 3, Custom: 1}, 0.5),
		cfgWith(core.Weights{Category: 0.01}, 1.0),
	}
	vectors := []core.FeatureVector{
		{},
		{Price: 1, Rating: 1, Popularity: 1, Category: 1, Custom: 1, AgeDays: 0, HasAge: true},
		{Price: 0.3, Rating: 0.7, Popularity: 0.1, Category: 0.5, Custom: 0.9, AgeDays: 365, HasAge: true},
	}
	for _, cfg := range cfgs {
		for _, fv := range vectors {
			got, _ := Score(fv, cfg)
			if got < 0 || got > 1 {
				t.Errorf("score = %v out of [0,1] for weights %+v", got, cfg.Weights)
			}
		}
	}
}

func TestScoreNode_ParallelMatchesSerial(t *testing.T) {
	cfg := cfgWith(core.Weights{Price: 0.5, Rating: 0.5}, 0.95)

	build := func() []*core.ScoredCandidate {
		out := make([]*core.ScoredCandidate, 0, 50)
		for i := 0; i < 50; i++ {
			c := core.NewCandidate(string(rune('a' + i%26)))
			sc := core.NewScoredCandidate(c)
			sc.Features = core.FeatureVector{
				Price:  float64(i%10) / 10,
				Rating: float64(i%7) / 7,
			}
			out = append(out, sc)
		}
		return out
	}

	serial := build()
	if _, err := (&ScoreNode{}).Process(context.Background(), nil, cfg, serial); err != nil {
		t.Fatalf("serial Process() error = %v", err)
	}
	parallel := build()
	if _, err := (&ScoreNode{MaxConcurrent: 8}).Process(context.Background(), nil, cfg, parallel); err != nil {
		t.Fatalf("parallel Process() error = %v", err)
	}

	for i := range serial {
		if serial[i].Score != parallel[i].Score {
			t.Fatalf("candidate %d: serial %v != parallel %v", i, serial[i].Score, parallel[i].Score)
		}
	}
}
