package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/shoprec/core"
)

// appendNode tags every candidate passing through, to observe ordering.
type appendNode struct {
	name string
	kind Kind
	err  error
}

func (n *appendNode) Name() string { return n.name }
func (n *appendNode) Kind() Kind   { return n.kind }

func (n *appendNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	_ *core.RecommendationConfig,
	cands []*core.ScoredCandidate,
) ([]*core.ScoredCandidate, error) {
	if n.err != nil {
		return nil, n.err
	}
	for _, sc := range cands {
		sc.Candidate.ID += ":" + n.name
	}
	return cands, nil
}

func TestPipelineRun_Order(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "extract", kind: KindExtract},
		&appendNode{name: "score", kind: KindScore},
		&appendNode{name: "rank", kind: KindRank},
	}}

	in := []*core.ScoredCandidate{core.NewScoredCandidate(core.NewCandidate("p"))}
	out, err := p.Run(context.Background(), nil, nil, in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 1 || out[0].Candidate.ID != "p:extract:score:rank" {
		t.Errorf("nodes ran out of order: %v", out[0].Candidate.ID)
	}
}

func TestPipelineRun_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	last := &appendNode{name: "rank", kind: KindRank}
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "extract", kind: KindExtract},
		&appendNode{name: "score", kind: KindScore, err: boom},
		last,
	}}

	in := []*core.ScoredCandidate{core.NewScoredCandidate(core.NewCandidate("p"))}
	out, err := p.Run(context.Background(), nil, nil, in)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	if out != nil {
		t.Errorf("Run() returned %v alongside an error", out)
	}
	if in[0].Candidate.ID != "p:extract" {
		t.Errorf("candidate = %q, the failing node must stop the chain", in[0].Candidate.ID)
	}
}

func TestPipelineRun_Empty(t *testing.T) {
	p := &Pipeline{}
	in := []*core.ScoredCandidate{core.NewScoredCandidate(core.NewCandidate("p"))}
	out, err := p.Run(context.Background(), nil, nil, in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 1 {
		t.Errorf("an empty pipeline must pass candidates through, got %v", out)
	}
}
