package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) error = %v, want store not found", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get() = %q, want v", got)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after Delete error = %v, want store not found", err)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "short", []byte("v"), 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := ms.Get(ctx, "short"); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := ms.Get(ctx, "short"); !core.IsStoreNotFound(err) {
		t.Errorf("Get() after expiry error = %v, want store not found", err)
	}
}

func TestMemoryStore_CloseTwice(t *testing.T) {
	ms := NewMemoryStore()
	if err := ms.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := ms.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestMemoryStore_Batch(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	kvs := map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}
	if err := ms.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}

	got, err := ms.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("BatchGet() returned %d entries, want 2 (missing keys skipped)", len(got))
	}
	if string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet() = %v", got)
	}
}

func TestMemoryStore_ZSet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	for member, score := range map[string]float64{
		"p1": 10,
		"p2": 99,
		"p3": 50,
		"p4": 50,
	} {
		if err := ms.ZAdd(ctx, "pop", score, member); err != nil {
			t.Fatalf("ZAdd(%s) error = %v", member, err)
		}
	}

	// Descending by score, member ascending on ties.
	got, err := ms.ZRange(ctx, "pop", 0, -1)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	want := []string{"p2", "p3", "p4", "p1"}
	if len(got) != len(want) {
		t.Fatalf("ZRange() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ZRange() = %v, want %v", got, want)
		}
	}

	top, err := ms.ZRange(ctx, "pop", 0, 1)
	if err != nil {
		t.Fatalf("ZRange(0,1) error = %v", err)
	}
	if len(top) != 2 || top[0] != "p2" || top[1] != "p3" {
		t.Errorf("ZRange(0,1) = %v, want [p2 p3]", top)
	}

	score, err := ms.ZScore(ctx, "pop", "p3")
	if err != nil {
		t.Fatalf("ZScore() error = %v", err)
	}
	if score != 50 {
		t.Errorf("ZScore(p3) = %v, want 50", score)
	}
	if _, err := ms.ZScore(ctx, "pop", "nope"); !core.IsStoreNotFound(err) {
		t.Errorf("ZScore(nope) error = %v, want store not found", err)
	}
}

func TestMemoryStore_Hash(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.HSet(ctx, "doc:p1", "name", []byte("Widget")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}
	if err := ms.HSet(ctx, "doc:p1", "price", []byte("19.9")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}

	v, err := ms.HGet(ctx, "doc:p1", "name")
	if err != nil {
		t.Fatalf("HGet() error = %v", err)
	}
	if string(v) != "Widget" {
		t.Errorf("HGet(name) = %q, want Widget", v)
	}
	if _, err := ms.HGet(ctx, "doc:p1", "absent"); !core.IsStoreNotFound(err) {
		t.Errorf("HGet(absent field) error = %v, want store not found", err)
	}

	all, err := ms.HGetAll(ctx, "doc:p1")
	if err != nil {
		t.Fatalf("HGetAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("HGetAll() returned %d fields, want 2", len(all))
	}
}
