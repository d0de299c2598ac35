package gen

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
)

type erroringGenerator struct{ calls int }

func (g *erroringGenerator) Generate(context.Context, Snapshot, int) (ChangeSet, error) {
	g.calls++
	return ChangeSet{}, errors.New("model unavailable")
}

type cannedGenerator struct{ cs ChangeSet }

func (g cannedGenerator) Generate(context.Context, Snapshot, int) (ChangeSet, error) {
	return g.cs, nil
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestFailoverUsesRemoteWhenHealthy(t *testing.T) {
	want := ChangeSet{SoilMoisture: 42, Insights: []string{"remote"}}
	f := NewFailover(cannedGenerator{cs: want}, NewFallback(testRNG(10)), quietLogger())

	cs, err := f.Generate(context.Background(), baseSnapshot(), 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if cs.SoilMoisture != 42 || len(cs.Insights) != 1 || cs.Insights[0] != "remote" {
		t.Fatalf("got %+v, want remote change set", cs)
	}
}

func TestFailoverFallsBackOnRemoteError(t *testing.T) {
	remote := &erroringGenerator{}
	f := NewFailover(remote, NewFallback(testRNG(11)), quietLogger())

	cs, err := f.Generate(context.Background(), baseSnapshot(), 1)
	if err != nil {
		t.Fatalf("failover must never error, got %v", err)
	}
	if remote.calls != 1 {
		t.Fatalf("remote calls=%d want 1", remote.calls)
	}
	if len(cs.CropChanges) != 1 {
		t.Fatalf("fallback change set missing crop changes: %+v", cs)
	}
}

func TestFailoverNilRemoteGoesStraightToFallback(t *testing.T) {
	f := NewFailover(nil, NewFallback(testRNG(12)), quietLogger())

	cs, err := f.Generate(context.Background(), baseSnapshot(), 3)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(cs.CropChanges) != 1 {
		t.Fatalf("fallback change set missing crop changes: %+v", cs)
	}
}
