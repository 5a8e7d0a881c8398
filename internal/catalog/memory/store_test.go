package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosmocore/internal/catalog"
)

func TestPutArtifactAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if _, err := store.Artifact(ctx, "absent"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.PutArtifact(ctx, catalog.ArtifactRecord{}); err == nil {
		t.Fatalf("expected error for missing key")
	}

	rec := catalog.ArtifactRecord{Key: "emu/linear-pk/v1", Model: "linear-pk", Version: "v1", Size: 42, Checksum: "abc"}
	if err := store.PutArtifact(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Artifact(ctx, rec.Key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Model != "linear-pk" || got.Size != 42 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt stamped")
	}

	// Upsert replaces by key.
	rec.Size = 84
	if err := store.PutArtifact(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ = store.Artifact(ctx, rec.Key)
	if got.Size != 84 {
		t.Fatalf("expected upsert to replace, got size %d", got.Size)
	}
}

func TestListArtifactsFiltersAndSorts(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for _, rec := range []catalog.ArtifactRecord{
		{Key: "b", Model: "linear-pk"},
		{Key: "a", Model: "linear-pk"},
		{Key: "c", Model: "halofit"},
	} {
		if err := store.PutArtifact(ctx, rec); err != nil {
			t.Fatalf("put %s: %v", rec.Key, err)
		}
	}

	all, err := store.ListArtifacts(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: %v %d", err, len(all))
	}
	if all[0].Key != "a" || all[1].Key != "b" || all[2].Key != "c" {
		t.Fatalf("expected sorted keys, got %+v", all)
	}

	linear, err := store.ListArtifacts(ctx, "linear-pk")
	if err != nil || len(linear) != 2 {
		t.Fatalf("list filtered: %v %d", err, len(linear))
	}
}

func TestRecordLoadOrderAndFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return stamp })

	if err := store.RecordLoad(ctx, catalog.LoadRecord{}); err == nil {
		t.Fatalf("expected error for missing model name")
	}
	for _, rec := range []catalog.LoadRecord{
		{Model: "linear-pk", ConfigHash: "h1"},
		{Model: "halofit", ConfigHash: "h2"},
		{Model: "linear-pk", ConfigHash: "h3", CacheHit: true},
	} {
		if err := store.RecordLoad(ctx, rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	loads, err := store.Loads(ctx, "linear-pk")
	if err != nil || len(loads) != 2 {
		t.Fatalf("loads: %v %d", err, len(loads))
	}
	if loads[0].ConfigHash != "h1" || loads[1].ConfigHash != "h3" {
		t.Fatalf("expected insertion order, got %+v", loads)
	}
	if !loads[0].At.Equal(stamp) {
		t.Fatalf("expected stamped time, got %v", loads[0].At)
	}
	if all, _ := store.Loads(ctx, ""); len(all) != 3 {
		t.Fatalf("expected 3 total loads, got %d", len(all))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if err := store.PutArtifact(ctx, catalog.ArtifactRecord{Key: "k", Model: "m"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.RecordLoad(ctx, catalog.LoadRecord{Model: "m"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	snap := store.ExportState()
	if len(snap.Artifacts) != 1 || len(snap.Loads) != 1 {
		t.Fatalf("snapshot: %+v", snap)
	}

	other := NewStore()
	other.ImportState(snap)
	if _, err := other.Artifact(ctx, "k"); err != nil {
		t.Fatalf("hydrated artifact: %v", err)
	}
	loads, _ := other.Loads(ctx, "m")
	if len(loads) != 1 {
		t.Fatalf("hydrated loads: %d", len(loads))
	}

	// The snapshot is a clone; mutating it must not touch the source store.
	snap.Artifacts[0].Size = 999
	got, _ := store.Artifact(ctx, "k")
	if got.Size == 999 {
		t.Fatalf("snapshot mutation leaked into store")
	}
}
