package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"cosmocore/internal/modelstore/core"
)

func TestStore_MissingArtifacts(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("head: %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
}

func TestStore_PutGetListDelete(t *testing.T) {
	store := New()
	ctx := context.Background()
	art, err := store.Put(ctx, "emu/linear-pk/v1", bytes.NewReader([]byte("weights")),
		core.PutOptions{ContentType: "application/octet-stream", Metadata: map[string]string{"bounds": "{}"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if art.Size != 7 || art.Checksum == "" {
		t.Fatalf("artifact metadata: %+v", art)
	}
	if _, err := store.Put(ctx, "emu/linear-pk/v1", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrAlreadyExists) {
		t.Fatalf("duplicate put: %v", err)
	}

	got, rc, err := store.Get(ctx, "emu/linear-pk/v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil || string(data) != "weights" {
		t.Fatalf("payload: %q %v", data, err)
	}
	if got.Checksum != art.Checksum || got.Metadata["bounds"] != "{}" {
		t.Fatalf("round trip: %+v", got)
	}

	if list, err := store.List(ctx, "emu/"); err != nil || len(list) != 1 {
		t.Fatalf("list prefix: %v %d", err, len(list))
	}
	if list, err := store.List(ctx, "other/"); err != nil || len(list) != 0 {
		t.Fatalf("list other prefix: %v %d", err, len(list))
	}
	if ok, err := store.Delete(ctx, "emu/linear-pk/v1"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStore_PutReadErrorAndDriver(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
}
