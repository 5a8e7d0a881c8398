package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"cosmocore/internal/modelstore/core"
)

func TestStore_PutGetHeadDeleteList(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()

	if store.Driver() != core.DriverS3 {
		t.Fatalf("driver: %s", store.Driver())
	}

	art, err := store.Put(ctx, "emu/linear-pk/v1", bytes.NewReader([]byte("weights")),
		core.PutOptions{ContentType: "application/octet-stream"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if art.Size != 7 || art.Checksum == "" {
		t.Fatalf("artifact: %+v", art)
	}
	if _, err := store.Put(ctx, "emu/linear-pk/v1", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrAlreadyExists) {
		t.Fatalf("duplicate put: %v", err)
	}

	got, rc, err := store.Get(ctx, "emu/linear-pk/v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "weights" || got.ContentType != "application/octet-stream" {
		t.Fatalf("round trip: %q %+v", data, got)
	}

	list, err := store.List(ctx, "emu/")
	if err != nil || len(list) != 1 || list[0].Key != "emu/linear-pk/v1" {
		t.Fatalf("list: %v %+v", err, list)
	}

	if ok, err := store.Delete(ctx, "emu/linear-pk/v1"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "emu/linear-pk/v1"); err != nil || ok {
		t.Fatalf("delete absent: %v %v", ok, err)
	}
}

func TestStore_NotFoundMapping(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("head: %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
	t.Setenv("COSMOCORE_MODEL_S3_BUCKET", "")
	if _, err := OpenFromEnv(context.Background()); err == nil {
		t.Fatalf("expected env error")
	}
}
