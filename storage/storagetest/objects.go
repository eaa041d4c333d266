package storagetest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jmgilman/go/s3fs/storage"
)

// TestObjects tests single-object reads, writes and copies.
func TestObjects(t *testing.T, client storage.Client, config Config) {
	ctx := context.Background()
	makeBucket(t, client, "objects")
	put(t, client, "objects", "file.txt", "hello world")

	run(t, config, "Objects", "StatObject", func(t *testing.T) {
		info, err := client.StatObject(ctx, "objects", "file.txt")
		if err != nil {
			t.Fatalf("StatObject(file.txt): got error %v, want nil", err)
		}
		if info.Key != "file.txt" {
			t.Errorf("StatObject(file.txt).Key: got %q, want %q", info.Key, "file.txt")
		}
		if info.Size != 11 {
			t.Errorf("StatObject(file.txt).Size: got %d, want 11", info.Size)
		}
		if info.LastModified.IsZero() {
			t.Errorf("StatObject(file.txt).LastModified: got zero time")
		}
	})

	run(t, config, "Objects", "StatMissing", func(t *testing.T) {
		if _, err := client.StatObject(ctx, "objects", "missing"); !storage.IsNotFound(err) {
			t.Errorf("StatObject(missing): got error %v, want 404", err)
		}
		if _, err := client.StatObject(ctx, "no-such-bucket", "file.txt"); !storage.IsNotFound(err) {
			t.Errorf("StatObject(no-such-bucket/file.txt): got error %v, want 404", err)
		}
	})

	run(t, config, "Objects", "GetRanges", func(t *testing.T) {
		tests := []struct {
			offset, length int64
			want           string
		}{
			{0, -1, "hello world"},
			{6, -1, "world"},
			{0, 5, "hello"},
			{4, 3, "o w"},
			{6, 100, "world"},
		}
		for _, tt := range tests {
			got := get(t, client, "objects", "file.txt", tt.offset, tt.length)
			if got != tt.want {
				t.Errorf("GetObject(file.txt, %d, %d): got %q, want %q", tt.offset, tt.length, got, tt.want)
			}
		}
	})

	run(t, config, "Objects", "GetMissing", func(t *testing.T) {
		rc, err := client.GetObject(ctx, "objects", "missing", 0, -1)
		if err == nil {
			_ = rc.Close()
		}
		if !storage.IsNotFound(err) {
			t.Errorf("GetObject(missing): got error %v, want 404", err)
		}
	})

	run(t, config, "Objects", "PutOverwrite", func(t *testing.T) {
		put(t, client, "objects", "rewrite", "one")
		put(t, client, "objects", "rewrite", "two")
		if got := get(t, client, "objects", "rewrite", 0, -1); got != "two" {
			t.Errorf("GetObject(rewrite) after overwrite: got %q, want %q", got, "two")
		}
	})

	run(t, config, "Objects", "PutNoOverwrite", func(t *testing.T) {
		_, err := client.PutObject(ctx, "objects", "file.txt", strings.NewReader("x"), 1,
			storage.PutOptions{NoOverwrite: true})
		if got := storage.Status(err); got != http.StatusPreconditionFailed {
			t.Errorf("PutObject(file.txt, NoOverwrite): got status %d (%v), want %d",
				got, err, http.StatusPreconditionFailed)
		}
		if got := get(t, client, "objects", "file.txt", 0, -1); got != "hello world" {
			t.Errorf("GetObject(file.txt) after refused put: got %q, want %q", got, "hello world")
		}

		if _, err := client.PutObject(ctx, "objects", "fresh", strings.NewReader("new"), 3,
			storage.PutOptions{NoOverwrite: true}); err != nil {
			t.Errorf("PutObject(fresh, NoOverwrite): got error %v, want nil", err)
		}
	})

	run(t, config, "Objects", "PutUnknownSize", func(t *testing.T) {
		if _, err := client.PutObject(ctx, "objects", "stream", strings.NewReader("streamed"), -1,
			storage.PutOptions{}); err != nil {
			t.Fatalf("PutObject(stream, -1): got error %v, want nil", err)
		}
		if got := get(t, client, "objects", "stream", 0, -1); got != "streamed" {
			t.Errorf("GetObject(stream): got %q, want %q", got, "streamed")
		}
	})

	run(t, config, "Objects", "PutMissingBucket", func(t *testing.T) {
		_, err := client.PutObject(ctx, "no-such-bucket", "k", strings.NewReader("x"), 1, storage.PutOptions{})
		if !storage.IsNotFound(err) {
			t.Errorf("PutObject(no-such-bucket/k): got error %v, want 404", err)
		}
	})

	run(t, config, "Objects", "CopyObject", func(t *testing.T) {
		makeBucket(t, client, "copies")
		if err := client.CopyObject(ctx, "objects", "file.txt", "copies", "dir/copy.txt"); err != nil {
			t.Fatalf("CopyObject(file.txt, copies/dir/copy.txt): got error %v, want nil", err)
		}
		if got := get(t, client, "copies", "dir/copy.txt", 0, -1); got != "hello world" {
			t.Errorf("GetObject(copies/dir/copy.txt): got %q, want %q", got, "hello world")
		}
		if got := get(t, client, "objects", "file.txt", 0, -1); got != "hello world" {
			t.Errorf("GetObject(file.txt) after copy: got %q, want source unchanged", got)
		}

		if err := client.CopyObject(ctx, "objects", "missing", "copies", "x"); !storage.IsNotFound(err) {
			t.Errorf("CopyObject(missing): got error %v, want 404", err)
		}
	})
}

func makeBucket(t *testing.T, client storage.Client, name string) {
	t.Helper()
	if err := client.MakeBucket(context.Background(), name, ""); err != nil {
		t.Fatalf("MakeBucket(%s): setup failed: %v", name, err)
	}
}

func put(t *testing.T, client storage.Client, bucket, key, data string) {
	t.Helper()
	_, err := client.PutObject(context.Background(), bucket, key, strings.NewReader(data), int64(len(data)),
		storage.PutOptions{})
	if err != nil {
		t.Fatalf("PutObject(%s/%s): setup failed: %v", bucket, key, err)
	}
}

func get(t *testing.T, client storage.Client, bucket, key string, offset, length int64) string {
	t.Helper()
	rc, err := client.GetObject(context.Background(), bucket, key, offset, length)
	if err != nil {
		t.Fatalf("GetObject(%s/%s, %d, %d): got error %v, want nil", bucket, key, offset, length, err)
	}
	defer func() {
		_ = rc.Close()
	}()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll(%s/%s): got error %v, want nil", bucket, key, err)
	}
	return string(data)
}
