package storagetest

import (
	"context"
	"net/http"
	"testing"

	"github.com/jmgilman/go/s3fs/storage"
)

// TestBuckets tests bucket creation, lookup, region and removal.
func TestBuckets(t *testing.T, client storage.Client, config Config) {
	ctx := context.Background()

	run(t, config, "Buckets", "HeadMissing", func(t *testing.T) {
		if err := client.HeadBucket(ctx, "missing-bucket"); !storage.IsNotFound(err) {
			t.Errorf("HeadBucket(missing-bucket): got error %v, want 404", err)
		}
	})

	run(t, config, "Buckets", "MakeAndList", func(t *testing.T) {
		for _, name := range []string{"alpha", "beta"} {
			if err := client.MakeBucket(ctx, name, ""); err != nil {
				t.Fatalf("MakeBucket(%s): got error %v, want nil", name, err)
			}
		}
		if err := client.HeadBucket(ctx, "alpha"); err != nil {
			t.Errorf("HeadBucket(alpha): got error %v, want nil", err)
		}

		buckets, err := client.ListBuckets(ctx)
		if err != nil {
			t.Fatalf("ListBuckets(): got error %v, want nil", err)
		}
		found := map[string]bool{}
		for _, b := range buckets {
			found[b.Name] = true
		}
		if !found["alpha"] || !found["beta"] {
			t.Errorf("ListBuckets(): got %v, want alpha and beta", buckets)
		}
	})

	run(t, config, "Buckets", "MakeExisting", func(t *testing.T) {
		if err := client.MakeBucket(ctx, "dup", ""); err != nil {
			t.Fatalf("MakeBucket(dup): setup failed: %v", err)
		}
		err := client.MakeBucket(ctx, "dup", "")
		if got := storage.Status(err); got != http.StatusConflict {
			t.Errorf("MakeBucket(dup) twice: got status %d (%v), want %d", got, err, http.StatusConflict)
		}
	})

	run(t, config, "Buckets", "Region", func(t *testing.T) {
		if err := client.MakeBucket(ctx, "default-region", ""); err != nil {
			t.Fatalf("MakeBucket(default-region): setup failed: %v", err)
		}
		region, err := client.BucketRegion(ctx, "default-region")
		if err != nil {
			t.Fatalf("BucketRegion(default-region): got error %v, want nil", err)
		}
		if region != "us-east-1" && region != "" {
			t.Errorf("BucketRegion(default-region): got %q, want us-east-1", region)
		}

		if !config.ReportsRegion {
			return
		}
		if err := client.MakeBucket(ctx, "west", "eu-west-1"); err != nil {
			t.Fatalf("MakeBucket(west, eu-west-1): setup failed: %v", err)
		}
		if region, _ := client.BucketRegion(ctx, "west"); region != "eu-west-1" {
			t.Errorf("BucketRegion(west): got %q, want eu-west-1", region)
		}
	})

	run(t, config, "Buckets", "RemoveNonEmpty", func(t *testing.T) {
		if err := client.MakeBucket(ctx, "full", ""); err != nil {
			t.Fatalf("MakeBucket(full): setup failed: %v", err)
		}
		put(t, client, "full", "k", "v")

		if err := client.RemoveBucket(ctx, "full"); storage.Status(err) != http.StatusConflict {
			t.Errorf("RemoveBucket(full): got error %v, want 409", err)
		}
		if err := client.RemoveObject(ctx, "full", "k"); err != nil {
			t.Fatalf("RemoveObject(full, k): got error %v, want nil", err)
		}
		if err := client.RemoveBucket(ctx, "full"); err != nil {
			t.Errorf("RemoveBucket(full) after emptying: got error %v, want nil", err)
		}
		if err := client.HeadBucket(ctx, "full"); !storage.IsNotFound(err) {
			t.Errorf("HeadBucket(full) after removal: got error %v, want 404", err)
		}
	})
}
