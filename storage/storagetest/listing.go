package storagetest

import (
	"context"
	"slices"
	"testing"

	"github.com/jmgilman/go/s3fs/storage"
)

// TestListing tests delimited, recursive and bounded listings.
func TestListing(t *testing.T, client storage.Client, config Config) {
	ctx := context.Background()
	makeBucket(t, client, "listing")
	for _, key := range []string{"a.txt", "dir/", "dir/b.txt", "dir/sub/c.txt", "other/d.txt"} {
		put(t, client, "listing", key, "x")
	}

	run(t, config, "Listing", "Delimited", func(t *testing.T) {
		got, prefixes := collect(t, client, "listing", storage.ListOptions{})
		want := []string{"a.txt", "dir/", "other/"}
		if !slices.Equal(got, want) {
			t.Errorf("ListObjects(\"\"): got %v, want %v", got, want)
		}
		for _, p := range []string{"dir/", "other/"} {
			if !prefixes[p] {
				t.Errorf("ListObjects(\"\"): entry %q not reported as prefix", p)
			}
		}
		if prefixes["a.txt"] {
			t.Errorf("ListObjects(\"\"): entry %q reported as prefix", "a.txt")
		}
	})

	run(t, config, "Listing", "DelimitedUnderPrefix", func(t *testing.T) {
		got, _ := collect(t, client, "listing", storage.ListOptions{Prefix: "dir/"})
		want := []string{"dir/", "dir/b.txt", "dir/sub/"}
		if !slices.Equal(got, want) {
			t.Errorf("ListObjects(dir/): got %v, want %v", got, want)
		}
	})

	run(t, config, "Listing", "Recursive", func(t *testing.T) {
		got, prefixes := collect(t, client, "listing", storage.ListOptions{Prefix: "dir/", Recursive: true})
		want := []string{"dir/", "dir/b.txt", "dir/sub/c.txt"}
		if !slices.Equal(got, want) {
			t.Errorf("ListObjects(dir/, recursive): got %v, want %v", got, want)
		}
		if len(prefixes) != 0 {
			t.Errorf("ListObjects(dir/, recursive): got prefix entries %v, want none", prefixes)
		}
	})

	run(t, config, "Listing", "MaxKeys", func(t *testing.T) {
		got, _ := collect(t, client, "listing", storage.ListOptions{Prefix: "dir/", Recursive: true, MaxKeys: 1})
		if len(got) != 1 {
			t.Errorf("ListObjects(dir/, MaxKeys=1): got %v, want one entry", got)
		}
	})

	run(t, config, "Listing", "NoMatch", func(t *testing.T) {
		got, _ := collect(t, client, "listing", storage.ListOptions{Prefix: "nothing/"})
		if len(got) != 0 {
			t.Errorf("ListObjects(nothing/): got %v, want empty", got)
		}
	})

	run(t, config, "Listing", "MissingBucket", func(t *testing.T) {
		var err error
		for _, e := range client.ListObjects(ctx, "no-such-bucket", storage.ListOptions{}) {
			if e != nil {
				err = e
				break
			}
		}
		if !storage.IsNotFound(err) {
			t.Errorf("ListObjects(no-such-bucket): got error %v, want 404", err)
		}
	})

	run(t, config, "Listing", "EarlyStop", func(t *testing.T) {
		n := 0
		for _, err := range client.ListObjects(ctx, "listing", storage.ListOptions{Recursive: true}) {
			if err != nil {
				t.Fatalf("ListObjects(recursive): got error %v, want nil", err)
			}
			n++
			break
		}
		if n != 1 {
			t.Errorf("ListObjects(recursive) with break: got %d entries, want 1", n)
		}
	})
}

// collect drains a listing and returns its keys in order plus the set of
// keys reported as prefixes.
func collect(t *testing.T, client storage.Client, bucket string, opts storage.ListOptions) ([]string, map[string]bool) {
	t.Helper()
	var keys []string
	prefixes := map[string]bool{}
	for obj, err := range client.ListObjects(context.Background(), bucket, opts) {
		if err != nil {
			t.Fatalf("ListObjects(%s, %+v): got error %v, want nil", bucket, opts, err)
		}
		keys = append(keys, obj.Key)
		if obj.IsPrefix {
			prefixes[obj.Key] = true
		}
	}
	return keys, prefixes
}
