package storagetest

import (
	"context"
	"testing"

	"github.com/jmgilman/go/s3fs/storage"
)

// TestDeletes tests single and batched object deletion.
func TestDeletes(t *testing.T, client storage.Client, config Config) {
	ctx := context.Background()
	makeBucket(t, client, "deletes")

	run(t, config, "Deletes", "RemoveObject", func(t *testing.T) {
		put(t, client, "deletes", "single", "x")
		if err := client.RemoveObject(ctx, "deletes", "single"); err != nil {
			t.Fatalf("RemoveObject(single): got error %v, want nil", err)
		}
		if _, err := client.StatObject(ctx, "deletes", "single"); !storage.IsNotFound(err) {
			t.Errorf("StatObject(single) after removal: got error %v, want 404", err)
		}
	})

	run(t, config, "Deletes", "RemoveMissing", func(t *testing.T) {
		if err := client.RemoveObject(ctx, "deletes", "never-existed"); err != nil {
			t.Errorf("RemoveObject(never-existed): got error %v, want nil", err)
		}
	})

	run(t, config, "Deletes", "RemoveObjects", func(t *testing.T) {
		keys := []string{"batch/", "batch/a", "batch/b", "batch/sub/c"}
		for _, k := range keys {
			put(t, client, "deletes", k, "x")
		}
		put(t, client, "deletes", "keep", "x")

		failed, err := client.RemoveObjects(ctx, "deletes", keys)
		if err != nil {
			t.Fatalf("RemoveObjects(%v): got error %v, want nil", keys, err)
		}
		if len(failed) != 0 {
			t.Errorf("RemoveObjects(%v): got failures %v, want none", keys, failed)
		}

		got, _ := collect(t, client, "deletes", storage.ListOptions{Prefix: "batch/", Recursive: true})
		if len(got) != 0 {
			t.Errorf("ListObjects(batch/) after RemoveObjects: got %v, want empty", got)
		}
		if _, err := client.StatObject(ctx, "deletes", "keep"); err != nil {
			t.Errorf("StatObject(keep): got error %v, want untouched object", err)
		}
	})

	run(t, config, "Deletes", "RemoveObjectsEmpty", func(t *testing.T) {
		failed, err := client.RemoveObjects(ctx, "deletes", nil)
		if err != nil || len(failed) != 0 {
			t.Errorf("RemoveObjects(nil): got (%v, %v), want no failures", failed, err)
		}
	})
}
