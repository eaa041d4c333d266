// Package storagetest provides a conformance suite for storage.Client
// implementations.
//
// The suite checks the behaviour the filesystem layer relies on: bucket
// lifecycle, status-coded errors, delimited and recursive listings, range
// reads, conditional puts, server-side copies and batched deletes. Every
// group runs against a fresh client.
//
// Example usage:
//
//	func TestConformance(t *testing.T) {
//	    storagetest.TestSuite(t, func(t *testing.T) storage.Client {
//	        return mystore.New()
//	    })
//	}
package storagetest

import (
	"slices"
	"testing"

	"github.com/jmgilman/go/s3fs/storage"
)

// Config describes known differences between store implementations.
type Config struct {
	// ReportsRegion indicates BucketRegion returns the region passed to
	// MakeBucket. Stores that ignore location constraints leave it false.
	ReportsRegion bool

	// SkipTests lists test names to skip, e.g. "Objects/CopyObject".
	SkipTests []string
}

// DefaultConfig returns the configuration of a fully featured store.
func DefaultConfig() Config {
	return Config{ReportsRegion: true}
}

// TestSuite runs every group with DefaultConfig.
func TestSuite(t *testing.T, newClient func(t *testing.T) storage.Client) {
	TestSuiteWithConfig(t, newClient, DefaultConfig())
}

// TestSuiteWithConfig runs every group. newClient must return an empty store.
func TestSuiteWithConfig(t *testing.T, newClient func(t *testing.T) storage.Client, config Config) {
	groups := []struct {
		name string
		run  func(*testing.T, storage.Client, Config)
	}{
		{"Buckets", TestBuckets},
		{"Objects", TestObjects},
		{"Listing", TestListing},
		{"Deletes", TestDeletes},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if slices.Contains(config.SkipTests, g.name) {
				t.Skip("Skipped by store configuration")
			}
			g.run(t, newClient(t), config)
		})
	}
}

// run runs a subtest unless config skips it.
func run(t *testing.T, config Config, group, name string, fn func(t *testing.T)) {
	t.Run(name, func(t *testing.T) {
		if slices.Contains(config.SkipTests, group+"/"+name) {
			t.Skip("Skipped by store configuration")
		}
		fn(t)
	})
}
