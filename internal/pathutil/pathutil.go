// Package pathutil parses and manipulates filesystem URIs of the form
// scheme://bucket/key.
//
// Everything here is lexical. Nothing touches the store.
package pathutil

import (
	"path"
	"strings"

	"github.com/jmgilman/go/s3fs/errors"
)

// Separator is the path separator inside URIs and object keys.
const Separator = "/"

// Location is a URI decomposed into its store coordinates.
type Location struct {
	Bucket string

	// Key is the object key, possibly empty. A trailing separator is kept.
	Key string

	// Basename is the last non-empty segment of Key, or empty for a bucket.
	Basename string
}

// Resolver handles URIs for one scheme.
type Resolver struct {
	scheme string
}

// New returns a Resolver for scheme, e.g. "s3a".
func New(scheme string) Resolver {
	return Resolver{scheme: strings.ToLower(scheme)}
}

// Scheme returns the scheme without the "://" suffix.
func (r Resolver) Scheme() string {
	return r.scheme
}

// Root returns the URI of the bucket-listing view, e.g. "s3a://".
func (r Resolver) Root() string {
	return r.scheme + "://"
}

// HasScheme reports whether p starts with the resolver's scheme.
// Leading slashes and letter case are ignored.
func (r Resolver) HasScheme(p string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimLeft(p, Separator)), r.Root())
}

// trim strips the scheme prefix. ok is false if p has no scheme.
func (r Resolver) trim(p string) (string, bool) {
	if !r.HasScheme(p) {
		return p, false
	}
	p = strings.TrimLeft(p, Separator)
	return p[len(r.Root()):], true
}

// Parse decomposes p into bucket, key and basename. It fails with
// CodeInvalidPath if p has no scheme or no bucket.
func (r Resolver) Parse(p string) (Location, error) {
	rest, ok := r.trim(p)
	if !ok {
		return Location{}, errors.WithContext(
			errors.Newf(errors.CodeInvalidPath, "Invalid %s path: '%s'", r.scheme, p),
			"path", p,
		)
	}

	bucket, key, _ := strings.Cut(rest, Separator)
	if bucket == "" {
		return Location{}, errors.WithContext(
			errors.Newf(errors.CodeInvalidPath, "Invalid %s path, no bucket: '%s'", r.scheme, p),
			"path", p,
		)
	}

	key = collapse(key)
	return Location{Bucket: bucket, Key: key, Basename: basename(key)}, nil
}

// Normalize collapses redundant separators and dot segments and drops any
// trailing separator. The scheme is lower-cased and the root is returned
// unchanged. Normalize is idempotent.
func (r Resolver) Normalize(p string) string {
	rest, ok := r.trim(p)
	if !ok {
		if p == "" {
			return p
		}
		return path.Clean(p)
	}
	cleaned := strings.TrimPrefix(path.Clean(Separator+rest), Separator)
	return r.Root() + cleaned
}

// IsRoot reports whether p has neither bucket nor key.
func (r Resolver) IsRoot(p string) bool {
	rest, _ := r.trim(p)
	return rest == "" || rest == Separator
}

// ParentPath returns the directory containing p. The parent of a bucket is
// the root, and the parent of a top-level key is its bucket.
func (r Resolver) ParentPath(p string) string {
	if r.IsRoot(p) {
		return r.Root()
	}
	loc, err := r.Parse(p)
	if err != nil || loc.Basename == "" {
		return r.Root()
	}

	segments := strings.Split(strings.TrimSuffix(loc.Key, Separator), Separator)
	parent := strings.Join(segments[:len(segments)-1], Separator)
	return r.Join(r.Root()+loc.Bucket, parent)
}

// Join appends elems to base with single separators and normalizes the
// result. An element carrying the scheme replaces everything before it.
func (r Resolver) Join(base string, elems ...string) string {
	rest, _ := r.trim(base)
	for _, e := range elems {
		if e == "" {
			continue
		}
		if tail, ok := r.trim(e); ok {
			rest = tail
			continue
		}
		rest = strings.TrimSuffix(rest, Separator) + Separator + strings.TrimPrefix(e, Separator)
	}
	return r.Normalize(r.Root() + strings.TrimPrefix(rest, Separator))
}

// Abspath resolves p against cwd. A p carrying the scheme is only normalized.
func (r Resolver) Abspath(cwd, p string) string {
	if r.HasScheme(p) {
		return r.Normalize(p)
	}
	return r.Join(cwd, p)
}

// Format builds the URI for bucket and key.
func (r Resolver) Format(bucket, key string) string {
	if bucket == "" {
		return r.Root()
	}
	if key == "" {
		return r.Root() + bucket
	}
	return r.Root() + bucket + Separator + key
}

// AppendSeparator adds a trailing separator to a non-empty s.
func AppendSeparator(s string) string {
	if s != "" && !strings.HasSuffix(s, Separator) {
		return s + Separator
	}
	return s
}

// CutSeparator removes one trailing separator from s.
func CutSeparator(s string) string {
	return strings.TrimSuffix(s, Separator)
}

func basename(key string) string {
	key = strings.TrimSuffix(key, Separator)
	if i := strings.LastIndex(key, Separator); i >= 0 {
		return key[i+1:]
	}
	return key
}

// collapse squeezes runs of separators into one.
func collapse(key string) string {
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", Separator)
	}
	return key
}
