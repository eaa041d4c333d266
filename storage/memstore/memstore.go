// Package memstore provides an in-memory storage.Client.
//
// Store keeps buckets and objects in maps guarded by a mutex and follows the
// listing and error semantics of S3: keys are returned in lexical order,
// delimited listings group keys into common prefixes, and every failure is a
// *storage.Error with the status S3 would use. Faults can be injected per
// operation and per key, and every call is counted, which makes Store the
// fixture for exercising the filesystem without a network.
package memstore

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // ETag compatibility, not security
	"encoding/hex"
	"fmt"
	"io"
	"iter"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jmgilman/go/s3fs/storage"
)

// DefaultRegion is recorded for buckets created without a region.
const DefaultRegion = "us-east-1"

type object struct {
	data    []byte
	modTime time.Time
	etag    string
}

type bucket struct {
	created time.Time
	region  string
	objects map[string]*object
}

type fault struct {
	op  storage.Op
	key string
	err error
}

// Store is an in-memory object store. The zero value is not usable; call New.
type Store struct {
	mu           sync.Mutex
	buckets      map[string]*bucket
	faults       []fault
	deleteFaults map[string]storage.DeleteError
	sticky       map[string]bool
	calls        map[storage.Op]int
	now          func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		buckets:      make(map[string]*bucket),
		deleteFaults: make(map[string]storage.DeleteError),
		sticky:       make(map[string]bool),
		calls:        make(map[storage.Op]int),
		now:          time.Now,
	}
}

// FailOn makes op return err. key restricts the fault to one object key, or
// to one bucket name for bucket-level operations; an empty key matches every
// call. Faults stay installed until ClearFaults.
func (s *Store) FailOn(op storage.Op, key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{op: op, key: key, err: err})
}

// FailDelete makes RemoveObjects report key as failed with code and message.
func (s *Store) FailDelete(key, code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteFaults[key] = storage.DeleteError{Key: key, Code: code, Message: message}
}

// KeepOnDelete makes deletes of key report success while leaving the object
// in place.
func (s *Store) KeepOnDelete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sticky[key] = true
}

// ClearFaults removes every injected fault.
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = nil
	s.deleteFaults = make(map[string]storage.DeleteError)
	s.sticky = make(map[string]bool)
}

// Calls returns how many times op has been invoked.
func (s *Store) Calls(op storage.Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// ResetCalls zeroes every call counter.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[storage.Op]int)
}

// Keys returns the keys stored in name in lexical order.
func (s *Store) Keys(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[name]
	if !ok {
		return nil
	}
	return sortedKeys(b.objects)
}

// Object returns a copy of the data stored at key.
func (s *Store) Object(name, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[name]
	if !ok {
		return nil, false
	}
	obj, ok := b.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

// enter counts a call and returns the injected fault for it, if any.
// Callers must hold s.mu.
func (s *Store) enter(op storage.Op, key string) error {
	s.calls[op]++
	for _, f := range s.faults {
		if f.op == op && (f.key == "" || f.key == key) {
			return f.err
		}
	}
	return nil
}

func (s *Store) bucket(name string) (*bucket, error) {
	b, ok := s.buckets[name]
	if !ok {
		return nil, storage.NotFound(name, "")
	}
	return b, nil
}

func (s *Store) ListBuckets(_ context.Context) ([]storage.BucketInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpListBuckets, ""); err != nil {
		return nil, err
	}

	out := make([]storage.BucketInfo, 0, len(s.buckets))
	for name, b := range s.buckets {
		out = append(out, storage.BucketInfo{Name: name, CreationDate: b.created})
	}
	// unordered
	return out, nil
}

func (s *Store) HeadBucket(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpHeadBucket, name); err != nil {
		return err
	}
	_, err := s.bucket(name)
	return err
}

func (s *Store) MakeBucket(_ context.Context, name, region string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpMakeBucket, name); err != nil {
		return err
	}
	if _, ok := s.buckets[name]; ok {
		return &storage.Error{
			Status:  http.StatusConflict,
			Code:    "BucketAlreadyOwnedByYou",
			Message: "Your previous request to create the named bucket succeeded and you already own it.",
			Bucket:  name,
		}
	}
	if region == "" {
		region = DefaultRegion
	}
	s.buckets[name] = &bucket{
		created: s.now(),
		region:  region,
		objects: make(map[string]*object),
	}
	return nil
}

func (s *Store) RemoveBucket(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpRemoveBucket, name); err != nil {
		return err
	}
	b, err := s.bucket(name)
	if err != nil {
		return err
	}
	if len(b.objects) > 0 {
		return &storage.Error{
			Status:  http.StatusConflict,
			Code:    "BucketNotEmpty",
			Message: "The bucket you tried to delete is not empty",
			Bucket:  name,
		}
	}
	delete(s.buckets, name)
	return nil
}

func (s *Store) BucketRegion(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpBucketRegion, name); err != nil {
		return "", err
	}
	b, err := s.bucket(name)
	if err != nil {
		return "", err
	}
	return b.region, nil
}

// ListObjects snapshots the matching entries and yields them without holding
// the lock, so callers may mutate the store while iterating.
func (s *Store) ListObjects(_ context.Context, name string, opts storage.ListOptions) iter.Seq2[storage.ObjectInfo, error] {
	s.mu.Lock()
	entries, err := s.list(name, opts)
	s.mu.Unlock()

	return func(yield func(storage.ObjectInfo, error) bool) {
		if err != nil {
			yield(storage.ObjectInfo{}, err)
			return
		}
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (s *Store) list(name string, opts storage.ListOptions) ([]storage.ObjectInfo, error) {
	if err := s.enter(storage.OpListObjects, opts.Prefix); err != nil {
		return nil, err
	}
	b, err := s.bucket(name)
	if err != nil {
		return nil, err
	}

	var out []storage.ObjectInfo
	seen := make(map[string]bool)
	for _, key := range sortedKeys(b.objects) {
		if opts.MaxKeys > 0 && len(out) >= opts.MaxKeys {
			break
		}
		if !strings.HasPrefix(key, opts.Prefix) {
			continue
		}
		if !opts.Recursive {
			rest := key[len(opts.Prefix):]
			if i := strings.Index(rest, storage.Separator); i >= 0 {
				p := opts.Prefix + rest[:i+1]
				if !seen[p] {
					seen[p] = true
					out = append(out, storage.ObjectInfo{Key: p, IsPrefix: true})
				}
				continue
			}
		}
		out = append(out, info(key, b.objects[key]))
	}
	return out, nil
}

func (s *Store) StatObject(_ context.Context, name, key string) (storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpStatObject, key); err != nil {
		return storage.ObjectInfo{}, err
	}
	b, err := s.bucket(name)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	obj, ok := b.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.NotFound(name, key)
	}
	return info(key, obj), nil
}

func (s *Store) GetObject(_ context.Context, name, key string, offset, length int64) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpGetObject, key); err != nil {
		return nil, err
	}
	b, err := s.bucket(name)
	if err != nil {
		return nil, err
	}
	obj, ok := b.objects[key]
	if !ok {
		return nil, storage.NotFound(name, key)
	}

	size := int64(len(obj.data))
	if offset < 0 || offset > size {
		return nil, &storage.Error{
			Status:  http.StatusRequestedRangeNotSatisfiable,
			Code:    "InvalidRange",
			Message: "The requested range is not satisfiable",
			Bucket:  name,
			Key:     key,
		}
	}
	end := size
	if length >= 0 && offset+length < size {
		end = offset + length
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(obj.data[offset:end]))), nil
}

func (s *Store) PutObject(_ context.Context, name, key string, r io.Reader, size int64, opts storage.PutOptions) (storage.ObjectInfo, error) {
	// read before locking; r may be slow
	if size >= 0 {
		r = io.LimitReader(r, size)
	}
	data, readErr := io.ReadAll(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpPutObject, key); err != nil {
		return storage.ObjectInfo{}, err
	}
	if readErr != nil {
		return storage.ObjectInfo{}, &storage.Error{Message: readErr.Error(), Bucket: name, Key: key, Err: readErr}
	}
	b, err := s.bucket(name)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	if _, exists := b.objects[key]; exists && opts.NoOverwrite {
		return storage.ObjectInfo{}, &storage.Error{
			Status:  http.StatusPreconditionFailed,
			Code:    "PreconditionFailed",
			Message: "At least one of the pre-conditions you specified did not hold",
			Bucket:  name,
			Key:     key,
		}
	}

	obj := s.newObject(data)
	b.objects[key] = obj
	return info(key, obj), nil
}

func (s *Store) CopyObject(_ context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpCopyObject, srcKey); err != nil {
		return err
	}
	sb, err := s.bucket(srcBucket)
	if err != nil {
		return err
	}
	obj, ok := sb.objects[srcKey]
	if !ok {
		return storage.NotFound(srcBucket, srcKey)
	}
	db, err := s.bucket(dstBucket)
	if err != nil {
		return err
	}
	db.objects[dstKey] = s.newObject(bytes.Clone(obj.data))
	return nil
}

func (s *Store) RemoveObject(_ context.Context, name, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpRemoveObject, key); err != nil {
		return err
	}
	b, err := s.bucket(name)
	if err != nil {
		return err
	}
	if !s.sticky[key] {
		delete(b.objects, key)
	}
	return nil
}

// RemoveObjects handles every key in a single call.
func (s *Store) RemoveObjects(_ context.Context, name string, keys []string) ([]storage.DeleteError, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(storage.OpRemoveObjects, ""); err != nil {
		return nil, err
	}
	b, err := s.bucket(name)
	if err != nil {
		return nil, err
	}

	var failed []storage.DeleteError
	for _, key := range keys {
		if de, ok := s.deleteFaults[key]; ok {
			failed = append(failed, de)
			continue
		}
		if !s.sticky[key] {
			delete(b.objects, key)
		}
	}
	return failed, nil
}

func (s *Store) newObject(data []byte) *object {
	sum := md5.Sum(data) //nolint:gosec // ETag compatibility, not security
	return &object{
		data:    data,
		modTime: s.now().UTC(),
		etag:    fmt.Sprintf("%q", hex.EncodeToString(sum[:])),
	}
}

func info(key string, obj *object) storage.ObjectInfo {
	return storage.ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		LastModified: obj.modTime,
		ETag:         obj.etag,
	}
}

func sortedKeys(m map[string]*object) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

var _ storage.Client = (*Store)(nil)
