package s3fs

// OperationKind names a multi-object mutation.
type OperationKind string

const (
	OperationCopy           OperationKind = "copy"
	OperationRename         OperationKind = "rename"
	OperationRenameChildren OperationKind = "rename_children"
	OperationRemoveTree     OperationKind = "remove_tree"
	OperationCopyFromLocal  OperationKind = "copy_from_local"
)

// Operation reports how far a multi-object mutation got. These mutations
// are sequences of independent requests with no rollback, so an Operation
// is returned alongside any error and describes the partial state left
// behind.
type Operation struct {
	Kind        OperationKind
	Source      string
	Destination string

	// Written lists the URIs created or overwritten, in request order.
	Written []string

	// Removed lists the URIs deleted, in request order.
	Removed []string

	// Skipped is set when the operation was a deliberate no-op, such as a
	// non-recursive copy of a directory.
	Skipped bool

	// Complete is set once every step succeeded.
	Complete bool
}

func newOperation(kind OperationKind, src, dst string) *Operation {
	return &Operation{Kind: kind, Source: src, Destination: dst}
}

func (o *Operation) wrote(uri string) {
	o.Written = append(o.Written, uri)
}

func (o *Operation) removed(uri string) {
	o.Removed = append(o.Removed, uri)
}

// merge folds the progress of a sub-operation into o.
func (o *Operation) merge(sub *Operation) {
	if sub == nil {
		return
	}
	o.Written = append(o.Written, sub.Written...)
	o.Removed = append(o.Removed, sub.Removed...)
}

// done marks o complete and returns it with a nil error.
func (o *Operation) done() (*Operation, error) {
	o.Complete = true
	return o, nil
}
