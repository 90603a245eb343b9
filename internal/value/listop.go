package value

// ListOp is a composable list edit with six buckets and an is-explicit flag.
// Attribute connection and relationship targets, api schemas, and composition
// arcs are all carried as list-ops on the wire.
type ListOp[T any] struct {
	Explicit       bool
	ExplicitItems  []T
	AddedItems     []T
	PrependedItems []T
	AppendedItems  []T
	DeletedItems   []T
	OrderedItems   []T
}

// IsExplicit reports whether the op replaces rather than edits.
func (op ListOp[T]) IsExplicit() bool { return op.Explicit }

// NewExplicitListOp builds an explicit list-op over items.
func NewExplicitListOp[T any](items []T) ListOp[T] {
	return ListOp[T]{Explicit: true, ExplicitItems: items}
}

// ListOpBucket is one (qualifier, items) pair produced by DecodeListOp.
type ListOpBucket[T any] struct {
	Qual  ListEditQual
	Items []T
}

// DecodeListOp flattens a list-op into its non-empty (qualifier, items)
// buckets. An explicit op yields exactly one ResetToExplicit bucket; edit
// ops yield buckets in the order explicit, add, append, delete, prepend,
// order.
func DecodeListOp[T any](op ListOp[T]) []ListOpBucket[T] {
	var dst []ListOpBucket[T]

	if op.IsExplicit() {
		dst = append(dst, ListOpBucket[T]{Qual: ListEditResetToExplicit, Items: op.ExplicitItems})
		return dst
	}

	if len(op.ExplicitItems) > 0 {
		dst = append(dst, ListOpBucket[T]{Qual: ListEditResetToExplicit, Items: op.ExplicitItems})
	}
	if len(op.AddedItems) > 0 {
		dst = append(dst, ListOpBucket[T]{Qual: ListEditAdd, Items: op.AddedItems})
	}
	if len(op.AppendedItems) > 0 {
		dst = append(dst, ListOpBucket[T]{Qual: ListEditAppend, Items: op.AppendedItems})
	}
	if len(op.DeletedItems) > 0 {
		dst = append(dst, ListOpBucket[T]{Qual: ListEditDelete, Items: op.DeletedItems})
	}
	if len(op.PrependedItems) > 0 {
		dst = append(dst, ListOpBucket[T]{Qual: ListEditPrepend, Items: op.PrependedItems})
	}
	if len(op.OrderedItems) > 0 {
		dst = append(dst, ListOpBucket[T]{Qual: ListEditOrder, Items: op.OrderedItems})
	}

	return dst
}
