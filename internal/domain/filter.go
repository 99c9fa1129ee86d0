package domain

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/gematria/internal/gematria"
)

// ValueFilter selects words whose value under Method equals Value.
type ValueFilter struct {
	Method gematria.MethodID
	Value  int64
	Limit  int
	Offset int
}

// RelatedFilter selects words sharing a value with a reference term under
// any of Methods. ExcludeText (normalized) is left out of the result.
type RelatedFilter struct {
	Values      gematria.Result
	Methods     []gematria.MethodID
	ExcludeText string
	Limit       int
}

// PageCursor drives keyset pagination over the catalog in ID order.
type PageCursor struct {
	AfterID uuid.UUID
	Limit   int
}
