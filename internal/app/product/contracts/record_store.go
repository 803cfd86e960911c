package contracts

import (
	"context"
	"errors"

	"github.com/light-bringer/procat-editor/internal/app/product/domain"
)

// Record store failure classes. Implementations wrap one of these so callers
// can tell a rejected request from one that never completed.
var (
	// ErrUnavailable means the request did not complete (network, timeout).
	ErrUnavailable = errors.New("record store unavailable")

	// ErrRejected means the store answered with a non-success status.
	ErrRejected = errors.New("record store rejected request")

	// ErrMalformedResponse means the store answered but the body was unusable.
	ErrMalformedResponse = errors.New("malformed record store response")
)

// RecordStore is the remote product service the editor reads from and
// writes titles back to. There are no retry or transaction guarantees
// beyond a single request/response.
type RecordStore interface {
	// ListProducts fetches the full product list.
	ListProducts(ctx context.Context) ([]domain.ProductRecord, error)

	// UpdateProducts persists the given records. Only titles are applied.
	UpdateProducts(ctx context.Context, records []domain.ProductRecord) error
}
