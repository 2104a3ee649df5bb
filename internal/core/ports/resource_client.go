package ports

import (
	"context"

	"github.com/hotelops/hms-console/internal/core/domain"
)

// ResourceClient is the CRUD surface of one REST collection. Failures are
// *domain.FetchError unless a local pre-check rejects the call first.
type ResourceClient[T domain.Entity] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, entity T) error
	Remove(ctx context.Context, id int64) error
}
