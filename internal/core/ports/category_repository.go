package ports

import (
	"context"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// CategoryRepository persists care categories.
type CategoryRepository interface {
	// Create assigns category.ID and fails with domain.ErrConflict on a duplicate name.
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	// Update fails with domain.ErrConflict on a duplicate name.
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
	// ExistingIDs returns the subset of ids that refer to stored categories.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}
