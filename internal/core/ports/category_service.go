package ports

import (
	"context"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// UpdateCategoryInput carries a partial category update; nil fields are kept.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

type CategoryService interface {
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, input UpdateCategoryInput) (*domain.Category, error)
	// DeleteCategory detaches the category from every patient, then removes it.
	DeleteCategory(ctx context.Context, id int64) error
}
