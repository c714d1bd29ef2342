package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/ports"
)

type CategoryService struct {
	tx         ports.Transactor
	categories ports.CategoryRepository
	patients   ports.PatientRepository
	now        func() time.Time
	log        zerolog.Logger
}

func NewCategoryService(tx ports.Transactor, categories ports.CategoryRepository, patients ports.PatientRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{
		tx:         tx,
		categories: categories,
		patients:   patients,
		now:        time.Now,
		log:        log,
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		ve := domain.NewValidationError()
		ve.Add("name", domain.CodeRequired)
		return nil, ve
	}

	now := s.now().UTC()
	category := &domain.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.log.Info().Int64("category_id", category.ID).Str("name", name).Msg("category created")
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, in ports.UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			ve := domain.NewValidationError()
			ve.Add("name", domain.CodeRequired)
			return nil, ve
		}
		category.Name = name
	}
	if in.Description != nil {
		category.Description = strings.TrimSpace(*in.Description)
	}
	category.UpdatedAt = s.now().UTC()

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category from every patient first; patients
// themselves are never deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.categories.FindByID(ctx, id); err != nil {
			return err
		}
		if err := s.patients.DetachCategory(ctx, id); err != nil {
			return err
		}
		return s.categories.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
