package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medicapp/clinic-backend/internal/core/domain"
	"github.com/medicapp/clinic-backend/internal/core/ports"
)

func newCategoryService(store *memStore) *CategoryService {
	return NewCategoryService(store, categoryRepo{store}, patientRepo{store}, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestCategoryService_CreateAndList(t *testing.T) {
	store := newMemStore()
	svc := newCategoryService(store)
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, " Diabetes ", "Diabetes care program")
	if err != nil {
		t.Fatalf("CreateCategory returned error: %v", err)
	}
	if first.ID == 0 || first.Name != "Diabetes" {
		t.Fatalf("unexpected category: %+v", first)
	}
	if _, err := svc.CreateCategory(ctx, "Hypertension", ""); err != nil {
		t.Fatalf("CreateCategory returned error: %v", err)
	}

	if _, err := svc.CreateCategory(ctx, "Diabetes", "again"); err != domain.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := svc.CreateCategory(ctx, "  ", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	list, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(list))
	}
}

func TestCategoryService_Update(t *testing.T) {
	store := newMemStore()
	svc := newCategoryService(store)
	ctx := context.Background()

	a, _ := svc.CreateCategory(ctx, "Diabetes", "old")
	if _, err := svc.CreateCategory(ctx, "Asthma", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateCategory(ctx, a.ID, ports.UpdateCategoryInput{Description: strPtr("new")})
	if err != nil {
		t.Fatalf("UpdateCategory returned error: %v", err)
	}
	if updated.Name != "Diabetes" || updated.Description != "new" {
		t.Fatalf("unexpected category: %+v", updated)
	}

	if _, err := svc.UpdateCategory(ctx, a.ID, ports.UpdateCategoryInput{Name: strPtr("Asthma")}); err != domain.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := svc.UpdateCategory(ctx, 999, ports.UpdateCategoryInput{Name: strPtr("X")}); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryService_DeleteDetachesFromPatients(t *testing.T) {
	store := newMemStore()
	svc := newCategoryService(store)
	patients := newPatientService(store)
	ctx := context.Background()

	keep, _ := svc.CreateCategory(ctx, "Keep", "")
	drop, _ := svc.CreateCategory(ctx, "Drop", "")

	in := patientInput("100")
	in.CategoryIDs = []int64{keep.ID, drop.ID}
	if _, err := patients.RegisterPatient(ctx, in); err != nil {
		t.Fatalf("register patient: %v", err)
	}

	if err := svc.DeleteCategory(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteCategory returned error: %v", err)
	}

	p, err := patients.GetPatient(ctx, 100)
	if err != nil {
		t.Fatalf("patient must survive category deletion: %v", err)
	}
	if len(p.CategoryIDs) != 1 || p.CategoryIDs[0] != keep.ID {
		t.Fatalf("expected only %d, got %v", keep.ID, p.CategoryIDs)
	}
	if err := svc.DeleteCategory(ctx, drop.ID); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCategoryService_DeleteRollsBack(t *testing.T) {
	store := newMemStore()
	svc := newCategoryService(store)
	patients := newPatientService(store)
	ctx := context.Background()

	c, _ := svc.CreateCategory(ctx, "Diabetes", "")
	in := patientInput("100")
	in.CategoryIDs = []int64{c.ID}
	if _, err := patients.RegisterPatient(ctx, in); err != nil {
		t.Fatalf("register patient: %v", err)
	}

	store.failOn["categories.Delete"] = errors.New("write failed")
	if err := svc.DeleteCategory(ctx, c.ID); err == nil {
		t.Fatalf("expected error")
	}

	p, _ := patients.GetPatient(ctx, 100)
	if len(p.CategoryIDs) != 1 {
		t.Fatalf("enrollment must be restored when delete fails, got %v", p.CategoryIDs)
	}
}
