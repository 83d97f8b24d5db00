package service

import (
	"context"
	"errors"
	"testing"

	"eshop/internal/model"
	"eshop/pkg/apperror"

	"github.com/google/uuid"
)

func TestCreateCategoryWithParent(t *testing.T) {
	categories := newFakeCategoryRepo()
	svc := NewCategoryService(categories, nil)

	parent, err := svc.CreateCategory(context.Background(), CategoryRequest{Name: "electronics"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	child, err := svc.CreateCategory(context.Background(), CategoryRequest{
		Name:     "phones",
		ParentID: parent.ID.String(),
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.ParentID == nil || *child.ParentID != parent.ID {
		t.Errorf("child parent = %v, want %v", child.ParentID, parent.ID)
	}
}

func TestCreateCategoryRejectsInactiveParent(t *testing.T) {
	categories := newFakeCategoryRepo()
	svc := NewCategoryService(categories, nil)

	parent := categories.add(&model.Category{Name: "electronics"})
	parent.State = model.StateInactive

	_, err := svc.CreateCategory(context.Background(), CategoryRequest{
		Name:     "phones",
		ParentID: parent.ID.String(),
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCategorySoftDeletes(t *testing.T) {
	categories := newFakeCategoryRepo()
	svc := NewCategoryService(categories, nil)

	category := categories.add(&model.Category{Name: "electronics"})

	if err := svc.DeleteCategory(context.Background(), category.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if category.State.IsActive() {
		t.Error("category still active after delete")
	}
	if err := svc.DeleteCategory(context.Background(), category.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}

	listed, err := svc.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("listed = %d categories, want 0", len(listed))
	}
}

func TestUpdateCategoryUnknown(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo(), nil)

	_, err := svc.UpdateCategory(context.Background(), uuid.New(), CategoryRequest{Name: "renamed"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
