package service

import (
	"context"
	"errors"

	"eshop/internal/cache"
	"eshop/internal/model"
	"eshop/internal/repository"
	"eshop/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CategoryRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	ParentID string `json:"parent_id" binding:"omitempty,uuid"`
}

type CategoryResponse struct {
	ID       uuid.UUID            `json:"id"`
	Name     string               `json:"name"`
	ParentID *uuid.UUID           `json:"parent_id"`
	State    model.LifecycleState `json:"state"`
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]CategoryResponse, error)
	CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *cache.Cache
}

func NewCategoryService(repo repository.CategoryRepository, listCache *cache.Cache) CategoryService {
	return &categoryService{repo: repo, cache: listCache}
}

func mapCategory(category *model.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:       category.ID,
		Name:     category.Name,
		ParentID: category.ParentID,
		State:    category.State,
	}
}

// resolveParent validates the optional parent reference against the active set.
func (s *categoryService) resolveParent(ctx context.Context, parentID string) (*uuid.UUID, error) {
	if parentID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(parentID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}
	if _, err := s.repo.FindActiveByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &id, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	var res []CategoryResponse
	if s.cache.Get(ctx, cache.KeyCategories, &res) {
		return res, nil
	}

	categories, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	res = make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, *mapCategory(&c))
	}

	s.cache.Set(ctx, cache.KeyCategories, res)
	return res, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	parentID, err := s.resolveParent(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:     req.Name,
		ParentID: parentID,
		State:    model.StateActive,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.KeyCategories)
	return mapCategory(category), nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	parentID, err := s.resolveParent(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.ParentID = parentID

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.KeyCategories)
	return mapCategory(category), nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindActiveByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.KeyCategories)
	return nil
}
