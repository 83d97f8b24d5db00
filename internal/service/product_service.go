package service

import (
	"context"
	"errors"

	"eshop/internal/cache"
	"eshop/internal/model"
	"eshop/internal/repository"
	ws "eshop/internal/websocket"
	"eshop/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,min=3,max=100"`
	Description string          `json:"description" binding:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"image_url" binding:"omitempty,max=200"`
	Stock       int             `json:"stock" binding:"min=0"`
	CategoryID  string          `json:"category_id" binding:"required,uuid"`
}

type ProductResponse struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Price       decimal.Decimal      `json:"price"`
	ImageURL    string               `json:"image_url"`
	Stock       int                  `json:"stock"`
	Rating      float64              `json:"rating"`
	CategoryID  uuid.UUID            `json:"category_id"`
	SellerID    uuid.UUID            `json:"seller_id"`
	State       model.LifecycleState `json:"state"`
}

type ProductService interface {
	ListProducts(ctx context.Context, page, limit int) ([]ProductResponse, int64, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error)
	CreateProduct(ctx context.Context, seller *model.User, req ProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, user *model.User, id uuid.UUID, req ProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, user *model.User, id uuid.UUID) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Cache
	hub          *ws.Hub
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	listCache *cache.Cache,
	hub *ws.Hub,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        listCache,
		hub:          hub,
	}
}

func mapProduct(product *model.Product) *ProductResponse {
	return &ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ImageURL:    product.ImageURL,
		Stock:       product.Stock,
		Rating:      product.Rating,
		CategoryID:  product.CategoryID,
		SellerID:    product.SellerID,
		State:       product.State,
	}
}

// validate applies the constraints gin binding can't express on decimal fields.
func (req *ProductRequest) validate() (uuid.UUID, error) {
	if req.Price.Sign() <= 0 {
		return uuid.Nil, apperror.ErrInvalidInput
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return uuid.Nil, apperror.ErrInvalidInput
	}
	return categoryID, nil
}

func (s *productService) ListProducts(ctx context.Context, page, limit int) ([]ProductResponse, int64, error) {
	type cached struct {
		Products []ProductResponse `json:"products"`
		Total    int64             `json:"total"`
	}

	// Only the default first page is cached; deep pages go to the database.
	cacheable := page == 1 && limit == 20
	if cacheable {
		var hit cached
		if s.cache.Get(ctx, cache.KeyProducts, &hit) {
			return hit.Products, hit.Total, nil
		}
	}

	products, total, err := s.productRepo.ListActive(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, *mapProduct(&p))
	}

	if cacheable {
		s.cache.Set(ctx, cache.KeyProducts, cached{Products: res, Total: total})
	}
	return res, total, nil
}

func (s *productService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]ProductResponse, error) {
	if _, err := s.categoryRepo.FindActiveByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	products, err := s.productRepo.ListActiveByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, *mapProduct(&p))
	}
	return res, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return mapProduct(product), nil
}

func (s *productService) CreateProduct(ctx context.Context, seller *model.User, req ProductRequest) (*ProductResponse, error) {
	categoryID, err := req.validate()
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindActiveByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		CategoryID:  categoryID,
		SellerID:    seller.ID,
		State:       model.StateActive,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.KeyProducts)
	return mapProduct(product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, user *model.User, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	categoryID, err := req.validate()
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if product.SellerID != user.ID && !user.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	if categoryID != product.CategoryID {
		if _, err := s.categoryRepo.FindActiveByID(ctx, categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.ErrNotFound
			}
			return nil, err
		}
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.ImageURL = req.ImageURL
	product.Stock = req.Stock
	product.CategoryID = categoryID
	// Rating stays whatever the aggregator last computed.

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.KeyProducts)
	s.hub.Publish("product.stock_updated", map[string]interface{}{
		"product_id": product.ID.String(),
		"stock":      product.Stock,
	})
	return mapProduct(product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, user *model.User, id uuid.UUID) error {
	product, err := s.productRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if product.SellerID != user.ID && !user.IsAdmin() {
		return apperror.ErrForbidden
	}

	if err := s.productRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.KeyProducts)
	return nil
}
