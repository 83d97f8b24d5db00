package service

import (
	"context"
	"errors"

	"eshop/internal/model"
	"eshop/internal/repository"
	"eshop/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartItemResponse struct {
	ID       uuid.UUID        `json:"id"`
	Quantity int              `json:"quantity"`
	Product  *ProductResponse `json:"product"`
}

type CartResponse struct {
	UserID        uuid.UUID          `json:"user_id"`
	Items         []CartItemResponse `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	TotalPrice    decimal.Decimal    `json:"total_price"`
}

type CartService interface {
	GetCart(ctx context.Context, user *model.User) (*CartResponse, error)
	AddItem(ctx context.Context, user *model.User, req AddCartItemRequest) (*CartResponse, error)
	UpdateItem(ctx context.Context, user *model.User, itemID uuid.UUID, req UpdateCartItemRequest) (*CartResponse, error)
	RemoveItem(ctx context.Context, user *model.User, itemID uuid.UUID) error
	ClearCart(ctx context.Context, user *model.User) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	txManager   repository.TransactionManager
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	txManager repository.TransactionManager,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		txManager:   txManager,
	}
}

func (s *cartService) buildCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &CartResponse{
		UserID:     userID,
		Items:      make([]CartItemResponse, 0, len(items)),
		TotalPrice: decimal.Zero,
	}

	for _, item := range items {
		entry := CartItemResponse{ID: item.ID, Quantity: item.Quantity}
		if item.Product != nil {
			entry.Product = mapProduct(item.Product)
			res.TotalPrice = res.TotalPrice.Add(
				item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			)
		}
		res.TotalQuantity += item.Quantity
		res.Items = append(res.Items, entry)
	}

	return res, nil
}

func (s *cartService) GetCart(ctx context.Context, user *model.User) (*CartResponse, error) {
	return s.buildCart(ctx, user.ID)
}

// AddItem puts a product in the cart, merging quantities when the product is
// already there.
func (s *cartService) AddItem(ctx context.Context, user *model.User, req AddCartItemRequest) (*CartResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.productRepo.FindActiveByID(txCtx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		existing, err := s.cartRepo.FindItem(txCtx, user.ID, productID)
		switch {
		case err == nil:
			return s.cartRepo.UpdateQuantity(txCtx, existing.ID, existing.Quantity+req.Quantity)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return s.cartRepo.CreateItem(txCtx, &model.CartItem{
				UserID:    user.ID,
				ProductID: productID,
				Quantity:  req.Quantity,
			})
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return s.buildCart(ctx, user.ID)
}

func (s *cartService) UpdateItem(ctx context.Context, user *model.User, itemID uuid.UUID, req UpdateCartItemRequest) (*CartResponse, error) {
	if _, err := s.cartRepo.FindItemByID(ctx, user.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if err := s.cartRepo.UpdateQuantity(ctx, itemID, req.Quantity); err != nil {
		return nil, err
	}

	return s.buildCart(ctx, user.ID)
}

func (s *cartService) RemoveItem(ctx context.Context, user *model.User, itemID uuid.UUID) error {
	if _, err := s.cartRepo.FindItemByID(ctx, user.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return s.cartRepo.DeleteItem(ctx, itemID)
}

func (s *cartService) ClearCart(ctx context.Context, user *model.User) error {
	return s.cartRepo.Clear(ctx, user.ID)
}
