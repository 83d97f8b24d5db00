package service

import (
	"context"
	"errors"
	"time"

	"eshop/internal/model"
	"eshop/internal/repository"
	ws "eshop/internal/websocket"
	"eshop/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Allowed order status transitions. CANCELLED is reachable only before the
// order ships.
var orderTransitions = map[string][]string{
	model.OrderStatusCreated: {model.OrderStatusPaid, model.OrderStatusCancelled},
	model.OrderStatusPaid:    {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped: {model.OrderStatusDelivered},
}

// DTOs
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=CREATED PAID SHIPPED DELIVERED CANCELLED"`
}

type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type OrderService interface {
	Checkout(ctx context.Context, user *model.User) (*OrderResponse, error)
	GetOrder(ctx context.Context, user *model.User, orderID uuid.UUID) (*OrderResponse, error)
	ListOrders(ctx context.Context, user *model.User, page, limit int) ([]OrderResponse, int64, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

func mapOrder(order *model.Order) *OrderResponse {
	res := &OrderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       make([]OrderItemResponse, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	for _, item := range order.Items {
		res.Items = append(res.Items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return res
}

// Checkout turns the buyer's cart into an order in one transaction: product
// rows are locked, stock validated and decremented, unit prices snapshotted
// and the cart cleared. Any failure rolls the whole thing back.
func (s *orderService) Checkout(ctx context.Context, user *model.User) (*OrderResponse, error) {
	var order *model.Order

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		items, err := s.cartRepo.ListByUser(txCtx, user.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperror.ErrEmptyCart
		}

		order = &model.Order{
			UserID:      user.ID,
			Status:      model.OrderStatusCreated,
			TotalAmount: decimal.Zero,
		}
		if err := s.orderRepo.Create(txCtx, order); err != nil {
			return err
		}

		total := decimal.Zero
		for _, item := range items {
			product, err := s.productRepo.FindActiveByIDForUpdate(txCtx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.ErrNotFound
				}
				return err
			}

			if product.Stock < item.Quantity {
				return apperror.ErrOutOfStock
			}

			if err := s.productRepo.UpdateStock(txCtx, product.ID, product.Stock-item.Quantity); err != nil {
				return err
			}

			orderItem := &model.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			}
			if err := s.orderRepo.CreateItem(txCtx, orderItem); err != nil {
				return err
			}

			order.Items = append(order.Items, *orderItem)
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order.TotalAmount = total
		if err := s.orderRepo.UpdateTotal(txCtx, order.ID, total); err != nil {
			return err
		}

		return s.cartRepo.Clear(txCtx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish("order.created", map[string]interface{}{
		"order_id":     order.ID.String(),
		"total_amount": order.TotalAmount.String(),
	})

	return mapOrder(order), nil
}

func (s *orderService) GetOrder(ctx context.Context, user *model.User, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if order.UserID != user.ID && !user.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	return mapOrder(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, user *model.User, page, limit int) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.ListByUser(ctx, user.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, *mapOrder(&o))
	}
	return res, total, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	allowed := false
	for _, next := range orderTransitions[order.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperror.ErrBadTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, req.Status); err != nil {
		return nil, err
	}
	order.Status = req.Status

	s.hub.Publish("order.status_updated", map[string]interface{}{
		"order_id": order.ID.String(),
		"status":   order.Status,
	})

	return mapOrder(order), nil
}
