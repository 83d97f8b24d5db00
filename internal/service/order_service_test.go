package service

import (
	"context"
	"errors"
	"testing"

	"eshop/internal/model"
	"eshop/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newOrderFixture() (*fakeOrderRepo, *fakeCartRepo, *fakeProductRepo, OrderService) {
	orders := newFakeOrderRepo()
	carts := newFakeCartRepo()
	products := newFakeProductRepo()
	svc := NewOrderService(orders, carts, products, &fakeTxManager{}, nil)
	return orders, carts, products, svc
}

func TestCheckoutSnapshotsPricesAndDecrementsStock(t *testing.T) {
	_, carts, products, svc := newOrderFixture()
	user := buyer()

	widget := products.add(&model.Product{Name: "widget", Price: decimal.NewFromFloat(9.99), Stock: 10})
	gadget := products.add(&model.Product{Name: "gadget", Price: decimal.NewFromFloat(25.00), Stock: 3})
	carts.add(&model.CartItem{UserID: user.ID, ProductID: widget.ID, Quantity: 2})
	carts.add(&model.CartItem{UserID: user.ID, ProductID: gadget.ID, Quantity: 1})

	order, err := svc.Checkout(context.Background(), user)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if order.Status != model.OrderStatusCreated {
		t.Errorf("status = %q, want %q", order.Status, model.OrderStatusCreated)
	}
	want := decimal.NewFromFloat(44.98)
	if !order.TotalAmount.Equal(want) {
		t.Errorf("total = %s, want %s", order.TotalAmount, want)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}
	if widget.Stock != 8 || gadget.Stock != 2 {
		t.Errorf("stock after checkout = %d/%d, want 8/2", widget.Stock, gadget.Stock)
	}

	remaining, _ := carts.ListByUser(context.Background(), user.ID)
	if len(remaining) != 0 {
		t.Errorf("cart items after checkout = %d, want 0", len(remaining))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	_, _, _, svc := newOrderFixture()

	_, err := svc.Checkout(context.Background(), buyer())
	if !errors.Is(err, apperror.ErrEmptyCart) {
		t.Errorf("err = %v, want ErrEmptyCart", err)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	_, carts, products, svc := newOrderFixture()
	user := buyer()

	widget := products.add(&model.Product{Name: "widget", Price: decimal.NewFromInt(5), Stock: 1})
	carts.add(&model.CartItem{UserID: user.ID, ProductID: widget.ID, Quantity: 3})

	_, err := svc.Checkout(context.Background(), user)
	if !errors.Is(err, apperror.ErrOutOfStock) {
		t.Errorf("err = %v, want ErrOutOfStock", err)
	}
}

func TestGetOrderOwnershipCheck(t *testing.T) {
	orders, _, _, svc := newOrderFixture()
	owner := buyer()

	order := &model.Order{UserID: owner.ID, Status: model.OrderStatusCreated}
	if err := orders.Create(context.Background(), order); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	if _, err := svc.GetOrder(context.Background(), owner, order.ID); err != nil {
		t.Errorf("owner: %v", err)
	}

	stranger := buyer()
	if _, err := svc.GetOrder(context.Background(), stranger, order.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("stranger: err = %v, want ErrForbidden", err)
	}

	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin, State: model.StateActive}
	if _, err := svc.GetOrder(context.Background(), admin, order.ID); err != nil {
		t.Errorf("admin: %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		wantErr  error
	}{
		{model.OrderStatusCreated, model.OrderStatusPaid, nil},
		{model.OrderStatusCreated, model.OrderStatusCancelled, nil},
		{model.OrderStatusPaid, model.OrderStatusShipped, nil},
		{model.OrderStatusShipped, model.OrderStatusDelivered, nil},
		{model.OrderStatusCreated, model.OrderStatusDelivered, apperror.ErrBadTransition},
		{model.OrderStatusDelivered, model.OrderStatusCancelled, apperror.ErrBadTransition},
		{model.OrderStatusCancelled, model.OrderStatusPaid, apperror.ErrBadTransition},
	}

	for _, tc := range cases {
		orders, _, _, svc := newOrderFixture()
		order := &model.Order{UserID: uuid.New(), Status: tc.from}
		if err := orders.Create(context.Background(), order); err != nil {
			t.Fatalf("seed order: %v", err)
		}

		_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateOrderStatusRequest{Status: tc.to})
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%s -> %s: err = %v, want %v", tc.from, tc.to, err, tc.wantErr)
		}
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	_, _, _, svc := newOrderFixture()

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), UpdateOrderStatusRequest{Status: model.OrderStatusPaid})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
