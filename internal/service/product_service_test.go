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

func newProductFixture() (*fakeProductRepo, *fakeCategoryRepo, ProductService) {
	products := newFakeProductRepo()
	categories := newFakeCategoryRepo()
	svc := NewProductService(products, categories, nil, nil)
	return products, categories, svc
}

func seller() *model.User {
	return &model.User{ID: uuid.New(), Email: "seller@example.com", Role: model.RoleSeller, State: model.StateActive}
}

func TestCreateProduct(t *testing.T) {
	_, categories, svc := newProductFixture()
	category := categories.add(&model.Category{Name: "tools"})
	owner := seller()

	res, err := svc.CreateProduct(context.Background(), owner, ProductRequest{
		Name:       "hammer",
		Price:      decimal.NewFromFloat(12.50),
		Stock:      5,
		CategoryID: category.ID.String(),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if res.SellerID != owner.ID {
		t.Errorf("seller id = %v, want %v", res.SellerID, owner.ID)
	}
	if res.Rating != 0 {
		t.Errorf("new product rating = %v, want 0", res.Rating)
	}
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	_, categories, svc := newProductFixture()
	category := categories.add(&model.Category{Name: "tools"})

	for _, price := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		_, err := svc.CreateProduct(context.Background(), seller(), ProductRequest{
			Name:       "hammer",
			Price:      price,
			CategoryID: category.ID.String(),
		})
		if !errors.Is(err, apperror.ErrInvalidInput) {
			t.Errorf("price %s: err = %v, want ErrInvalidInput", price, err)
		}
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	_, _, svc := newProductFixture()

	_, err := svc.CreateProduct(context.Background(), seller(), ProductRequest{
		Name:       "hammer",
		Price:      decimal.NewFromInt(10),
		CategoryID: uuid.NewString(),
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateProductOwnership(t *testing.T) {
	products, categories, svc := newProductFixture()
	category := categories.add(&model.Category{Name: "tools"})
	owner := seller()
	product := products.add(&model.Product{
		Name:       "hammer",
		Price:      decimal.NewFromInt(10),
		CategoryID: category.ID,
		SellerID:   owner.ID,
	})

	req := ProductRequest{
		Name:       "sledgehammer",
		Price:      decimal.NewFromInt(20),
		Stock:      2,
		CategoryID: category.ID.String(),
	}

	otherSeller := seller()
	if _, err := svc.UpdateProduct(context.Background(), otherSeller, product.ID, req); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("other seller: err = %v, want ErrForbidden", err)
	}

	res, err := svc.UpdateProduct(context.Background(), owner, product.ID, req)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if res.Name != "sledgehammer" {
		t.Errorf("name = %q, want sledgehammer", res.Name)
	}

	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin, State: model.StateActive}
	if _, err := svc.UpdateProduct(context.Background(), admin, product.ID, req); err != nil {
		t.Errorf("admin update: %v", err)
	}
}

func TestUpdateProductKeepsRating(t *testing.T) {
	products, categories, svc := newProductFixture()
	category := categories.add(&model.Category{Name: "tools"})
	owner := seller()
	product := products.add(&model.Product{
		Name:       "hammer",
		Price:      decimal.NewFromInt(10),
		Rating:     4.5,
		CategoryID: category.ID,
		SellerID:   owner.ID,
	})

	res, err := svc.UpdateProduct(context.Background(), owner, product.ID, ProductRequest{
		Name:       "hammer",
		Price:      decimal.NewFromInt(15),
		CategoryID: category.ID.String(),
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if res.Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5 (rating is aggregator-owned)", res.Rating)
	}
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	products, categories, svc := newProductFixture()
	category := categories.add(&model.Category{Name: "tools"})
	owner := seller()
	product := products.add(&model.Product{
		Name:       "hammer",
		Price:      decimal.NewFromInt(10),
		CategoryID: category.ID,
		SellerID:   owner.ID,
	})

	if err := svc.DeleteProduct(context.Background(), owner, product.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if product.State.IsActive() {
		t.Error("product still active after delete")
	}

	if _, err := svc.GetProduct(context.Background(), product.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetProduct after delete: err = %v, want ErrNotFound", err)
	}
}

func TestListByCategoryUnknownCategory(t *testing.T) {
	_, _, svc := newProductFixture()

	_, err := svc.ListByCategory(context.Background(), uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
