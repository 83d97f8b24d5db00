package service

import (
	"context"
	"errors"
	"testing"

	"eshop/internal/model"
	"eshop/pkg/apperror"

	"github.com/google/uuid"
)

func newReviewFixture() (*fakeReviewRepo, *fakeProductRepo, *fakeTxManager, ReviewService) {
	reviews := newFakeReviewRepo()
	products := newFakeProductRepo()
	txm := &fakeTxManager{}
	agg := NewRatingAggregator(reviews, products)
	svc := NewReviewService(reviews, products, agg, txm, nil, nil)
	return reviews, products, txm, svc
}

func buyer() *model.User {
	return &model.User{ID: uuid.New(), Email: "buyer@example.com", Role: model.RoleBuyer, State: model.StateActive}
}

func TestCreateReviewUpdatesRating(t *testing.T) {
	_, products, txm, svc := newReviewFixture()
	product := products.add(&model.Product{Name: "widget"})

	res, err := svc.CreateReview(context.Background(), buyer(), CreateReviewRequest{
		ProductID: product.ID.String(),
		Comment:   "solid",
		Grade:     4,
	})
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if res.Grade != 4 {
		t.Errorf("grade = %d, want 4", res.Grade)
	}
	if product.Rating != 4.0 {
		t.Errorf("product rating = %v, want 4.0", product.Rating)
	}
	if txm.calls != 1 {
		t.Errorf("transactions = %d, want 1", txm.calls)
	}
}

func TestCreateReviewRejectsNonBuyers(t *testing.T) {
	_, products, _, svc := newReviewFixture()
	product := products.add(&model.Product{Name: "widget"})

	for _, role := range []string{model.RoleSeller, model.RoleAdmin} {
		user := &model.User{ID: uuid.New(), Role: role, State: model.StateActive}
		_, err := svc.CreateReview(context.Background(), user, CreateReviewRequest{
			ProductID: product.ID.String(),
			Grade:     5,
		})
		if !errors.Is(err, apperror.ErrForbidden) {
			t.Errorf("role %s: err = %v, want ErrForbidden", role, err)
		}
	}
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	_, _, _, svc := newReviewFixture()

	_, err := svc.CreateReview(context.Background(), buyer(), CreateReviewRequest{
		ProductID: uuid.NewString(),
		Grade:     3,
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteReviewAuthorOnly(t *testing.T) {
	reviews, products, _, svc := newReviewFixture()
	product := products.add(&model.Product{Name: "widget"})
	author := buyer()
	review := reviews.add(&model.Review{UserID: author.ID, ProductID: product.ID, Grade: 5})

	other := buyer()
	if err := svc.DeleteReview(context.Background(), other, review.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("other buyer: err = %v, want ErrForbidden", err)
	}

	if err := svc.DeleteReview(context.Background(), author, review.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if review.State.IsActive() {
		t.Error("review still active after delete")
	}
}

func TestDeleteReviewAdminOverride(t *testing.T) {
	reviews, products, _, svc := newReviewFixture()
	product := products.add(&model.Product{Name: "widget", Rating: 1.0})
	reviews.add(&model.Review{UserID: uuid.New(), ProductID: product.ID, Grade: 4})
	review := reviews.add(&model.Review{UserID: uuid.New(), ProductID: product.ID, Grade: 1})

	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin, State: model.StateActive}
	if err := svc.DeleteReview(context.Background(), admin, review.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if product.Rating != 4.0 {
		t.Errorf("rating after delete = %v, want 4.0", product.Rating)
	}
}

func TestDeleteReviewAlreadyInactive(t *testing.T) {
	reviews, products, _, svc := newReviewFixture()
	product := products.add(&model.Product{Name: "widget"})
	author := buyer()
	review := reviews.add(&model.Review{UserID: author.ID, ProductID: product.ID, Grade: 3})
	review.State = model.StateInactive

	if err := svc.DeleteReview(context.Background(), author, review.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteReviewMissing(t *testing.T) {
	_, _, _, svc := newReviewFixture()

	if err := svc.DeleteReview(context.Background(), buyer(), uuid.New()); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
