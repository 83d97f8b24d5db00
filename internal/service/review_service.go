package service

import (
	"context"
	"errors"
	"time"

	"eshop/internal/cache"
	"eshop/internal/model"
	"eshop/internal/repository"
	ws "eshop/internal/websocket"
	"eshop/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateReviewRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Comment   string `json:"comment" binding:"omitempty,max=1000"`
	Grade     int    `json:"grade" binding:"required,min=1,max=5"`
}

type ReviewResponse struct {
	ID          uuid.UUID            `json:"id"`
	UserID      uuid.UUID            `json:"user_id"`
	ProductID   uuid.UUID            `json:"product_id"`
	Comment     string               `json:"comment"`
	CommentDate time.Time            `json:"comment_date"`
	Grade       int                  `json:"grade"`
	State       model.LifecycleState `json:"state"`
}

type ReviewService interface {
	ListReviews(ctx context.Context, page, limit int) ([]ReviewResponse, int64, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewResponse, error)
	CreateReview(ctx context.Context, user *model.User, req CreateReviewRequest) (*ReviewResponse, error)
	DeleteReview(ctx context.Context, user *model.User, reviewID uuid.UUID) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	aggregator  RatingAggregator
	txManager   repository.TransactionManager
	hub         *ws.Hub
	cache       *cache.Cache
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	aggregator RatingAggregator,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	productCache *cache.Cache,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		aggregator:  aggregator,
		txManager:   txManager,
		hub:         hub,
		cache:       productCache,
	}
}

func mapReview(review *model.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:          review.ID,
		UserID:      review.UserID,
		ProductID:   review.ProductID,
		Comment:     review.Comment,
		CommentDate: review.CommentDate,
		Grade:       review.Grade,
		State:       review.State,
	}
}

func (s *reviewService) ListReviews(ctx context.Context, page, limit int) ([]ReviewResponse, int64, error) {
	reviews, total, err := s.reviewRepo.ListActive(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		res = append(res, *mapReview(&r))
	}
	return res, total, nil
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewResponse, error) {
	if _, err := s.productRepo.FindActiveByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	res := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		res = append(res, *mapReview(&r))
	}
	return res, nil
}

// CreateReview inserts a buyer's review and recomputes the product rating in
// the same transaction, so the rating can never be observed stale relative
// to the committed review set.
func (s *reviewService) CreateReview(ctx context.Context, user *model.User, req CreateReviewRequest) (*ReviewResponse, error) {
	if user.Role != model.RoleBuyer {
		return nil, apperror.ErrForbidden
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}

	var review *model.Review
	var rating float64

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.productRepo.FindActiveByID(txCtx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		review = &model.Review{
			UserID:    user.ID,
			ProductID: productID,
			Comment:   req.Comment,
			Grade:     req.Grade,
			State:     model.StateActive,
		}
		if err := s.reviewRepo.Create(txCtx, review); err != nil {
			return err
		}

		rating, err = s.aggregator.Recompute(txCtx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.KeyProducts)
	s.hub.Publish("product.rating_updated", map[string]interface{}{
		"product_id": productID.String(),
		"rating":     rating,
	})

	return mapReview(review), nil
}

// DeleteReview soft-deletes a review. Only the author or an admin may do it;
// the product rating is recomputed against the shrunken active set before
// the transaction commits.
func (s *reviewService) DeleteReview(ctx context.Context, user *model.User, reviewID uuid.UUID) error {
	var productID uuid.UUID
	var rating float64

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		review, err := s.reviewRepo.FindByID(txCtx, reviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		if !review.State.IsActive() {
			return apperror.ErrNotFound
		}

		if review.UserID != user.ID && !user.IsAdmin() {
			return apperror.ErrForbidden
		}

		productID = review.ProductID

		if err := s.reviewRepo.Deactivate(txCtx, review.ID); err != nil {
			return err
		}

		rating, err = s.aggregator.Recompute(txCtx, productID)
		return err
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.KeyProducts)
	s.hub.Publish("product.rating_updated", map[string]interface{}{
		"product_id": productID.String(),
		"rating":     rating,
	})

	return nil
}
