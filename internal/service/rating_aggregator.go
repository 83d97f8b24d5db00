package service

import (
	"context"
	"errors"

	"eshop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingAggregator keeps product.rating equal to the mean grade of the
// product's active reviews. Recompute is an explicit post-write hook: the
// review use case calls it after flushing a review insert or soft delete, and
// the surrounding transaction owns the commit boundary, so the review write
// and the rating update land atomically.
type RatingAggregator interface {
	Recompute(ctx context.Context, productID uuid.UUID) (float64, error)
}

type ratingAggregator struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewRatingAggregator(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) RatingAggregator {
	return &ratingAggregator{reviewRepo: reviewRepo, productRepo: productRepo}
}

// Recompute writes the mean of active grades (0.0 when there are none) to the
// product's rating. When the product row no longer exists this is a silent
// no-op rather than a transaction failure.
func (a *ratingAggregator) Recompute(ctx context.Context, productID uuid.UUID) (float64, error) {
	avg, err := a.reviewRepo.AverageGrade(ctx, productID)
	if err != nil {
		return 0, err
	}

	if _, err := a.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return avg, nil
		}
		return 0, err
	}

	if err := a.productRepo.UpdateRating(ctx, productID, avg); err != nil {
		return 0, err
	}
	return avg, nil
}
