package repository

import (
	"context"

	"eshop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ListActive(ctx context.Context, page, limit int) ([]model.Review, int64, error)
	ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	AverageGrade(ctx context.Context, productID uuid.UUID) (float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return GetDB(ctx, r.db).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := GetDB(ctx, r.db).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListActive(ctx context.Context, page, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Review{}).Where("state = ?", model.StateActive)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("comment_date desc").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	if err := GetDB(ctx, r.db).
		Where("product_id = ? AND state = ?", productID, model.StateActive).
		Order("comment_date desc").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Review{}).
		Where("id = ?", id).
		Update("state", model.StateInactive).Error
}

// AverageGrade computes the mean grade over the product's active reviews,
// 0.0 when it has none. Runs against the ambient transaction so a review
// inserted or deactivated earlier in the same transaction is visible.
func (r *reviewRepository) AverageGrade(ctx context.Context, productID uuid.UUID) (float64, error) {
	var avg float64
	err := GetDB(ctx, r.db).Model(&model.Review{}).
		Where("product_id = ? AND state = ?", productID, model.StateActive).
		Select("COALESCE(AVG(grade), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	return avg, nil
}
