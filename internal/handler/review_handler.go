package handler

import (
	"net/http"

	"eshop/internal/middleware"
	"eshop/internal/service"
	"eshop/pkg/pagination"
	"eshop/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	reviews := router.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		// role checks happen in the service: only buyers create, only
		// the author or an admin deletes
		reviews.POST("", authn, h.CreateReview)
		reviews.DELETE("/:id", authn, h.DeleteReview)
	}
}

// ListReviews handles GET /reviews with pagination
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	params := pagination.Parse(c)

	reviews, total, err := h.reviewService.ListReviews(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch reviews"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// CreateReview handles POST /reviews (buyer only)
// @Summary      Create review
// @Description  Adds a review and recomputes the product rating in the same transaction
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateReviewRequest  true  "Review Payload"
// @Success      201      {object}  response.Response{data=service.ReviewResponse}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User not found in context"))
		return
	}

	var req service.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), user, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, review))
}

// DeleteReview handles DELETE /reviews/:id (author or admin, soft delete)
// @Summary      Delete review
// @Description  Deactivates a review and recomputes the product rating in the same transaction
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Review ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid review ID"))
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), user, id); err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Review deleted"))
}
