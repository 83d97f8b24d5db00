package handler

import (
	"net/http"

	"eshop/internal/middleware"
	"eshop/internal/model"
	"eshop/internal/service"
	"eshop/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authn gin.HandlerFunc) {
	cart := router.Group("/cart", authn, middleware.RequireRole(model.RoleBuyer))
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:id", h.UpdateItem)
		cart.DELETE("/items/:id", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}

// GetCart handles GET /cart
// @Summary      Get cart
// @Description  Returns the current buyer's cart with totals
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.CartResponse}
// @Router       /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User not found in context"))
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), user)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cart))
}

// AddItem handles POST /cart/items
// @Summary      Add cart item
// @Description  Adds a product to the cart, merging quantity if already present
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AddCartItemRequest  true  "Item Payload"
// @Success      200      {object}  response.Response{data=service.CartResponse}
// @Failure      404      {object}  response.Response
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User not found in context"))
		return
	}

	var req service.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), user, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cart))
}

// UpdateItem handles PUT /cart/items/:id
// @Summary      Update cart item quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Cart Item ID"
// @Param        payload  body      service.UpdateCartItemRequest  true  "Quantity Payload"
// @Success      200      {object}  response.Response{data=service.CartResponse}
// @Failure      404      {object}  response.Response
// @Router       /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User not found in context"))
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid cart item ID"))
		return
	}

	var req service.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), user, itemID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cart))
}

// RemoveItem handles DELETE /cart/items/:id
// @Summary      Remove cart item
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cart Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User not found in context"))
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid cart item ID"))
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), user, itemID); err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Item removed"))
}

// ClearCart handles DELETE /cart
// @Summary      Clear cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User not found in context"))
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), user); err != nil {
		c.JSON(response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Cart cleared"))
}
