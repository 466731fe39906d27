package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront-be/internal/cart"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const cartCookieName = "cart_id"

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")
	g.GET("", h.get)
	g.POST("/items", h.addItem)
	g.PATCH("/items/:id", h.updateItem)
	g.DELETE("/items/:id", h.removeItem)
	g.POST("/coupon", h.applyCoupon)
	g.DELETE("/coupon", h.removeCoupon)
}

type cartItemResponse struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	SKU         string  `json:"sku"`
	VariantText string  `json:"variantText,omitempty"`
	OptionIDs   []int64 `json:"optionIds,omitempty"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	OutOfStock  bool    `json:"outOfStock"`
}

type cartResponse struct {
	ID         string             `json:"id"`
	Items      []cartItemResponse `json:"items"`
	CouponCode *string            `json:"couponCode,omitempty"`
	Subtotal   float64            `json:"subtotal"`
	Discount   float64            `json:"discount"`
	Total      float64            `json:"total"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, cartItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			VariantText: item.VariantText,
			OptionIDs:   item.OptionIDs,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
			ImageURL:    item.ImageURL,
			OutOfStock:  item.OutOfStock,
		})
	}
	return cartResponse{
		ID:         c.ID.String(),
		Items:      items,
		CouponCode: c.CouponCode,
		Subtotal:   c.Subtotal,
		Discount:   c.Discount,
		Total:      c.Total,
	}
}

// cartIDFromCookie reads the opaque cart identifier the client carries.
func cartIDFromCookie(c echo.Context) *uuid.UUID {
	cookie, err := c.Cookie(cartCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return nil
	}
	return &id
}

func setCartCookie(c echo.Context, id uuid.UUID) {
	c.SetCookie(&http.Cookie{
		Name:     cartCookieName,
		Value:    id.String(),
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *CartHandler) get(c echo.Context) error {
	ct, err := h.svc.GetOrCreate(c.Request().Context(), cartIDFromCookie(c), nil)
	if err != nil {
		return writeError(c, err)
	}
	setCartCookie(c, ct.ID)
	return c.JSON(http.StatusOK, toCartResponse(ct))
}

type addItemRequest struct {
	ProductID int64   `json:"productId"`
	OptionIDs []int64 `json:"optionIds"`
	Quantity  int64   `json:"quantity"`
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	// First add-to-cart creates the cart.
	ct, err := h.svc.GetOrCreate(c.Request().Context(), cartIDFromCookie(c), nil)
	if err != nil {
		return writeError(c, err)
	}
	setCartCookie(c, ct.ID)

	ct, err = h.svc.AddItem(c.Request().Context(), cart.AddItemParams{
		CartID:    ct.ID,
		ProductID: req.ProductID,
		OptionIDs: req.OptionIDs,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCartResponse(ct))
}

type updateItemRequest struct {
	Quantity int64 `json:"quantity"`
}

func (h *CartHandler) updateItem(c echo.Context) error {
	cartID := cartIDFromCookie(c)
	if cartID == nil {
		return writeError(c, cart.ErrCartNotFound)
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ct, err := h.svc.UpdateItemQuantity(c.Request().Context(), cart.UpdateItemParams{
		CartID:   *cartID,
		ItemID:   itemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCartResponse(ct))
}

func (h *CartHandler) removeItem(c echo.Context) error {
	cartID := cartIDFromCookie(c)
	if cartID == nil {
		return writeError(c, cart.ErrCartNotFound)
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
	}

	ct, err := h.svc.RemoveItem(c.Request().Context(), *cartID, itemID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCartResponse(ct))
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

func (h *CartHandler) applyCoupon(c echo.Context) error {
	cartID := cartIDFromCookie(c)
	if cartID == nil {
		return writeError(c, cart.ErrCartNotFound)
	}

	var req applyCouponRequest
	if err := c.Bind(&req); err != nil || req.Code == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "coupon code is required"})
	}

	ct, err := h.svc.ApplyCoupon(c.Request().Context(), *cartID, req.Code)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCartResponse(ct))
}

func (h *CartHandler) removeCoupon(c echo.Context) error {
	cartID := cartIDFromCookie(c)
	if cartID == nil {
		return writeError(c, cart.ErrCartNotFound)
	}

	ct, err := h.svc.RemoveCoupon(c.Request().Context(), *cartID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCartResponse(ct))
}
