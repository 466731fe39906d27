package handler

import (
	"net/http"
	"strconv"

	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/utils"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	svc        order.Service
	paymentSvc payment.Service
	jwtSecret  string
}

func NewOrderHandler(svc order.Service, paymentSvc payment.Service, jwtSecret string) *OrderHandler {
	return &OrderHandler{svc: svc, paymentSvc: paymentSvc, jwtSecret: jwtSecret}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, requireAuth, requireAdmin echo.MiddlewareFunc) {
	g := e.Group("/orders")
	g.POST("/create", h.create)
	g.GET("/check-status", h.checkStatus)
	g.POST("/:id/send-email", h.sendEmail)
	g.GET("", h.list, requireAuth)
	g.GET("/:id", h.get, requireAuth)

	e.PATCH("/admin/orders/:id/status", h.updateStatus, requireAuth, requireAdmin)
}

type createOrderRequest struct {
	Guest                bool                `json:"guest"`
	Email                string              `json:"email"`
	FirstName            string              `json:"firstName"`
	LastName             string              `json:"lastName"`
	Address              *order.AddressInput `json:"address"`
	BillingAddress       *order.AddressInput `json:"billingAddress"`
	ShippingAddressID    *int64              `json:"shippingAddressId"`
	BillingAddressID     *int64              `json:"billingAddressId"`
	PaymentMethodID      int64               `json:"paymentMethodId"`
	DeliveryMethodID     int64               `json:"deliveryMethodId"`
	CartTotal            float64             `json:"cartTotal"`
	OrderNote            *string             `json:"orderNote"`
	UseShippingAsBilling bool                `json:"useShippingAsBilling"`
}

type createOrderResponse struct {
	Success  bool   `json:"success"`
	ID       int64  `json:"id"`
	Number   string `json:"number"`
	OrderKey string `json:"orderKey"`
}

func (h *OrderHandler) create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cartID := cartIDFromCookie(c)
	if cartID == nil {
		return writeError(c, order.ErrCartEmpty)
	}

	ctx := c.Request().Context()

	var customerID *int64
	if id, ok := utils.GetCustomerIDFromContext(ctx); ok {
		customerID = &id
	}

	o, orderKey, err := h.svc.CreateOrder(ctx, customerID, order.CreateOrderParams{
		CartID:               cartID.String(),
		Guest:                req.Guest,
		Email:                req.Email,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Address:              req.Address,
		BillingAddress:       req.BillingAddress,
		ShippingAddressID:    req.ShippingAddressID,
		BillingAddressID:     req.BillingAddressID,
		PaymentMethodID:      req.PaymentMethodID,
		DeliveryMethodID:     req.DeliveryMethodID,
		CartTotal:            req.CartTotal,
		OrderNote:            req.OrderNote,
		UseShippingAsBilling: req.UseShippingAsBilling,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, createOrderResponse{
		Success:  true,
		ID:       o.ID,
		Number:   o.Number,
		OrderKey: orderKey,
	})
}

func (h *OrderHandler) checkStatus(c echo.Context) error {
	key := c.QueryParam("orderKey")
	if key == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "orderKey is required"})
	}

	orderID, err := order.ParseOrderKey(h.jwtSecret, key)
	if err != nil {
		return writeError(c, err)
	}

	status, err := h.paymentSvc.StatusByOrder(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, status)
}

type sendEmailRequest struct {
	Action string `json:"action"`
}

func (h *OrderHandler) sendEmail(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
	}

	var req sendEmailRequest
	if err := c.Bind(&req); err != nil || req.Action == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "action is required"})
	}

	if err := h.svc.SendEmail(c.Request().Context(), orderID, order.EmailAction(req.Action)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

type orderItemResponse struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	SKU         string  `json:"sku"`
	VariantText string  `json:"variantText,omitempty"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

type orderAddressResponse struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Address1    string  `json:"address1"`
	Address2    *string `json:"address2,omitempty"`
	City        string  `json:"city"`
	Province    string  `json:"province"`
	PostalCode  string  `json:"postalCode"`
	CountryCode string  `json:"country"`
	CountryName string  `json:"countryName"`
}

type orderResponse struct {
	ID                 int64                `json:"id"`
	Number             string               `json:"number"`
	Status             string               `json:"status"`
	Currency           string               `json:"currency"`
	Subtotal           float64              `json:"subtotal"`
	Discount           float64              `json:"discount"`
	ShippingTotal      float64              `json:"shippingTotal"`
	Tax                float64              `json:"tax"`
	Total              float64              `json:"total"`
	CustomerTotal      float64              `json:"customerTotal"`
	ShippingMethodName string               `json:"shippingMethodName"`
	ShippingAddress    orderAddressResponse `json:"shippingAddress"`
	BillingAddress     orderAddressResponse `json:"billingAddress"`
	OrderNote          *string              `json:"orderNote,omitempty"`
	Items              []orderItemResponse  `json:"items"`
	CreatedAt          string               `json:"createdAt"`
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			VariantText: item.VariantText,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
			ImageURL:    item.ImageURL,
		})
	}
	return orderResponse{
		ID:                 o.ID,
		Number:             o.Number,
		Status:             string(o.Status),
		Currency:           o.Currency,
		Subtotal:           o.Subtotal,
		Discount:           o.Discount,
		ShippingTotal:      o.ShippingTotal,
		Tax:                o.Tax,
		Total:              o.Total,
		CustomerTotal:      o.CustomerTotal,
		ShippingMethodName: o.ShippingMethodName,
		ShippingAddress:    toAddressResponse(o.ShippingAddress),
		BillingAddress:     toAddressResponse(o.BillingAddress),
		OrderNote:          o.OrderNote,
		Items:              items,
		CreatedAt:          o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toAddressResponse(a order.AddressSnapshot) orderAddressResponse {
	return orderAddressResponse{
		Name:        a.Name,
		Phone:       a.Phone,
		Address1:    a.Address1,
		Address2:    a.Address2,
		City:        a.City,
		Province:    a.Province,
		PostalCode:  a.PostalCode,
		CountryCode: a.CountryCode,
		CountryName: a.CountryName,
	}
}

func (h *OrderHandler) list(c echo.Context) error {
	ctx := c.Request().Context()
	customerID, ok := utils.GetCustomerIDFromContext(ctx)
	if !ok {
		return writeError(c, order.ErrUnauthorized)
	}

	orders, err := h.svc.ListOrders(ctx, customerID)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) get(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
	}

	ctx := c.Request().Context()
	customerID, ok := utils.GetCustomerIDFromContext(ctx)
	if !ok {
		return writeError(c, order.ErrUnauthorized)
	}

	o, err := h.svc.GetOrder(ctx, orderID, customerID, utils.IsAdminContext(ctx))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(o))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "status is required"})
	}

	if err := h.svc.UpdateStatus(c.Request().Context(), orderID, order.Status(req.Status)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
