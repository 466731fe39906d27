package handler

import (
	"net/http"
	"time"

	"storefront-be/internal/customer"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc customer.Service
}

func NewAuthHandler(svc customer.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	Customer struct {
		ID        int64  `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"customer"`
}

func toAuthResponse(token string, c *customer.Customer) authResponse {
	var resp authResponse
	resp.Token = token
	resp.Customer.ID = c.ID
	resp.Customer.Email = c.Email
	resp.Customer.FirstName = c.FirstName
	resp.Customer.LastName = c.LastName
	return resp
}

func setAccessTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email and password are required"})
	}

	token, cust, err := h.svc.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	setAccessTokenCookie(c, token)
	return c.JSON(http.StatusCreated, toAuthResponse(token, cust))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email and password are required"})
	}

	token, cust, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	setAccessTokenCookie(c, token)
	return c.JSON(http.StatusOK, toAuthResponse(token, cust))
}

func (h *AuthHandler) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
