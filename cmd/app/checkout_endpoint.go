package main

import (
	"errors"
	"net/http"

	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/services"

	"github.com/labstack/echo/v4"
)

type quoteRequest struct {
	Items []model.RawCartItem `json:"items"`
}

func registerCheckoutRoutes(g *echo.Group, cs *services.CheckoutService) {
	p := g.Group("/checkout")

	// POST /api/checkout/quote: totals preview for the cart page.
	// Accepts an inline cart, or falls back to the stored guest cart.
	p.POST("/quote", func(c echo.Context) error {
		req := new(quoteRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		raw := req.Items
		if len(raw) == 0 {
			if token := guestToken(c); token != "" {
				stored, err := cs.Cart.GetItems(c.Request().Context(), token)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load cart"})
				}
				raw = services.RawFromStored(stored)
			}
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"totals":  cs.Quote(raw),
		})
	})

	// POST /api/checkout: place a guest order.
	p.POST("", func(c echo.Context) error {
		req := new(services.CheckoutRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "invalid request",
			})
		}
		req.GuestToken = guestToken(c)

		conf, fieldErrs, err := cs.PlaceOrder(c.Request().Context(), req)
		if err != nil {
			status := http.StatusInternalServerError
			if !errors.Is(err, services.ErrOrderFailed) {
				status = http.StatusBadRequest
			}
			return c.JSON(status, echo.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		if len(fieldErrs) > 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"errors":  fieldErrs,
			})
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"success":        true,
			"orderid":        conf.OrderID,
			"order_number":   conf.OrderNumber,
			"transaction_id": conf.TransactionID,
			"totals":         conf.Totals,
		})
	})
}
