package main

import (
	"net/http"

	"github.com/werawoot/krua-thai/internal/services"

	"github.com/labstack/echo/v4"
)

type snapRequest struct {
	Email string `json:"email"`
}

func registerPaymentRoutes(g *echo.Group, ps *services.PaymentService) {
	g.POST("/payments/:orderNumber/snap", func(c echo.Context) error {
		req := new(snapRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		redirectURL, err := ps.CreateSnapPayment(c.Request().Context(), c.Param("orderNumber"), req.Email)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"redirect_url": redirectURL})
	})

	// Midtrans retries notifications until it sees a 200, so processing
	// errors are logged server-side and acknowledged here.
	g.POST("/payments/midtrans/webhook", func(c echo.Context) error {
		payload := map[string]interface{}{}
		if err := c.Bind(&payload); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		}
		if err := ps.HandleMidtransNotification(c.Request().Context(), payload); err != nil {
			return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
