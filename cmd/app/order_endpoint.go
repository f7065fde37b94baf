package main

import (
	"net/http"
	"strconv"

	"github.com/werawoot/krua-thai/internal/middleware"
	"github.com/werawoot/krua-thai/internal/services"

	"github.com/labstack/echo/v4"
)

func registerOrderRoutes(g *echo.Group, os *services.OrderService) {
	// Guest lookup by order number. Requires the email the order was placed
	// with so numbers alone cannot be enumerated.
	g.GET("/orders/lookup/:number", func(c echo.Context) error {
		email := c.QueryParam("email")
		if email == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "email is required"})
		}
		detail, err := os.LookupByNumber(c.Request().Context(), c.Param("number"), email)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
		}
		return c.JSON(http.StatusOK, detail)
	})

	auth := g.Group("/orders")
	auth.Use(middleware.JWTMiddleware())

	auth.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		orders, err := os.History(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, orders)
	})

	auth.GET("/:id", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		detail, err := os.GetOwn(c.Request().Context(), claims.UserID, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
		}
		return c.JSON(http.StatusOK, detail)
	})
}
