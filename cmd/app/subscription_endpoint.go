package main

import (
	"net/http"
	"strconv"

	"github.com/werawoot/krua-thai/internal/middleware"
	"github.com/werawoot/krua-thai/internal/services"

	"github.com/labstack/echo/v4"
)

type subscriptionRequest struct {
	Name    string  `json:"name"`
	MenuIDs []int64 `json:"menu_ids"`
}

func registerSubscriptionRoutes(g *echo.Group, ss *services.SubscriptionService) {
	sub := g.Group("/subscriptions")
	sub.Use(middleware.JWTMiddleware())

	sub.POST("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(subscriptionRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		id, err := ss.Create(c.Request().Context(), claims.UserID, req.Name, req.MenuIDs)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{"subscriptionid": id})
	})

	sub.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		list, err := ss.List(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	})

	sub.POST("/:id/menus/:menuid", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		menuID, err := strconv.ParseInt(c.Param("menuid"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid menu id"})
		}
		if err := ss.AttachMenu(c.Request().Context(), claims.UserID, subID, menuID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "menu added"})
	})

	sub.DELETE("/:id/menus/:menuid", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		menuID, err := strconv.ParseInt(c.Param("menuid"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid menu id"})
		}
		if err := ss.DetachMenu(c.Request().Context(), claims.UserID, subID, menuID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "menu removed"})
	})

	sub.DELETE("/:id", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		if err := ss.Cancel(c.Request().Context(), claims.UserID, subID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "cancelled"})
	})
}
