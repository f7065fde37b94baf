package main

import (
	"net/http"
	"strconv"

	"github.com/werawoot/krua-thai/internal/middleware"
	"github.com/werawoot/krua-thai/internal/services"

	"github.com/labstack/echo/v4"
)

type categoryRequest struct {
	CategoryName string `json:"categoryname"`
}

func registerCategoryRoutes(g *echo.Group, cs *services.CategoryService) {
	p := g.Group("/categories")

	p.GET("", func(c echo.Context) error {
		list, err := cs.List(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	})

	p.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		cat, err := cs.Get(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, cat)
	})

	admin := p.Group("")
	admin.Use(middleware.JWTMiddleware(), middleware.AdminOnly)

	admin.POST("", func(c echo.Context) error {
		req := new(categoryRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		id, err := cs.Create(c.Request().Context(), req.CategoryName)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{"categoryid": id})
	})

	admin.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		req := new(categoryRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := cs.Update(c.Request().Context(), id, req.CategoryName); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		if err := cs.Delete(c.Request().Context(), id); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
	})
}
