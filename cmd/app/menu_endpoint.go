package main

import (
	"net/http"
	"strconv"

	"github.com/werawoot/krua-thai/internal/middleware"
	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/services"

	"github.com/labstack/echo/v4"
)

type menuRequest struct {
	CategoryID  int64   `json:"categoryid"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Available   *bool   `json:"available"`
}

func registerMenuRoutes(g *echo.Group, ms *services.MenuService) {
	p := g.Group("/menus")

	// public catalog
	p.GET("", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))

		if cat := c.QueryParam("category"); cat != "" {
			categoryID, err := strconv.ParseInt(cat, 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid category"})
			}
			list, err := ms.ListMenusByCategory(c.Request().Context(), categoryID, limit, offset)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, list)
		}

		list, err := ms.ListMenus(c.Request().Context(), limit, offset)
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
		m, err := ms.GetMenu(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, m)
	})

	// admin CRUD
	admin := p.Group("")
	admin.Use(middleware.JWTMiddleware(), middleware.AdminOnly)

	admin.POST("", func(c echo.Context) error {
		req := new(menuRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		m := &model.Menu{
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Available:   true,
		}
		if req.Available != nil {
			m.Available = *req.Available
		}
		id, err := ms.CreateMenu(c.Request().Context(), m)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{"menuid": id})
	})

	admin.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		req := new(menuRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		m := &model.Menu{
			MenuID:      id,
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Available:   true,
		}
		if req.Available != nil {
			m.Available = *req.Available
		}
		if err := ms.UpdateMenu(c.Request().Context(), m); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		if err := ms.DeleteMenu(c.Request().Context(), id); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
	})
}
