package main

import (
	"net/http"
	"strconv"

	"github.com/werawoot/krua-thai/internal/middleware"
	"github.com/werawoot/krua-thai/internal/services"

	"github.com/labstack/echo/v4"
)

// register profile routes (user self routes + admin user management)
func registerProfileRoutes(api *echo.Group, us *services.UserService) {
	userGrp := api.Group("/profile")
	userGrp.Use(middleware.JWTMiddleware())

	// GET /api/profile
	userGrp.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		}
		u, err := us.GetProfile(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusOK, u)
	})

	// PUT /api/profile
	userGrp.PUT("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		}
		req := new(services.ProfileUpdate)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if errs := us.UpdateProfile(c.Request().Context(), claims.UserID, req); len(errs) > 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"errors":  errs,
			})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "profile updated"})
	})

	// Admin management group
	admin := api.Group("/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.AdminOnly)

	// BAN user (soft delete)
	admin.POST("/users/:id/ban", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
		}
		if err := us.BanUser(c.Request().Context(), id); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "user banned"})
	})
}
