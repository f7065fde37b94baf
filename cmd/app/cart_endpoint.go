package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/werawoot/krua-thai/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const guestTokenHeader = "X-Guest-Token"

// guestToken returns the caller's guest token, or "" when absent.
func guestToken(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(guestTokenHeader))
}

// ensureGuestToken returns the caller's guest token, minting one when
// absent and echoing it back in the response header.
func ensureGuestToken(c echo.Context) string {
	t := guestToken(c)
	if t == "" {
		t = uuid.NewString()
	}
	c.Response().Header().Set(guestTokenHeader, t)
	return t
}

type addCartRequest struct {
	MenuID         int64    `json:"menuid"`
	Qty            int      `json:"quantity"`
	Customizations []string `json:"customizations"`
}

type updateCartRequest struct {
	Qty int `json:"quantity"`
}

func registerCartRoutes(g *echo.Group, cs *services.CartService) {
	p := g.Group("/cart")

	// GET cart
	p.GET("", func(c echo.Context) error {
		cart, err := cs.Get(c.Request().Context(), ensureGuestToken(c))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, cart)
	})

	// ADD item
	p.POST("", func(c echo.Context) error {
		req := new(addCartRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if req.Qty == 0 {
			req.Qty = 1
		}
		token := ensureGuestToken(c)
		if err := cs.Add(c.Request().Context(), token, req.MenuID, req.Qty, req.Customizations); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]string{"message": "added", "guest_token": token})
	})

	// SELECT KIT ("order this kit now": cart becomes this one item)
	p.POST("/select/:menuid", func(c echo.Context) error {
		menuID, _ := strconv.ParseInt(c.Param("menuid"), 10, 64)
		req := new(addCartRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		token := ensureGuestToken(c)
		if err := cs.SelectKit(c.Request().Context(), token, menuID, req.Customizations); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]string{"message": "kit selected", "guest_token": token})
	})

	// UPDATE quantity
	p.PUT("/:menuid", func(c echo.Context) error {
		menuID, _ := strconv.ParseInt(c.Param("menuid"), 10, 64)
		req := new(updateCartRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := cs.Update(c.Request().Context(), ensureGuestToken(c), menuID, req.Qty); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})

	// REMOVE item
	p.DELETE("/:menuid", func(c echo.Context) error {
		menuID, _ := strconv.ParseInt(c.Param("menuid"), 10, 64)
		if err := cs.Remove(c.Request().Context(), ensureGuestToken(c), menuID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "removed"})
	})

	// CLEAR cart
	p.DELETE("", func(c echo.Context) error {
		if err := cs.Clear(c.Request().Context(), ensureGuestToken(c)); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "cleared"})
	})
}
