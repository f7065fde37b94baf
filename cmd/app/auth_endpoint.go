package main

import (
	"net/http"

	"github.com/werawoot/krua-thai/internal/middleware"
	"github.com/werawoot/krua-thai/internal/services"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialLoginRequest struct {
	Provider string `json:"provider"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

func registerHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(registerRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		id, err := authSvc.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"errors":  []string{err.Error()},
			})
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"success": true,
			"userid":  id,
		})
	}
}

func loginHandler(authSvc *services.AuthService, tokenTTLHours int) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		user, err := authSvc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}

		token, err := middleware.GenerateToken(user.UserID, user.Email, user.Role, tokenTTLHours)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create token"})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"token": token,
			"user": echo.Map{
				"userid":     user.UserID,
				"email":      user.Email,
				"role":       user.Role,
				"created_at": user.CreatedAt,
			},
		})
	}
}

// checkEmailHandler backs the registration form's inline availability check.
func checkEmailHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		available, err := authSvc.CheckEmail(c.Request().Context(), req.Email)
		if err != nil {
			return c.JSON(http.StatusOK, echo.Map{
				"success": false,
				"errors":  []string{err.Error()},
			})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success":   true,
			"available": available,
		})
	}
}

// socialLoginHandler is the post-OAuth glue: the provider has already
// verified the email upstream, so this only upserts and issues a token.
func socialLoginHandler(authSvc *services.AuthService, tokenTTLHours int) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(socialLoginRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		user, err := authSvc.SocialLogin(c.Request().Context(), req.Provider, req.Email, req.Name)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}

		token, err := middleware.GenerateToken(user.UserID, user.Email, user.Role, tokenTTLHours)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create token"})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"token": token,
			"user": echo.Map{
				"userid": user.UserID,
				"email":  user.Email,
				"role":   user.Role,
			},
		})
	}
}

// meHandler returns the authenticated user's token claims
func meHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"userid": claims.UserID,
			"email":  claims.Email,
			"role":   claims.Role,
			"exp":    claims.ExpiresAt,
		})
	}
}

func registerAuthRoutes(g *echo.Group, authSvc *services.AuthService, tokenTTLHours int) {
	auth := g.Group("/auth")

	// public
	auth.POST("/register", registerHandler(authSvc))
	auth.POST("/login", loginHandler(authSvc, tokenTTLHours))
	auth.POST("/check-email", checkEmailHandler(authSvc))
	auth.POST("/social", socialLoginHandler(authSvc, tokenTTLHours))

	// authenticated
	protected := auth.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.GET("/me", meHandler())
}
