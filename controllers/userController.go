package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"brewtab/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	service *services.AuthService
}

func NewUserController(service *services.AuthService) *UserController {
	return &UserController{service: service}
}

// SignInAnonymously issues a session for a customer who scanned a table QR
// code; no account, no friction.
func (ctl *UserController) SignInAnonymously() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		user, token, err := ctl.service.SignInAnonymously(ctx)
		if err != nil {
			slog.Error("anonymous sign-in failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (ctl *UserController) SignUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		var req signupRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, token, err := ctl.service.SignUp(ctx, req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			slog.Error("signup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user was not created"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ctl *UserController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		var req loginRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, token, err := ctl.service.Login(ctx, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			slog.Error("login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// CheckAdmin reports whether the authenticated caller may manage the
// restaurant behind the slug.
func (ctl *UserController) CheckAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		slug := c.Param("slug")
		user, err := ctl.service.UserByID(ctx, c.GetString("uid"))
		if err != nil {
			slog.Error("user lookup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "authorization check failed"})
			return
		}

		authorized, err := ctl.service.CheckAdminAuthorization(ctx, user, slug)
		if err != nil {
			slog.Error("admin authorization check failed", "slug", slug, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "authorization check failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authorized": authorized})
	}
}
