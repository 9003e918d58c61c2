package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"staff-service/internal/entity"
	"staff-service/internal/repository"
	"staff-service/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser creates a new user --> POST /users
//
// A taken username is answered with 500 like any other storage failure.
func (h *UserHandler) CreateUser(c echo.Context) error {
	req := entity.CreateUserRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user := req.ToUser()
	if err := h.userService.CreateUser(c.Request().Context(), &user); err != nil {
		return c.String(http.StatusInternalServerError, "DB error: "+err.Error())
	}

	return c.String(http.StatusCreated, "User created")
}

// DeleteUser deletes a user by username --> DELETE /users
func (h *UserHandler) DeleteUser(c echo.Context) error {
	req := entity.DeleteUserRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	err := h.userService.DeleteUser(c.Request().Context(), req.Username)
	switch repository.KindOf(err) {
	case repository.KindNone:
		return c.String(http.StatusOK, "User deleted")
	case repository.KindNotFound:
		return c.String(http.StatusNotFound, "User not found")
	default:
		return c.String(http.StatusInternalServerError, "DB error: "+err.Error())
	}
}

// ListUsers returns every user --> GET /users
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return c.String(http.StatusInternalServerError, "Database error: "+err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser retrieves a user by username --> GET /users/:username
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userService.GetUser(c.Request().Context(), c.Param("username"))
	if err != nil {
		return c.String(http.StatusInternalServerError, "Database error: "+err.Error())
	}
	if user == nil {
		return c.String(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// DBCheck probes the database --> GET /db-check
//
// It always answers 200; failures are only visible in the body.
func (h *UserHandler) DBCheck(c echo.Context) error {
	if err := h.userService.CheckDB(c.Request().Context()); err != nil {
		return c.String(http.StatusOK, "Database error: "+err.Error())
	}
	return c.String(http.StatusOK, "Database connection OK")
}

// Health --> GET /health
func (h *UserHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "staff-service",
		"time":    time.Now().Format(time.RFC3339),
	})
}
