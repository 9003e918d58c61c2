package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with validation and every route
// registered. Middleware is left to the caller.
func NewRouter(h *UserHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	RegisterRoutes(e, h)
	return e
}

func RegisterRoutes(e *echo.Echo, h *UserHandler) {
	e.POST("/users", h.CreateUser)
	e.DELETE("/users", h.DeleteUser)
	e.GET("/users", h.ListUsers)
	e.GET("/users/:username", h.GetUser)
	e.GET("/db-check", h.DBCheck)
	e.GET("/health", h.Health)
	e.GET("/api-doc/openapi.json", OpenAPI)
}

// RequestValidator plugs go-playground/validator into echo's Validate hook.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Validate returns messages like "username is required".
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" is "+fe.Tag())
	}
	return errors.New(strings.Join(msgs, "; "))
}
