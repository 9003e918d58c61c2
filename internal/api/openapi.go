package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// openAPIDocument describes the user endpoints. It is maintained by hand.
var openAPIDocument = map[string]interface{}{
	"openapi": "3.0.3",
	"info": map[string]interface{}{
		"title":   "staff-service",
		"version": "1.0.0",
	},
	"tags": []interface{}{
		map[string]interface{}{"name": "users", "description": "User management endpoints"},
	},
	"paths": map[string]interface{}{
		"/users": map[string]interface{}{
			"post": map[string]interface{}{
				"tags":        []string{"users"},
				"requestBody": jsonBody("#/components/schemas/CreateUserRequest"),
				"responses": map[string]interface{}{
					"201": map[string]interface{}{"description": "User created"},
					"400": map[string]interface{}{"description": "Invalid request payload"},
					"500": map[string]interface{}{"description": "Database error"},
				},
			},
			"delete": map[string]interface{}{
				"tags":        []string{"users"},
				"requestBody": jsonBody("#/components/schemas/DeleteUserRequest"),
				"responses": map[string]interface{}{
					"200": map[string]interface{}{"description": "User deleted"},
					"404": map[string]interface{}{"description": "User not found"},
					"500": map[string]interface{}{"description": "Database error"},
				},
			},
			"get": map[string]interface{}{
				"tags": []string{"users"},
				"responses": map[string]interface{}{
					"200": map[string]interface{}{
						"description": "All users",
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type":  "array",
									"items": map[string]interface{}{"$ref": "#/components/schemas/User"},
								},
							},
						},
					},
					"500": map[string]interface{}{"description": "Database error"},
				},
			},
		},
	},
	"components": map[string]interface{}{
		"schemas": map[string]interface{}{
			"User": map[string]interface{}{
				"type":     "object",
				"required": []string{"username", "first_name", "last_name", "role"},
				"properties": map[string]interface{}{
					"username":   stringProp(),
					"first_name": stringProp(),
					"last_name":  stringProp(),
					"role":       stringProp(),
				},
			},
			"CreateUserRequest": map[string]interface{}{
				"type":     "object",
				"required": []string{"username"},
				"properties": map[string]interface{}{
					"username":   stringProp(),
					"first_name": stringProp(),
					"last_name":  stringProp(),
					"role":       map[string]interface{}{"type": "string", "default": "user"},
				},
			},
			"DeleteUserRequest": map[string]interface{}{
				"type":       "object",
				"required":   []string{"username"},
				"properties": map[string]interface{}{"username": stringProp()},
			},
		},
	},
}

func stringProp() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

func jsonBody(ref string) map[string]interface{} {
	return map[string]interface{}{
		"required": true,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{"$ref": ref},
			},
		},
	}
}

// OpenAPI serves the API description --> GET /api-doc/openapi.json
func OpenAPI(c echo.Context) error {
	return c.JSON(http.StatusOK, openAPIDocument)
}
