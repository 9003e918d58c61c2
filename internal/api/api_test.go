package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staff-service/internal/entity"
	"staff-service/internal/repository"
	"staff-service/internal/service"
	"staff-service/internal/testutil"
)

func newTestServer(t *testing.T, name string) (*echo.Echo, *sql.DB) {
	t.Helper()
	db := testutil.OpenInMemoryDB(t, name)
	svc := service.NewUserService(db, repository.SQLite, nil)
	return NewRouter(NewUserHandler(svc)), db
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestUserLifecycle(t *testing.T) {
	e, _ := newTestServer(t, "api_lifecycle")

	rec := doRequest(e, http.MethodPost, "/users", `{"username":"alice"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User created", rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var users []entity.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Equal(t, []entity.User{{Username: "alice", Role: "user"}}, users)

	rec = doRequest(e, http.MethodDelete, "/users", `{"username":"alice"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted", rec.Body.String())

	rec = doRequest(e, http.MethodDelete, "/users", `{"username":"alice"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", rec.Body.String())
}

func TestCreateUser_DuplicateIsServerError(t *testing.T) {
	e, _ := newTestServer(t, "api_duplicate")

	body := `{"username":"bob","first_name":"Bob","last_name":"Builder","role":"admin"}`
	rec := doRequest(e, http.MethodPost, "/users", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Conflicts share the storage failure status.
	rec = doRequest(e, http.MethodPost, "/users", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "DB error: "), rec.Body.String())
	assert.Contains(t, rec.Body.String(), "already exists")

	rec = doRequest(e, http.MethodGet, "/users/bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"bob","first_name":"Bob","last_name":"Builder","role":"admin"}`, rec.Body.String())
}

func TestCreateUser_BadRequests(t *testing.T) {
	e, _ := newTestServer(t, "api_bad_requests")

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"username":`, "Invalid request payload"},
		{"wrong type", `{"username":42}`, "Invalid request payload"},
		{"missing username", `{"first_name":"Ann"}`, "username is required"},
		{"empty username", `{"username":""}`, "username is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/users", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp["error"])
		})
	}

	rec := doRequest(e, http.MethodGet, "/users", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDeleteUser_MissingUsername(t *testing.T) {
	e, _ := newTestServer(t, "api_delete_missing")

	rec := doRequest(e, http.MethodDelete, "/users", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUser(t *testing.T) {
	e, db := newTestServer(t, "api_get_user")
	testutil.SeedUser(t, db, repository.SQLite, "carol")

	rec := doRequest(e, http.MethodGet, "/users/carol", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"carol","first_name":"Test","last_name":"User","role":"doctor"}`, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/users/dave", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", rec.Body.String())
}

func TestListUsers_EmptyIsArray(t *testing.T) {
	e, _ := newTestServer(t, "api_list_empty")

	rec := doRequest(e, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStorageUnavailable(t *testing.T) {
	e, db := newTestServer(t, "api_unavailable")
	require.NoError(t, db.Close())

	rec := doRequest(e, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Database error: "), rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/users", `{"username":"erin"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "DB error: "), rec.Body.String())

	rec = doRequest(e, http.MethodDelete, "/users", `{"username":"erin"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = doRequest(e, http.MethodGet, "/db-check", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Database error: "), rec.Body.String())
}

func TestDBCheck(t *testing.T) {
	e, _ := newTestServer(t, "api_db_check")

	rec := doRequest(e, http.MethodGet, "/db-check", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Database connection OK", rec.Body.String())
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t, "api_health")

	rec := doRequest(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "staff-service", resp["service"])
}

func TestOpenAPI(t *testing.T) {
	e, _ := newTestServer(t, "api_openapi")

	rec := doRequest(e, http.MethodGet, "/api-doc/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		OpenAPI string                     `json:"openapi"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Contains(t, doc.Paths, "/users")
}

func TestRateLimiter_DeniesAfterBurst(t *testing.T) {
	e, _ := newTestServer(t, "api_rate_limit")
	e.Use(RateLimiter(NewMemoryRateStore(0.001, 2)))

	for i := 0; i < 2; i++ {
		rec := doRequest(e, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	assert.NoError(t, v.Validate(&entity.DeleteUserRequest{Username: "frank"}))
	assert.EqualError(t, v.Validate(&entity.DeleteUserRequest{}), "username is required")
}
