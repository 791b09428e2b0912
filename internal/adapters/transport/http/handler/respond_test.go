package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
)

func ginContext(t *testing.T, rawURL string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", rawURL, nil)
	return c, w
}

func TestHandleError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid argument", customErrors.NewInvalidArgument("bad"), http.StatusBadRequest},
		{"expired token", customErrors.ErrExpiredToken, http.StatusBadRequest},
		{"used or unknown", customErrors.ErrTokenUsedOrUnknown, http.StatusBadRequest},
		{"invalid token", customErrors.ErrInvalidToken, http.StatusBadRequest},
		{"invalid credentials", customErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not verified", customErrors.ErrNotVerified, http.StatusForbidden},
		{"forbidden", customErrors.ErrForbidden, http.StatusForbidden},
		{"not found", customErrors.ErrNotFound, http.StatusNotFound},
		{"already exists", customErrors.ErrAlreadyExists, http.StatusConflict},
		{"internal", customErrors.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := ginContext(t, "/x")
			HandleError(c, tc.err)
			require.Equal(t, tc.status, w.Code)
		})
	}
}

func TestHandleError_StoreUnavailableIsRetryable(t *testing.T) {
	c, w := ginContext(t, "/x")
	HandleError(c, customErrors.WrapStoreUnavailable(customErrors.ErrInternal))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))
	require.NotContains(t, w.Body.String(), "invalid token")
}

func TestHandleError_RateLimitedCarriesRetryAfter(t *testing.T) {
	c, w := ginContext(t, "/x")
	HandleError(c, &customErrors.RateLimitedError{RetryAfter: 42 * time.Second})

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "42", w.Header().Get("Retry-After"))
}

func TestNewMeta_MiddlePage(t *testing.T) {
	c, _ := ginContext(t, "/api/products?page=2&page_size=10&search=atlas")

	m := NewMeta(c, repo.Page{Number: 2, Size: 10}, 25, 10)
	require.Equal(t, 2, m.Page)
	require.Equal(t, 3, m.Pages)
	require.EqualValues(t, 25, m.TotalCount)
	require.Equal(t, 10, m.PageCount)
	require.Contains(t, m.FirstPage, "page=1")
	require.Contains(t, m.FirstPage, "search=atlas")
	require.Contains(t, m.LastPage, "page=3")
	require.NotNil(t, m.Next)
	require.Contains(t, *m.Next, "page=3")
	require.NotNil(t, m.Previous)
	require.Contains(t, *m.Previous, "page=1")
}

func TestNewMeta_EdgePages(t *testing.T) {
	c, _ := ginContext(t, "/api/products?page=1&page_size=10")
	m := NewMeta(c, repo.Page{Number: 1, Size: 10}, 25, 10)
	require.Nil(t, m.Previous)
	require.NotNil(t, m.Next)

	c, _ = ginContext(t, "/api/products?page=3&page_size=10")
	m = NewMeta(c, repo.Page{Number: 3, Size: 10}, 25, 5)
	require.Nil(t, m.Next)
	require.NotNil(t, m.Previous)
}

func TestNewMeta_EmptyResult(t *testing.T) {
	c, _ := ginContext(t, "/api/products")
	m := NewMeta(c, repo.Page{Number: 1, Size: 20}, 0, 0)
	require.Equal(t, 1, m.Pages)
	require.Nil(t, m.Next)
	require.Nil(t, m.Previous)
}

func TestPageFromQuery(t *testing.T) {
	c, _ := ginContext(t, "/api/products?page=-3&page_size=0")
	p := PageFromQuery(c, 20)
	require.Equal(t, 1, p.Number)
	require.Equal(t, 20, p.Size)

	c, _ = ginContext(t, "/api/products?page=4&page_size=50")
	p = PageFromQuery(c, 20)
	require.Equal(t, 4, p.Number)
	require.Equal(t, 50, p.Size)
}
