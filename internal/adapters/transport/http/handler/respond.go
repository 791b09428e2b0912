package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
)

// HandleError maps domain errors to HTTP statuses. Token-state failures all
// answer 400; a store outage answers 503 with Retry-After because the token
// may still be live.
func HandleError(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case customErrors.IsExpiredToken(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "token expired"})
	case customErrors.IsTokenUsedOrUnknown(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "token already used or not found"})
	case customErrors.IsInvalidToken(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token"})
	case customErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case customErrors.IsNotVerified(err):
		c.JSON(http.StatusForbidden, gin.H{
			"error":  "email not verified",
			"detail": "verify your email or request a new link at /api/auth/resend-verification",
		})
	case customErrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case customErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case customErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case customErrors.IsRateLimited(err):
		var rl *customErrors.RateLimitedError
		if errors.As(err, &rl) {
			seconds := int(rl.RetryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
		}
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case customErrors.IsStoreUnavailable(err):
		c.Header("Retry-After", "5")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, retry shortly"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// Meta is the pagination block carried by every list response.
type Meta struct {
	Page       int     `json:"page"`
	Pages      int     `json:"pages"`
	TotalCount int64   `json:"total_count"`
	PageCount  int     `json:"page_count"`
	FirstPage  string  `json:"first_page"`
	LastPage   string  `json:"last_page"`
	Next       *string `json:"next"`
	Previous   *string `json:"previous"`
}

// NewMeta computes the pagination block for the current request, rewriting
// only the page parameter of the request URL for the navigation links.
func NewMeta(c *gin.Context, page repo.Page, total int64, pageCount int) Meta {
	pages := int((total + int64(page.Size) - 1) / int64(page.Size))
	if pages < 1 {
		pages = 1
	}

	link := func(n int) string {
		u := *c.Request.URL
		q := u.Query()
		q.Set("page", strconv.Itoa(n))
		u.RawQuery = q.Encode()
		return u.String()
	}

	m := Meta{
		Page:       page.Number,
		Pages:      pages,
		TotalCount: total,
		PageCount:  pageCount,
		FirstPage:  link(1),
		LastPage:   link(pages),
	}
	if page.Number < pages {
		next := link(page.Number + 1)
		m.Next = &next
	}
	if page.Number > 1 {
		prev := link(page.Number - 1)
		m.Previous = &prev
	}
	return m
}

// PageFromQuery reads ?page= and ?page_size=, resolving absent or invalid
// values against the configured default so meta math never divides by zero.
func PageFromQuery(c *gin.Context, defaultSize int) repo.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	if size <= 0 {
		size = defaultSize
	}
	return repo.Page{Number: page, Size: size}
}
