package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pokedex-api/pkg/response"
)

// multipartOverhead leaves room for form fields and part headers.
const multipartOverhead = 64 << 10

// BodyLimit rejects requests whose declared length exceeds max plus form
// overhead and caps the readable body for the rest.
func BodyLimit(max int64) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limit := max + multipartOverhead
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			response.Error[any](c, http.StatusBadRequest, "File too large", nil)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
