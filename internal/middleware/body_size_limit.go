package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultBodyLimit covers JSON form submissions.
	DefaultBodyLimit int64 = 1 << 20
	// UploadBodyLimit covers testimonial photo uploads.
	UploadBodyLimit int64 = 10 << 20
)

// BodySizeLimitMiddleware caps request bodies at maxBodySize bytes.
func BodySizeLimitMiddleware(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

		c.Next()
	}
}
