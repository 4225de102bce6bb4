package middleware

import (
	"github.com/gin-gonic/gin"
)

const consoleCSP = "default-src 'self'; connect-src 'self' ws: wss:; img-src 'self' data: https:; frame-ancestors 'none'"

// SecurityHeadersMiddleware adds security headers to all console responses.
// Screens carry patient data, so nothing is cached and nothing is framed.
// hsts is set when the console is served over TLS only.
func SecurityHeadersMiddleware(hsts bool) gin.HandlerFunc {
	static := map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Referrer-Policy":         "same-origin",
		"Permissions-Policy":      "camera=(), microphone=(), geolocation=()",
		"Content-Security-Policy": consoleCSP,
		"Cache-Control":           "no-store, private",
		"Pragma":                  "no-cache",
	}
	if hsts {
		static["Strict-Transport-Security"] = "max-age=31536000; includeSubDomains"
	}

	return func(c *gin.Context) {
		for k, v := range static {
			c.Header(k, v)
		}
		c.Next()
	}
}
