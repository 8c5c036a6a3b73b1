package middleware

import (
	"net/http"
	"strconv"
	"time"

	"imex-website/metrics"
	"imex-website/ratelimit"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// ConsentCookie stores the visitor's cookie consent decision.
const ConsentCookie = "cookie_consent"

// SecurityHeaders adds the response headers every page carries.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'")
		c.Next()
	}
}

// LimitBody caps the request body at limit bytes. Bodies declared larger are
// refused up front; chunked ones fail while the form is parsed.
func LimitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.String(http.StatusRequestEntityTooLarge, "Fișierele trimise depășesc dimensiunea maximă permisă.")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// RequestLogger writes one structured entry per request.
func RequestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"request_id":  requestID,
			"http_method": c.Request.Method,
			"uri":         c.Request.URL.RequestURI(),
			"status_code": status,
			"latency_ms":  time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})

		switch {
		case len(c.Errors) > 0:
			entry.WithField("error", c.Errors.String()).Error("Request processing failed")
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// Metrics records request count and latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// CookieConsent exposes the stored consent decision as "cookieConsent".
func CookieConsent() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(ConsentCookie)
		c.Set("cookieConsent", err == nil && value == "granted")
		c.Next()
	}
}

// RateLimit throttles form posts per client ip within scope. Limiter errors
// let the request through.
func RateLimit(limiter ratelimit.Limiter, scope string, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			logger.WithError(err).WithField("scope", scope).Warn("Rate limit check failed")
			c.Next()
			return
		}
		if !result.Allowed {
			metrics.RecordRateLimited()
			c.Header("Retry-After", retryAfterSeconds(result.RetryAfter))
			c.Redirect(http.StatusSeeOther, utils.ClientInfoURL("Ai trimis prea multe cereri. Te rugăm să încerci din nou în câteva minute."))
			c.Abort()
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
