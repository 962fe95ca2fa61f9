package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"sayabantu/internal/apperr"
	"sayabantu/internal/models"
	"sayabantu/internal/responses"
	"sayabantu/internal/utils"
)

type contextKey string

const (
	userClaimsKey contextKey = "userClaims"
)

var httpRequestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sayabantu",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "The total number of HTTP requests",
}, []string{"method", "route", "code"})

// ClaimsFromContext returns the JWT claims stored by JWTMiddleware.
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*utils.Claims)
	return claims, ok
}

// JWTMiddleware requires a valid bearer token. A missing token is a 401, a
// bad or expired one a 403.
func JWTMiddleware(jwtUtil *utils.JWTUtil) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) < 2 {
				sendAs(w, apperr.ErrUnauthorized, "No token provided")
				return
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				sendAs(w, apperr.ErrForbidden, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly must run after JWTMiddleware.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != models.RoleAdmin {
			sendAs(w, apperr.ErrForbidden, "Access denied: Admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	maxVisitors = 10000
	visitorIdle = 10 * time.Minute
)

// NewIPRateLimiter allows perMinute requests per minute per IP with the
// given burst.
func NewIPRateLimiter(perMinute float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		limiters: make(map[string]*visitor),
	}
}

// Allow reports whether key may make a request now.
func (l *IPRateLimiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	v, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxVisitors {
			l.prune(now)
		}
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// prune drops idle visitors. Callers hold mu.
func (l *IPRateLimiter) prune(now time.Time) {
	for k, v := range l.limiters {
		if now.Sub(v.lastSeen) > visitorIdle {
			delete(l.limiters, k)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func RateLimitMiddleware(limiter *IPRateLimiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				responses.SendError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}
			next(w, r)
		}
	}
}

// logWriter captures the status code and bytes written to the response.
type logWriter struct {
	http.ResponseWriter
	code, bytes int
}

func (r *logWriter) Write(p []byte) (int, error) {
	written, err := r.ResponseWriter.Write(p)
	r.bytes += written
	return written, err
}

// Note this is generally only called when sending an HTTP error, so it's
// important to set the `code` value to 200 as a default.
func (r *logWriter) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware tags each request with an id, puts a request logger in
// the context and logs the outcome.
func LoggingMiddleware(logger *log.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)

			route := r.URL.Path
			if cr := mux.CurrentRoute(r); cr != nil {
				if tpl, err := cr.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			reqLogger := logger.With("request_id", id)
			ctx := log.WithContext(r.Context(), reqLogger)
			writer := &logWriter{code: http.StatusOK, ResponseWriter: w}
			next.ServeHTTP(writer, r.WithContext(ctx))

			httpRequestCounter.WithLabelValues(r.Method, route, strconv.Itoa(writer.code)).Inc()
			reqLogger.Info("request",
				"method", r.Method,
				"route", route,
				"addr", clientIP(r),
				"status", fmt.Sprintf("%d %s", writer.code, http.StatusText(writer.code)),
				"bytes", humanize.Bytes(uint64(writer.bytes)),
				"time", time.Since(start))
		})
	}
}
