package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxoffice/internal/gateway"
	"boxoffice/internal/navigation"
	"boxoffice/internal/session"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/utils/response"
	"boxoffice/pkg/logger"
)

// Context keys set by the middleware chain
const (
	keyRequestID = "request_id"
	keySessionID = "session_id"
	keyStore     = "session_store"
	keySession   = "session"
	keyLinks     = "nav_links"
	keyUserID    = "user_id"
	keyUserRole  = "user_role"

	RequestIDHeader = response.RequestIDHeader
)

// RequestID tags every request with an id, reusing the caller's when present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(keyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs each request once it has been served
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l := log
		if id := c.GetString(keyRequestID); id != "" {
			l = l.WithRequestID(id)
		}
		if uid := c.GetString(keyUserID); uid != "" {
			l = l.WithUserID(uid)
		}
		l.LogHTTPRequest(c, time.Since(start))
	}
}

// Session binds the browser cookie to a server-side session store.
// A missing or malformed cookie gets a fresh random id.
func Session(provider session.Provider, cfg config.SessionConfig, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		// Refresh the cookie so its lifetime follows the session TTL
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, id, int(cfg.TTL.Seconds()), "/", "", cfg.SecureCookie, true)

		store := provider.For(id)
		sess, err := store.Get(c.Request.Context())
		if err != nil {
			log.ErrorWithContext(c.Request.Context(), "Failed to load session", err, nil)
			response.RespondHTML(c, http.StatusServiceUnavailable, "Service Unavailable",
				"Your session could not be loaded. Please try again shortly.")
			c.Abort()
			return
		}

		c.Set(keySessionID, id)
		c.Set(keyStore, store)
		c.Set(keySession, sess)

		if sess.Authenticated() {
			if claims, err := session.ParseClaims(sess.AccessToken); err == nil && claims.UserID != "" {
				c.Set(keyUserID, claims.UserID)
			}
			c.Set(keyUserRole, sess.Role.String())
		}

		c.Next()
	}
}

// NavGuard computes the visible links and leaves pages the session may not see
func NavGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := navigation.Decide(CurrentSession(c), c.Request.URL.Path)
		c.Set(keyLinks, d.Links)

		if d.Redirects() {
			status := http.StatusFound
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				status = http.StatusSeeOther
			}
			c.Redirect(status, d.RedirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORS opens the JSON endpoints to the given origins, or to every origin
// when none are configured
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowOriginFunc = func(origin string) bool { return true }
	}
	return cors.New(cfg)
}

// RequireAuth sends anonymous visitors to the login page
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c).Authenticated() {
			c.Next()
			return
		}
		if WantsJSON(c) {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Please login to continue", nil, nil)
		} else {
			c.Redirect(http.StatusSeeOther, navigation.LoginPath)
		}
		c.Abort()
	}
}

// SessionExpiry turns a gateway.ErrSessionExpired raised by a handler into a
// redirect to the login page. The gateway has already cleared the store.
func SessionExpiry(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			if !errors.Is(e.Err, gateway.ErrSessionExpired) {
				continue
			}
			log.LogSessionCleared(c.Request.Context(), "refresh failed")
			if c.Writer.Written() {
				return
			}
			if WantsJSON(c) {
				response.RespondJSON(c, "error", http.StatusUnauthorized, gateway.ErrSessionExpired.Error(), nil, nil)
				return
			}
			c.Redirect(http.StatusSeeOther, navigation.LoginPath)
			return
		}
	}
}

// Accessors for values set by the chain

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(keyRequestID)
}

func SessionID(c *gin.Context) string {
	return c.GetString(keySessionID)
}

// Store returns the session store bound to this request
func Store(c *gin.Context) session.Store {
	if v, ok := c.Get(keyStore); ok {
		if s, ok := v.(session.Store); ok {
			return s
		}
	}
	return session.NewMemoryStore(session.Session{})
}

// CurrentSession is the session as loaded at the start of the request
func CurrentSession(c *gin.Context) session.Session {
	if v, ok := c.Get(keySession); ok {
		if s, ok := v.(session.Session); ok {
			return s
		}
	}
	return session.Session{}
}

// Links returns the navigation links decided by NavGuard
func Links(c *gin.Context) navigation.LinkSet {
	if v, ok := c.Get(keyLinks); ok {
		if l, ok := v.(navigation.LinkSet); ok {
			return l
		}
	}
	return navigation.Decide(CurrentSession(c), c.Request.URL.Path).Links
}

// UserID is the subject of the access token, if any
func UserID(c *gin.Context) string {
	return c.GetString(keyUserID)
}

// WantsJSON reports whether the caller asked for a JSON answer
func WantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.ContentType(), "application/json")
}
