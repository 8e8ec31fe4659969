package middleware

import (
	"strings"

	"restopos/internal/apierror"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookie is the httponly cookie carrying the signed session token.
	SessionCookie = "restopos_session"

	authContextKey = "auth"
)

// SessionClaims are the custom claims embedded in every session token.
// is_admin is a snapshot taken at login; the resolver re-reads the account
// on every request, so the live flag always wins.
type SessionClaims struct {
	AccountID string `json:"account_id"`
	TenantID  string `json:"tenant_id"`
	UserID    string `json:"user_id"`
	IsAdmin   bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Authenticate validates the session cookie (or a Bearer token for API
// clients) and resolves it into a live AuthContext. Missing, invalid or
// expired tokens and deleted accounts all map to 401 unauthenticated.
func Authenticate(secret string, authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			abortWith(c, apierror.ErrUnauthenticated)
			return
		}

		claims := &SessionClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortWith(c, apierror.ErrUnauthenticated)
			return
		}

		tenantID, err := uuid.Parse(claims.TenantID)
		if err != nil {
			abortWith(c, apierror.ErrUnauthenticated)
			return
		}
		accountID, err := uuid.Parse(claims.AccountID)
		if err != nil {
			abortWith(c, apierror.ErrUnauthenticated)
			return
		}

		auth, err := authSvc.Resolve(c.Request.Context(), tenantID, accountID)
		if err != nil {
			if ae, ok := err.(*apierror.Error); ok {
				abortWith(c, ae)
				return
			}
			abortWith(c, apierror.Internal())
			return
		}

		c.Set(authContextKey, auth)
		c.Next()
	}
}

// RequirePermission rejects requests whose effective permission set lacks
// any of the required codes. Admin accounts always pass.
func RequirePermission(codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := GetAuth(c)
		if auth == nil {
			abortWith(c, apierror.ErrUnauthenticated)
			return
		}
		for _, code := range codes {
			if !auth.Can(code) {
				abortWith(c, apierror.ErrForbidden)
				return
			}
		}
		c.Next()
	}
}

// GetAuth retrieves the resolved AuthContext from the Gin context.
func GetAuth(c *gin.Context) *service.AuthContext {
	auth, _ := c.Value(authContextKey).(*service.AuthContext)
	return auth
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func abortWith(c *gin.Context, err *apierror.Error) {
	c.AbortWithStatusJSON(err.Status, err.Envelope())
}
