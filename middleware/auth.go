package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"imex-website/models"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie carries the signed session token.
const SessionCookie = "auth_token"

// LoginPath is where anonymous visitors of protected pages are sent.
const LoginPath = "/account/login"

// Context keys set for authenticated requests.
const (
	ContextUserID   = "userID"
	ContextUserName = "userName"
	ContextEmail    = "email"
	ContextRole     = "role"
)

type Claims struct {
	UserID   int    `json:"user_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserFinder loads the account behind a session.
type UserFinder interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
}

// Sessions issues and validates cookie sessions.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	users  UserFinder
}

func NewSessions(secret string, ttl time.Duration, secure bool, users UserFinder) *Sessions {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure, users: users}
}

// IssueToken signs a session token for user.
func (s *Sessions) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.UserID,
		UserName: user.UserName,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a session token.
func (s *Sessions) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// SignIn stores a fresh session cookie for user.
func (s *Sessions) SignIn(c *gin.Context, user *models.User) error {
	token, err := s.IssueToken(user)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
	setIdentity(c, &Claims{UserID: user.UserID, UserName: user.UserName, Email: user.Email, Role: user.Role})
	return nil
}

// SignOut clears the session cookie.
func (s *Sessions) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", s.secure, true)
	for _, key := range []string{ContextUserID, ContextUserName, ContextEmail, ContextRole} {
		delete(c.Keys, key)
	}
}

// LoadSession sets the identity of a valid session cookie without
// requiring one.
func (s *Sessions) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, err := c.Cookie(SessionCookie); err == nil && tokenString != "" {
			if claims, err := s.ParseToken(tokenString); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// AuthMiddleware validates the session cookie and redirects anonymous
// visitors to the login page.
func (s *Sessions) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			redirectToLogin(c)
			return
		}

		claims, err := s.ParseToken(tokenString)
		if err != nil {
			s.SignOut(c)
			redirectToLogin(c)
			return
		}

		// Check if user still exists
		if s.users != nil {
			user, err := s.users.FindByID(c.Request.Context(), claims.UserID)
			if err != nil || user == nil {
				s.SignOut(c)
				redirectToLogin(c)
				return
			}
			claims.Role = user.Role
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// RequireRole only lets users with one of roles through.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusSeeOther, utils.AdminInfoURL("Nu ai drepturi pentru această acțiune."))
		c.Abort()
	}
}

// CurrentUserID returns the id of the signed-in user.
func CurrentUserID(c *gin.Context) (int, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	userID, ok := id.(int)
	return userID, ok && userID > 0
}

// IsAuthenticated reports whether the request carries a valid session.
func IsAuthenticated(c *gin.Context) bool {
	_, ok := CurrentUserID(c)
	return ok
}

func setIdentity(c *gin.Context, claims *Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserName, claims.UserName)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
}

func redirectToLogin(c *gin.Context) {
	target := LoginPath + "?" + url.Values{"returnUrl": {c.Request.URL.RequestURI()}}.Encode()
	c.Redirect(http.StatusSeeOther, target)
	c.Abort()
}
