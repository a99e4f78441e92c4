package middleware

import (
	"net/http"
	"strings"
	"time"

	"team-pdca/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	identityKey   = "identity"
	credentialKey = "credential"

	tokenTTL     = 7 * 24 * time.Hour
	renewUnder   = 24 * time.Hour
	tokenCookie  = "token"
	renewsHeader = "X-New-Token"
)

// IssueToken signs the identity claims carried by every request.
func IssueToken(secret []byte, id policy.Identity) (string, error) {
	claims := jwt.MapClaims{
		"uid":  id.UserID,
		"role": id.Role.String(),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	if id.TeamID != nil {
		claims["team_id"] = *id.TeamID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseIdentity(secret []byte, raw string) (policy.Identity, jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return policy.Identity{}, nil, policy.ErrUnauthenticated
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return policy.Identity{}, nil, policy.ErrUnauthenticated
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return policy.Identity{}, nil, policy.ErrUnauthenticated
	}
	roleStr, _ := claims["role"].(string)
	role, err := policy.ParseRole(roleStr)
	if err != nil {
		return policy.Identity{}, nil, policy.ErrUnauthenticated
	}
	id := policy.Identity{UserID: int(uid), Role: role}
	if tid, ok := claims["team_id"].(float64); ok {
		t := int(tid)
		id.TeamID = &t
	}
	return id, claims, nil
}

// rawToken accepts the token from a bearer header first, then the
// cookie the browser client uses.
func rawToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return auth[7:]
	}
	if cookie, err := c.Cookie(tokenCookie); err == nil {
		return cookie
	}
	return ""
}

// Auth rejects requests without a verified credential and attaches
// the caller's identity. Tokens within a day of expiry are reissued
// via the X-New-Token header.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := rawToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		id, claims, err := parseIdentity(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		SetIdentity(c, id)

		if exp, ok := claims["exp"].(float64); ok {
			if time.Until(time.Unix(int64(exp), 0)) < renewUnder {
				if newToken, err := IssueToken(secret, id); err == nil {
					c.Header(renewsHeader, newToken)
				}
			}
		}

		c.Next()
	}
}

// OptionalAuth never rejects. It records a tri-state credential so
// public endpoints can shape responses: a missing or unverifiable
// token both count as unauthenticated (identity is only set for the
// valid case).
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := rawToken(c)
		if raw == "" {
			SetCredential(c, policy.CredentialNone)
			c.Next()
			return
		}
		id, _, err := parseIdentity(secret, raw)
		if err != nil {
			SetCredential(c, policy.CredentialInvalid)
			c.Next()
			return
		}
		SetCredential(c, policy.CredentialValid)
		SetIdentity(c, id)
		c.Next()
	}
}

// SetIdentity attaches the caller identity to the request context.
// Used by Auth and by handler tests.
func SetIdentity(c *gin.Context, id policy.Identity) { c.Set(identityKey, id) }

func SetCredential(c *gin.Context, cred policy.Credential) { c.Set(credentialKey, cred) }

func IdentityFrom(c *gin.Context) (policy.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return policy.Identity{}, false
	}
	id, ok := v.(policy.Identity)
	return id, ok
}

func CredentialFrom(c *gin.Context) policy.Credential {
	v, ok := c.Get(credentialKey)
	if !ok {
		return policy.CredentialNone
	}
	cred, ok := v.(policy.Credential)
	if !ok {
		return policy.CredentialNone
	}
	return cred
}

// RequireAdmin gates admin-only routes. Runs after Auth.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(policy.Admin)
}

// RequireManager admits managers and admins.
func RequireManager() gin.HandlerFunc {
	return requireRole(policy.Manager, policy.Admin)
}

func requireRole(roles ...policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
	}
}
