package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/pkg"
)

const (
	csrfCookieName = "_csrf_token"
	csrfFormField  = "_csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfContextKey = "CSRFToken"
	csrfNonceBytes = 32
)

// CSRF protects the dashboard's state-changing requests with a signed
// double-submit token.
//
// Token format: hex(nonce) + "." + base64url(HMAC-SHA256(nonce, secret)).
//
// Safe methods get a token cookie (readable by the page, SameSite=Strict) and
// the token in the gin context under "CSRFToken" for templates, which hand it
// to htmx as the X-CSRF-Token header. Unsafe methods must echo the cookie's
// token in that header or the "_csrf_token" form field. htmx callers that fail
// the check get an error toast; everyone else gets a 403 JSON envelope.
func CSRF(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
				Code:    http.StatusInternalServerError,
				Message: "csrf secret is required",
			})
		}
	}

	secure := gin.Mode() == gin.ReleaseMode
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			token, err := c.Cookie(csrfCookieName)
			if err != nil || !validToken(token, secret) {
				if token, err = generateToken(secret); err != nil {
					c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
						Code:    http.StatusInternalServerError,
						Message: "failed to generate CSRF token",
					})
					return
				}
				setCSRFCookie(c, token, secure)
			}
			c.Set(csrfContextKey, token)
			c.Next()

		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			cookieToken, _ := c.Cookie(csrfCookieName)
			requestToken := c.GetHeader(csrfHeaderName)
			if requestToken == "" {
				requestToken = c.PostForm(csrfFormField)
			}

			switch {
			case cookieToken == "" || requestToken == "":
				rejectCSRF(c, "CSRF token missing")
			case !validToken(cookieToken, secret) || !validToken(requestToken, secret):
				rejectCSRF(c, "CSRF token invalid")
			case subtle.ConstantTimeCompare([]byte(cookieToken), []byte(requestToken)) != 1:
				rejectCSRF(c, "CSRF token invalid")
			default:
				c.Set(csrfContextKey, cookieToken)
				c.Next()
			}

		default:
			c.Next()
		}
	}
}

func rejectCSRF(c *gin.Context, msg string) {
	if pkg.IsHTMX(c) {
		pkg.Toast(c, "Your session has expired. Reload the page and try again.", pkg.ToastTypeError)
		c.Header(pkg.HeaderHXReswap, "none")
	}
	c.AbortWithStatusJSON(http.StatusForbidden, pkg.Response{
		Code:    http.StatusForbidden,
		Message: msg,
	})
}

// GetCSRFToken returns the token stored by CSRF, or "".
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

func generateToken(secret string) (string, error) {
	nonce := make([]byte, csrfNonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	nonceHex := hex.EncodeToString(nonce)
	return nonceHex + "." + signNonce(nonceHex, secret), nil
}

func signNonce(nonce, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// validToken checks the token format and its HMAC signature.
func validToken(token, secret string) bool {
	nonce, sig, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || sig == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(signNonce(nonce, secret))) == 1
}

func setCSRFCookie(c *gin.Context, token string, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
