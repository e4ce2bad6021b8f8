// Package authn is the auth collaborator: getCurrentUser(bearer_token)
// -> {id, email, role}. Verification is local (JWT signature + expiry),
// not a remote round trip — there is no session table to query, so
// "remote verification" in the sense the gateway cares about just means
// the claims are authoritative once the signature checks out.
package authn

import (
	"crypto/subtle"
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v4"
)

// User is the identity the gateway acts on behalf of.
type User struct {
	ID    string
	Email string
	Role  string
}

var errInvalidToken = errors.New("invalid or expired token")

type claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens. In dev mode (no secret configured)
// it accepts any token and returns an anonymous user, matching the
// teacher's own dev-mode bypass behavior for the static bearer check.
type Verifier struct {
	jwtSecret   []byte
	staticToken string
}

func NewVerifier() *Verifier {
	return &Verifier{
		jwtSecret:   []byte(os.Getenv("JWT_SECRET")),
		staticToken: os.Getenv("API_AUTH_TOKEN"),
	}
}

// DevMode reports whether neither a JWT secret nor a static token is
// configured — requests are accepted unauthenticated.
func (v *Verifier) DevMode() bool {
	return len(v.jwtSecret) == 0 && v.staticToken == ""
}

// GetCurrentUser verifies a bearer token. JWT verification is tried
// first when a secret is configured; the static-token path (constant
// time compared) is checked otherwise or as a fallback for service
// tokens that aren't JWTs.
func (v *Verifier) GetCurrentUser(token string) (User, error) {
	if v.DevMode() {
		return User{ID: "dev", Role: "admin"}, nil
	}

	if len(v.jwtSecret) > 0 {
		if user, err := v.verifyJWT(token); err == nil {
			return user, nil
		}
	}

	if v.staticToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(v.staticToken)) == 1 {
		return User{ID: "service", Role: "service"}, nil
	}

	return User{}, errInvalidToken
}

func (v *Verifier) verifyJWT(token string) (User, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return v.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return User{}, errInvalidToken
	}
	c, ok := parsed.Claims.(*claims)
	if !ok {
		return User{}, errInvalidToken
	}
	return User{ID: c.Subject, Email: c.Email, Role: c.Role}, nil
}
