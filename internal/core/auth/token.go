package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

// Claims is the identity bundle carried by a session token. The wire names
// (userId, email, role, iat) and the millisecond issued-at are kept
// compatible with tokens issued by earlier releases, which clients may still
// be holding: there is no expiry and no revocation, so an old token stays
// valid for as long as the signing secret does.
type Claims struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	IssuedAt int64  `json:"iat,omitempty"`
}

// The jwt.Claims getters all return nil so the parser performs no
// time-based validation. Freshness, if ever wanted, belongs to callers
// inspecting IssuedAt.
func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) { return nil, nil }
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c *Claims) GetIssuer() (string, error)                   { return "", nil }
func (c *Claims) GetSubject() (string, error)                  { return "", nil }
func (c *Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// Codec issues and verifies HS256 session tokens signed with a single
// process-wide secret injected at construction time.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue signs the claims, stamping the issued-at timestamp in milliseconds.
func (c *Codec) Issue(claims Claims) (string, error) {
	claims.IssuedAt = time.Now().UnixMilli()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(c.secret)
}

// Decode verifies the token signature and returns the embedded claims.
// Every failure mode — wrong segment count, bad signature, unparsable
// claims, foreign algorithm — collapses to domain.ErrInvalidToken so a
// response never reveals which part of a forged token was wrong.
func (c *Codec) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
