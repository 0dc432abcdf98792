package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "library-backend"

// Audiences keep an access token from being exchanged as a refresh token and back.
const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// DefaultRefreshTTL applies when WithRefreshTTL is not used.
const DefaultRefreshTTL = 7 * 24 * time.Hour

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims carried by an access token. Subject holds the user id.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string { return c.Subject }

type Issuer struct {
	secret     []byte
	ttl        time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, refreshTTL: DefaultRefreshTTL, now: time.Now}
}

// WithRefreshTTL sets the lifetime of refresh tokens. Non-positive values are ignored.
func (i *Issuer) WithRefreshTTL(d time.Duration) *Issuer {
	if d > 0 {
		i.refreshTTL = d
	}
	return i
}

// RefreshTTL reports the lifetime given to refresh tokens.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// Issue signs an HS256 access token and returns it with its expiry.
func (i *Issuer) Issue(userID, username, role string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audienceAccess},
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

// IssueRefresh signs a refresh token for userID. jti identifies the stored
// row that tracks revocation.
func (i *Issuer) IssueRefresh(userID, jti string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.refreshTTL)
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   userID,
		Audience:  jwt.ClaimStrings{audienceRefresh},
		ID:        jti,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

// Parse validates an access token and returns its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := i.parse(tokenString, claims, audienceAccess); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefresh validates a refresh token. The returned claims always carry
// a subject and a jti.
func (i *Issuer) ParseRefresh(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if err := i.parse(tokenString, claims, audienceRefresh); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (i *Issuer) parse(tokenString string, claims jwt.Claims, audience string) error {
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !tok.Valid {
		return ErrTokenInvalid
	}
	return nil
}
