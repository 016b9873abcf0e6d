package service

import (
	"errors"
	"fmt"
	"time"

	"todoapp/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the access token lifetime.
const DefaultTokenTTL = 20 * time.Minute

// Verification failures, distinguishable for logging and tests. The HTTP layer
// collapses all of them into a single 401 so callers cannot probe which check
// failed.
var (
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims is the signed token payload: {sub: username, id: user_id, exp}.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"id"`
}

// TokenManager issues and verifies HS256 access tokens with a single
// process-wide secret. Verification is stateless: any manager holding the same
// key accepts tokens issued by any other.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenManager(key []byte, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{key: key, ttl: ttl, now: time.Now}
}

// Issue builds and signs a token for the given user.
func (m *TokenManager) Issue(username string, userID int) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		UserID: userID,
	})
	return token.SignedString(m.key)
}

// Verify checks signature and expiry and returns the identity encoded in the
// claims. Tokens missing sub or id are rejected as malformed.
func (m *TokenManager) Verify(accessToken string) (models.Identity, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.key, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return models.Identity{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return models.Identity{}, fmt.Errorf("%w: %v", ErrTokenSignature, err)
		default:
			return models.Identity{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return models.Identity{}, ErrTokenMalformed
	}
	// User ids are 1-based autoincrement, so a zero id means the claim is absent.
	if claims.Subject == "" || claims.UserID == 0 {
		return models.Identity{}, fmt.Errorf("%w: missing sub or id claim", ErrTokenMalformed)
	}

	return models.Identity{UserID: claims.UserID, Username: claims.Subject}, nil
}
