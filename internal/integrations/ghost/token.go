package ghost

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// adminTokenTTL is the longest lifetime Ghost accepts for admin tokens.
const adminTokenTTL = 5 * time.Minute

var ErrInvalidAdminKey = errors.New("ghost admin key must be {id}:{hex secret}")

// adminKey is a parsed "{id}:{secret}" Admin API key.
type adminKey struct {
	id     string
	secret []byte
}

func parseAdminKey(key string) (adminKey, error) {
	id, secretHex, ok := strings.Cut(key, ":")
	if !ok || id == "" || secretHex == "" {
		return adminKey{}, ErrInvalidAdminKey
	}
	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return adminKey{}, fmt.Errorf("%w: %v", ErrInvalidAdminKey, err)
	}
	return adminKey{id: id, secret: secret}, nil
}

// sign returns a short-lived HS256 token scoped to the admin audience.
func (k adminKey) sign(now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
		Audience:  jwt.ClaimStrings{"/admin/"},
	})
	token.Header["kid"] = k.id
	signed, err := token.SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("sign ghost admin token: %w", err)
	}
	return signed, nil
}
