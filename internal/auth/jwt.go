package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every decode failure: malformed, bad signature, expired.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the subset of the backend's token payload the console relies on.
type Claims struct {
	RoleName string `json:"RoleName"`
	FullName string `json:"FullName"`
	Email    string `json:"Email,omitempty"`
	jwt.RegisteredClaims
}

// Decoder reads backend-issued tokens.
//
// Without a secret it only decodes the payload, like a browser-side jwt
// decode would: this is a UX gate and the backend re-verifies every call.
// With a secret it also verifies an HS256 signature and the expiry.
type Decoder struct {
	secret []byte
	parser *jwt.Parser
}

func NewDecoder(secret []byte) *Decoder {
	d := &Decoder{secret: secret}
	if len(secret) > 0 {
		d.parser = jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	} else {
		d.parser = jwt.NewParser()
	}
	return d
}

// Verifies reports whether signatures are checked.
func (d *Decoder) Verifies() bool {
	return len(d.secret) > 0
}

func (d *Decoder) Decode(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	if d.Verifies() {
		parsed, err := d.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
			return d.secret, nil
		})
		if err != nil {
			return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if !parsed.Valid {
			return Claims{}, ErrInvalidToken
		}
		return claims, nil
	}

	if _, _, err := d.parser.ParseUnverified(token, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
