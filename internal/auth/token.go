package auth

import (
	"errors"
	"strconv"
	"time"

	"storefront/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

// 認証基盤がアクセストークンに載せる情報
type Identity struct {
	UserID       int64
	Role         model.Role
	TokenVersion int
	Name         string
	Email        string
}

func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// HS256のアクセストークンを発行する
type Issuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewIssuer(secret string, accessTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL}
}

func (i *Issuer) Issue(id Identity, now time.Time) (string, time.Time, error) {
	if id.UserID <= 0 {
		return "", time.Time{}, errors.New("invalid user id")
	}
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(id.UserID, 10),
		"role": string(id.Role),
		"tv":   id.TokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	if id.Name != "" {
		claims["name"] = id.Name
	}
	if id.Email != "" {
		claims["email"] = id.Email
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
