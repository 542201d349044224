package helpers

import (
	"errors"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
)

type SignedDetails struct {
	Email       string
	Name        string
	Uid         string
	IsAnonymous bool
	jwt.StandardClaims
}

var SECRET_KEY []byte = secretKey()

func secretKey() []byte {
	if key := os.Getenv("SECRET_KEY"); key != "" {
		return []byte(key)
	}
	return []byte("brewtab-dev-secret")
}

// GenerateToken signs a session token for either an admin account or an
// anonymous customer session. Anonymous tokens carry no email or name.
func GenerateToken(email string, name string, uid string, isAnonymous bool) (string, error) {
	claims := SignedDetails{
		Email:       email,
		Name:        name,
		Uid:         uid,
		IsAnonymous: isAnonymous,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(SECRET_KEY)
}

func ValidateToken(signedToken string) (*SignedDetails, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(t *jwt.Token) (interface{}, error) {
			return SECRET_KEY, nil
		},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SignedDetails)
	if !ok || !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.ExpiresAt < time.Now().Unix() {
		return nil, errors.New("token is expired")
	}
	return claims, nil
}
