package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

type JwtCustomClaim struct {
	ID        int    `json:"id"`
	CompanyId string `json:"company_id"`
	RoleId    int    `json:"role_id"`
	jwt.StandardClaims
}

type JwtRefreshClaim struct {
	ID        int    `json:"id"`
	CompanyId string `json:"company_id"`
	jwt.StandardClaims
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return "ArtPlim-Secret"
	}
	return secret
}

func tokenLifespanHours(envKey string, def int) int {
	lifespan, err := strconv.Atoi(os.Getenv(envKey))
	if err != nil || lifespan <= 0 {
		return def
	}
	return lifespan
}

func JwtGenerate(userID int, companyId string, roleId int) (string, error) {
	lifespan := tokenLifespanHours("TOKEN_HOUR_LIFESPAN", 1)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		ID:        userID,
		CompanyId: companyId,
		RoleId:    roleId,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour * time.Duration(lifespan)).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	token, err := t.SignedString(jwtSecret)
	if err != nil {
		return "", err
	}

	return token, nil
}

// JwtGenerateRefresh mints a refresh token carrying a jti so the server
// can rotate/revoke it. Returns (token, jti).
func JwtGenerateRefresh(userID int, companyId string) (string, string, error) {
	lifespan := tokenLifespanHours("REFRESH_TOKEN_HOUR_LIFESPAN", 24*7)
	jti := uuid.NewString()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtRefreshClaim{
		ID:        userID,
		CompanyId: companyId,
		StandardClaims: jwt.StandardClaims{
			Id:        jti,
			ExpiresAt: time.Now().Add(time.Hour * time.Duration(lifespan)).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	token, err := t.SignedString(jwtSecret)
	if err != nil {
		return "", "", err
	}

	return token, jti, nil
}

func JwtValidate(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
}

func JwtValidateRefresh(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &JwtRefreshClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
}
