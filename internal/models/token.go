package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the authenticated actor identity through middleware.
type JWTClaims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
