package jwt

import "github.com/golang-jwt/jwt/v5"

// Claims is the token payload issued to mobile clients. Subject carries the
// user ID.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type Role string

const (
	RoleViewer Role = "viewer"
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)
