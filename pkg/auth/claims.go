package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims accepted by the prediction API.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string   `json:"client_id"`
	Roles    []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Role constants
const (
	RoleAdmin     = "admin"
	RolePredictor = "loan_predictor"
	RoleAuditor   = "auditor"
)
