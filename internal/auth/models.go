package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type Role string

const (
	RoleOperator Role = "OPERATOR"
	RoleAdmin    Role = "ADMIN"
)

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleOperator, RoleAdmin:
		return true
	}
	return false
}

// Operator is a back-office account: gate staff and administrators.
// Operators are provisioned by the seeder or an admin, never self-registered.
type Operator struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex;size:255"`
	Password  string    `json:"-" gorm:"not null;size:255"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;default:'OPERATOR'"`
	Gate      string    `json:"gate" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// OperatorResponse represents operator data in responses (without credentials)
type OperatorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Gate      string    `json:"gate"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse represents the authentication response
type LoginResponse struct {
	Operator    OperatorResponse `json:"operator"`
	AccessToken string           `json:"access_token"`
	ExpiresIn   int64            `json:"expires_in"`
}

// JWTClaims represents JWT token claims
type JWTClaims struct {
	OperatorID string `json:"operator_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Type       string `json:"type"`
	jwt.RegisteredClaims
}

// TableName specifies the table name for GORM
func (Operator) TableName() string {
	return "operators"
}
