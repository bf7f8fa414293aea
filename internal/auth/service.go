package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"launidad/internal/shared/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrOperatorExists     = errors.New("operator already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	CreateOperator(ctx context.Context, name, email, password, gate string, role Role) (*Operator, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type service struct {
	repo   Repository
	config *config.Config
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{
		repo:   repo,
		config: cfg,
	}
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	operator, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrOperatorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresIn, err := s.generateAccessToken(operator)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Operator: OperatorResponse{
			ID:        operator.ID.String(),
			Name:      operator.Name,
			Email:     operator.Email,
			Role:      string(operator.Role),
			Gate:      operator.Gate,
			CreatedAt: operator.CreatedAt,
		},
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}, nil
}

func (s *service) CreateOperator(ctx context.Context, name, email, password, gate string, role Role) (*Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrOperatorExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if !IsValidRole(string(role)) {
		role = RoleOperator
	}

	operator := &Operator{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Gate:     gate,
	}
	if err := s.repo.Create(ctx, operator); err != nil {
		return nil, err
	}
	return operator, nil
}

// EnsureBootstrapOperator creates the configured admin account when no
// operator with that email exists yet. The memory repository starts empty,
// so without this no console or gate route could ever be reached.
func EnsureBootstrapOperator(ctx context.Context, svc Service, cfg *config.Config) error {
	if cfg.Bootstrap.OperatorEmail == "" || cfg.Bootstrap.OperatorPassword == "" {
		return nil
	}

	_, err := svc.CreateOperator(ctx,
		cfg.Bootstrap.OperatorName,
		cfg.Bootstrap.OperatorEmail,
		cfg.Bootstrap.OperatorPassword,
		"",
		RoleAdmin,
	)
	if errors.Is(err, ErrOperatorExists) {
		return nil
	}
	return err
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.Type != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) generateAccessToken(operator *Operator) (string, int64, error) {
	expiresIn := s.config.JWT.ExpiresIn
	now := time.Now()
	claims := &JWTClaims{
		OperatorID: operator.ID.String(),
		Email:      operator.Email,
		Role:       string(operator.Role),
		Type:       "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   operator.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return "", 0, err
	}
	return signed, int64(expiresIn.Seconds()), nil
}
