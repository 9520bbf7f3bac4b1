package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrNoSigningKey is returned by GenerateToken in validation-only mode.
var ErrNoSigningKey = errors.New("auth: no private key configured")

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	// Secret is an HMAC-SHA256 key, used only when no RSA key is set.
	Secret string
	// PrivateKeyPEM enables signing (RS256); the public key is derived from it.
	PrivateKeyPEM string
	// PublicKeyPEM enables validation-only RS256 mode.
	PublicKeyPEM string

	Issuer     string
	Expiration time.Duration
}

// JWTService signs and validates tokens.
type JWTService struct {
	cfg     JWTConfig
	method  jwt.SigningMethod
	signKey any
	verKey  any
}

// NewJWTService picks RS256 when an RSA key is provided and HS256 otherwise.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	svc := &JWTService{cfg: cfg}

	switch {
	case cfg.PrivateKeyPEM != "":
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("auth: parse RSA private key: %w", err)
		}
		svc.method, svc.signKey, svc.verKey = jwt.SigningMethodRS256, key, &key.PublicKey
	case cfg.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("auth: parse RSA public key: %w", err)
		}
		svc.method, svc.verKey = jwt.SigningMethodRS256, key
	case cfg.Secret != "":
		svc.method, svc.signKey, svc.verKey = jwt.SigningMethodHS256, []byte(cfg.Secret), []byte(cfg.Secret)
	default:
		return nil, errors.New("auth: jwt configuration requires PrivateKeyPEM, PublicKeyPEM, or Secret")
	}

	return svc, nil
}

// GenerateToken issues a token for a calling client.
func (s *JWTService) GenerateToken(clientID string, roles []string) (string, error) {
	if s.signKey == nil {
		return "", ErrNoSigningKey
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   clientID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		ClientID: clientID,
		Roles:    roles,
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a token, checking signature, expiry and issuer.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{s.method.Alg()})}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.verKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	return claims, nil
}

// LoadKeyFromFile reads a PEM-encoded key from disk.
func LoadKeyFromFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("auth: read key file %q: %w", path, err)
	}
	return data, nil
}
