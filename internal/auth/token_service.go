package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/anoixa/picture-vault/database/models"
	"github.com/anoixa/picture-vault/internal/apperrors"
)

// AccessClaims JWT 令牌声明
// sub 为用户标识符，令牌自包含下游需要的全部公开资料字段。
type AccessClaims struct {
	Username    string            `json:"username"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Email       string            `json:"email"`
	Permissions models.Permission `json:"permissions"`
	jwt.RegisteredClaims
}

// TokenService 使用 RSA 非对称签名签发和验证访问令牌。
// 认证服务持有私钥签发，资源服务只持有公钥验证，私钥不离开认证服务。
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	lifetime   time.Duration
}

// NewIssuer 创建签发端令牌服务（认证服务）
func NewIssuer(privateKey *rsa.PrivateKey, lifetime time.Duration) (*TokenService, error) {
	if privateKey == nil {
		return nil, errors.New("signing key is required")
	}
	if lifetime <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}

	return &TokenService{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		lifetime:   lifetime,
	}, nil
}

// NewVerifier 创建验证端令牌服务（资源服务）
func NewVerifier(publicKey *rsa.PublicKey) (*TokenService, error) {
	if publicKey == nil {
		return nil, errors.New("verification key is required")
	}

	return &TokenService{publicKey: publicKey}, nil
}

// Issue 为用户签发有时限的访问令牌
func (s *TokenService) Issue(user *models.User) (string, error) {
	if s.privateKey == nil {
		return "", errors.New("token service has no signing key")
	}

	now := time.Now()
	claims := &AccessClaims{
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Permissions: user.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Identifier,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return token, nil
}

// Verify 验证令牌并返回声明
// 签名不匹配、结构损坏、过期都折叠为同一个 ErrInvalidToken，
// 不向调用方泄露失败的具体原因。
func (s *TokenService) Verify(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))

	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.Subject == "" || !claims.Permissions.Valid() {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
