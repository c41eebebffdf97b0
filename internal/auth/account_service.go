package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/anoixa/picture-vault/database/models"
	"github.com/anoixa/picture-vault/database/repo/accounts"
	"github.com/anoixa/picture-vault/internal/apperrors"
	cryptopackage "github.com/anoixa/picture-vault/utils/crypto"
)

// 密码长度约束
const (
	minPasswordLength = 10
	maxPasswordLength = 256
)

// RegisterInput 注册请求字段
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// AccountService 账户服务：注册与凭据验证
type AccountService struct {
	accountsRepo *accounts.Repository
}

// NewAccountService 创建新的账户服务
func NewAccountService(accountsRepo *accounts.Repository) *AccountService {
	return &AccountService{accountsRepo: accountsRepo}
}

// Register 注册新用户，默认权限为只读
func (s *AccountService) Register(input RegisterInput) (*models.User, error) {
	if !models.IsValidUsername(input.Username) {
		return nil, fmt.Errorf("%w: invalid username", apperrors.ErrValidation)
	}
	if len(input.Password) < minPasswordLength || len(input.Password) > maxPasswordLength {
		return nil, fmt.Errorf("%w: password must be %d-%d characters",
			apperrors.ErrValidation, minPasswordLength, maxPasswordLength)
	}

	hashedPassword, err := cryptopackage.GenerateFromPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Identifier:  uuid.New().String(),
		Username:    input.Username,
		Password:    hashedPassword,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Permissions: models.DefaultPermission,
	}

	if err := s.accountsRepo.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate 验证用户凭据
// 用户不存在和密码错误返回同一个错误，不泄露用户名是否存在。
func (s *AccountService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.accountsRepo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := cryptopackage.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByIdentifier 通过标识符获取用户
func (s *AccountService) GetUserByIdentifier(identifier string) (*models.User, error) {
	return s.accountsRepo.GetUserByIdentifier(identifier)
}
