package accounts

import (
	"time"

	"github.com/anoixa/picture-vault/database/models"
	"github.com/anoixa/picture-vault/internal/auth"
)

// Handler 账户相关请求处理器
type Handler struct {
	accounts *auth.AccountService
	tokens   *auth.TokenService
	baseURL  string
}

// NewHandler 创建新的账户处理器
func NewHandler(accounts *auth.AccountService, tokens *auth.TokenService, baseURL string) *Handler {
	return &Handler{
		accounts: accounts,
		tokens:   tokens,
		baseURL:  baseURL,
	}
}

// userResponse 用户文档的公开字段
type userResponse struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	Permissions models.Permission `json:"permissions"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:          user.Identifier,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Permissions: user.Permissions,
		CreatedAt:   user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
