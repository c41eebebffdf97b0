package core

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handlerAccounts "github.com/anoixa/picture-vault/api/handler/accounts"
	"github.com/anoixa/picture-vault/api/middleware"
	"github.com/anoixa/picture-vault/config"
	"github.com/anoixa/picture-vault/database/models"
	authSvc "github.com/anoixa/picture-vault/internal/auth"
)

// AuthRouterDependencies 认证服务路由依赖
type AuthRouterDependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Accounts *authSvc.AccountService
	Tokens   *authSvc.TokenService
}

// NewAuthRouter 组装认证服务的路由
func NewAuthRouter(deps *AuthRouterDependencies) *gin.Engine {
	cfg := deps.Config
	router := newEngine(cfg)

	registerBasicRoutes(router, NewHealthHandler(deps.DB, nil, nil))

	accountHandler := handlerAccounts.NewHandler(deps.Accounts, deps.Tokens, cfg.BaseURL())
	authRateLimiter := middleware.NewPerClientRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst)

	api := apiGroup(router)
	v1 := api.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		authGroup.Use(authRateLimiter.Middleware())
		{
			authGroup.POST("/register", accountHandler.RegisterHandlerFunc) // POST /api/v1/auth/register
			authGroup.POST("/login", accountHandler.LoginHandlerFunc)      // POST /api/v1/auth/login
		}

		usersGroup := v1.Group("/users")
		usersGroup.Use(middleware.BearerAuth(deps.Tokens))
		{
			usersGroup.GET("/:id",
				middleware.RequirePermission(models.PermissionRead),
				accountHandler.FindUserHandlerFunc) // GET /api/v1/users/{id}
		}
	}

	return router
}
