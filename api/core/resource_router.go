package core

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handlerImages "github.com/anoixa/picture-vault/api/handler/images"
	"github.com/anoixa/picture-vault/api/middleware"
	"github.com/anoixa/picture-vault/cache"
	"github.com/anoixa/picture-vault/config"
	"github.com/anoixa/picture-vault/database/models"
	authSvc "github.com/anoixa/picture-vault/internal/auth"
	imageSvc "github.com/anoixa/picture-vault/internal/image"
	"github.com/anoixa/picture-vault/remotestore"
)

// ResourceRouterDependencies 资源服务路由依赖
type ResourceRouterDependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Sync   *imageSvc.SyncService
	Tokens *authSvc.TokenService
	Cache  cache.Provider
	Remote remotestore.Provider
}

// NewResourceRouter 组装资源服务的路由。
// 能力位检查在路由层，归属检查在服务层。
func NewResourceRouter(deps *ResourceRouterDependencies) *gin.Engine {
	cfg := deps.Config
	router := newEngine(cfg)

	registerBasicRoutes(router, NewHealthHandler(deps.DB, deps.Cache, deps.Remote))

	imageHandler := handlerImages.NewHandler(deps.Sync)

	api := apiGroup(router)
	v1 := api.Group("/v1")
	{
		imagesGroup := v1.Group("/images")
		imagesGroup.Use(middleware.BearerAuth(deps.Tokens))
		{
			imagesGroup.GET("",
				middleware.RequirePermission(models.PermissionRead),
				imageHandler.ListImages) // GET /api/v1/images
			imagesGroup.GET("/:id",
				middleware.RequirePermission(models.PermissionRead),
				imageHandler.GetImage) // GET /api/v1/images/{id}
			imagesGroup.POST("",
				middleware.RequirePermission(models.PermissionCreate),
				imageHandler.CreateImage) // POST /api/v1/images
			imagesGroup.PUT("/:id",
				middleware.RequirePermission(models.PermissionUpdate),
				imageHandler.UpdateImage) // PUT /api/v1/images/{id}
			imagesGroup.PATCH("/:id",
				middleware.RequirePermission(models.PermissionUpdate),
				imageHandler.PatchImage) // PATCH /api/v1/images/{id}
			imagesGroup.DELETE("/:id",
				middleware.RequirePermission(models.PermissionDelete),
				imageHandler.DeleteImage) // DELETE /api/v1/images/{id}
		}
	}

	return router
}
