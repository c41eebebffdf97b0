package core

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/anoixa/picture-vault/cache"
	"github.com/anoixa/picture-vault/config"
	"github.com/anoixa/picture-vault/remotestore"
)

// HealthHandler 健康检查处理器，nil 依赖项会被跳过
type HealthHandler struct {
	db     *gorm.DB
	cache  cache.Provider
	remote remotestore.Provider
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db *gorm.DB, cacheProvider cache.Provider, remote remotestore.Provider) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheProvider, remote: remote}
}

// Handle 并发执行各依赖检查，任一异常时返回 503
func (h *HealthHandler) Handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	var dbStatus, cacheStatus, remoteStatus string

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		dbStatus = checkDatabaseHealth(h.db)
		return nil
	})
	group.Go(func() error {
		cacheStatus = checkCacheHealth(h.cache)
		return nil
	})
	group.Go(func() error {
		remoteStatus = checkRemoteHealth(ctx, h.remote)
		return nil
	})
	group.Wait()

	checks["database"] = dbStatus
	if h.cache != nil {
		checks["cache"] = cacheStatus
	}
	if h.remote != nil {
		checks["remote_store"] = remoteStatus
	}

	httpStatus := http.StatusOK
	status := "ok"
	for _, checkResult := range checks {
		if result, ok := checkResult.(string); ok && result != "ok" {
			httpStatus = http.StatusServiceUnavailable
			status = "degraded"
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status": status,
		"uptime": time.Since(startTime).Round(time.Second).String(),
		"checks": checks,
	})
}

func checkDatabaseHealth(db *gorm.DB) string {
	if db == nil {
		return "not initialized"
	}
	sqlDB, err := db.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkCacheHealth(provider cache.Provider) string {
	if provider == nil {
		return "not initialized"
	}
	return "ok"
}

func checkRemoteHealth(ctx context.Context, provider remotestore.Provider) string {
	if provider == nil {
		return "not initialized"
	}
	if err := provider.Health(ctx); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

// registerBasicRoutes 挂载健康与版本路由
func registerBasicRoutes(router *gin.Engine, health *HealthHandler) {
	router.GET("/health", health.Handle)
	router.GET("/version", func(context *gin.Context) {
		context.JSON(http.StatusOK, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})
}
