package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/api/common"
	"github.com/anoixa/picture-vault/database/models"
	"github.com/anoixa/picture-vault/internal/auth"
)

const (
	ContextUserIDKey      = "user_id"
	ContextUsernameKey    = "username"
	ContextPermissionsKey = "permissions"

	bearerScheme = "Bearer"
)

// BearerAuth 验证 Bearer 令牌并把主体信息写入请求上下文。
// 头缺失、scheme 不对、令牌无效或过期一律返回同样的 401，
// 不暴露失败的具体原因。
func BearerAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != bearerScheme {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		c.Set(ContextUserIDKey, claims.Subject)
		c.Set(ContextUsernameKey, claims.Username)
		c.Set(ContextPermissionsKey, claims.Permissions)

		c.Next()
	}
}

// RequirePermission 检查令牌掩码是否包含所需能力位
// 所有权检查在服务层，和能力位检查互相独立。
func RequirePermission(required models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextPermissionsKey)
		if !exists {
			common.RespondErrorAbort(c, http.StatusForbidden, "Forbidden")
			return
		}

		permissions, ok := value.(models.Permission)
		if !ok || !permissions.Has(required) {
			common.RespondErrorAbort(c, http.StatusForbidden, "Forbidden")
			return
		}

		c.Next()
	}
}

// CurrentUserID 读取已认证主体的标识符
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
