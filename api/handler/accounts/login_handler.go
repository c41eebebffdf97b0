package accounts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/api/common"
)

// loginRequestBody 登录请求体
type loginRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandlerFunc 处理登录请求
// 成功返回 201 和访问令牌；用户不存在和密码错误返回同样的 401。
func (h *Handler) LoginHandlerFunc(c *gin.Context) {
	var body loginRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accounts.Authenticate(body.Username, body.Password)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	accessToken, err := h.tokens.Issue(user)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token": accessToken,
	})
}
