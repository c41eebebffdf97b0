package accounts

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/api/common"
	"github.com/anoixa/picture-vault/internal/auth"
)

// registerRequestBody 注册请求体
type registerRequestBody struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// RegisterHandlerFunc 处理注册请求
// 成功返回 201、新用户 id 和 Location 头；唯一性冲突 409，字段校验失败 400。
func (h *Handler) RegisterHandlerFunc(c *gin.Context) {
	var body registerRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.accounts.Register(auth.RegisterInput{
		Username:  body.Username,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/api/v1/users/%s", h.baseURL, user.Identifier))
	c.JSON(http.StatusCreated, gin.H{
		"id": user.Identifier,
	})
}
