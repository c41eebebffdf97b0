package accounts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/api/common"
)

// FindUserHandlerFunc 返回指定用户的公开文档
func (h *Handler) FindUserHandlerFunc(c *gin.Context) {
	user, err := h.accounts.GetUserByIdentifier(c.Param("id"))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
