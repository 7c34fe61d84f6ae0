package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_workload/utils"
)

// ValidateToken 返回令牌中的用户信息，供前端校验登录状态
func ValidateToken(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	utils.SuccessResponse(c, gin.H{"user": user}, "")
}
