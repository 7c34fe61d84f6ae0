package utils

import (
	"fmt"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextUserKey      = "user"
	ContextRequestIDKey = "requestId"
)

// LoginUser 当前登录用户
type LoginUser struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	Username string `json:"name"`
}

// UserFromClaims 从令牌负载提取用户信息
func UserFromClaims(claims jwt.MapClaims) (*LoginUser, error) {
	id, ok := claims["id"].(string)
	if !ok {
		return nil, fmt.Errorf("无效的用户ID")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("无效的用户角色")
	}
	username, ok := claims["username"].(string)
	if !ok {
		return nil, fmt.Errorf("无效的用户名")
	}
	return &LoginUser{ID: id, Role: role, Username: username}, nil
}

// GetUser 获取认证中间件写入的用户
func GetUser(c *gin.Context) (*LoginUser, error) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, fmt.Errorf("GetUser 未授权访问")
	}
	user, ok := v.(*LoginUser)
	if !ok {
		return nil, fmt.Errorf("GetUser 用户信息格式错误")
	}
	return user, nil
}

// SplitList 合并重复参数与逗号分隔的取值，去掉空白项
func SplitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
