package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/BerniceZTT/crm_workload/models"

	"github.com/dgrijalva/jwt-go"
)

var jwtSecret []byte

// 令牌默认有效期
const DefaultTokenTTL = 30 * 24 * time.Hour

// SetJWTSecret 设置签名密钥，需在签发或校验令牌前调用
func SetJWTSecret(key string) {
	jwtSecret = []byte(key)
}

// GenerateToken 生成JWT令牌
func GenerateToken(id, username string, role models.UserRole, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	if !role.IsValid() {
		return "", fmt.Errorf("不支持的用户角色: %s", role)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"id":       id,
		"username": username,
		"role":     string(role),
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		Logger.Error().Err(err).Msg("生成token失败")
		return "", err
	}

	Logger.Info().
		Str("username", username).
		Str("role", string(role)).
		Msg("Token生成成功")

	return tokenString, nil
}

// ParseToken 解析和验证JWT令牌
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("无效的token")
}

// 权限资源与动作
const (
	ResourceDashboard = "dashboard"
	ResourceRegistry  = "registry"

	ActionRead  = "read"
	ActionWrite = "write"
)

// HasPermission 检查用户是否有权限
func HasPermission(role models.UserRole, resource string, action string) bool {
	// 管理员拥有所有权限
	if role == models.UserRoleADMIN {
		return true
	}

	permissions := map[models.UserRole]map[string][]string{
		models.UserRoleVIEWER: {
			ResourceDashboard: {ActionRead},
			ResourceRegistry:  {ActionRead},
		},
	}

	if resourceActions, exists := permissions[role]; exists {
		for _, a := range resourceActions[resource] {
			if a == action {
				return true
			}
		}
	}
	return false
}
