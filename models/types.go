package models

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleADMIN  UserRole = "ADMIN"  // 管理员
	UserRoleVIEWER UserRole = "VIEWER" // 看板查看者
)

// IsValid 是否为已知角色
func (r UserRole) IsValid() bool {
	return r == UserRoleADMIN || r == UserRoleVIEWER
}
