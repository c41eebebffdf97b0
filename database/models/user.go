package models

import (
	"regexp"

	"gorm.io/gorm"
)

// Permission 权限位掩码，四个能力位可任意组合
type Permission uint8

const (
	PermissionRead   Permission = 1 << iota // 1
	PermissionCreate                        // 2
	PermissionUpdate                        // 4
	PermissionDelete                        // 8
)

// PermissionAll 全部权限
const PermissionAll = PermissionRead | PermissionCreate | PermissionUpdate | PermissionDelete

// DefaultPermission 注册用户的默认权限
const DefaultPermission = PermissionRead

// Has 检查掩码是否包含所需的全部能力位
func (p Permission) Has(required Permission) bool {
	return p&required == required
}

// Valid 掩码必须是四个能力位的非零组合（1-15）
func (p Permission) Valid() bool {
	return p >= 1 && p <= PermissionAll
}

// 用户名规则：字母开头，3-256 位字母/数字/下划线/连字符
var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{2,255}$`)

// IsValidUsername 校验用户名格式
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

type User struct {
	gorm.Model
	Identifier  string     `gorm:"uniqueIndex:idx_user_identifier;size:36;not null"`
	Username    string     `gorm:"uniqueIndex:idx_user_username;size:256;not null"`
	Password    string     `gorm:"not null"`
	FirstName   string     `gorm:"not null"`
	LastName    string     `gorm:"not null"`
	Email       string     `gorm:"uniqueIndex:idx_user_email;size:320;not null"`
	Permissions Permission `gorm:"default:1;not null"`
}
