package model

import (
	"time"
)

// Role 用户角色
type Role string

const (
	RoleDonor       Role = "donor"       // 捐赠者
	RoleInstitution Role = "institution" // 受助机构
	RoleSupplier    Role = "supplier"    // 供应商
)

// Valid 判断角色是否合法
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleInstitution, RoleSupplier:
		return true
	}
	return false
}

// User 平台用户，角色创建后不可变
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`

	Name   string  `json:"name" gorm:"not null"`
	Role   Role    `json:"role" gorm:"not null;index"`
	Email  string  `json:"email" gorm:"not null;uniqueIndex"`
	Points int     `json:"points,omitempty"`
	Badges []Badge `json:"badges,omitempty" gorm:"serializer:json"`
}

// Badge 捐赠成就徽章
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// TableName 自定义表名
func (User) TableName() string {
	return "user"
}
