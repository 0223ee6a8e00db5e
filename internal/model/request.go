package model

import (
	"time"
)

// RequestStatus 求助状态
type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "open"      // 募集中
	RequestStatusFunded    RequestStatus = "funded"    // 已资助
	RequestStatusDelivered RequestStatus = "delivered" // 已交付
)

// Institution 发起求助的机构
type Institution struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Request 机构发起的援助募集
type Request struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description" gorm:"type:text"`
	Amount      float64       `json:"amount" gorm:"not null"`
	Institution Institution   `json:"institution" gorm:"embedded;embeddedPrefix:institution_"`
	Status      RequestStatus `json:"status" gorm:"not null;index;default:'open'"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// GetID 实现按ID合并
func (r Request) GetID() string {
	return r.ID
}

// TableName 自定义表名
func (Request) TableName() string {
	return "request"
}
