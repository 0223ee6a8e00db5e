package model

import (
	"time"
)

// TransactionStatus 交易状态
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"   // 待确认
	TransactionStatusConfirmed TransactionStatus = "confirmed" // 已上链确认
	TransactionStatusDelivered TransactionStatus = "delivered" // 已交付
)

// Transaction 捐赠/交付记录，ID 在推送更新中保持不变
type Transaction struct {
	ID            string            `json:"id" gorm:"primaryKey"`
	RequestID     string            `json:"requestId" gorm:"not null;index"`
	DonorID       string            `json:"donorId" gorm:"not null;index"`
	InstitutionID string            `json:"institutionId" gorm:"not null"`
	SupplierID    string            `json:"supplierId,omitempty"`
	Amount        float64           `json:"amount" gorm:"not null"`
	Status        TransactionStatus `json:"status" gorm:"not null;index"`
	TxHash        string            `json:"txHash,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// GetID 实现按ID合并
func (t Transaction) GetID() string {
	return t.ID
}

// TableName 自定义表名
func (Transaction) TableName() string {
	return "transaction"
}
