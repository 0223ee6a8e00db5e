package model

import (
	"time"
)

const (
	EventDonationMade      = "DonationMade"
	EventDeliveryConfirmed = "DeliveryConfirmed"
)

// BlockchainEvent 链上日志记录，只追加
type BlockchainEvent struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Event       string    `json:"event" gorm:"not null;index"`
	TxHash      string    `json:"txHash" gorm:"not null"`
	BlockNumber int64     `json:"blockNumber" gorm:"not null"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Amount      string    `json:"amount"` // 以 ether 为单位的十进制字符串
	Timestamp   int64     `json:"timestamp"`
	CreatedAt   time.Time `json:"-" gorm:"index"`
}

// GetID 实现按ID合并
func (e BlockchainEvent) GetID() string {
	return e.ID
}

// TableName 自定义表名
func (BlockchainEvent) TableName() string {
	return "blockchain_event"
}
