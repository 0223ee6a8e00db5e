package logic

import (
	"context"
	"fmt"

	"github.com/blues/aidlink/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventLogic 链上事件业务逻辑
type EventLogic struct {
	db  *gorm.DB
	sim *Simulator
}

// NewEventLogic 创建事件业务逻辑
func NewEventLogic(db *gorm.DB, sim *Simulator) *EventLogic {
	return &EventLogic{db: db, sim: sim}
}

// GetPastEvents 按插入顺序获取全部事件
func (e *EventLogic) GetPastEvents(ctx context.Context) ([]model.BlockchainEvent, error) {
	if err := e.sim.Read(ctx); err != nil {
		return nil, err
	}

	var events []model.BlockchainEvent
	if err := e.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// AppendEvent 追加事件，ID 已存在时忽略。返回是否新写入
func (e *EventLogic) AppendEvent(ctx context.Context, event *model.BlockchainEvent) (bool, error) {
	result := e.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event)
	if result.Error != nil {
		return false, fmt.Errorf("failed to append event %s: %w", event.ID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetLastBlockNumber 获取已记录的最大区块号
func (e *EventLogic) GetLastBlockNumber(ctx context.Context) (int64, error) {
	var last int64
	if err := e.db.WithContext(ctx).
		Model(&model.BlockchainEvent{}).
		Select("COALESCE(MAX(block_number), 0)").
		Scan(&last).Error; err != nil {
		return 0, fmt.Errorf("failed to load last block number: %w", err)
	}
	return last, nil
}
