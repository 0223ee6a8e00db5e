package task

import (
	"context"
	"time"

	"github.com/blues/aidlink/internal/chain"
	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/model"
	"github.com/blues/aidlink/internal/notifier"
	"github.com/go-co-op/gocron/v2"
)

// EventStore 链上事件存储
type EventStore interface {
	AppendEvent(ctx context.Context, event *model.BlockchainEvent) (bool, error)
	GetLastBlockNumber(ctx context.Context) (int64, error)
}

// ChainEventJob 定时生成模拟合约事件，写入存储后推送
type ChainEventJob struct {
	generator *chain.Generator
	store     EventStore
	hub       *notifier.Hub[model.BlockchainEvent]
	interval  time.Duration
}

// NewChainEventJob 创建模拟链上事件任务
func NewChainEventJob(generator *chain.Generator, store EventStore, hub *notifier.Hub[model.BlockchainEvent], interval time.Duration) *ChainEventJob {
	return &ChainEventJob{
		generator: generator,
		store:     store,
		hub:       hub,
		interval:  interval,
	}
}

// GetName 获取任务名称
func (j *ChainEventJob) GetName() string {
	return "chain_event_mock"
}

// GetSchedule 获取调度配置
func (j *ChainEventJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *ChainEventJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	if err := j.Run(ctx); err != nil {
		logger.Error("Chain event job failed: %v", err)
	}
}

// Run 生成一条事件
func (j *ChainEventJob) Run(ctx context.Context) error {
	event, err := j.generator.Next(time.Now())
	if err != nil {
		return err
	}

	inserted, err := j.store.AppendEvent(ctx, event)
	if err != nil {
		return err
	}
	if !inserted {
		logger.Debug("Event %s already recorded", event.ID)
		return nil
	}

	j.hub.Publish(*event)
	logger.Info("New %s event %s at block %d", event.Event, event.ID, event.BlockNumber)
	return nil
}
