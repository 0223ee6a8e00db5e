package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blues/aidlink/internal/chain"
	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/model"
	"github.com/blues/aidlink/internal/notifier"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-co-op/gocron/v2"
)

const defaultBatchSize = int64(500)

// LogSource 链上日志来源
type LogSource interface {
	LatestBlock(ctx context.Context) (int64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock int64) ([]types.Log, error)
	BlockTime(ctx context.Context, number uint64) (int64, error)
}

// ChainSyncJob 按批次同步合约日志
type ChainSyncJob struct {
	source     LogSource
	contract   *chain.Contract
	store      EventStore
	hub        *notifier.Hub[model.BlockchainEvent]
	interval   time.Duration
	batchSize  int64
	startBlock int64

	mu        sync.Mutex
	nextBlock int64 // 下一个待处理区块，0 表示尚未确定
}

// NewChainSyncJob 创建链上日志同步任务
func NewChainSyncJob(
	source LogSource,
	contract *chain.Contract,
	store EventStore,
	hub *notifier.Hub[model.BlockchainEvent],
	interval time.Duration,
	startBlock, batchSize int64,
) *ChainSyncJob {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &ChainSyncJob{
		source:     source,
		contract:   contract,
		store:      store,
		hub:        hub,
		interval:   interval,
		batchSize:  batchSize,
		startBlock: startBlock,
	}
}

// GetName 获取任务名称
func (j *ChainSyncJob) GetName() string {
	return "chain_event_sync"
}

// GetSchedule 获取调度配置
func (j *ChainSyncJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *ChainSyncJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	if err := j.Run(ctx); err != nil {
		logger.Error("Chain sync job failed: %v", err)
	}
}

// NextBlock 下一个待处理区块
func (j *ChainSyncJob) NextBlock() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.nextBlock
}

// Run 从上次位置同步到最新区块
func (j *ChainSyncJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	latest, err := j.source.LatestBlock(ctx)
	if err != nil {
		return fmt.Errorf("failed to get latest block: %w", err)
	}

	if j.nextBlock == 0 {
		start, err := j.resolveStart(ctx, latest)
		if err != nil {
			return err
		}
		j.nextBlock = start
		logger.Info("Chain sync starting from block %d", start)
	}

	for from := j.nextBlock; from <= latest; from += j.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		to := from + j.batchSize - 1
		if to > latest {
			to = latest
		}

		count, err := j.processBatch(ctx, from, to)
		if err != nil {
			return fmt.Errorf("error processing blocks %d-%d: %w", from, to, err)
		}
		if count > 0 {
			logger.Info("Synced %d events from blocks %d-%d", count, from, to)
		}
		j.nextBlock = to + 1
	}
	return nil
}

// resolveStart 配置了起始区块时与已记录的最大区块比较取较大者，否则从最新区块开始
func (j *ChainSyncJob) resolveStart(ctx context.Context, latest int64) (int64, error) {
	if j.startBlock <= 0 {
		return latest, nil
	}

	last, err := j.store.GetLastBlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	if last >= j.startBlock {
		return last + 1, nil
	}
	return j.startBlock, nil
}

func (j *ChainSyncJob) processBatch(ctx context.Context, from, to int64) (int, error) {
	logs, err := j.source.FilterLogs(ctx, from, to)
	if err != nil {
		return 0, err
	}

	blockTimes := make(map[uint64]int64)
	count := 0
	for _, log := range logs {
		ts, ok := blockTimes[log.BlockNumber]
		if !ok {
			ts, err = j.source.BlockTime(ctx, log.BlockNumber)
			if err != nil {
				return count, fmt.Errorf("failed to get block %d time: %w", log.BlockNumber, err)
			}
			blockTimes[log.BlockNumber] = ts
		}

		event, err := j.contract.ParseLog(log, ts)
		if err != nil {
			logger.Warn("Skipping log %s-%d: %v", log.TxHash.Hex(), log.Index, err)
			continue
		}

		inserted, err := j.store.AppendEvent(ctx, event)
		if err != nil {
			return count, err
		}
		if !inserted {
			continue
		}

		j.hub.Publish(*event)
		count++
	}
	return count, nil
}
