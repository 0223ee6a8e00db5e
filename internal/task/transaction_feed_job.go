package task

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/blues/aidlink/internal/database"
	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/model"
	"github.com/blues/aidlink/internal/notifier"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-co-op/gocron/v2"
)

var feedStatuses = []model.TransactionStatus{
	model.TransactionStatusPending,
	model.TransactionStatusConfirmed,
	model.TransactionStatusDelivered,
}

// TransactionFeedJob 定时推送模拟的交易状态变更，只推送不落库
type TransactionFeedJob struct {
	hub      *notifier.Hub[model.Transaction]
	interval time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTransactionFeedJob 创建交易推送任务
func NewTransactionFeedJob(hub *notifier.Hub[model.Transaction], interval time.Duration, seed uint64) *TransactionFeedJob {
	return &TransactionFeedJob{
		hub:      hub,
		interval: interval,
		rng:      rand.New(rand.NewPCG(seed, seed+1)),
	}
}

// GetName 获取任务名称
func (j *TransactionFeedJob) GetName() string {
	return "transaction_feed"
}

// GetSchedule 获取调度配置
func (j *TransactionFeedJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *TransactionFeedJob) Execute() {
	tx := j.Next(time.Now())
	j.hub.Publish(tx)
	logger.Debug("Pushed transaction %s update: %s", tx.ID, tx.Status)
}

// Next 生成一条模拟交易，ID 取已有的 1 或 2
func (j *TransactionFeedJob) Next(now time.Time) model.Transaction {
	j.mu.Lock()
	id := pick(j.rng, "1", "2")
	requestID := pick(j.rng, "1", "2")
	status := feedStatuses[j.rng.IntN(len(feedStatuses))]
	amount := float64(j.rng.IntN(1000) + 100)
	var seed [8]byte
	v := j.rng.Uint64()
	for i := range seed {
		seed[i] = byte(v >> (8 * i))
	}
	j.mu.Unlock()

	tx := model.Transaction{
		ID:            id,
		RequestID:     requestID,
		DonorID:       database.DonorID,
		InstitutionID: database.InstitutionID,
		Amount:        amount,
		Status:        status,
		CreatedAt:     now,
	}
	if status == model.TransactionStatusDelivered {
		tx.SupplierID = database.SupplierID
	}
	if status != model.TransactionStatusPending {
		tx.TxHash = crypto.Keccak256Hash(seed[:]).Hex()
	}
	return tx
}

func pick(rng *rand.Rand, a, b string) string {
	if rng.IntN(2) == 0 {
		return a
	}
	return b
}
