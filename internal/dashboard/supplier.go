package dashboard

import (
	"context"
	"sync"

	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/model"
	"github.com/blues/aidlink/internal/notifier"
)

// SupplierAPI 供应商面板依赖的接口
type SupplierAPI interface {
	GetSupplierTransactions(ctx context.Context) ([]model.Transaction, error)
	ConfirmDelivery(ctx context.Context, transactionID string) (*model.Transaction, error)
}

// Supplier 供应商面板
type Supplier struct {
	api  SupplierAPI
	feed *notifier.Hub[model.Transaction]

	mu           sync.RWMutex
	loading      bool
	errMsg       string
	processing   string // 正在确认交付的交易ID
	transactions []model.Transaction
	sub          *notifier.Subscription[model.Transaction]
}

// NewSupplier 创建供应商面板
func NewSupplier(api SupplierAPI, feed *notifier.Hub[model.Transaction]) *Supplier {
	return &Supplier{api: api, feed: feed}
}

// Mount 加载交易并订阅推送
func (v *Supplier) Mount(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.errMsg = ""
	v.mu.Unlock()

	transactions, err := v.api.GetSupplierTransactions(ctx)

	v.mu.Lock()
	v.loading = false
	if err != nil {
		logger.Error("Error fetching transactions: %v", err)
		v.errMsg = MsgTransactionsLoadFailed
	} else {
		v.transactions = transactions
	}
	if v.sub == nil {
		v.sub = v.feed.Subscribe(func(tx model.Transaction) {
			v.mu.Lock()
			defer v.mu.Unlock()
			v.transactions = MergeByID(v.transactions, tx)
		})
	}
	v.mu.Unlock()

	return err
}

// Unmount 取消订阅
func (v *Supplier) Unmount() {
	v.mu.Lock()
	sub := v.sub
	v.sub = nil
	v.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// ConfirmDelivery 确认交付并按ID替换本地交易
func (v *Supplier) ConfirmDelivery(ctx context.Context, transactionID string) (*model.Transaction, error) {
	v.mu.Lock()
	v.processing = transactionID
	v.mu.Unlock()

	tx, err := v.api.ConfirmDelivery(ctx, transactionID)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.processing = ""
	if err != nil {
		logger.Error("Error confirming delivery: %v", err)
		v.errMsg = MsgConfirmDeliveryFailed
		return nil, err
	}

	for i := range v.transactions {
		if v.transactions[i].ID == tx.ID {
			v.transactions = MergeByID(v.transactions, *tx)
			break
		}
	}
	return tx, nil
}

// Transactions 交易列表快照
func (v *Supplier) Transactions() []model.Transaction {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return clone(v.transactions)
}

// Processing 正在确认交付的交易ID
func (v *Supplier) Processing() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.processing
}

// Error 当前错误提示
func (v *Supplier) Error() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.errMsg
}

// Loading 是否正在加载
func (v *Supplier) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}
