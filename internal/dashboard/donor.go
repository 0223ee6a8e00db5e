package dashboard

import (
	"context"
	"sync"

	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/logic"
	"github.com/blues/aidlink/internal/model"
	"github.com/blues/aidlink/internal/notifier"
	"golang.org/x/sync/errgroup"
)

// DonorAPI 捐赠者面板依赖的接口
type DonorAPI interface {
	GetOpenRequests(ctx context.Context) ([]model.Request, error)
	GetDonorDashboard(ctx context.Context) (*logic.DonorDashboard, error)
	Donate(ctx context.Context, requestID string, amount float64) (*model.Transaction, error)
}

// Donor 捐赠者面板
type Donor struct {
	api  DonorAPI
	feed *notifier.Hub[model.Transaction]

	mu        sync.RWMutex
	loading   bool
	errMsg    string
	requests  []model.Request
	donations []model.Transaction
	sub       *notifier.Subscription[model.Transaction]
}

// NewDonor 创建捐赠者面板
func NewDonor(api DonorAPI, feed *notifier.Hub[model.Transaction]) *Donor {
	return &Donor{api: api, feed: feed}
}

// Mount 并行加载募集中的求助与捐赠记录，然后订阅交易推送
func (d *Donor) Mount(ctx context.Context) error {
	d.mu.Lock()
	d.loading = true
	d.errMsg = ""
	d.mu.Unlock()

	var (
		requests  []model.Request
		dashboard *logic.DonorDashboard
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		requests, err = d.api.GetOpenRequests(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		dashboard, err = d.api.GetDonorDashboard(gctx)
		return err
	})
	err := g.Wait()

	d.mu.Lock()
	d.loading = false
	if err != nil {
		logger.Error("Error fetching donor dashboard: %v", err)
		d.errMsg = MsgDonorLoadFailed
	} else {
		d.requests = requests
		d.donations = dashboard.Donations
	}
	d.mu.Unlock()

	d.subscribe()
	return err
}

func (d *Donor) subscribe() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sub != nil {
		return
	}
	d.sub = d.feed.Subscribe(func(tx model.Transaction) {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.donations = MergeByID(d.donations, tx)
	})
}

// Unmount 取消订阅
func (d *Donor) Unmount() {
	d.mu.Lock()
	sub := d.sub
	d.sub = nil
	d.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Donate 捐赠后追加交易并将本地求助标记为已资助。失败时原样返回错误
func (d *Donor) Donate(ctx context.Context, requestID string, amount float64) (*model.Transaction, error) {
	tx, err := d.api.Donate(ctx, requestID, amount)
	if err != nil {
		logger.Error("Error making donation: %v", err)
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.donations = MergeByID(d.donations, *tx)
	for i := range d.requests {
		if d.requests[i].ID == requestID {
			requests := clone(d.requests)
			requests[i].Status = model.RequestStatusFunded
			d.requests = requests
			break
		}
	}
	return tx, nil
}

// Requests 求助列表快照
func (d *Donor) Requests() []model.Request {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return clone(d.requests)
}

// Donations 捐赠记录快照
func (d *Donor) Donations() []model.Transaction {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return clone(d.donations)
}

// Error 当前错误提示
func (d *Donor) Error() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.errMsg
}

// Loading 是否正在加载
func (d *Donor) Loading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loading
}
