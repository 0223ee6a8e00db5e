package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/model"
	"github.com/blues/aidlink/internal/notifier"
)

// ExplorerAPI 区块浏览器依赖的接口
type ExplorerAPI interface {
	GetPastEvents(ctx context.Context) ([]model.BlockchainEvent, error)
}

// Explorer 区块浏览器，新事件插入到最前面
type Explorer struct {
	api  ExplorerAPI
	feed *notifier.Hub[model.BlockchainEvent]

	mu         sync.RWMutex
	loading    bool
	refreshing bool
	errMsg     string
	events     []model.BlockchainEvent
	sub        *notifier.Subscription[model.BlockchainEvent]
}

// NewExplorer 创建区块浏览器
func NewExplorer(api ExplorerAPI, feed *notifier.Hub[model.BlockchainEvent]) *Explorer {
	return &Explorer{api: api, feed: feed}
}

// Mount 加载历史事件并订阅新事件
func (v *Explorer) Mount(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.errMsg = ""
	v.mu.Unlock()

	events, err := v.api.GetPastEvents(ctx)

	v.mu.Lock()
	v.loading = false
	if err != nil {
		logger.Error("Error fetching blockchain events: %v", err)
		v.errMsg = MsgEventsLoadFailed
	} else {
		v.events = events
	}
	if v.sub == nil {
		v.sub = v.feed.Subscribe(func(event model.BlockchainEvent) {
			v.mu.Lock()
			defer v.mu.Unlock()
			v.events = PrependUnique(v.events, event)
		})
	}
	v.mu.Unlock()

	return err
}

// Unmount 取消订阅
func (v *Explorer) Unmount() {
	v.mu.Lock()
	sub := v.sub
	v.sub = nil
	v.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Refresh 重新加载全部事件
func (v *Explorer) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.refreshing = true
	v.mu.Unlock()

	events, err := v.api.GetPastEvents(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.refreshing = false
	if err != nil {
		logger.Error("Error refreshing blockchain events: %v", err)
		v.errMsg = MsgEventsRefreshFailed
		return err
	}
	v.events = events
	return nil
}

// Events 事件列表快照
func (v *Explorer) Events() []model.BlockchainEvent {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return clone(v.events)
}

// Search 按事件名、交易哈希、地址做不区分大小写的包含匹配，空关键字返回全部
func (v *Explorer) Search(term string) []model.BlockchainEvent {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return FilterEvents(v.events, term)
}

// FilterEvents 过滤事件
func FilterEvents(events []model.BlockchainEvent, term string) []model.BlockchainEvent {
	needle := strings.ToLower(term)
	out := make([]model.BlockchainEvent, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Event), needle) ||
			strings.Contains(strings.ToLower(e.TxHash), needle) ||
			strings.Contains(strings.ToLower(e.From), needle) ||
			strings.Contains(strings.ToLower(e.To), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Error 当前错误提示
func (v *Explorer) Error() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.errMsg
}

// Loading 是否正在加载
func (v *Explorer) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

// Refreshing 是否正在刷新
func (v *Explorer) Refreshing() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.refreshing
}
