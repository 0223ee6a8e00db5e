package notifier

import (
	"fmt"
	"sync"
	"time"

	"github.com/blues/aidlink/internal/logger"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const releaseTimeout = 3 * time.Second

// Hub 某一类资源的发布订阅中心
type Hub[T any] struct {
	name    string
	pool    *ants.Pool
	metrics *hubMetrics

	mu     sync.RWMutex
	subs   map[string]*Subscription[T]
	order  []string // 订阅顺序
	closed bool
}

// Subscription 一次订阅，Unsubscribe 后不再收到推送
type Subscription[T any] struct {
	ID string

	hub *Hub[T]
	fn  func(T)

	mu     sync.Mutex // 串行化投递与取消
	closed bool
	done   chan struct{}
}

// Options Hub 可选参数
type Options struct {
	PoolSize int
	Registry prometheus.Registerer
}

// NewHub 创建推送中心
func NewHub[T any](name string, opts Options) (*Hub[T], error) {
	size := opts.PoolSize
	if size <= 0 {
		size = 16
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool for hub %s: %w", name, err)
	}

	return &Hub[T]{
		name:    name,
		pool:    pool,
		metrics: newHubMetrics(name, opts.Registry),
		subs:    make(map[string]*Subscription[T]),
	}, nil
}

// Name 推送中心名称
func (h *Hub[T]) Name() string {
	return h.name
}

// Subscribe 注册回调
func (h *Hub[T]) Subscribe(fn func(T)) *Subscription[T] {
	sub := &Subscription[T]{
		ID:   uuid.NewString(),
		hub:  h,
		fn:   fn,
		done: make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.close()
		return sub
	}

	h.subs[sub.ID] = sub
	h.order = append(h.order, sub.ID)
	h.metrics.subscribers.Set(float64(len(h.subs)))

	logger.Debug("Hub %s: subscriber %s added", h.name, sub.ID)
	return sub
}

// Unsubscribe 取消订阅。返回时正在进行的投递已经结束，之后不会再被调用
func (s *Subscription[T]) Unsubscribe() {
	s.hub.remove(s.ID)

	s.mu.Lock()
	s.close()
	s.mu.Unlock()
}

// Done 取消订阅或推送中心关闭后关闭
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// close 调用方持有 s.mu
func (s *Subscription[T]) close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
}

func (h *Hub[T]) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[id]; !ok {
		return
	}
	delete(h.subs, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.metrics.subscribers.Set(float64(len(h.subs)))

	logger.Debug("Hub %s: subscriber %s removed", h.name, id)
}

// Closed 推送中心是否已关闭
func (h *Hub[T]) Closed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// Len 当前订阅数
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish 推送给所有订阅者，全部回调结束后返回。没有确认也不重试
func (h *Hub[T]) Publish(v T) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	targets := make([]*Subscription[T], 0, len(h.order))
	for _, id := range h.order {
		targets = append(targets, h.subs[id])
	}
	h.mu.RUnlock()

	h.metrics.published.Inc()
	if len(targets) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, sub := range targets {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			h.deliver(sub, v)
		}
		if err := h.pool.Submit(task); err != nil {
			// 协程池已释放时直接在当前协程投递
			logger.Warn("Hub %s: submit failed, delivering inline: %v", h.name, err)
			task()
		}
	}
	wg.Wait()
}

func (h *Hub[T]) deliver(sub *Subscription[T], v T) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			h.metrics.failed.Inc()
			logger.Error("Hub %s: subscriber %s panicked: %v", h.name, sub.ID, r)
		}
	}()

	sub.fn(v)
	h.metrics.delivered.Inc()
}

// Close 移除所有订阅并释放协程池
func (h *Hub[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := h.subs
	h.subs = make(map[string]*Subscription[T])
	h.order = nil
	h.metrics.subscribers.Set(0)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		sub.close()
		sub.mu.Unlock()
	}

	if err := h.pool.ReleaseTimeout(releaseTimeout); err != nil {
		logger.Warn("Hub %s: pool release: %v", h.name, err)
	}
	logger.Info("Hub %s closed", h.name)
}
