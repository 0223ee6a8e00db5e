package logic

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/blues/aidlink/internal/config"
)

// Simulator 模拟接口延迟与随机失败
type Simulator struct {
	readDelay   time.Duration
	writeDelay  time.Duration
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator 根据配置创建模拟器
func NewSimulator(cfg config.APIConfig) *Simulator {
	return &Simulator{
		readDelay:   cfg.ReadDelay,
		writeDelay:  cfg.WriteDelay,
		failureRate: cfg.FailureRate,
		rng:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x61696c)),
	}
}

// NoDelay 零延迟、不失败的模拟器
func NoDelay() *Simulator {
	return NewSimulator(config.APIConfig{})
}

// Read 读操作延迟
func (s *Simulator) Read(ctx context.Context) error {
	return s.wait(ctx, s.readDelay)
}

// Write 写操作延迟
func (s *Simulator) Write(ctx context.Context) error {
	return s.wait(ctx, s.writeDelay)
}

func (s *Simulator) wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if s.shouldFail() {
		return ErrServiceUnavailable
	}
	return nil
}

func (s *Simulator) shouldFail() bool {
	if s.failureRate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.failureRate
}
