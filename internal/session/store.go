package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/blues/aidlink/internal/config"
	"github.com/blues/aidlink/internal/logger"
	"github.com/dgraph-io/badger/v4"
)

// ErrKeyNotFound 键不存在
var ErrKeyNotFound = errors.New("session key not found")

// Store 会话键值存储
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(keys ...string) error
	Close() error
}

// BadgerStore 基于 badger 的本地存储
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger 打开会话存储，InMemory 或 Path 为空时使用内存模式
func OpenBadger(cfg config.SessionConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory || cfg.Path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create session dir: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.
		WithLogger(badgerLogger{}).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get 读取键值
func (s *BadgerStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

// Set 写入键值
func (s *BadgerStore) Set(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Delete 删除键，不存在时忽略
func (s *BadgerStore) Delete(keys ...string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close 关闭存储
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger 将 badger 日志转到全局日志器
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Error("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Warn("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logger.Info("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logger.Debug("badger: "+format, args...)
}
