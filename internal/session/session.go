package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/logic"
	"github.com/blues/aidlink/internal/model"
)

const (
	keyUser  = "user"
	keyToken = "token"
)

// State 会话状态
type State string

const (
	StateLoading  State = "loading"  // 正在读取本地存储
	StateResolved State = "resolved" // 已确定登录或匿名
)

// Authenticator 登录接口
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*logic.LoginResult, error)
}

// Session 当前登录身份，持久化到本地存储
type Session struct {
	store Store
	auth  Authenticator

	mu    sync.RWMutex
	state State
	user  *model.User
	token string
}

// New 创建会话，初始状态为 loading
func New(store Store, auth Authenticator) *Session {
	return &Session{
		store: store,
		auth:  auth,
		state: StateLoading,
	}
}

// Load 从存储恢复身份。user 损坏时清除 user 与 token，结束后状态为 resolved
func (s *Session) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.state = StateResolved }()

	raw, err := s.store.Get(keyUser)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read stored user: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		logger.Warn("Failed to load user, clearing session: %v", err)
		if err := s.store.Delete(keyUser, keyToken); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	}

	token, err := s.store.Get(keyToken)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("failed to read stored token: %w", err)
	}

	s.user = &user
	s.token = string(token)
	joinRoom(user.ID)
	return nil
}

// Login 登录并持久化身份，失败时状态不变
func (s *Session) Login(ctx context.Context, email, password string) (*model.User, error) {
	result, err := s.auth.Login(ctx, email, password)
	if err != nil {
		logger.Warn("Login failed for %s: %v", email, err)
		return nil, err
	}

	raw, err := json.Marshal(result.User)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(keyToken, []byte(result.Token)); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.store.Set(keyUser, raw); err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	if s.user != nil && s.user.ID != result.User.ID {
		leaveRoom(s.user.ID)
	}
	user := *result.User
	s.user = &user
	s.token = result.Token
	s.state = StateResolved
	joinRoom(user.ID)
	return s.userCopy(), nil
}

// Logout 离开房间并清除身份
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		leaveRoom(s.user.ID)
	}
	s.user = nil
	s.token = ""

	if err := s.store.Delete(keyUser, keyToken); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close 离开房间，保留持久化的身份
func (s *Session) Close() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user != nil {
		leaveRoom(s.user.ID)
	}
}

// User 当前用户的副本，未登录时为 nil
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userCopy()
}

func (s *Session) userCopy() *model.User {
	if s.user == nil {
		return nil
	}
	user := *s.user
	user.Badges = append([]model.Badge(nil), s.user.Badges...)
	return &user
}

// Token 当前令牌
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// State 当前状态
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated 是否已登录
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func joinRoom(userID string) {
	logger.Info("Joined room for user %s", userID)
}

func leaveRoom(userID string) {
	logger.Info("Left room for user %s", userID)
}
