package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blues/aidlink/internal/database"
	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateRequestInput 机构新建求助
type CreateRequestInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
}

// RequestLogic 求助业务逻辑
type RequestLogic struct {
	db  *gorm.DB
	sim *Simulator
}

// NewRequestLogic 创建求助业务逻辑
func NewRequestLogic(db *gorm.DB, sim *Simulator) *RequestLogic {
	return &RequestLogic{db: db, sim: sim}
}

// GetOpenRequests 获取所有募集中的求助
func (r *RequestLogic) GetOpenRequests(ctx context.Context) ([]model.Request, error) {
	if err := r.sim.Read(ctx); err != nil {
		return nil, err
	}

	var requests []model.Request
	if err := r.db.WithContext(ctx).
		Where("status = ?", model.RequestStatusOpen).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list open requests: %w", err)
	}
	return requests, nil
}

// CreateRequest 新建求助，机构固定为演示机构
func (r *RequestLogic) CreateRequest(ctx context.Context, input CreateRequestInput) (*model.Request, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !validAmount(input.Amount) {
		return nil, fmt.Errorf("%w: Amount is not a finite number", ErrInvalidRequest)
	}
	if err := r.sim.Write(ctx); err != nil {
		return nil, err
	}

	request := &model.Request{
		ID:          "req-" + uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Amount:      input.Amount,
		Institution: model.Institution{
			ID:   database.InstitutionID,
			Name: database.InstitutionName,
		},
		Status:    model.RequestStatusOpen,
		CreatedAt: time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	logger.Info("Created request %s (%.2f) for institution %s", request.ID, request.Amount, request.Institution.ID)
	return request, nil
}

// GetInstitutionRequests 获取演示机构的求助，最新的在前
func (r *RequestLogic) GetInstitutionRequests(ctx context.Context) ([]model.Request, error) {
	if err := r.sim.Read(ctx); err != nil {
		return nil, err
	}

	var requests []model.Request
	if err := r.db.WithContext(ctx).
		Where("institution_id = ?", database.InstitutionID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list institution requests: %w", err)
	}
	return requests, nil
}
