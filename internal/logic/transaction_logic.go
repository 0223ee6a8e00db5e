package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blues/aidlink/internal/database"
	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DonorDashboard 捐赠者面板数据
type DonorDashboard struct {
	User      *model.User         `json:"user"`
	Donations []model.Transaction `json:"donations"`
}

// TransactionLogic 捐赠与交付业务逻辑
type TransactionLogic struct {
	db            *gorm.DB
	sim           *Simulator
	strictFunding bool
}

// NewTransactionLogic 创建捐赠与交付业务逻辑
func NewTransactionLogic(db *gorm.DB, sim *Simulator, strictFunding bool) *TransactionLogic {
	return &TransactionLogic{db: db, sim: sim, strictFunding: strictFunding}
}

// Donate 追加一笔待确认捐赠并将求助标记为已资助。
// 默认不校验金额是否覆盖目标，部分捐赠也会标记为已资助。
func (t *TransactionLogic) Donate(ctx context.Context, requestID string, amount float64) (*model.Transaction, error) {
	if !validAmount(amount) {
		return nil, ErrInvalidAmount
	}
	if err := t.sim.Write(ctx); err != nil {
		return nil, err
	}

	transaction := &model.Transaction{
		ID:            "tx-" + uuid.NewString(),
		RequestID:     requestID,
		DonorID:       database.DonorID,
		InstitutionID: database.InstitutionID,
		Amount:        amount,
		Status:        model.TransactionStatusPending,
		CreatedAt:     time.Now(),
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		var request model.Request
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Donation %s references unknown request %s", transaction.ID, requestID)
				return nil
			}
			return err
		}

		if t.strictFunding {
			var total float64
			if err := tx.Model(&model.Transaction{}).
				Where("request_id = ?", requestID).
				Select("COALESCE(SUM(amount), 0)").
				Scan(&total).Error; err != nil {
				return err
			}
			if total < request.Amount {
				return nil
			}
		}

		return tx.Model(&request).Update("status", model.RequestStatusFunded).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to donate to request %s: %w", requestID, err)
	}

	logger.Info("Donation %s of %.2f to request %s", transaction.ID, amount, requestID)
	return transaction, nil
}

// GetDonorDashboard 获取演示捐赠者及其捐赠记录
func (t *TransactionLogic) GetDonorDashboard(ctx context.Context) (*DonorDashboard, error) {
	if err := t.sim.Read(ctx); err != nil {
		return nil, err
	}

	db := t.db.WithContext(ctx)

	var user model.User
	if err := db.First(&user, "id = ?", database.DonorID).Error; err != nil {
		return nil, fmt.Errorf("failed to load donor: %w", err)
	}

	var donations []model.Transaction
	if err := db.Where("donor_id = ?", database.DonorID).
		Order("created_at ASC").
		Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	return &DonorDashboard{User: &user, Donations: donations}, nil
}

// GetSupplierTransactions 获取已确认或已由演示供应商交付的交易
func (t *TransactionLogic) GetSupplierTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := t.sim.Read(ctx); err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	if err := t.db.WithContext(ctx).
		Where("status = ? OR supplier_id = ?", model.TransactionStatusConfirmed, database.SupplierID).
		Order("created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list supplier transactions: %w", err)
	}
	return transactions, nil
}

// ConfirmDelivery 将交易标记为已交付，交易不存在时不修改任何数据
func (t *TransactionLogic) ConfirmDelivery(ctx context.Context, transactionID string) (*model.Transaction, error) {
	if err := t.sim.Write(ctx); err != nil {
		return nil, err
	}

	var transaction model.Transaction
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transaction, "id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		return tx.Model(&transaction).Updates(map[string]interface{}{
			"status":      model.TransactionStatusDelivered,
			"supplier_id": database.SupplierID,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to confirm delivery of %s: %w", transactionID, err)
	}

	transaction.Status = model.TransactionStatusDelivered
	transaction.SupplierID = database.SupplierID

	logger.Info("Delivery confirmed for transaction %s", transactionID)
	return &transaction, nil
}
