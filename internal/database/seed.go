package database

import (
	"time"

	"github.com/blues/aidlink/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 演示账号固定ID
const (
	DonorID         = "1"
	InstitutionID   = "2"
	InstitutionName = "Red Cross"
	SupplierID      = "3"
)

const day = 24 * time.Hour

// Fixtures 演示数据
type Fixtures struct {
	Users        []model.User
	Requests     []model.Request
	Transactions []model.Transaction
	Events       []model.BlockchainEvent
}

// NewFixtures 以 now 为基准生成演示数据
func NewFixtures(now time.Time) Fixtures {
	redCross := model.Institution{ID: InstitutionID, Name: InstitutionName}

	return Fixtures{
		Users: []model.User{
			{
				ID:     DonorID,
				Name:   "John Doe",
				Email:  "donor@example.com",
				Role:   model.RoleDonor,
				Points: 120,
				Badges: []model.Badge{
					{
						ID:          "1",
						Name:        "First Donation",
						Description: "Made your first donation",
						Image:       "https://cdn-icons-png.flaticon.com/512/2583/2583344.png",
					},
					{
						ID:          "2",
						Name:        "Generous Donor",
						Description: "Donated more than $100",
						Image:       "https://cdn-icons-png.flaticon.com/512/3135/3135706.png",
					},
				},
			},
			{ID: InstitutionID, Name: InstitutionName, Email: "institution@example.com", Role: model.RoleInstitution},
			{ID: SupplierID, Name: "Medical Supplies Inc.", Email: "supplier@example.com", Role: model.RoleSupplier},
		},
		Requests: []model.Request{
			{
				ID:          "1",
				Title:       "Medical Supplies for Community Clinic",
				Description: "We need basic medical supplies for our community clinic that serves underprivileged neighborhoods.",
				Amount:      500,
				Institution: redCross,
				Status:      model.RequestStatusOpen,
				CreatedAt:   now.Add(-7 * day),
			},
			{
				ID:          "2",
				Title:       "Emergency Food Supplies",
				Description: "Funding needed for emergency food supplies for families affected by recent flooding.",
				Amount:      1000,
				Institution: redCross,
				Status:      model.RequestStatusFunded,
				CreatedAt:   now.Add(-14 * day),
			},
			{
				ID:          "3",
				Title:       "School Supplies for Children",
				Description: "Help us provide school supplies for 100 children from low-income families.",
				Amount:      750,
				Institution: model.Institution{ID: "4", Name: "Education First"},
				Status:      model.RequestStatusOpen,
				CreatedAt:   now.Add(-3 * day),
			},
			{
				ID:          "4",
				Title:       "Clean Water Initiative",
				Description: "Funding for water purification systems in rural communities.",
				Amount:      1200,
				Institution: model.Institution{ID: "5", Name: "Water for All"},
				Status:      model.RequestStatusOpen,
				CreatedAt:   now.Add(-5 * day),
			},
		},
		Transactions: []model.Transaction{
			{
				ID:            "1",
				RequestID:     "2",
				DonorID:       DonorID,
				InstitutionID: InstitutionID,
				SupplierID:    SupplierID,
				Amount:        1000,
				Status:        model.TransactionStatusConfirmed,
				TxHash:        "0x1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef",
				CreatedAt:     now.Add(-10 * day),
			},
			{
				ID:            "2",
				RequestID:     "1",
				DonorID:       DonorID,
				InstitutionID: InstitutionID,
				Amount:        200,
				Status:        model.TransactionStatusPending,
				CreatedAt:     now.Add(-2 * day),
			},
		},
		Events: []model.BlockchainEvent{
			{
				ID:          "1",
				Event:       model.EventDonationMade,
				TxHash:      "0x1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef",
				BlockNumber: 12345678,
				From:        "0xD8dA6BF26964aF9D7eEd9e03E53415D37aA96045",
				To:          "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
				Amount:      "0.5",
				Timestamp:   now.Add(-24 * time.Hour).Unix(),
			},
			{
				ID:          "2",
				Event:       model.EventDeliveryConfirmed,
				TxHash:      "0xabcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890",
				BlockNumber: 12345679,
				From:        "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
				To:          "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
				Amount:      "0.5",
				Timestamp:   now.Add(-12 * time.Hour).Unix(),
			},
			{
				ID:          "3",
				Event:       model.EventDonationMade,
				TxHash:      "0x7890abcdef1234567890abcdef1234567890abcdef1234567890abcdef123456",
				BlockNumber: 12345680,
				From:        "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
				To:          "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
				Amount:      "1.2",
				Timestamp:   now.Add(-6 * time.Hour).Unix(),
			},
			{
				ID:          "4",
				Event:       model.EventDeliveryConfirmed,
				TxHash:      "0xdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890abc",
				BlockNumber: 12345681,
				From:        "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
				To:          "0xD8dA6BF26964aF9D7eEd9e03E53415D37aA96045",
				Amount:      "1.2",
				Timestamp:   now.Add(-1 * time.Hour).Unix(),
			},
		},
	}
}

// Seed 写入演示数据，已存在的记录会被覆盖
func Seed(db *gorm.DB) error {
	now := time.Now()
	f := NewFixtures(now)

	// 保证链上事件按插入顺序返回
	for i := range f.Events {
		f.Events[i].CreatedAt = now.Add(time.Duration(i-len(f.Events)) * time.Millisecond)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true})
		if err := upsert.Create(&f.Users).Error; err != nil {
			return err
		}
		if err := upsert.Create(&f.Requests).Error; err != nil {
			return err
		}
		if err := upsert.Create(&f.Transactions).Error; err != nil {
			return err
		}

		// 已存在的事件保留原写入时间，避免重启后排到新追加的事件之后
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"event", "tx_hash", "block_number", "from", "to", "amount", "timestamp",
			}),
		}).Create(&f.Events).Error
	})
}
