package logic_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/blues/aidlink/internal/auth"
	"github.com/blues/aidlink/internal/config"
	"github.com/blues/aidlink/internal/database"
	"github.com/blues/aidlink/internal/logic"
	"github.com/blues/aidlink/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newIssuer() *auth.Issuer {
	return auth.NewIssuer(config.AuthConfig{JWTSecret: "test-secret", Issuer: "aidlink"})
}

func TestLoginDemoAccounts(t *testing.T) {
	db := newTestDB(t)
	issuer := newIssuer()
	authLogic := logic.NewAuthLogic(db, logic.NoDelay(), issuer)

	cases := []struct {
		email string
		id    string
		role  model.Role
	}{
		{"donor@example.com", "1", model.RoleDonor},
		{"institution@example.com", "2", model.RoleInstitution},
		{"supplier@example.com", "3", model.RoleSupplier},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			result, err := authLogic.Login(context.Background(), tc.email, "password123")
			require.NoError(t, err)
			assert.Equal(t, tc.id, result.User.ID)
			assert.Equal(t, tc.role, result.User.Role)
			assert.Equal(t, tc.email, result.User.Email)

			claims, err := issuer.Validate(result.Token)
			require.NoError(t, err)
			assert.Equal(t, tc.id, claims.UserID)
			assert.Equal(t, tc.role, claims.Role)
		})
	}

	donor, err := authLogic.Login(context.Background(), "donor@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, 120, donor.User.Points)
	require.Len(t, donor.User.Badges, 2)
	assert.Equal(t, "First Donation", donor.User.Badges[0].Name)
}

func TestLoginRejectsOtherCredentials(t *testing.T) {
	db := newTestDB(t)
	authLogic := logic.NewAuthLogic(db, logic.NoDelay(), newIssuer())

	for _, pair := range [][2]string{
		{"donor@example.com", "wrong"},
		{"nobody@example.com", "password123"},
		{"", ""},
		{"DONOR@example.com", "password123"},
	} {
		_, err := authLogic.Login(context.Background(), pair[0], pair[1])
		assert.ErrorIs(t, err, logic.ErrInvalidCredentials, "pair %v", pair)
	}
}

func TestSignupDonor(t *testing.T) {
	db := newTestDB(t)
	authLogic := logic.NewAuthLogic(db, logic.NoDelay(), newIssuer())
	ctx := context.Background()

	err := authLogic.SignupDonor(ctx, logic.SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	err = authLogic.SignupDonor(ctx, logic.SignupInput{Name: "Jane", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, logic.ErrInvalidRequest)

	// 注册不会产生可登录账号
	_, err = authLogic.Login(ctx, "jane@example.com", "secret1")
	assert.ErrorIs(t, err, logic.ErrInvalidCredentials)
}

func TestGetOpenRequests(t *testing.T) {
	db := newTestDB(t)
	requests := logic.NewRequestLogic(db, logic.NoDelay())

	open, err := requests.GetOpenRequests(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(open))
	for _, r := range open {
		assert.Equal(t, model.RequestStatusOpen, r.Status)
		ids = append(ids, r.ID)
	}
	// 按创建时间升序：7 天前、5 天前、3 天前
	assert.Equal(t, []string{"1", "4", "3"}, ids)
}

func TestDonateAlwaysFundsRequest(t *testing.T) {
	db := newTestDB(t)
	transactions := logic.NewTransactionLogic(db, logic.NoDelay(), false)
	ctx := context.Background()

	// 金额远低于目标 1200 仍然标记为已资助
	tx, err := transactions.Donate(ctx, "4", 1)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusPending, tx.Status)
	assert.Equal(t, "4", tx.RequestID)
	assert.Equal(t, database.DonorID, tx.DonorID)
	assert.Equal(t, database.InstitutionID, tx.InstitutionID)
	assert.Empty(t, tx.TxHash)
	assert.Empty(t, tx.SupplierID)

	var request model.Request
	require.NoError(t, db.First(&request, "id = ?", "4").Error)
	assert.Equal(t, model.RequestStatusFunded, request.Status)

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Where("id = ?", tx.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDonateUnknownRequestStillRecordsTransaction(t *testing.T) {
	db := newTestDB(t)
	transactions := logic.NewTransactionLogic(db, logic.NoDelay(), false)

	tx, err := transactions.Donate(context.Background(), "missing", 50)
	require.NoError(t, err)

	var stored model.Transaction
	require.NoError(t, db.First(&stored, "id = ?", tx.ID).Error)
	assert.Equal(t, "missing", stored.RequestID)
}

func TestDonateRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	transactions := logic.NewTransactionLogic(db, logic.NoDelay(), false)

	for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := transactions.Donate(context.Background(), "1", amount)
		assert.ErrorIs(t, err, logic.ErrInvalidAmount, "amount %v", amount)
	}

	var request model.Request
	require.NoError(t, db.First(&request, "id = ?", "1").Error)
	assert.Equal(t, model.RequestStatusOpen, request.Status)
}

func TestDonateStrictFunding(t *testing.T) {
	db := newTestDB(t)
	transactions := logic.NewTransactionLogic(db, logic.NoDelay(), true)
	ctx := context.Background()

	status := func() model.RequestStatus {
		var request model.Request
		require.NoError(t, db.First(&request, "id = ?", "3").Error)
		return request.Status
	}

	_, err := transactions.Donate(ctx, "3", 500)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusOpen, status())

	_, err = transactions.Donate(ctx, "3", 250)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusFunded, status())
}

func TestGetDonorDashboard(t *testing.T) {
	db := newTestDB(t)
	transactions := logic.NewTransactionLogic(db, logic.NoDelay(), false)

	dashboard, err := transactions.GetDonorDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "John Doe", dashboard.User.Name)
	require.Len(t, dashboard.Donations, 2)
	assert.Equal(t, "1", dashboard.Donations[0].ID)
	assert.Equal(t, "2", dashboard.Donations[1].ID)
}

func TestCreateRequestUsesDemoInstitution(t *testing.T) {
	db := newTestDB(t)
	requests := logic.NewRequestLogic(db, logic.NoDelay())
	ctx := context.Background()

	created, err := requests.CreateRequest(ctx, logic.CreateRequestInput{
		Title:       " Blankets ",
		Description: "Winter blankets for the shelter",
		Amount:      300,
	})
	require.NoError(t, err)
	assert.Equal(t, "Blankets", created.Title)
	assert.Equal(t, model.RequestStatusOpen, created.Status)
	assert.Equal(t, database.InstitutionID, created.Institution.ID)
	assert.Equal(t, database.InstitutionName, created.Institution.Name)

	own, err := requests.GetInstitutionRequests(ctx)
	require.NoError(t, err)
	require.Len(t, own, 3)
	assert.Equal(t, created.ID, own[0].ID)
	for _, r := range own {
		assert.Equal(t, database.InstitutionID, r.Institution.ID)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	db := newTestDB(t)
	requests := logic.NewRequestLogic(db, logic.NoDelay())
	ctx := context.Background()

	for _, input := range []logic.CreateRequestInput{
		{Title: "", Description: "d", Amount: 1},
		{Title: "t", Description: "  ", Amount: 1},
		{Title: "t", Description: "d", Amount: 0},
		{Title: "t", Description: "d", Amount: -5},
		{Title: "t", Description: "d", Amount: math.NaN()},
		{Title: "t", Description: "d", Amount: math.Inf(1)},
	} {
		_, err := requests.CreateRequest(ctx, input)
		assert.ErrorIs(t, err, logic.ErrInvalidRequest, "input %+v", input)
	}
}

func TestGetSupplierTransactions(t *testing.T) {
	db := newTestDB(t)
	transactions := logic.NewTransactionLogic(db, logic.NoDelay(), false)

	list, err := transactions.GetSupplierTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)
}

func TestConfirmDelivery(t *testing.T) {
	db := newTestDB(t)
	transactions := logic.NewTransactionLogic(db, logic.NoDelay(), false)
	ctx := context.Background()

	delivered, err := transactions.ConfirmDelivery(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusDelivered, delivered.Status)
	assert.Equal(t, database.SupplierID, delivered.SupplierID)

	var stored model.Transaction
	require.NoError(t, db.First(&stored, "id = ?", "2").Error)
	assert.Equal(t, model.TransactionStatusDelivered, stored.Status)
	assert.Equal(t, database.SupplierID, stored.SupplierID)

	// 交付后出现在供应商列表中
	list, err := transactions.GetSupplierTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestConfirmDeliveryUnknownID(t *testing.T) {
	db := newTestDB(t)
	transactions := logic.NewTransactionLogic(db, logic.NoDelay(), false)

	var before []model.Transaction
	require.NoError(t, db.Order("id").Find(&before).Error)

	_, err := transactions.ConfirmDelivery(context.Background(), "nope")
	assert.ErrorIs(t, err, logic.ErrTransactionNotFound)

	var after []model.Transaction
	require.NoError(t, db.Order("id").Find(&after).Error)
	assert.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].Status, after[i].Status)
		assert.Equal(t, before[i].SupplierID, after[i].SupplierID)
	}
}

func TestEventsAppendOnly(t *testing.T) {
	db := newTestDB(t)
	events := logic.NewEventLogic(db, logic.NoDelay())
	ctx := context.Background()

	past, err := events.GetPastEvents(ctx)
	require.NoError(t, err)
	require.Len(t, past, 4)
	assert.Equal(t, []string{"1", "2", "3", "4"}, []string{past[0].ID, past[1].ID, past[2].ID, past[3].ID})

	last, err := events.GetLastBlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12345681), last)

	ev := &model.BlockchainEvent{ID: "mock-1", Event: model.EventDonationMade, TxHash: "0xabc", BlockNumber: 12345700, Amount: "0.25"}
	inserted, err := events.AppendEvent(ctx, ev)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = events.AppendEvent(ctx, &model.BlockchainEvent{ID: "mock-1", Event: model.EventDeliveryConfirmed, TxHash: "0xdef"})
	require.NoError(t, err)
	assert.False(t, inserted)

	past, err = events.GetPastEvents(ctx)
	require.NoError(t, err)
	require.Len(t, past, 5)
	assert.Equal(t, "mock-1", past[4].ID)
	assert.Equal(t, model.EventDonationMade, past[4].Event)
}

func TestReseedKeepsEventOrder(t *testing.T) {
	db := newTestDB(t)
	events := logic.NewEventLogic(db, logic.NoDelay())
	ctx := context.Background()

	inserted, err := events.AppendEvent(ctx, &model.BlockchainEvent{
		ID: "mock-1", Event: model.EventDonationMade, TxHash: "0xabc", BlockNumber: 12345700, Amount: "0.25",
	})
	require.NoError(t, err)
	require.True(t, inserted)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, database.Seed(db))

	past, err := events.GetPastEvents(ctx)
	require.NoError(t, err)
	require.Len(t, past, 5)
	ids := make([]string, 0, len(past))
	for _, ev := range past {
		ids = append(ids, ev.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "mock-1"}, ids)
}

func TestEventErrorsAreWrapped(t *testing.T) {
	db := newTestDB(t)
	events := logic.NewEventLogic(db, logic.NoDelay())
	require.NoError(t, database.Close(db))

	_, err := events.AppendEvent(context.Background(), &model.BlockchainEvent{ID: "mock-9", Event: model.EventDonationMade, TxHash: "0x9"})
	assert.ErrorContains(t, err, "failed to append event mock-9")

	_, err = events.GetLastBlockNumber(context.Background())
	assert.ErrorContains(t, err, "failed to load last block number")
}

func TestSimulatorDelayAndCancel(t *testing.T) {
	sim := logic.NewSimulator(config.APIConfig{ReadDelay: 20 * time.Millisecond, WriteDelay: time.Hour})

	start := time.Now()
	require.NoError(t, sim.Read(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sim.Write(ctx), context.DeadlineExceeded)
}

func TestSimulatorFailureRate(t *testing.T) {
	db := newTestDB(t)
	sim := logic.NewSimulator(config.APIConfig{FailureRate: 1})
	requests := logic.NewRequestLogic(db, sim)

	_, err := requests.GetOpenRequests(context.Background())
	assert.ErrorIs(t, err, logic.ErrServiceUnavailable)
}
