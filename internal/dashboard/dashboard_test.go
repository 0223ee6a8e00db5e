package dashboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/blues/aidlink/internal/auth"
	"github.com/blues/aidlink/internal/config"
	"github.com/blues/aidlink/internal/dashboard"
	"github.com/blues/aidlink/internal/database"
	"github.com/blues/aidlink/internal/logic"
	"github.com/blues/aidlink/internal/model"
	"github.com/blues/aidlink/internal/notifier"
	"github.com/blues/aidlink/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFacade(t *testing.T) *logic.Facade {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	issuer := auth.NewIssuer(config.AuthConfig{JWTSecret: "test", Issuer: "aidlink"})
	return logic.NewFacade(db, logic.NoDelay(), issuer, false)
}

func newHub[T any](t *testing.T) *notifier.Hub[T] {
	t.Helper()
	hub, err := notifier.NewHub[T]("test", notifier.Options{PoolSize: 2})
	require.NoError(t, err)
	t.Cleanup(hub.Close)
	return hub
}

func requestByID(list []model.Request, id string) (model.Request, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return model.Request{}, false
}

func TestMergeByID(t *testing.T) {
	list := []model.Transaction{{ID: "1", Amount: 1}, {ID: "2", Amount: 2}}

	replaced := dashboard.MergeByID(list, model.Transaction{ID: "2", Amount: 20, Status: model.TransactionStatusDelivered})
	require.Len(t, replaced, 2)
	assert.Equal(t, 20.0, replaced[1].Amount)
	assert.Equal(t, model.TransactionStatusDelivered, replaced[1].Status)
	assert.Equal(t, 2.0, list[1].Amount, "input must not be modified")

	appended := dashboard.MergeByID(list, model.Transaction{ID: "3"})
	require.Len(t, appended, 3)
	assert.Equal(t, "3", appended[2].ID)

	fromNil := dashboard.MergeByID(nil, model.Transaction{ID: "1"})
	assert.Len(t, fromNil, 1)
}

func TestPrependUnique(t *testing.T) {
	list := []model.BlockchainEvent{{ID: "1"}, {ID: "2"}}

	same := dashboard.PrependUnique(list, model.BlockchainEvent{ID: "2", Event: "changed"})
	require.Len(t, same, 2)
	assert.Empty(t, same[1].Event)

	added := dashboard.PrependUnique(list, model.BlockchainEvent{ID: "mock-1"})
	require.Len(t, added, 3)
	assert.Equal(t, "mock-1", added[0].ID)
	assert.Equal(t, "1", added[1].ID)
}

func TestDonorEndToEnd(t *testing.T) {
	facade := newFacade(t)
	feed := newHub[model.Transaction](t)
	ctx := context.Background()

	store, err := session.OpenBadger(config.SessionConfig{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	s := session.New(store, facade)
	require.NoError(t, s.Load())
	user, err := s.Login(ctx, "donor@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, model.RoleDonor, user.Role)

	donor := dashboard.NewDonor(facade, feed)
	require.NoError(t, donor.Mount(ctx))
	defer donor.Unmount()

	assert.False(t, donor.Loading())
	assert.Empty(t, donor.Error())
	requests := donor.Requests()
	for _, r := range requests {
		assert.Equal(t, model.RequestStatusOpen, r.Status)
	}
	first, ok := requestByID(requests, "1")
	require.True(t, ok)
	assert.Equal(t, model.RequestStatusOpen, first.Status)
	before := len(donor.Donations())

	tx, err := donor.Donate(ctx, "1", 500)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusPending, tx.Status)

	first, ok = requestByID(donor.Requests(), "1")
	require.True(t, ok)
	assert.Equal(t, model.RequestStatusFunded, first.Status)

	donations := donor.Donations()
	require.Len(t, donations, before+1)
	assert.Equal(t, tx.ID, donations[len(donations)-1].ID)
	assert.Equal(t, model.TransactionStatusPending, donations[len(donations)-1].Status)

	// 服务端状态一致
	open, err := facade.GetOpenRequests(ctx)
	require.NoError(t, err)
	_, stillOpen := requestByID(open, "1")
	assert.False(t, stillOpen)
}

func TestDonorMergesPushedTransactions(t *testing.T) {
	facade := newFacade(t)
	feed := newHub[model.Transaction](t)
	donor := dashboard.NewDonor(facade, feed)
	require.NoError(t, donor.Mount(context.Background()))

	before := donor.Donations()
	require.Len(t, before, 2)

	feed.Publish(model.Transaction{ID: "2", Status: model.TransactionStatusDelivered, SupplierID: "3", Amount: 300})
	after := donor.Donations()
	require.Len(t, after, 2)
	assert.Equal(t, model.TransactionStatusDelivered, after[1].Status)
	assert.Equal(t, 300.0, after[1].Amount)

	feed.Publish(model.Transaction{ID: "99", Status: model.TransactionStatusPending})
	assert.Len(t, donor.Donations(), 3)

	donor.Unmount()
	assert.Equal(t, 0, feed.Len())

	feed.Publish(model.Transaction{ID: "100"})
	assert.Len(t, donor.Donations(), 3)
}

func TestUnmountedDashboardStopsWhileOthersReceive(t *testing.T) {
	facade := newFacade(t)
	feed := newHub[model.Transaction](t)
	ctx := context.Background()

	donor := dashboard.NewDonor(facade, feed)
	supplier := dashboard.NewSupplier(facade, feed)
	require.NoError(t, donor.Mount(ctx))
	require.NoError(t, supplier.Mount(ctx))
	defer supplier.Unmount()

	donor.Unmount()
	feed.Publish(model.Transaction{ID: "new", Status: model.TransactionStatusConfirmed})

	assert.Len(t, donor.Donations(), 2)
	assert.Len(t, supplier.Transactions(), 2)
}

type failingAPI struct{}

var errBoom = errors.New("boom")

func (failingAPI) GetOpenRequests(context.Context) ([]model.Request, error) { return nil, errBoom }
func (failingAPI) GetDonorDashboard(context.Context) (*logic.DonorDashboard, error) {
	return &logic.DonorDashboard{}, nil
}
func (failingAPI) Donate(context.Context, string, float64) (*model.Transaction, error) {
	return nil, errBoom
}
func (failingAPI) GetInstitutionRequests(context.Context) ([]model.Request, error) {
	return nil, errBoom
}
func (failingAPI) CreateRequest(context.Context, logic.CreateRequestInput) (*model.Request, error) {
	return nil, errBoom
}
func (failingAPI) GetSupplierTransactions(context.Context) ([]model.Transaction, error) {
	return nil, errBoom
}
func (failingAPI) ConfirmDelivery(context.Context, string) (*model.Transaction, error) {
	return nil, errBoom
}
func (failingAPI) GetPastEvents(context.Context) ([]model.BlockchainEvent, error) {
	return nil, errBoom
}

func TestFailureMessages(t *testing.T) {
	ctx := context.Background()
	txFeed := newHub[model.Transaction](t)
	eventFeed := newHub[model.BlockchainEvent](t)

	donor := dashboard.NewDonor(failingAPI{}, txFeed)
	assert.ErrorIs(t, donor.Mount(ctx), errBoom)
	assert.Equal(t, dashboard.MsgDonorLoadFailed, donor.Error())
	_, err := donor.Donate(ctx, "1", 10)
	assert.ErrorIs(t, err, errBoom)
	donor.Unmount()

	institution := dashboard.NewInstitution(failingAPI{})
	assert.ErrorIs(t, institution.Mount(ctx), errBoom)
	assert.Equal(t, dashboard.MsgRequestsLoadFailed, institution.Error())
	_, err = institution.Create(ctx, logic.CreateRequestInput{Title: "t", Description: "d", Amount: 1})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, dashboard.MsgCreateRequestFailed, institution.FormError())

	supplier := dashboard.NewSupplier(failingAPI{}, txFeed)
	assert.ErrorIs(t, supplier.Mount(ctx), errBoom)
	assert.Equal(t, dashboard.MsgTransactionsLoadFailed, supplier.Error())
	_, err = supplier.ConfirmDelivery(ctx, "1")
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, dashboard.MsgConfirmDeliveryFailed, supplier.Error())
	assert.Empty(t, supplier.Processing())
	supplier.Unmount()

	explorer := dashboard.NewExplorer(failingAPI{}, eventFeed)
	assert.ErrorIs(t, explorer.Mount(ctx), errBoom)
	assert.Equal(t, dashboard.MsgEventsLoadFailed, explorer.Error())
	assert.ErrorIs(t, explorer.Refresh(ctx), errBoom)
	assert.Equal(t, dashboard.MsgEventsRefreshFailed, explorer.Error())
	explorer.Unmount()
}

func TestInstitutionCreate(t *testing.T) {
	facade := newFacade(t)
	ctx := context.Background()

	institution := dashboard.NewInstitution(facade)
	require.NoError(t, institution.Mount(ctx))
	require.Len(t, institution.Requests(), 2)

	cases := []struct {
		input logic.CreateRequestInput
		msg   string
	}{
		{logic.CreateRequestInput{Title: " ", Description: "d", Amount: 1}, dashboard.MsgTitleRequired},
		{logic.CreateRequestInput{Title: "t", Description: "", Amount: 1}, dashboard.MsgDescriptionRequired},
		{logic.CreateRequestInput{Title: "t", Description: "d", Amount: 0}, dashboard.MsgAmountPositive},
	}
	for _, tc := range cases {
		_, err := institution.Create(ctx, tc.input)
		assert.ErrorIs(t, err, logic.ErrInvalidRequest)
		assert.Equal(t, tc.msg, institution.FormError())
	}
	assert.Len(t, institution.Requests(), 2)

	created, err := institution.Create(ctx, logic.CreateRequestInput{Title: "Tents", Description: "Shelter", Amount: 900})
	require.NoError(t, err)
	assert.Empty(t, institution.FormError())
	assert.Equal(t, dashboard.MsgRequestCreated, institution.FormSuccess())

	requests := institution.Requests()
	require.Len(t, requests, 3)
	assert.Equal(t, created.ID, requests[0].ID)
}

func TestSupplierConfirmDelivery(t *testing.T) {
	facade := newFacade(t)
	feed := newHub[model.Transaction](t)
	ctx := context.Background()

	supplier := dashboard.NewSupplier(facade, feed)
	require.NoError(t, supplier.Mount(ctx))
	defer supplier.Unmount()
	require.Len(t, supplier.Transactions(), 1)

	tx, err := supplier.ConfirmDelivery(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusDelivered, tx.Status)

	list := supplier.Transactions()
	require.Len(t, list, 1)
	assert.Equal(t, model.TransactionStatusDelivered, list[0].Status)
	assert.Equal(t, "3", list[0].SupplierID)

	_, err = supplier.ConfirmDelivery(ctx, "missing")
	assert.ErrorIs(t, err, logic.ErrTransactionNotFound)
	assert.Equal(t, dashboard.MsgConfirmDeliveryFailed, supplier.Error())
	assert.Len(t, supplier.Transactions(), 1)
}

func TestExplorer(t *testing.T) {
	facade := newFacade(t)
	feed := newHub[model.BlockchainEvent](t)
	ctx := context.Background()

	explorer := dashboard.NewExplorer(facade, feed)
	require.NoError(t, explorer.Mount(ctx))
	defer explorer.Unmount()
	require.Len(t, explorer.Events(), 4)

	pushed := model.BlockchainEvent{ID: "mock-1", Event: model.EventDonationMade, TxHash: "0xFEED", From: "0xAAA", To: "0xBBB"}
	feed.Publish(pushed)
	feed.Publish(pushed)

	events := explorer.Events()
	require.Len(t, events, 5)
	assert.Equal(t, "mock-1", events[0].ID)

	assert.Len(t, explorer.Search(""), 5)
	assert.Len(t, explorer.Search("deliveryconfirmed"), 2)
	assert.Len(t, explorer.Search("0xfeed"), 1)
	assert.Len(t, explorer.Search("0xd8da6bf26964af9d7eed9e03e53415d37aa96045"), 2)
	assert.Empty(t, explorer.Search("no-such-thing"))

	// 刷新后以存储为准，推送但未落库的事件消失
	require.NoError(t, explorer.Refresh(ctx))
	assert.Len(t, explorer.Events(), 4)
	assert.False(t, explorer.Refreshing())
}
