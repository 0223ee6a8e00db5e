package chain_test

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/blues/aidlink/internal/chain"
	"github.com/blues/aidlink/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractAddress = "0x123456789abcdef123456789abcdef123456789a"

func newContract(t *testing.T) *chain.Contract {
	t.Helper()
	c, err := chain.NewContract(contractAddress)
	require.NoError(t, err)
	return c
}

func ether(n int64, exp int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil))
}

func TestNewContractRejectsBadAddress(t *testing.T) {
	_, err := chain.NewContract("not-an-address")
	require.Error(t, err)
}

func TestDonationMadeRoundTrip(t *testing.T) {
	c := newContract(t)
	from := common.HexToAddress("0xD8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	to := common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")

	log, err := c.BuildDonationMade(from, to, ether(5, 17), big.NewInt(1))
	require.NoError(t, err)
	log.BlockNumber = 12345690
	log.TxHash = common.HexToHash("0xabc")
	log.Index = 2

	event, err := c.ParseLog(log, 1700000000)
	require.NoError(t, err)
	assert.Equal(t, model.EventDonationMade, event.Event)
	assert.Equal(t, from.Hex(), event.From)
	assert.Equal(t, to.Hex(), event.To)
	assert.Equal(t, "0.5", event.Amount)
	assert.Equal(t, int64(12345690), event.BlockNumber)
	assert.Equal(t, int64(1700000000), event.Timestamp)
	assert.Equal(t, log.TxHash.Hex(), event.TxHash)
	assert.Equal(t, log.TxHash.Hex()+"-2", event.ID)
}

func TestDeliveryConfirmedRoundTrip(t *testing.T) {
	c := newContract(t)
	supplier := common.HexToAddress("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984")

	log, err := c.BuildDeliveryConfirmed(big.NewInt(2), supplier, ether(12, 17))
	require.NoError(t, err)

	event, err := c.ParseLog(log, 0)
	require.NoError(t, err)
	assert.Equal(t, model.EventDeliveryConfirmed, event.Event)
	assert.Equal(t, c.GetAddress().Hex(), event.From)
	assert.Equal(t, supplier.Hex(), event.To)
	assert.Equal(t, "1.2", event.Amount)
}

func TestParseLogErrors(t *testing.T) {
	c := newContract(t)

	_, err := c.ParseLog(types.Log{}, 0)
	assert.ErrorIs(t, err, chain.ErrEmptyTopics)

	_, err = c.ParseLog(types.Log{Topics: []common.Hash{common.HexToHash("0x01")}}, 0)
	assert.ErrorIs(t, err, chain.ErrUnknownEvent)
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "0", chain.FormatEther(nil))
	assert.Equal(t, "0", chain.FormatEther(big.NewInt(0)))
	assert.Equal(t, "1", chain.FormatEther(ether(1, 18)))
	assert.Equal(t, "0.01", chain.FormatEther(ether(1, 16)))
	assert.Equal(t, "1.99", chain.FormatEther(ether(199, 16)))
	assert.Equal(t, "0.000000000000000001", chain.FormatEther(big.NewInt(1)))
}

func TestGeneratorProducesDecodableEvents(t *testing.T) {
	c := newContract(t)
	gen := chain.NewGenerator(c, 42)
	now := time.Unix(1700000000, 123)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		event, err := gen.Next(now)
		require.NoError(t, err)

		seen[event.Event] = true
		assert.Equal(t, "mock-1700000000000000123", event.ID)
		assert.GreaterOrEqual(t, event.BlockNumber, int64(12345682))
		assert.Less(t, event.BlockNumber, int64(12345782))
		assert.Equal(t, int64(1700000000), event.Timestamp)
		assert.True(t, strings.HasPrefix(event.TxHash, "0x"))
		assert.Len(t, event.TxHash, 66)

		amount, ok := new(big.Float).SetString(event.Amount)
		require.True(t, ok, event.Amount)
		assert.Equal(t, 1, amount.Cmp(big.NewFloat(0)))
		assert.Equal(t, -1, amount.Cmp(big.NewFloat(2)))
	}
	assert.True(t, seen[model.EventDonationMade])
	assert.True(t, seen[model.EventDeliveryConfirmed])
}
