package chain

import (
	"fmt"
	"math/big"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/blues/aidlink/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	mockBaseBlock   = 12345682
	mockBlockSpread = 100
)

var (
	mockDonor    = common.HexToAddress("0xD8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	mockReceiver = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	centiEther   = new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil)
)

// Generator 生成模拟的合约日志
type Generator struct {
	contract *Contract

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator 创建模拟日志生成器
func NewGenerator(contract *Contract, seed uint64) *Generator {
	return &Generator{
		contract: contract,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NextLog 随机生成一条 DonationMade 或 DeliveryConfirmed 日志
func (g *Generator) NextLog() (types.Log, error) {
	g.mu.Lock()
	donation := g.rng.IntN(2) == 0
	block := uint64(mockBaseBlock + g.rng.IntN(mockBlockSpread))
	// 0.01 ~ 1.99 ether
	amount := new(big.Int).Mul(big.NewInt(int64(g.rng.IntN(199)+1)), centiEther)
	requestID := big.NewInt(int64(g.rng.IntN(4) + 1))
	var seed [32]byte
	for i := 0; i < len(seed); i += 8 {
		v := g.rng.Uint64()
		for j := 0; j < 8; j++ {
			seed[i+j] = byte(v >> (8 * j))
		}
	}
	g.mu.Unlock()

	var (
		log types.Log
		err error
	)
	if donation {
		log, err = g.contract.BuildDonationMade(mockDonor, mockReceiver, amount, requestID)
	} else {
		log, err = g.contract.BuildDeliveryConfirmed(requestID, mockReceiver, amount)
	}
	if err != nil {
		return types.Log{}, err
	}

	log.BlockNumber = block
	log.TxHash = crypto.Keccak256Hash(seed[:])
	return log, nil
}

// Next 生成一条模拟链上事件，ID 为 mock-<纳秒时间戳>
func (g *Generator) Next(now time.Time) (*model.BlockchainEvent, error) {
	log, err := g.NextLog()
	if err != nil {
		return nil, err
	}

	event, err := g.contract.ParseLog(log, now.Unix())
	if err != nil {
		return nil, err
	}
	event.ID = fmt.Sprintf("mock-%d", now.UnixNano())
	return event, nil
}
