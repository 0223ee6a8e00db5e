package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/blues/aidlink/internal/model"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// AidLink 合约事件 ABI
const aidLinkABI = `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "from", "type": "address"},
			{"indexed": true, "name": "to", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"},
			{"indexed": true, "name": "requestId", "type": "uint256"}
		],
		"name": "DonationMade",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "requestId", "type": "uint256"},
			{"indexed": true, "name": "supplier", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "DeliveryConfirmed",
		"type": "event"
	}
]`

var (
	ErrUnknownEvent = errors.New("unknown event signature")
	ErrEmptyTopics  = errors.New("log has no topics")
)

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Contract AidLink 合约，负责事件日志的编码与解析
type Contract struct {
	address common.Address
	abi     abi.ABI
}

// NewContract 创建合约实例
func NewContract(address string) (*Contract, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid contract address: %q", address)
	}

	parsedABI, err := abi.JSON(strings.NewReader(aidLinkABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	return &Contract{
		address: common.HexToAddress(address),
		abi:     parsedABI,
	}, nil
}

// GetAddress 获取合约地址
func (c *Contract) GetAddress() common.Address {
	return c.address
}

// EventIDs 合约关心的事件签名
func (c *Contract) EventIDs() []common.Hash {
	return []common.Hash{
		c.abi.Events[model.EventDonationMade].ID,
		c.abi.Events[model.EventDeliveryConfirmed].ID,
	}
}

// BuildDonationMade 构造 DonationMade 日志
func (c *Contract) BuildDonationMade(from, to common.Address, amount, requestID *big.Int) (types.Log, error) {
	event := c.abi.Events[model.EventDonationMade]
	data, err := event.Inputs.NonIndexed().Pack(amount)
	if err != nil {
		return types.Log{}, fmt.Errorf("failed to pack %s: %w", event.Name, err)
	}

	return types.Log{
		Address: c.address,
		Topics: []common.Hash{
			event.ID,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
			common.BigToHash(requestID),
		},
		Data: data,
	}, nil
}

// BuildDeliveryConfirmed 构造 DeliveryConfirmed 日志
func (c *Contract) BuildDeliveryConfirmed(requestID *big.Int, supplier common.Address, amount *big.Int) (types.Log, error) {
	event := c.abi.Events[model.EventDeliveryConfirmed]
	data, err := event.Inputs.NonIndexed().Pack(amount)
	if err != nil {
		return types.Log{}, fmt.Errorf("failed to pack %s: %w", event.Name, err)
	}

	return types.Log{
		Address: c.address,
		Topics: []common.Hash{
			event.ID,
			common.BigToHash(requestID),
			common.BytesToHash(supplier.Bytes()),
		},
		Data: data,
	}, nil
}

// ParseLog 解析日志为链上事件，timestamp 为区块时间（秒）
func (c *Contract) ParseLog(log types.Log, timestamp int64) (*model.BlockchainEvent, error) {
	if len(log.Topics) == 0 {
		return nil, ErrEmptyTopics
	}

	event, err := c.abi.EventByID(log.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, log.Topics[0].Hex())
	}

	values := make(map[string]interface{})
	if len(log.Data) > 0 {
		if err := c.abi.UnpackIntoMap(values, event.Name, log.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack %s data: %w", event.Name, err)
		}
	}

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if err := abi.ParseTopicsIntoMap(values, indexed, log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse %s topics: %w", event.Name, err)
	}

	amount, _ := values["amount"].(*big.Int)

	result := &model.BlockchainEvent{
		ID:          fmt.Sprintf("%s-%d", log.TxHash.Hex(), log.Index),
		Event:       event.Name,
		TxHash:      log.TxHash.Hex(),
		BlockNumber: int64(log.BlockNumber),
		Amount:      FormatEther(amount),
		Timestamp:   timestamp,
	}

	switch event.Name {
	case model.EventDonationMade:
		result.From = addressValue(values["from"])
		result.To = addressValue(values["to"])
	case model.EventDeliveryConfirmed:
		// 交付事件没有付款方，使用合约地址
		result.From = log.Address.Hex()
		result.To = addressValue(values["supplier"])
	}

	return result, nil
}

func addressValue(v interface{}) string {
	if addr, ok := v.(common.Address); ok {
		return addr.Hex()
	}
	return ""
}

// FormatEther 将 wei 转为以太币的十进制字符串，去掉多余的零
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	s := new(big.Rat).SetFrac(wei, weiPerEther).FloatString(18)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
