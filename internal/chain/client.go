package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/blues/aidlink/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client 通过 JSON-RPC 读取合约日志
type Client struct {
	client   *ethclient.Client
	contract *Contract
}

// Dial 连接节点并检查连通性
func Dial(ctx context.Context, rpcURL string, contract *Contract) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("no RPC URL configured")
	}

	logger.Info("Connecting to chain RPC: %s", rpcURL)
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	logger.Info("Connected to chain %s, contract %s", chainID, contract.GetAddress().Hex())

	return &Client{client: client, contract: contract}, nil
}

// LatestBlock 获取当前最新区块号
func (c *Client) LatestBlock(ctx context.Context) (int64, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Int64(), nil
}

// FilterLogs 获取区块范围内合约的 AidLink 事件日志
func (c *Client) FilterLogs(ctx context.Context, fromBlock, toBlock int64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: big.NewInt(fromBlock),
		ToBlock:   big.NewInt(toBlock),
		Addresses: []common.Address{c.contract.GetAddress()},
		Topics:    [][]common.Hash{c.contract.EventIDs()},
	}
	return c.client.FilterLogs(ctx, query)
}

// BlockTime 获取区块时间（秒）
func (c *Client) BlockTime(ctx context.Context, number uint64) (int64, error) {
	header, err := c.client.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return 0, err
	}
	return int64(header.Time), nil
}

// Close 关闭连接
func (c *Client) Close() {
	c.client.Close()
}
