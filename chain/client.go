package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/flashbots/flashwatch/config"
)

const erc20SymbolABI = `[{
	"name": "symbol",
	"type": "function",
	"stateMutability": "view",
	"inputs": [],
	"outputs": [{ "name": "", "type": "string" }]
}]`

var (
	errClientFailedToDial       = errors.New("failed to dial eth rpc")
	errClientFailedToGetChainID = errors.New("failed to get chain id")
	errClientNoSymbol           = errors.New("token does not expose a readable symbol")
)

var erc20 = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20SymbolABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// Client implements Reader on top of a single eth json-rpc endpoint.
type Client struct {
	cfg *config.Eth
	eth *ethclient.Client

	chainID *big.Int
	retry   retryPolicy
}

func Dial(ctx context.Context, cfg *config.Eth) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, cfg.RpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w",
			errClientFailedToDial, cfg.RpcURL, err,
		)
	}

	c := &Client{
		cfg: cfg,
		eth: eth,
		retry: retryPolicy{
			maxAttempts: cfg.RetryMaxAttempts,
			baseDelay:   cfg.RetryBaseDelay,
			maxDelay:    cfg.RetryMaxDelay,
		},
	}

	chainID, err := c.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("%w: %w",
			errClientFailedToGetChainID, err,
		)
	}
	c.chainID = chainID

	return c, nil
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	if c.chainID != nil {
		return c.chainID, nil
	}

	var chainID *big.Int
	err := c.retry.do(ctx, "eth_chainId", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
		defer cancel()

		var err error
		chainID, err = c.eth.ChainID(ctx)
		return err
	})

	return chainID, err
}

func (c *Client) HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error) {
	var header *ethtypes.Header
	err := c.retry.do(ctx, "eth_getBlockByNumber", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
		defer cancel()

		var err error
		header, err = c.eth.HeaderByNumber(ctx, number)
		return err
	})

	return header, err
}

func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]ethtypes.Log, error) {
	var logs []ethtypes.Log
	err := c.retry.do(ctx, "eth_getLogs", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
		defer cancel()

		var err error
		logs, err = c.eth.FilterLogs(ctx, q)
		return err
	})

	return logs, err
}

func (c *Client) TransactionReceipt(ctx context.Context, txHash ethcommon.Hash) (*ethtypes.Receipt, error) {
	var receipt *ethtypes.Receipt
	err := c.retry.do(ctx, "eth_getTransactionReceipt", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
		defer cancel()

		var err error
		receipt, err = c.eth.TransactionReceipt(ctx, txHash)
		return err
	})

	return receipt, err
}

// TransactionSender recovers the originating address of a transaction from
// its signature.
func (c *Client) TransactionSender(ctx context.Context, txHash ethcommon.Hash) (ethcommon.Address, error) {
	var tx *ethtypes.Transaction
	err := c.retry.do(ctx, "eth_getTransactionByHash", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
		defer cancel()

		var err error
		tx, _, err = c.eth.TransactionByHash(ctx, txHash)
		return err
	})
	if err != nil {
		return ethcommon.Address{}, err
	}

	return ethtypes.Sender(ethtypes.LatestSignerForChainID(c.chainID), tx)
}

func (c *Client) CodeAt(ctx context.Context, account ethcommon.Address, blockNumber *big.Int) ([]byte, error) {
	var code []byte
	err := c.retry.do(ctx, "eth_getCode", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
		defer cancel()

		var err error
		code, err = c.eth.CodeAt(ctx, account, blockNumber)
		return err
	})

	return code, err
}

func (c *Client) NonceAt(ctx context.Context, account ethcommon.Address, blockNumber *big.Int) (uint64, error) {
	var nonce uint64
	err := c.retry.do(ctx, "eth_getTransactionCount", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
		defer cancel()

		var err error
		nonce, err = c.eth.NonceAt(ctx, account, blockNumber)
		return err
	})

	return nonce, err
}

// TokenSymbol reads the ERC-20 `symbol()` of the given token contract.  Not
// retried: a token without a readable symbol fails deterministically.
func (c *Client) TokenSymbol(ctx context.Context, token ethcommon.Address) (string, error) {
	data, err := erc20.Pack("symbol")
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w",
			errClientNoSymbol, token, err,
		)
	}

	unpacked, err := erc20.Unpack("symbol", res)
	if err != nil || len(unpacked) != 1 {
		return "", fmt.Errorf("%w: %s",
			errClientNoSymbol, token,
		)
	}

	symbol, ok := unpacked[0].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s",
			errClientNoSymbol, token,
		)
	}

	return symbol, nil
}

func (c *Client) Close() {
	c.eth.Close()
}
