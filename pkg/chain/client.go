package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common/iface"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/registry"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	// ErrReverted is returned when a mined transaction has a failed status
	ErrReverted = errors.New("transaction reverted")

	// ErrUnknownMethod is returned when the ABI has no method of the requested name
	ErrUnknownMethod = errors.New("method not found in abi")
)

// ERC-1967 implementation slot: keccak256("eip1967.proxy.implementation") - 1
var implementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")

const defaultReceiptTimeout = 5 * time.Minute

// Call describes one contract method invocation on one chain
type Call struct {
	ChainID uint64
	To      common.Address
	ABI     abi.ABI
	Method  string
	Params  []any
	// Value is sent along with payable calls
	Value *big.Int
}

// Caller is the read/write surface the orchestration code depends on
type Caller interface {
	Read(ctx context.Context, call Call) ([]any, error)
	Write(ctx context.Context, call Call, from *Account) (common.Hash, error)
}

// Backend is the subset of an ethclient connection the Client uses
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
	Close()
}

// Dialer opens a Backend for a network
type Dialer func(ctx context.Context, network registry.Network) (Backend, error)

// DialRPC connects to the network's JSON-RPC endpoint
func DialRPC(ctx context.Context, network registry.Network) (Backend, error) {
	if network.RPCURL == "" {
		return nil, fmt.Errorf("no RPC endpoint configured for %s (%d)", network.Name, network.ChainID)
	}
	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s RPC: %w", network.Name, err)
	}
	return client, nil
}

type Option func(*Client)

func WithDialer(dial Dialer) Option {
	return func(c *Client) { c.dial = dial }
}

func WithReceiptTimeout(d time.Duration) Option {
	return func(c *Client) { c.receiptTimeout = d }
}

// Client performs one-shot reads and signed writes against the configured
// networks. Connections are opened on first use per chain and kept until Close.
type Client struct {
	networks       *registry.NetworkRegistry
	logger         iface.Logger
	dial           Dialer
	nonces         *NonceTracker
	receiptTimeout time.Duration

	mu       sync.Mutex
	backends map[uint64]Backend
}

func NewClient(networks *registry.NetworkRegistry, logger iface.Logger, opts ...Option) *Client {
	c := &Client{
		networks:       networks,
		logger:         logger,
		dial:           DialRPC,
		nonces:         NewNonceTracker(),
		receiptTimeout: defaultReceiptTimeout,
		backends:       make(map[uint64]Backend),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) backend(ctx context.Context, chainID uint64) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.backends[chainID]; ok {
		return b, nil
	}
	network, err := c.networks.Lookup(chainID)
	if err != nil {
		return nil, err
	}
	b, err := c.dial(ctx, network)
	if err != nil {
		return nil, err
	}
	c.backends[chainID] = b
	return b, nil
}

// Close drops every open connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, b := range c.backends {
		b.Close()
		delete(c.backends, id)
	}
}

func (c *Client) pack(call Call) ([]byte, error) {
	method, ok := call.ABI.Methods[call.Method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, call.Method)
	}
	args, err := CoerceArgs(method.Inputs, call.Params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", call.Method, err)
	}
	return call.ABI.Pack(call.Method, args...)
}

// Read performs an eth_call and returns the decoded outputs. On any failure
// the result is nil and the error is logged and returned.
func (c *Client) Read(ctx context.Context, call Call) ([]any, error) {
	out, err := c.read(ctx, call)
	if err != nil {
		c.logger.Error("Read %s on %s failed: %v", call.Method, c.networks.Name(call.ChainID), err)
		return nil, err
	}
	return out, nil
}

func (c *Client) read(ctx context.Context, call Call) ([]any, error) {
	input, err := c.pack(call)
	if err != nil {
		return nil, err
	}
	backend, err := c.backend(ctx, call.ChainID)
	if err != nil {
		return nil, err
	}

	raw, err := backend.CallContract(ctx, ethereum.CallMsg{To: &call.To, Data: input}, nil)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		code, err := backend.CodeAt(ctx, call.To, nil)
		if err != nil {
			return nil, err
		}
		if len(code) == 0 {
			return nil, bind.ErrNoCode
		}
	}
	return call.ABI.Unpack(call.Method, raw)
}

// Write signs and broadcasts a state-changing call and waits for its receipt.
// The hash is returned whenever the transaction reached the network, even if
// it then reverted.
func (c *Client) Write(ctx context.Context, call Call, from *Account) (common.Hash, error) {
	input, err := c.pack(call)
	if err != nil {
		c.logger.Error("Write %s on %s failed: %v", call.Method, c.networks.Name(call.ChainID), err)
		return common.Hash{}, err
	}
	to := call.To
	tx, err := c.transact(ctx, call.ChainID, &to, input, call.Value, from)
	if err != nil {
		c.logger.Error("Write %s on %s failed: %v", call.Method, c.networks.Name(call.ChainID), err)
		return common.Hash{}, err
	}
	if _, err := c.waitMined(ctx, call.ChainID, tx); err != nil {
		c.logger.Error("Write %s on %s failed: %v", call.Method, c.networks.Name(call.ChainID), err)
		return tx.Hash(), err
	}
	c.logger.Debug("TxHash %s (%s)", tx.Hash().Hex(), call.Method)
	return tx.Hash(), nil
}

// Deploy creates a contract from bytecode and packed constructor arguments
func (c *Client) Deploy(ctx context.Context, chainID uint64, art *registry.Artifact, from *Account, params ...any) (common.Address, common.Hash, error) {
	if len(art.Bytecode) == 0 {
		return common.Address{}, common.Hash{}, fmt.Errorf("artifact %s has no bytecode", art.ContractName)
	}
	args, err := CoerceArgs(art.ABI.Constructor.Inputs, params)
	if err != nil {
		return common.Address{}, common.Hash{}, fmt.Errorf("constructor: %w", err)
	}
	packed, err := art.ABI.Pack("", args...)
	if err != nil {
		return common.Address{}, common.Hash{}, fmt.Errorf("constructor: %w", err)
	}
	input := append(append([]byte{}, art.Bytecode...), packed...)

	tx, err := c.transact(ctx, chainID, nil, input, nil, from)
	if err != nil {
		return common.Address{}, common.Hash{}, err
	}
	receipt, err := c.waitMined(ctx, chainID, tx)
	if err != nil {
		return common.Address{}, tx.Hash(), err
	}
	return receipt.ContractAddress, tx.Hash(), nil
}

// ImplementationAddress reads the ERC-1967 logic address behind a proxy
func (c *Client) ImplementationAddress(ctx context.Context, chainID uint64, proxy common.Address) (common.Address, error) {
	backend, err := c.backend(ctx, chainID)
	if err != nil {
		return common.Address{}, err
	}
	raw, err := backend.StorageAt(ctx, proxy, implementationSlot, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("read implementation slot: %w", err)
	}
	return common.BytesToAddress(raw), nil
}

func (c *Client) transact(ctx context.Context, chainID uint64, to *common.Address, input []byte, value *big.Int, from *Account) (*types.Transaction, error) {
	if from == nil {
		return nil, errors.New("no sender account")
	}
	backend, err := c.backend(ctx, chainID)
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = new(big.Int)
	}

	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gas price: %w", err)
	}
	nonce, err := c.nonces.Next(ctx, chainID, from.Address, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	gas, err := backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from.Address,
		To:    to,
		Value: value,
		Data:  input,
	})
	if err != nil {
		c.nonces.Reset(chainID, from.Address)
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       to,
		Value:    value,
		Data:     input,
	})
	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(chainID))
	signed, err := types.SignTx(tx, signer, from.key)
	if err != nil {
		c.nonces.Reset(chainID, from.Address)
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := backend.SendTransaction(ctx, signed); err != nil {
		c.nonces.Reset(chainID, from.Address)
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signed, nil
}

func (c *Client) waitMined(ctx context.Context, chainID uint64, tx *types.Transaction) (*types.Receipt, error) {
	backend, err := c.backend(ctx, chainID)
	if err != nil {
		return nil, err
	}
	waitCtx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for transaction (hash: %s): %w", tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%w (hash: %s)", ErrReverted, tx.Hash().Hex())
	}
	return receipt, nil
}
