// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ledger

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/crypto"
	ethereum "github.com/luxfi/geth"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"go.uber.org/zap"
)

// Tx is a submitted transaction.
type Tx struct {
	Transaction *types.Transaction
	// ContractAddress is the CREATE address of a deployment, nil for calls.
	ContractAddress *common.Address
}

func (t *Tx) Hash() common.Hash {
	return t.Transaction.Hash()
}

// Ledger submits deployments and calls on behalf of one signer and reads
// chain state.
type Ledger interface {
	// Address is the identity transactions are sent from.
	Address() common.Address
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)
	Deploy(ctx context.Context, code []byte) (*Tx, error)
	Transact(ctx context.Context, to common.Address, data []byte) (*Tx, error)
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	// WaitMined blocks until tx has a receipt. A reverted receipt is an
	// error wrapping ErrReverted.
	WaitMined(ctx context.Context, tx *Tx) (*types.Receipt, error)
	SupportsInterface(ctx context.Context, account common.Address, interfaceID [4]byte) (bool, error)
}

// Client is the Ledger over a JSON-RPC backend.
type Client struct {
	backend      Backend
	signer       Signer
	pollInterval time.Duration
	log          *zap.Logger
}

var _ Ledger = (*Client)(nil)

type ClientOption func(*Client)

func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.pollInterval = d
	}
}

func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

func NewClient(backend Backend, signer Signer, opts ...ClientOption) *Client {
	c := &Client{
		backend:      backend,
		signer:       signer,
		pollInterval: constants.ReceiptPollInterval,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Address() common.Address {
	return c.signer.Address()
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.backend.ChainID(ctx)
}

func (c *Client) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return c.backend.CodeAt(ctx, account, nil)
}

// Deploy submits code as a contract creation.
func (c *Client) Deploy(ctx context.Context, code []byte) (*Tx, error) {
	tx, err := c.signer.SendTransaction(ctx, TxRequest{Data: code})
	if err != nil {
		return nil, err
	}
	addr := common.Address(crypto.CreateAddress(crypto.Address(c.signer.Address()), tx.Nonce()))
	c.log.Debug("deployment submitted", zap.Stringer("tx", tx.Hash()), zap.Stringer("address", addr))
	return &Tx{Transaction: tx, ContractAddress: &addr}, nil
}

// Transact submits a call to to.
func (c *Client) Transact(ctx context.Context, to common.Address, data []byte) (*Tx, error) {
	tx, err := c.signer.SendTransaction(ctx, TxRequest{To: &to, Data: data})
	if err != nil {
		return nil, err
	}
	return &Tx{Transaction: tx}, nil
}

// Call runs a read only call against the latest state.
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return c.backend.CallContract(ctx, ethereum.CallMsg{
		From: c.signer.Address(),
		To:   &to,
		Data: data,
	}, nil)
}

func (c *Client) WaitMined(ctx context.Context, tx *Tx) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, tx.Hash())
		if err == nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return nil, TransactionError(tx.Transaction, ErrReverted, "transaction failed")
			}
			if tx.ContractAddress != nil && receipt.ContractAddress == (common.Address{}) {
				receipt.ContractAddress = *tx.ContractAddress
			}
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, TransactionError(tx.Transaction, err, "failed to fetch receipt")
		}

		select {
		case <-ctx.Done():
			return nil, TransactionError(tx.Transaction, ctx.Err(), "stopped waiting for receipt")
		case <-ticker.C:
		}
	}
}

// SupportsInterface probes account through ERC165. Accounts without code,
// or whose call reverts, do not support anything.
func (c *Client) SupportsInterface(ctx context.Context, account common.Address, interfaceID [4]byte) (bool, error) {
	code, err := c.CodeAt(ctx, account)
	if err != nil {
		return false, err
	}
	if len(code) == 0 {
		return false, nil
	}
	erc165 := contract.ERC165()
	data, err := erc165.Pack("supportsInterface", interfaceID)
	if err != nil {
		return false, err
	}
	out, err := c.Call(ctx, account, data)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "revert") {
			return false, nil
		}
		return false, err
	}
	res, err := erc165.Unpack("supportsInterface", out)
	if err != nil {
		return false, nil
	}
	return contract.GetSmartContractCallResult[bool]("supportsInterface", res)
}
