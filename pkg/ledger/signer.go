// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/crypto"
	ethereum "github.com/luxfi/geth"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"go.uber.org/zap"
)

// TxRequest describes a transaction before nonce, fees and signature are
// attached. A nil To deploys Data as creation code.
type TxRequest struct {
	To    *common.Address
	Data  []byte
	Value *big.Int
	Gas   uint64
}

// Signer turns requests into submitted transactions. Implementations must
// hand out nonces monotonically and submit in allocation order.
type Signer interface {
	Address() common.Address
	SendTransaction(ctx context.Context, req TxRequest) (*types.Transaction, error)
}

// KeySigner signs with a local secp256k1 key. Nonce allocation, signing and
// submission happen under one lock, so concurrent pipeline stages never
// collide on a nonce and reach the node in the order they asked.
type KeySigner struct {
	backend Backend
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	log     *zap.Logger

	mu         sync.Mutex
	nextNonce  uint64
	nonceKnown bool
}

// NewKeySigner builds a signer for key on chainID.
func NewKeySigner(backend Backend, key *ecdsa.PrivateKey, chainID uint64, log *zap.Logger) *KeySigner {
	if log == nil {
		log = zap.NewNop()
	}
	return &KeySigner{
		backend: backend,
		key:     key,
		address: common.Address(crypto.PubkeyToAddress(key.PublicKey)),
		chainID: new(big.Int).SetUint64(chainID),
		log:     log,
	}
}

// NewKeySignerFromHex parses privateKey and builds a signer for it.
func NewKeySignerFromHex(backend Backend, privateKey string, chainID uint64, log *zap.Logger) (*KeySigner, error) {
	key, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return NewKeySigner(backend, key, chainID, log), nil
}

func (s *KeySigner) Address() common.Address {
	return s.address
}

func (s *KeySigner) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

// SendTransaction allocates the next nonce, signs and submits req.
func (s *KeySigner) SendTransaction(ctx context.Context, req TxRequest) (*types.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce, err := s.allocateNonce(ctx)
	if err != nil {
		return nil, err
	}
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	gas := req.Gas
	if gas == 0 {
		estimated, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  s.address,
			To:    req.To,
			Value: value,
			Data:  req.Data,
		})
		if err != nil {
			return nil, TransactionError(nil, err, "failed to estimate gas")
		}
		gas = estimated * constants.GasLimitMultiplierPct / 100
	}
	tx, err := s.buildTx(ctx, nonce, req.To, value, gas, req.Data)
	if err != nil {
		return nil, err
	}
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign tx: %w", err)
	}
	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		// the node may or may not have seen the nonce, re-read it next time
		s.nonceKnown = false
		return nil, TransactionError(signed, err, "failed to send transaction")
	}
	s.nextNonce = nonce + 1
	s.log.Debug("transaction submitted",
		zap.Stringer("hash", signed.Hash()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gas),
	)
	return signed, nil
}

func (s *KeySigner) allocateNonce(ctx context.Context) (uint64, error) {
	if s.nonceKnown {
		return s.nextNonce, nil
	}
	nonce, err := s.backend.PendingNonceAt(ctx, s.address)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce: %w", err)
	}
	s.nextNonce = nonce
	s.nonceKnown = true
	return nonce, nil
}

func (s *KeySigner) buildTx(
	ctx context.Context,
	nonce uint64,
	to *common.Address,
	value *big.Int,
	gas uint64,
	data []byte,
) (*types.Transaction, error) {
	header, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}
	if header.BaseFee == nil {
		gasPrice, err := s.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       to,
			Value:    value,
			Gas:      gas,
			GasPrice: gasPrice,
			Data:     data,
		}), nil
	}
	tipCap, err := s.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas tip cap: %w", err)
	}
	feeCap := new(big.Int).Add(new(big.Int).Mul(header.BaseFee, big.NewInt(2)), tipCap)
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		To:        to,
		Value:     value,
		Gas:       gas,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Data:      data,
	}), nil
}
