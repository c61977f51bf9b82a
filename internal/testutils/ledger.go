// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package testutils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/ledger"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
)

var errRevert = errors.New("execution reverted")

// Call is one transaction the fake ledger accepted.
type Call struct {
	From common.Address
	// To is the zero address for deployments.
	To common.Address
	// Method is "deploy" for deployments.
	Method string
	// Contract is the deployed address for deployments.
	Contract common.Address
	Tx       *types.Transaction
}

type fakeContract struct {
	kind        contract.Kind
	code        []byte
	library     *common.Address
	owner       common.Address
	account     common.Address
	initialized bool
	data        map[common.Hash][]byte
}

type mined struct {
	receipt *types.Receipt
	failed  bool
}

// FakeLedger is an in-memory ledger.Ledger that understands the account,
// key manager and asset ABIs well enough to check ownership and record
// stored data keys.
type FakeLedger struct {
	mu        sync.Mutex
	address   common.Address
	chainID   *big.Int
	nonce     uint64
	artifacts *contract.Artifacts
	bytecodes []registeredCode
	contracts map[common.Address]*fakeContract
	mined     map[common.Hash]mined
	calls     []Call
	failWhen  func(Call) bool
	sendErr   func(Call) error
}

type registeredCode struct {
	kind contract.Kind
	code []byte
}

var _ ledger.Ledger = (*FakeLedger)(nil)

// NewFakeLedger returns a ledger for signer on chainID that recognizes the
// bytecodes carried by artifacts.
func NewFakeLedger(signer common.Address, chainID uint64, artifacts *contract.Artifacts) *FakeLedger {
	l := &FakeLedger{
		address:   signer,
		chainID:   new(big.Int).SetUint64(chainID),
		artifacts: artifacts,
		contracts: make(map[common.Address]*fakeContract),
		mined:     make(map[common.Hash]mined),
	}
	for _, kind := range contract.Kinds {
		art := artifacts.MustGet(kind)
		if len(art.Bytecode) > 0 {
			l.RegisterBytecode(kind, art.Bytecode)
		}
		if len(art.BaseBytecode) > 0 {
			l.RegisterBytecode(kind, art.BaseBytecode)
		}
	}
	return l
}

// RegisterBytecode makes deployments of code, plus constructor arguments,
// create a contract of kind.
func (l *FakeLedger) RegisterBytecode(kind contract.Kind, code []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bytecodes = append(l.bytecodes, registeredCode{kind: kind, code: code})
}

// FailWhen makes transactions matching f revert.
func (l *FakeLedger) FailWhen(f func(Call) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failWhen = f
}

// FailSendWhen makes submissions matching f fail before reaching the chain.
func (l *FakeLedger) FailSendWhen(f func(Call) error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sendErr = f
}

// InstallLibrary places a library of kind at a fresh address, like a
// published library on a live network.
func (l *FakeLedger) InstallLibrary(kind contract.Kind) common.Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	addr := common.Address(crypto.CreateAddress(crypto.HexToAddress("0x11b"), uint64(len(l.contracts))))
	l.contracts[addr] = &fakeContract{kind: kind, code: []byte{0x60, 0x80}, data: map[common.Hash][]byte{}}
	return addr
}

// InstallSignerAccount turns the signer address into an account contract
// that owns itself.
func (l *FakeLedger) InstallSignerAccount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.contracts[l.address] = &fakeContract{
		kind:        contract.UniversalProfile,
		code:        []byte{0x60, 0x80},
		owner:       l.address,
		initialized: true,
		data:        map[common.Hash][]byte{},
	}
}

func (l *FakeLedger) Address() common.Address {
	return l.address
}

func (l *FakeLedger) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(l.chainID), nil
}

func (l *FakeLedger) CodeAt(_ context.Context, account common.Address) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.contracts[account]; ok {
		return c.code, nil
	}
	return nil, nil
}

func (l *FakeLedger) Deploy(_ context.Context, code []byte) (*ledger.Tx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	nonce := l.nonce
	addr := common.Address(crypto.CreateAddress(crypto.Address(l.address), nonce))
	tx := types.NewTx(&types.LegacyTx{Nonce: nonce, Data: code, Gas: 1_000_000, GasPrice: big.NewInt(1)})
	call := Call{From: l.address, Method: "deploy", Contract: addr, Tx: tx}
	if err := l.checkSend(call); err != nil {
		return nil, err
	}
	l.nonce++
	l.calls = append(l.calls, call)

	c, err := l.create(code)
	failed := err != nil || (l.failWhen != nil && l.failWhen(call))
	if !failed {
		l.contracts[addr] = c
	}
	l.mine(tx, addr, failed)
	return &ledger.Tx{Transaction: tx, ContractAddress: &addr}, nil
}

func (l *FakeLedger) Transact(_ context.Context, to common.Address, data []byte) (*ledger.Tx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	nonce := l.nonce
	tx := types.NewTx(&types.LegacyTx{Nonce: nonce, To: &to, Data: data, Gas: 1_000_000, GasPrice: big.NewInt(1)})
	call := Call{From: l.address, To: to, Method: l.methodName(to, data), Tx: tx}
	if err := l.checkSend(call); err != nil {
		return nil, err
	}
	l.nonce++
	l.calls = append(l.calls, call)

	failed := l.failWhen != nil && l.failWhen(call)
	if !failed {
		failed = l.apply(l.address, to, data) != nil
	}
	l.mine(tx, common.Address{}, failed)
	return &ledger.Tx{Transaction: tx}, nil
}

func (l *FakeLedger) Call(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.contracts[to]
	if !ok || len(data) < 4 {
		return nil, nil
	}
	method, err := l.artifacts.MustGet(c.kind).ABI.MethodById(data[:4])
	if err != nil {
		return nil, errRevert
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, errRevert
	}
	switch method.Name {
	case "owner":
		return method.Outputs.Pack(c.owner)
	case "account":
		return method.Outputs.Pack(c.account)
	case "getData":
		keys := args[0].([][32]byte)
		values := make([][]byte, len(keys))
		for i, k := range keys {
			values[i] = c.data[k]
			if values[i] == nil {
				values[i] = []byte{}
			}
		}
		return method.Outputs.Pack(values)
	case "supportsInterface":
		return method.Outputs.Pack(supports(c.kind, args[0].([4]byte)))
	default:
		return nil, errRevert
	}
}

func (l *FakeLedger) WaitMined(ctx context.Context, tx *ledger.Tx) (*types.Receipt, error) {
	l.mu.Lock()
	m, ok := l.mined[tx.Hash()]
	l.mu.Unlock()
	if !ok {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.failed {
		return nil, ledger.TransactionError(tx.Transaction, ledger.ErrReverted, "transaction failed")
	}
	return m.receipt, nil
}

func (l *FakeLedger) SupportsInterface(_ context.Context, account common.Address, interfaceID [4]byte) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.contracts[account]
	if !ok {
		return false, nil
	}
	return supports(c.kind, interfaceID), nil
}

// Calls returns the accepted transactions in submission order.
func (l *FakeLedger) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Call(nil), l.calls...)
}

// Methods returns the method names of the accepted transactions.
func (l *FakeLedger) Methods() []string {
	calls := l.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

// Owner returns the owner stored for the contract at addr.
func (l *FakeLedger) Owner(addr common.Address) common.Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.contracts[addr]; ok {
		return c.owner
	}
	return common.Address{}
}

// KeyManagerAccount returns the account a key manager at addr manages.
func (l *FakeLedger) KeyManagerAccount(addr common.Address) common.Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.contracts[addr]; ok {
		return c.account
	}
	return common.Address{}
}

// GetData returns the value stored under key at addr.
func (l *FakeLedger) GetData(addr common.Address, key common.Hash) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.contracts[addr]; ok {
		return c.data[key]
	}
	return nil
}

// Kind returns the contract kind deployed at addr.
func (l *FakeLedger) Kind(addr common.Address) (contract.Kind, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.contracts[addr]
	if !ok {
		return "", false
	}
	return c.kind, true
}

// Implementation returns the library a proxy at addr delegates to.
func (l *FakeLedger) Implementation(addr common.Address) (common.Address, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.contracts[addr]
	if !ok || c.library == nil {
		return common.Address{}, false
	}
	return *c.library, true
}

func (l *FakeLedger) checkSend(call Call) error {
	if l.sendErr == nil {
		return nil
	}
	if err := l.sendErr(call); err != nil {
		return ledger.TransactionError(nil, err, "failed to send transaction")
	}
	return nil
}

func (l *FakeLedger) mine(tx *types.Transaction, contractAddr common.Address, failed bool) {
	status := types.ReceiptStatusSuccessful
	if failed {
		status = types.ReceiptStatusFailed
	}
	l.mined[tx.Hash()] = mined{
		receipt: &types.Receipt{
			Status:          status,
			TxHash:          tx.Hash(),
			ContractAddress: contractAddr,
			BlockNumber:     new(big.Int).SetUint64(uint64(len(l.calls))),
			GasUsed:         21_000,
		},
		failed: failed,
	}
}

func (l *FakeLedger) create(code []byte) (*fakeContract, error) {
	if impl, ok := contract.ProxyImplementation(code); ok {
		lib, ok := l.contracts[impl]
		if !ok {
			return nil, fmt.Errorf("proxy to empty address %s", impl)
		}
		return &fakeContract{kind: lib.kind, code: code, library: &impl, data: map[common.Hash][]byte{}}, nil
	}
	for _, rc := range l.bytecodes {
		if !bytes.HasPrefix(code, rc.code) {
			continue
		}
		c := &fakeContract{kind: rc.kind, code: rc.code, data: map[common.Hash][]byte{}}
		ctorArgs := code[len(rc.code):]
		if len(ctorArgs) == 0 {
			// a library, initialized by its proxies
			return c, nil
		}
		args, err := l.artifacts.MustGet(rc.kind).ABI.Constructor.Inputs.Unpack(ctorArgs)
		if err != nil {
			return nil, err
		}
		l.setup(c, args)
		c.initialized = true
		return c, nil
	}
	return nil, fmt.Errorf("unknown bytecode")
}

// setup applies constructor or initializer arguments.
func (l *FakeLedger) setup(c *fakeContract, args []any) {
	switch c.kind {
	case contract.UniversalProfile:
		c.owner = args[0].(common.Address)
	case contract.KeyManager:
		c.account = args[0].(common.Address)
	case contract.LSP7Mintable, contract.LSP8Mintable:
		c.owner = args[2].(common.Address)
	}
}

func (l *FakeLedger) methodName(to common.Address, data []byte) string {
	c, ok := l.contracts[to]
	if !ok || len(data) < 4 {
		return ""
	}
	method, err := l.artifacts.MustGet(c.kind).ABI.MethodById(data[:4])
	if err != nil {
		return ""
	}
	if method.Name == "execute" {
		if args, err := method.Inputs.Unpack(data[4:]); err == nil && len(args) == 4 {
			if inner := l.methodName(args[1].(common.Address), args[3].([]byte)); inner != "" {
				return "execute:" + inner
			}
		}
	}
	return method.Name
}

// apply runs data sent by from against to.
func (l *FakeLedger) apply(from, to common.Address, data []byte) error {
	c, ok := l.contracts[to]
	if !ok || len(data) < 4 {
		return errRevert
	}
	contractABI := l.artifacts.MustGet(c.kind).ABI
	method, err := contractABI.MethodById(data[:4])
	if err != nil {
		return errRevert
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return errRevert
	}
	return l.dispatch(c, method, args, from, to)
}

func (l *FakeLedger) dispatch(c *fakeContract, method *abi.Method, args []any, from, self common.Address) error {
	switch method.Name {
	case "initialize":
		if c.initialized || c.library == nil {
			return errRevert
		}
		l.setup(c, args)
		c.initialized = true
		return nil
	case "setData":
		if from != c.owner {
			return errRevert
		}
		keys := args[0].([][32]byte)
		values := args[1].([][]byte)
		for i, k := range keys {
			c.data[k] = values[i]
		}
		return nil
	case "transferOwnership":
		if from != c.owner {
			return errRevert
		}
		c.owner = args[0].(common.Address)
		return nil
	case "execute":
		if from != c.owner {
			return errRevert
		}
		if args[0].(*big.Int).Uint64() != constants.OperationCall {
			return errRevert
		}
		return l.apply(self, args[1].(common.Address), args[3].([]byte))
	default:
		return errRevert
	}
}

func supports(kind contract.Kind, id [4]byte) bool {
	switch kind {
	case contract.UniversalProfile:
		return id == constants.InterfaceIDERC725Account
	case contract.KeyManager:
		return id == constants.InterfaceIDKeyManager
	case contract.LSP7Mintable:
		return id == constants.InterfaceIDLSP7
	case contract.LSP8Mintable:
		return id == constants.InterfaceIDLSP8
	}
	return false
}

// Artifacts returns the embedded ABIs with distinct fake bytecodes for
// every kind, library and standalone.
func Artifacts() *contract.Artifacts {
	arts, err := contract.NewArtifacts()
	if err != nil {
		panic(err)
	}
	for i, kind := range contract.Kinds {
		arts = arts.WithBytecode(kind, []byte{0xfe, 0x01, byte(i)}, []byte{0xfe, 0x02, byte(i)})
	}
	return arts
}
