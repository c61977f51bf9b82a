// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pipeline

import (
	"context"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/metadata"
	"github.com/luxfi/geth/common"
)

const permissionsStage = "setData:permissions"

// Account deploys an account contract with its key manager.
type Account struct {
	shared *Shared
}

func NewAccount(shared *Shared) *Account {
	return &Account{shared: shared}
}

// Deploy runs the account pipeline and returns once every stage completed.
func (a *Account) Deploy(ctx context.Context, opts AccountOptions, copts DeployOptions) (deployment.DeployedContracts, error) {
	s, err := a.DeployStream(ctx, opts, copts)
	if err != nil {
		return nil, err
	}
	return run(ctx, s)
}

// DeployStream returns the account pipeline as a stream. Nothing is sent
// before the first subscription.
func (a *Account) DeployStream(ctx context.Context, opts AccountOptions, copts DeployOptions) (*deployment.Stream, error) {
	g, err := a.build(opts, copts)
	if err != nil {
		return nil, err
	}
	return deployment.NewStream(ctx, g, a.shared.logger())
}

func (a *Account) build(opts AccountOptions, copts DeployOptions) (*deployment.Graph, error) {
	sh := a.shared
	if err := sh.validate(); err != nil {
		return nil, err
	}
	if err := validateControllers(opts.ControllerAddresses); err != nil {
		return nil, err
	}
	controllers := append([]common.Address(nil), opts.ControllerAddresses...)
	signer := sh.Ledger.Address()

	account, err := newContractPlan(sh, AccountContractName, contract.UniversalProfile, copts.ContractOptions,
		func() []any { return []any{signer} })
	if err != nil {
		return nil, err
	}
	var keyManager *contractPlan
	keyManager, err = newContractPlan(sh, KeyManagerContractName, contract.KeyManager, copts.keyManager(),
		func() []any { return []any{account.address} })
	if err != nil {
		return nil, err
	}
	keyManager.deps = []string{account.deployStage()}

	var upload func(ctx context.Context) (*metadata.Encoded, error)
	if opts.Profile != nil {
		if err := opts.Profile.Validate(); err != nil {
			return nil, deployment.Configurationf("%w", err)
		}
		uploader, err := sh.uploader(copts.UploadOptions)
		if err != nil {
			return nil, err
		}
		profile := *opts.Profile
		upload = func(ctx context.Context) (*metadata.Encoded, error) {
			return uploader.UploadProfile(ctx, &profile, nil)
		}
	}
	profile, err := newMetadataPlan("LSP3Profile", constants.LSP3ProfileKey,
		opts.ProfileURL, opts.ProfileJSON, opts.Profile != nil, upload)
	if err != nil {
		return nil, err
	}

	st := &runState{}
	g := deployment.NewGraph()
	addProbeStage(g, sh, st)
	account.addStages(g, sh)
	keyManager.addStages(g, sh)

	ownershipDeps := []string{keyManager.readyStage(), permissionsStage}
	if profile != nil {
		profile.addStages(g, sh, st, account)
		ownershipDeps = append(ownershipDeps, profile.setDataStage())
	}

	g.Add(deployment.Node{
		Name:         permissionsStage,
		Deps:         []string{account.readyStage(), probeStage},
		ContractName: AccountContractName,
		FunctionName: functionSetData,
		Run: func(ctx context.Context, emit deployment.Emitter) error {
			keys, values := PermissionsData(controllers, constants.DefaultPermissions)
			data, err := account.artifact.PackSetData(keys, values)
			if err != nil {
				return deployment.Configurationf("%w", err)
			}
			_, err = ownerCall(ctx, emit, sh.Ledger, sh.Artifacts, st.target, AccountContractName, functionSetData, account.address, data)
			return err
		},
	})

	addTransferOwnershipStage(g, sh, st, account, func() common.Address { return keyManager.address }, ownershipDeps)
	return g, nil
}

func validateControllers(controllers []common.Address) error {
	if len(controllers) == 0 {
		return deployment.Configurationf("at least one controller address is required")
	}
	seen := make(map[common.Address]struct{}, len(controllers))
	for _, c := range controllers {
		if c == (common.Address{}) {
			return deployment.Configurationf("controller address must not be zero")
		}
		if _, ok := seen[c]; ok {
			return deployment.Configurationf("duplicate controller %s", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// PermissionsData returns the data keys and values registering controllers
// with mask: the AddressPermissions[] length, one array element per
// controller and the permission word of each.
func PermissionsData(controllers []common.Address, mask uint64) ([]common.Hash, [][]byte) {
	keys := make([]common.Hash, 0, 1+2*len(controllers))
	values := make([][]byte, 0, 1+2*len(controllers))

	keys = append(keys, constants.AddressPermissionsArrayKey)
	values = append(values, constants.EncodeUint256(uint64(len(controllers))))
	for i, c := range controllers {
		keys = append(keys, constants.AddressPermissionsIndexKey(uint64(i)))
		values = append(values, c.Bytes())
	}
	for _, c := range controllers {
		keys = append(keys, constants.PermissionsKey(c))
		values = append(values, constants.EncodePermissions(mask))
	}
	return keys, values
}
