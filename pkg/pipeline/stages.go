// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pipeline

import (
	"context"
	"fmt"

	"github.com/luxfi/assetfactory/pkg/contract"
	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/metadata"
	"github.com/luxfi/assetfactory/pkg/resolver"
	"github.com/luxfi/geth/common"
)

const (
	probeStage = "probe:signer"

	functionInitialize        = "initialize"
	functionSetData           = "setData"
	functionTransferOwnership = "transferOwnership"
	functionUpload            = "upload"
)

// runState carries values between stages of one run. Every field is written
// by exactly one stage and read only by stages depending on it.
type runState struct {
	target OwnershipTarget
}

func addProbeStage(g *deployment.Graph, sh *Shared, st *runState) {
	g.Add(deployment.Node{
		Name: probeStage,
		Run: func(ctx context.Context, _ deployment.Emitter) error {
			target, err := ProbeOwnershipTarget(ctx, sh.Ledger)
			if err != nil {
				return err
			}
			st.target = target
			return nil
		},
	})
}

// contractPlan deploys one contract, behind a proxy or standalone.
type contractPlan struct {
	name     string
	kind     contract.Kind
	opts     ContractOptions
	artifact *contract.Artifact
	// args are the constructor or initializer arguments, evaluated when the
	// contract is deployed.
	args func() []any
	// deps must complete before the contract is deployed.
	deps []string

	standaloneCode []byte
	decision       resolver.Decision
	library        common.Address
	address        common.Address
}

func newContractPlan(sh *Shared, name string, kind contract.Kind, opts ContractOptions, args func() []any) (*contractPlan, error) {
	art, err := sh.Artifacts.Get(kind)
	if err != nil {
		return nil, deployment.Configurationf("%w", err)
	}
	p := &contractPlan{name: name, kind: kind, opts: opts, artifact: art, args: args}
	if opts.standalone() {
		d, err := sh.resolver().Standalone(p.request())
		if err != nil {
			return nil, err
		}
		p.standaloneCode = d.Bytecode
		return p, nil
	}
	if err := sh.resolver().Check(p.request()); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *contractPlan) request() resolver.Request {
	return resolver.Request{
		Kind:        p.kind,
		Version:     p.opts.Version,
		LibAddress:  p.opts.LibAddress,
		ByteCode:    p.opts.ByteCode,
		DeployProxy: p.opts.proxy(),
	}
}

func (p *contractPlan) resolveStage() string { return "resolve:" + p.name }
func (p *contractPlan) libraryStage() string { return "deploy:" + LibraryName(p.name) }
func (p *contractPlan) deployStage() string  { return "deploy:" + p.name }
func (p *contractPlan) initStage() string    { return "initialize:" + p.name }

// readyStage is the stage after which the contract is deployed and
// initialized.
func (p *contractPlan) readyStage() string {
	if p.standaloneCode != nil {
		return p.deployStage()
	}
	return p.initStage()
}

// addStages adds the deployment stages of p. Standalone contracts get a
// single deploy stage; proxies are resolved, get their library if needed,
// are deployed and then initialized.
func (p *contractPlan) addStages(g *deployment.Graph, sh *Shared) {
	if p.standaloneCode != nil {
		g.Add(deployment.Node{
			Name:         p.deployStage(),
			Deps:         p.deps,
			ContractName: p.name,
			Run: func(ctx context.Context, emit deployment.Emitter) error {
				code, err := p.artifact.CreationCode(p.standaloneCode, p.args()...)
				if err != nil {
					return deployment.Configurationf("%w", err)
				}
				receipt, err := deployment.DeployContract(ctx, emit, sh.Ledger, p.name, code)
				if err != nil {
					return err
				}
				p.address = receipt.ContractAddress
				return nil
			},
		})
		return
	}

	g.Add(deployment.Node{
		Name:         p.resolveStage(),
		ContractName: p.name,
		Kind:         deployment.ErrConfiguration,
		Run: func(ctx context.Context, _ deployment.Emitter) error {
			d, err := sh.resolver().Resolve(ctx, p.request())
			if err != nil {
				return err
			}
			p.decision = d
			return nil
		},
	})

	g.Add(deployment.Node{
		Name:         p.libraryStage(),
		Deps:         []string{p.resolveStage()},
		ContractName: LibraryName(p.name),
		Run: func(ctx context.Context, emit deployment.Emitter) error {
			switch p.decision.Mode {
			case resolver.ReuseLibrary:
				p.library = *p.decision.Address
				return nil
			case resolver.DeployLibrary:
				receipt, err := deployment.DeployContract(ctx, emit, sh.Ledger, LibraryName(p.name), p.decision.Bytecode)
				if err != nil {
					return err
				}
				p.library = receipt.ContractAddress
				return nil
			default:
				return fmt.Errorf("%w: unexpected resolution %s for proxy %s", deployment.ErrConfiguration, p.decision.Mode, p.name)
			}
		},
	})

	g.Add(deployment.Node{
		Name:         p.deployStage(),
		Deps:         append([]string{p.libraryStage()}, p.deps...),
		ContractName: p.name,
		Run: func(ctx context.Context, emit deployment.Emitter) error {
			receipt, err := deployment.DeployContract(ctx, emit, sh.Ledger, p.name, contract.MinimalProxyInitCode(p.library))
			if err != nil {
				return err
			}
			p.address = receipt.ContractAddress
			return nil
		},
	})

	g.Add(deployment.Node{
		Name:         p.initStage(),
		Deps:         []string{p.deployStage()},
		ContractName: p.name,
		FunctionName: functionInitialize,
		Run: func(ctx context.Context, emit deployment.Emitter) error {
			data, err := p.artifact.Pack(functionInitialize, p.args()...)
			if err != nil {
				return deployment.Configurationf("%w", err)
			}
			_, err = deployment.SendTransaction(ctx, emit, sh.Ledger, p.name, functionInitialize, p.address, data)
			return err
		},
	})
}

// metadataPlan publishes a metadata document and stores its JSONURL under
// key on the owning contract.
type metadataPlan struct {
	name    string
	key     common.Hash
	upload  func(ctx context.Context) (*metadata.Encoded, error)
	encoded *metadata.Encoded
}

func (m *metadataPlan) uploadStage() string  { return "upload:" + m.name }
func (m *metadataPlan) setDataStage() string { return "setData:" + m.name }

// addStages adds the upload stage, when needed, and the setData stage on
// owner.
func (m *metadataPlan) addStages(g *deployment.Graph, sh *Shared, st *runState, owner *contractPlan) {
	deps := []string{owner.readyStage(), probeStage}
	if m.upload != nil {
		g.Add(deployment.Node{
			Name:         m.uploadStage(),
			ContractName: owner.name,
			FunctionName: functionUpload,
			Kind:         deployment.ErrUploadFailure,
			Run: func(ctx context.Context, _ deployment.Emitter) error {
				enc, err := m.upload(ctx)
				if err != nil {
					return err
				}
				m.encoded = enc
				return nil
			},
		})
		deps = append(deps, m.uploadStage())
	}
	g.Add(deployment.Node{
		Name:         m.setDataStage(),
		Deps:         deps,
		ContractName: owner.name,
		FunctionName: functionSetData,
		Run: func(ctx context.Context, emit deployment.Emitter) error {
			data, err := owner.artifact.PackSetData([]common.Hash{m.key}, [][]byte{m.encoded.Value})
			if err != nil {
				return deployment.Configurationf("%w", err)
			}
			_, err = ownerCall(ctx, emit, sh.Ledger, sh.Artifacts, st.target, owner.name, functionSetData, owner.address, data)
			return err
		},
	})
}

// newMetadataPlan returns nil when neither raw metadata nor a published
// document is given.
func newMetadataPlan(
	name string,
	key common.Hash,
	url string,
	json []byte,
	hasRaw bool,
	upload func(ctx context.Context) (*metadata.Encoded, error),
) (*metadataPlan, error) {
	switch {
	case url != "" || len(json) > 0:
		if hasRaw {
			return nil, deployment.Configurationf("%s: pass either metadata or a published url, not both", name)
		}
		if url == "" || len(json) == 0 {
			return nil, deployment.Configurationf("%s: published metadata needs both url and json", name)
		}
		enc, err := metadata.FromURL(json, url)
		if err != nil {
			return nil, deployment.Configurationf("%w", err)
		}
		return &metadataPlan{name: name, key: key, encoded: enc}, nil
	case hasRaw:
		return &metadataPlan{name: name, key: key, upload: upload}, nil
	default:
		return nil, nil
	}
}

// addTransferOwnershipStage hands owner over to newOwner once deps are done.
func addTransferOwnershipStage(
	g *deployment.Graph,
	sh *Shared,
	st *runState,
	owner *contractPlan,
	newOwner func() common.Address,
	deps []string,
) {
	g.Add(deployment.Node{
		Name:         "transferOwnership:" + owner.name,
		Deps:         append([]string{owner.readyStage(), probeStage}, deps...),
		ContractName: owner.name,
		FunctionName: functionTransferOwnership,
		Run: func(ctx context.Context, emit deployment.Emitter) error {
			data, err := owner.artifact.PackTransferOwnership(newOwner())
			if err != nil {
				return deployment.Configurationf("%w", err)
			}
			_, err = ownerCall(ctx, emit, sh.Ledger, sh.Artifacts, st.target, owner.name, functionTransferOwnership, owner.address, data)
			return err
		},
	})
}
