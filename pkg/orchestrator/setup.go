// Package orchestrator configures bridge contracts across a set of networks:
// oracle registration, cross-chain fees, counterparty tokens and seed liquidity.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/chain"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common/iface"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/registry"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// Setup holds everything a run needs. All fields except Parallelism are required.
type Setup struct {
	Caller    chain.Caller
	Networks  *registry.NetworkRegistry
	Contracts *registry.ContractRegistry
	Account   *chain.Account
	Logger    iface.Logger

	Oracles []common.Address
	// TokenContract is the registry name of the ERC-20 the token bridge moves
	TokenContract string
	SeedAmount    *big.Int
	// Parallelism bounds how many networks are configured at once
	Parallelism int
}

// Validate checks that the selection only references known networks and
// contracts. It is meant to run before any network call.
func (s *Setup) Validate(sel Selection) error {
	var errs []error
	for _, id := range sel.Networks {
		if _, err := s.Networks.Lookup(id); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range sel.ContractNames() {
		if _, err := s.Contracts.Lookup(name); err != nil {
			errs = append(errs, err)
		}
		if name == TokenBridge {
			if _, err := s.Contracts.Lookup(s.TokenContract); err != nil {
				errs = append(errs, err)
			}
			if s.SeedAmount == nil {
				errs = append(errs, errors.New("no seed liquidity amount configured"))
			}
		}
	}
	if s.Account == nil {
		errs = append(errs, errors.New("no sender account"))
	}
	return errors.Join(errs...)
}

// Run executes the plan for sel. Pairs of one network run in order; networks
// run concurrently up to Parallelism. Failed steps never stop the sweep, and
// steps not started before ctx is cancelled are reported as skipped.
func (s *Setup) Run(ctx context.Context, sel Selection) *Report {
	report := &Report{Started: time.Now()}

	byNetwork := make([][]Pair, len(sel.Networks))
	for _, p := range Plan(sel) {
		byNetwork[p.NetworkIndex] = append(byNetwork[p.NetworkIndex], p)
	}
	results := make([][]StepResult, len(sel.Networks))

	limit := s.Parallelism
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, pairs := range byNetwork {
		g.Go(func() error {
			for _, pair := range pairs {
				results[i] = append(results[i], s.runPair(ctx, sel, pair)...)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		report.Results = append(report.Results, r...)
	}
	report.Finished = time.Now()
	return report
}

// pairRun collects the results of one pair
type pairRun struct {
	s       *Setup
	ctx     context.Context
	pair    Pair
	results []StepResult
}

// do runs fn unless the run was cancelled, and records the outcome
func (r *pairRun) do(res StepResult, fn func(ctx context.Context) (StepResult, error)) StepResult {
	res.Pair = r.pair
	if err := r.ctx.Err(); err != nil {
		res.Skipped = true
		res.Err = err
	} else {
		out, err := fn(r.ctx)
		out.Pair, out.Step, out.Method, out.Subject = res.Pair, res.Step, res.Method, res.Subject
		out.Err = err
		res = out
	}
	r.results = append(r.results, res)
	return res
}

func (r *pairRun) write(ctx context.Context, contract registry.Contract, to common.Address, method string, params ...any) (StepResult, error) {
	hash, err := r.s.Caller.Write(ctx, chain.Call{
		ChainID: r.pair.ChainID,
		To:      to,
		ABI:     contract.ABI,
		Method:  method,
		Params:  params,
	}, r.s.Account)
	return StepResult{TxHash: hash}, err
}

func (s *Setup) runPair(ctx context.Context, sel Selection, pair Pair) []StepResult {
	run := &pairRun{s: s, ctx: ctx, pair: pair}
	networkName := s.Networks.Name(pair.ChainID)
	s.Logger.Info("=============================================")
	s.Logger.Info("Preparing to set up contract %s at %s network...", pair.Contract, networkName)

	// Lookups were validated up front; a missing address only fails the steps that need it.
	bridge, _ := s.Contracts.Lookup(pair.Contract)
	bridgeAddr, bridgeErr := bridge.AddressOn(pair.ChainID)
	target, _ := s.Networks.Lookup(pair.ChainID)

	s.Logger.Info("Setting up oracles...")
	for _, oracle := range s.Oracles {
		res := run.do(StepResult{Step: StepOracle, Method: "setOperator", Subject: oracle.Hex()},
			func(ctx context.Context) (StepResult, error) {
				if bridgeErr != nil {
					return StepResult{}, bridgeErr
				}
				return run.write(ctx, bridge, bridgeAddr, "setOperator", oracle, true)
			})
		s.logOutcome(res, "- Set up oracle %s", oracle.Hex())
	}

	s.Logger.Info("Setting up cross-chain fee...")
	for k, other := range sel.Networks {
		if k == pair.NetworkIndex {
			continue
		}
		res := run.do(StepResult{Step: StepFee, Method: "setTxFee", Subject: fmt.Sprintf("%d (fee %d)", other, target.Fee)},
			func(ctx context.Context) (StepResult, error) {
				if bridgeErr != nil {
					return StepResult{}, bridgeErr
				}
				return run.write(ctx, bridge, bridgeAddr, "setTxFee", other, target.Fee)
			})
		s.logOutcome(res, "- Set up cross-chain fee from %s to %s", s.Networks.Name(other), networkName)
	}

	if pair.Contract != TokenBridge {
		return run.results
	}

	token, _ := s.Contracts.Lookup(s.TokenContract)
	tokenHere, tokenErr := token.AddressOn(pair.ChainID)
	if bridgeErr != nil {
		tokenErr = errors.Join(bridgeErr, tokenErr)
	}

	s.Logger.Info("Setting up connections with counterparty %s contracts...", s.TokenContract)
	for k, other := range sel.Networks {
		if k == pair.NetworkIndex {
			continue
		}
		res := run.do(StepResult{Step: StepCounterparty, Method: "setCurrencyAddress", Subject: s.Networks.Name(other)},
			func(ctx context.Context) (StepResult, error) {
				if tokenErr != nil {
					return StepResult{}, tokenErr
				}
				tokenThere, err := token.AddressOn(other)
				if err != nil {
					return StepResult{}, err
				}
				return run.write(ctx, bridge, bridgeAddr, "setCurrencyAddress", tokenHere, other, tokenThere)
			})
		s.logOutcome(res, "- Set up counterparty contract of %s (%s) at %s", s.TokenContract, networkName, s.Networks.Name(other))
	}

	var empty bool
	res := run.do(StepResult{Step: StepLiquidity, Method: "getLiquidity", Subject: s.TokenContract},
		func(ctx context.Context) (StepResult, error) {
			if tokenErr != nil {
				return StepResult{}, tokenErr
			}
			out, err := s.Caller.Read(ctx, chain.Call{
				ChainID: pair.ChainID,
				To:      bridgeAddr,
				ABI:     bridge.ABI,
				Method:  "getLiquidity",
				Params:  []any{tokenHere},
			})
			if err != nil {
				return StepResult{}, err
			}
			if len(out) == 0 {
				return StepResult{}, errors.New("getLiquidity returned no value")
			}
			liquidity := fmt.Sprint(out[0])
			empty = liquidity == "0"
			return StepResult{Detail: "liquidity " + liquidity}, nil
		})
	if res.Status() != StatusDone || !empty {
		if res.Status() == StatusFailed {
			s.Logger.Error("Reading liquidity of %s at %s failed: %v", pair.Contract, networkName, res.Err)
		}
		return run.results
	}

	res = run.do(StepResult{Step: StepSeed, Method: "transfer", Subject: s.SeedAmount.String()},
		func(ctx context.Context) (StepResult, error) {
			return run.write(ctx, token, tokenHere, "transfer", bridgeAddr, s.SeedAmount)
		})
	s.logOutcome(res, "Provide initial liquidity to %s at %s", pair.Contract, networkName)
	return run.results
}

func (s *Setup) logOutcome(res StepResult, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	switch res.Status() {
	case StatusDone:
		s.Logger.Info("%s: %s", msg, res.TxHash.Hex())
	case StatusSkipped:
		s.Logger.Warn("%s: skipped", msg)
	default:
		s.Logger.Error("%s: %v", msg, res.Err)
	}
}
