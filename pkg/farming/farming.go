// Package farming creates SavingFarming and LockFarming pools through the
// FarmingFactory and approves the reward token for every pool.
package farming

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/chain"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common/iface"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrWrongEnvironment is returned for an environment outside the supported set
var ErrWrongEnvironment = errors.New("Wrong environment!")

const (
	bscMainnet = 56
	bscTestnet = 97

	liveLockPeriod = 3 * 30 * 24 * 60 * 60
	testLockPeriod = 5 * 60
)

// ChainFor returns the chain an environment's farms live on
func ChainFor(env string) uint64 {
	if env == "pre-live" || env == "live" {
		return bscMainnet
	}
	return bscTestnet
}

// LockPeriod is the shortest lock duration in seconds. Lock type j locks for (j+1) periods.
func LockPeriod(env string) int64 {
	if env == "live" {
		return liveLockPeriod
	}
	return testLockPeriod
}

type Params struct {
	Environment   string
	SupportedEnvs []string

	Factory    common.Address
	FactoryABI abi.ABI
	Token      common.Address
	TokenABI   abi.ABI

	LPTokens            []common.Address
	LockTypes           int
	TotalRewardPerMonth *big.Int
	ApproveAmount       *big.Int

	Deployer     *chain.Account
	RewardWallet *chain.Account
}

// Pool lists the farms created for one LP token
type Pool struct {
	LPToken       common.Address   `json:"lpToken"`
	SavingFarming common.Address   `json:"savingFarming"`
	LockFarming   []common.Address `json:"lockFarming"`
}

type Farmer struct {
	caller  chain.Caller
	logger  iface.Logger
	params  Params
	chainID uint64
}

func NewFarmer(caller chain.Caller, logger iface.Logger, params Params) (*Farmer, error) {
	if !slices.Contains(params.SupportedEnvs, params.Environment) {
		return nil, ErrWrongEnvironment
	}
	return &Farmer{
		caller:  caller,
		logger:  logger,
		params:  params,
		chainID: ChainFor(params.Environment),
	}, nil
}

func (f *Farmer) ChainID() uint64 {
	return f.chainID
}

func (f *Farmer) readFactory(ctx context.Context, method string, params ...any) (common.Address, error) {
	out, err := f.caller.Read(ctx, chain.Call{
		ChainID: f.chainID,
		To:      f.params.Factory,
		ABI:     f.params.FactoryABI,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("%s returned no value", method)
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s returned %T, want address", method, out[0])
	}
	return addr, nil
}

func (f *Farmer) writeFactory(ctx context.Context, method string, params ...any) error {
	_, err := f.caller.Write(ctx, chain.Call{
		ChainID: f.chainID,
		To:      f.params.Factory,
		ABI:     f.params.FactoryABI,
		Method:  method,
		Params:  params,
	}, f.params.Deployer)
	return err
}

// CreatePools creates the missing SavingFarming pool of every LP token and
// one LockFarming pool per lock type. A failed call is logged and the
// remaining pools are still attempted; all failures are returned together.
func (f *Farmer) CreatePools(ctx context.Context) error {
	f.logger.Info("=============DEPLOY===================")
	period := LockPeriod(f.params.Environment)
	p := f.params

	var errs []error
	for _, lp := range p.LPTokens {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		saving, err := f.readFactory(ctx, "getSavingFarmingContract", lp)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("getSavingFarmingContract(%s): %w", lp.Hex(), err))
		case saving != (common.Address{}):
			f.logger.Info("SavingFarming pool of LP Token %s has already been created before at %s!", lp.Hex(), saving.Hex())
		default:
			f.logger.Info("Creating SavingFarming pool for LP Token at %s...", lp.Hex())
			if err := f.writeFactory(ctx, "createSavingFarming", lp, p.Token, p.RewardWallet.Address, p.TotalRewardPerMonth); err != nil {
				errs = append(errs, fmt.Errorf("createSavingFarming(%s): %w", lp.Hex(), err))
			}
		}

		f.logger.Info("Creating LockFarming pool for LP Token at %s...", lp.Hex())
		for j := 0; j < p.LockTypes; j++ {
			duration := big.NewInt(int64(j+1) * period)
			if err := f.writeFactory(ctx, "createLockFarming", duration, lp, p.Token, p.RewardWallet.Address, p.TotalRewardPerMonth); err != nil {
				errs = append(errs, fmt.Errorf("createLockFarming(%s, %s): %w", duration, lp.Hex(), err))
			}
		}
	}
	return errors.Join(errs...)
}

func (f *Farmer) approve(ctx context.Context, spender common.Address) error {
	_, err := f.caller.Write(ctx, chain.Call{
		ChainID: f.chainID,
		To:      f.params.Token,
		ABI:     f.params.TokenABI,
		Method:  "approve",
		Params:  []any{spender, f.params.ApproveAmount},
	}, f.params.RewardWallet)
	return err
}

// ApproveRewards lets every farm of every LP token pull rewards from the
// reward wallet and returns the farms it found.
func (f *Farmer) ApproveRewards(ctx context.Context) ([]Pool, error) {
	f.logger.Info("==============SETUP===================")

	var (
		pools []Pool
		errs  []error
	)
	for _, lp := range f.params.LPTokens {
		if err := ctx.Err(); err != nil {
			return pools, errors.Join(append(errs, err)...)
		}
		f.logger.Info("LpToken: %s", lp.Hex())
		saving, err := f.readFactory(ctx, "getSavingFarmingContract", lp)
		if err != nil {
			errs = append(errs, fmt.Errorf("getSavingFarmingContract(%s): %w", lp.Hex(), err))
			continue
		}
		pool := Pool{LPToken: lp, SavingFarming: saving, LockFarming: []common.Address{}}

		f.logger.Info("Approving reward token for SavingFarming contract at %s...", saving.Hex())
		if err := f.approve(ctx, saving); err != nil {
			errs = append(errs, fmt.Errorf("approve(%s): %w", saving.Hex(), err))
		}

		numLockTypes, err := f.numLockTypes(ctx, lp)
		if err != nil {
			errs = append(errs, fmt.Errorf("getNumLockTypes(%s): %w", lp.Hex(), err))
			pools = append(pools, pool)
			continue
		}
		for j := uint64(0); j < numLockTypes; j++ {
			lock, err := f.readFactory(ctx, "getLockFarmingContract", lp, j)
			if err != nil {
				errs = append(errs, fmt.Errorf("getLockFarmingContract(%s, %d): %w", lp.Hex(), j, err))
				continue
			}
			pool.LockFarming = append(pool.LockFarming, lock)
			f.logger.Info("Approving reward token for LockFarming contract at %s...", lock.Hex())
			if err := f.approve(ctx, lock); err != nil {
				errs = append(errs, fmt.Errorf("approve(%s): %w", lock.Hex(), err))
			}
		}
		pools = append(pools, pool)
	}
	return pools, errors.Join(errs...)
}

func (f *Farmer) numLockTypes(ctx context.Context, lp common.Address) (uint64, error) {
	out, err := f.caller.Read(ctx, chain.Call{
		ChainID: f.chainID,
		To:      f.params.Factory,
		ABI:     f.params.FactoryABI,
		Method:  "getNumLockTypes",
		Params:  []any{lp},
	})
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, errors.New("getNumLockTypes returned no value")
	}
	return chain.ToUint64(out[0])
}
