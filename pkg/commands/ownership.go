package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/chain"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/farming"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

var OwnershipCommand = &cli.Command{
	Name:  "ownership",
	Usage: "Hands contract ownership over to the multisig",
	Subcommands: []*cli.Command{
		OwnershipTransferCommand,
		OwnershipTransferFarmsCommand,
	},
}

var toFlag = &cli.StringFlag{
	Name:  "to",
	Usage: "New owner (defaults to $" + common.GnosisSafeEnv + ")",
}

var OwnershipTransferCommand = &cli.Command{
	Name:  "transfer",
	Usage: "Transfers ownership of a contract from the deploy record",
	Flags: append([]cli.Flag{
		common.EnvironmentFlag,
		&cli.StringFlag{
			Name:     "contract",
			Usage:    "Contract name in the deploy record",
			Required: true,
		},
		toFlag,
		networkFlag,
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		env := cCtx.String("env")
		name := cCtx.String("contract")

		owner, err := newOwner(cCtx)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return err
		}
		record, err := loadDeployRecord(cfg)
		if err != nil {
			return err
		}
		target, err := record.Address(env, name)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		t, err := newTransferer(cCtx, cfg, env)
		if err != nil {
			return err
		}
		defer t.client.Close()

		if err := t.transfer(cCtx, name, target, owner); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return nil
	},
}

var OwnershipTransferFarmsCommand = &cli.Command{
	Name:  "transfer-farms",
	Usage: "Transfers ownership of every SavingFarming and LockFarming contract in a farms file",
	Flags: append([]cli.Flag{
		common.EnvironmentFlag,
		&cli.StringFlag{
			Name:  "farms",
			Usage: "Farms file written by `farming setup --output`",
			Value: "Farming-contracts.json",
		},
		toFlag,
		networkFlag,
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)
		env := cCtx.String("env")

		owner, err := newOwner(cCtx)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		file, err := farming.LoadFarmsFile(cCtx.String("farms"))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		farms, err := file.Contracts()
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return err
		}

		t, err := newTransferer(cCtx, cfg, env)
		if err != nil {
			return err
		}
		defer t.client.Close()

		var errs []error
		for _, farm := range farms {
			if err := cCtx.Context.Err(); err != nil {
				errs = append(errs, err)
				break
			}
			if err := t.transfer(cCtx, farm.Kind, farm.Address, owner); err != nil {
				errs = append(errs, err)
			}
		}
		if err := errors.Join(errs...); err != nil {
			return cli.Exit(fmt.Sprintf("%d of %d transfer(s) failed", len(errs), len(farms)), 1)
		}
		logger.Info("Ownership of %d farm(s) transferred to %s", len(farms), owner.Hex())
		return nil
	},
}

func newOwner(cCtx *cli.Context) (ethcommon.Address, error) {
	if cCtx.IsSet("to") {
		return parseAddress("--to", cCtx.String("to"))
	}
	safe := os.Getenv(common.GnosisSafeEnv)
	if safe == "" {
		return ethcommon.Address{}, fmt.Errorf("no new owner: pass --to or set %s", common.GnosisSafeEnv)
	}
	return parseAddress(common.GnosisSafeEnv, safe)
}

type transferer struct {
	client  Chain
	account *chain.Account
	chainID uint64
}

func newTransferer(cCtx *cli.Context, cfg *common.Config, env string) (*transferer, error) {
	networks, err := cfg.NetworkRegistry()
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	account, err := loadAccount(cCtx, common.DeployerAccount)
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	return &transferer{
		client:  openChain(cCtx, networks),
		account: account,
		chainID: networkFor(cCtx, env),
	}, nil
}

func (t *transferer) transfer(cCtx *cli.Context, name string, target, owner ethcommon.Address) error {
	logger := common.LoggerFromContext(cCtx.Context)
	logger.Info("Changing ownership of %s at %s to %s", name, target.Hex(), owner.Hex())
	hash, err := t.client.Write(cCtx.Context, chain.Call{
		ChainID: t.chainID,
		To:      target,
		ABI:     ownableABI,
		Method:  "transferOwnership",
		Params:  []any{owner},
	}, t.account)
	if err != nil {
		logger.Error("transferOwnership of %s at %s failed: %v", name, target.Hex(), err)
		return fmt.Errorf("%s at %s: %w", name, target.Hex(), err)
	}
	logger.Debug("transferOwnership tx %s", hash.Hex())
	return nil
}
