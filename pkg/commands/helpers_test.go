package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"sync"
	"testing"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/chain"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/registry"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/testutils"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const (
	bridgeABIJSON = `[
		{"type":"function","name":"setOperator","stateMutability":"nonpayable","inputs":[{"name":"operator","type":"address"},{"name":"isOperator","type":"bool"}],"outputs":[]},
		{"type":"function","name":"setTxFee","stateMutability":"nonpayable","inputs":[{"name":"chainId","type":"uint256"},{"name":"fee","type":"uint256"}],"outputs":[]},
		{"type":"function","name":"setCurrencyAddress","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"},{"name":"chainId","type":"uint256"},{"name":"counterparty","type":"address"}],"outputs":[]},
		{"type":"function","name":"getLiquidity","stateMutability":"view","inputs":[{"name":"token","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}]`

	tokenABIJSON = `[
		{"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"supply","type":"uint256"}]},
		{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}]`

	factoryABIJSON = `[
		{"type":"function","name":"getSavingFarmingContract","stateMutability":"view","inputs":[{"name":"lpToken","type":"address"}],"outputs":[{"name":"","type":"address"}]},
		{"type":"function","name":"getLockFarmingContract","stateMutability":"view","inputs":[{"name":"lpToken","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
		{"type":"function","name":"getNumLockTypes","stateMutability":"view","inputs":[{"name":"lpToken","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"createSavingFarming","stateMutability":"nonpayable","inputs":[{"name":"lpToken","type":"address"},{"name":"rewardToken","type":"address"},{"name":"rewardWallet","type":"address"},{"name":"totalRewardPerMonth","type":"uint256"}],"outputs":[]},
		{"type":"function","name":"createLockFarming","stateMutability":"nonpayable","inputs":[{"name":"duration","type":"uint256"},{"name":"lpToken","type":"address"},{"name":"rewardToken","type":"address"},{"name":"rewardWallet","type":"address"},{"name":"totalRewardPerMonth","type":"uint256"}],"outputs":[]}]`
)

var (
	bridgeBSC     = ethcommon.HexToAddress("0x00000000000000000000000000000000000b5c01")
	bridgeTestnet = ethcommon.HexToAddress("0x00000000000000000000000000000000000b5c02")
	factoryAddr   = ethcommon.HexToAddress("0x00000000000000000000000000000000000fac70")
	rewardToken   = ethcommon.HexToAddress("0x00000000000000000000000000000000000df701")
	lpToken       = ethcommon.HexToAddress("0xebeef1602b553ce64a875128584b81046025748d")
)

// fakeChain records every call instead of sending it
type fakeChain struct {
	mu         sync.Mutex
	reads      []chain.Call
	writes     []chain.Call
	senders    []ethcommon.Address
	results    map[string][]any
	failOn     map[string]error
	deployed   ethcommon.Address
	deployArgs []any
	impl       ethcommon.Address
	closed     bool
}

func newFakeChain() *fakeChain {
	return &fakeChain{results: map[string][]any{}, failOn: map[string]error{}}
}

func (f *fakeChain) Read(_ context.Context, call chain.Call) ([]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, call)
	if err := f.failOn[call.Method]; err != nil {
		return nil, err
	}
	out, ok := f.results[call.Method]
	if !ok {
		return nil, fmt.Errorf("no result for %s", call.Method)
	}
	return out, nil
}

func (f *fakeChain) Write(_ context.Context, call chain.Call, from *chain.Account) (ethcommon.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if from == nil {
		return ethcommon.Hash{}, errors.New("no sender account")
	}
	f.writes = append(f.writes, call)
	f.senders = append(f.senders, from.Address)
	if err := f.failOn[call.Method]; err != nil {
		return ethcommon.Hash{}, err
	}
	return ethcommon.BigToHash(big.NewInt(int64(len(f.writes)))), nil
}

func (f *fakeChain) Deploy(_ context.Context, _ uint64, _ *registry.Artifact, _ *chain.Account, params ...any) (ethcommon.Address, ethcommon.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deployArgs = params
	if err := f.failOn["deploy"]; err != nil {
		return ethcommon.Address{}, ethcommon.Hash{}, err
	}
	return f.deployed, ethcommon.HexToHash("0xd1"), nil
}

func (f *fakeChain) ImplementationAddress(context.Context, uint64, ethcommon.Address) (ethcommon.Address, error) {
	return f.impl, nil
}

func (f *fakeChain) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeChain) writesTo(method string) []chain.Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []chain.Call
	for _, c := range f.writes {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// project is a temp dir with config, artifacts and a deploy record
type project struct {
	dir        string
	configPath string
	recordPath string
	accounts   map[int]*chain.Account
}

func newProject(t *testing.T) *project {
	t.Helper()
	dir := t.TempDir()
	p := &project{dir: dir, recordPath: filepath.Join(dir, "deploy.json"), accounts: map[int]*chain.Account{}}

	bridge := testutils.WriteFile(t, dir, "artifacts/Bridge.json", testutils.ArtifactJSON("Bridge", bridgeABIJSON, ""))
	token := testutils.WriteFile(t, dir, "artifacts/Token.json", testutils.ArtifactJSON("CryptiaToken", tokenABIJSON, "0x6000"))
	factory := testutils.WriteFile(t, dir, "artifacts/FarmingFactory.json", testutils.ArtifactJSON("FarmingFactory", factoryABIJSON, ""))

	p.configPath = testutils.WriteFile(t, dir, "config/opskit.yaml", fmt.Sprintf(`
version: test
deploy_record: %[1]s
parallelism: 2
oracles:
  - "0x06bcf4fc5F1a6c835fb70B66E8870dD6DE7549fa"
networks:
  - chain_id: 97
    name: BSC Testnet
    rpc_url: http://127.0.0.1:1
    fee: 50
  - chain_id: 56
    name: Binance Smart Chain
    rpc_url: http://127.0.0.1:2
    fee: 300
bridge:
  token_contract: ERC_20
  seed_liquidity: "1000"
contracts:
  - name: BRIDGE_721
    artifact: %[2]s
    addresses:
      "56": "%[5]s"
      "97": "%[6]s"
  - name: BRIDGE_20
    artifact: %[2]s
    addresses:
      "56": "%[5]s"
  - name: ERC_20
    artifact: %[3]s
    addresses: {}
environments: [dev2, staging, beta, pre-live, live]
farming:
  factory_artifact: %[4]s
  token_artifact: %[3]s
  approve_amount: "500"
  total_reward_per_month: "20"
  lock_types: 2
  lp_tokens:
    - pair: "%[7]s"
      router: "0x10ed43c718714eb63d5aa57b78b54704e256024e"
`, p.recordPath, bridge, token, factory, bridgeBSC.Hex(), bridgeTestnet.Hex(), lpToken.Hex()))

	for _, n := range []int{common.DeployerAccount, common.RewardWalletAccount} {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		p.accounts[n] = chain.NewAccount(key)
	}
	return p
}

func (p *project) loadAccount(n int) (*chain.Account, error) {
	acc, ok := p.accounts[n]
	if !ok {
		return nil, fmt.Errorf("account %d not configured", n)
	}
	return acc, nil
}

type runResult struct {
	err    error
	out    string
	logger *testutils.RecordingLogger
}

// exitCode returns the code an ExitCoder error would exit with, 0 for nil
func (r runResult) exitCode() int {
	if r.err == nil {
		return 0
	}
	var coder cli.ExitCoder
	if errors.As(r.err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// run executes opskit with args against the project config and fake chain
func (p *project) run(t *testing.T, fc *fakeChain, args ...string) runResult {
	t.Helper()
	var out bytes.Buffer
	logger := &testutils.RecordingLogger{}

	app := &cli.App{
		Name:                      "opskit",
		Flags:                     common.GlobalFlags,
		Writer:                    &out,
		ErrWriter:                 &out,
		ExitErrHandler:            func(*cli.Context, error) {},
		DisableSliceFlagSeparator: true,
		Commands: []*cli.Command{
			InitCommand,
			SetupContractsCommand,
			FarmingCommand,
			OperatorCommand,
			OwnershipCommand,
			DeployCommand,
			ReadCommand,
			ConfigCommand,
		},
	}

	ctx := common.WithLogger(context.Background(), logger)
	ctx = WithChain(ctx, fc)
	ctx = WithAccounts(ctx, p.loadAccount)

	full := append([]string{"opskit", "--config", p.configPath}, args...)
	err := app.RunContext(ctx, full)
	return runResult{err: err, out: out.String(), logger: logger}
}
