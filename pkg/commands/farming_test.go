package commands

import (
	"fmt"
	"math/big"
	"path/filepath"
	"strings"
	"testing"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/farming"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/testutils"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	savingFarm = ethcommon.HexToAddress("0x0000000000000000000000000000000000005a01")
	lockFarm   = ethcommon.HexToAddress("0x0000000000000000000000000000000000010c01")
)

func (p *project) recordFarming(t *testing.T) {
	t.Helper()
	testutils.WriteFile(t, p.dir, "deploy.json", `{
	"dev2": {
		"FarmingFactory": {"proxy": "`+factoryAddr.Hex()+`", "logic": "0x00000000000000000000000000000000000fac71"},
		"DFYToken": "`+rewardToken.Hex()+`"
	}
}`)
}

func farmingChain() *fakeChain {
	fc := newFakeChain()
	fc.results["getSavingFarmingContract"] = []any{savingFarm}
	fc.results["getNumLockTypes"] = []any{big.NewInt(2)}
	fc.results["getLockFarmingContract"] = []any{lockFarm}
	return fc
}

func TestFarmingSetup_WrongEnvironment(t *testing.T) {
	p := newProject(t)
	p.recordFarming(t)
	fc := farmingChain()

	res := p.run(t, fc, "farming", "setup", "moon")
	require.Error(t, res.err)
	assert.Equal(t, 1, res.exitCode())
	assert.Equal(t, "Wrong environment!", res.err.Error())
	assert.Empty(t, fc.reads)
	assert.Empty(t, fc.writes)
}

func TestFarmingSetup_CreatesAndApproves(t *testing.T) {
	p := newProject(t)
	p.recordFarming(t)
	fc := farmingChain()
	output := filepath.Join(p.dir, "Farming-contracts.json")

	res := p.run(t, fc, "farming", "setup", "--output", output, "dev2")
	require.NoError(t, res.err, res.logger.String())

	// the saving farm exists already, so only lock farms are created
	assert.Empty(t, fc.writesTo("createSavingFarming"))
	locks := fc.writesTo("createLockFarming")
	require.Len(t, locks, 2)
	assert.Equal(t, "300", fmt.Sprint(locks[0].Params[0]))
	assert.Equal(t, "600", fmt.Sprint(locks[1].Params[0]))
	for _, c := range locks {
		assert.Equal(t, uint64(97), c.ChainID)
		assert.Equal(t, factoryAddr, c.To)
		assert.Equal(t, p.accounts[2].Address, c.Params[3])
	}

	approvals := fc.writesTo("approve")
	require.Len(t, approvals, 3)
	assert.Equal(t, savingFarm, approvals[0].Params[0])
	assert.Equal(t, lockFarm, approvals[1].Params[0])
	assert.Equal(t, rewardToken, approvals[0].To)
	assert.Equal(t, "500", fmt.Sprint(approvals[0].Params[1]))

	assert.Contains(t, strings.ToLower(res.out), strings.ToLower(savingFarm.Hex()))
	assert.True(t, res.logger.Contains("Dev2 farms on BSC Testnet"))

	file, err := farming.LoadFarmsFile(output)
	require.NoError(t, err)
	farms, err := file.Contracts()
	require.NoError(t, err)
	assert.Len(t, farms, 3)
}

func TestFarmingSetup_SkipCreate(t *testing.T) {
	p := newProject(t)
	p.recordFarming(t)
	fc := farmingChain()

	res := p.run(t, fc, "farming", "setup", "--skip-create", "dev2")
	require.NoError(t, res.err)
	assert.Empty(t, fc.writesTo("createLockFarming"))
	assert.Len(t, fc.writesTo("approve"), 3)
}

func TestFarmingSetup_MissingDeployRecord(t *testing.T) {
	p := newProject(t)
	fc := farmingChain()

	res := p.run(t, fc, "farming", "setup", "staging")
	require.Error(t, res.err)
	assert.Equal(t, 1, res.exitCode())
	assert.Contains(t, res.err.Error(), FarmingFactoryName)
	assert.Empty(t, fc.writes)
}
