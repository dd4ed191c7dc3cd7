package deployinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `{
	"live": {
		"DFYToken": "0x20f1dE452e9057fe863b99d33CF82DBeE0C45B14",
		"FarmingFactory": {
			"proxy": "0x1000000000000000000000000000000000000001",
			"logic": "0x2000000000000000000000000000000000000002"
		}
	}
}`

func TestLoad_PlainAndProxyEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleRecord), 0644))

	store, err := Load(path)
	require.NoError(t, err)

	token, err := store.Address("live", "DFYToken")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x20f1dE452e9057fe863b99d33CF82DBeE0C45B14"), token)

	factory, err := store.Address("live", "FarmingFactory")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x1000000000000000000000000000000000000001"), factory)

	entry, ok := store.Entry("live", "FarmingFactory")
	require.True(t, ok)
	assert.True(t, entry.IsProxy())
	assert.Equal(t, common.HexToAddress("0x2000000000000000000000000000000000000002"), entry.Logic)

	_, err = store.Address("beta", "DFYToken")
	assert.ErrorIs(t, err, ErrNotRecorded)
	assert.Equal(t, []string{"DFYToken", "FarmingFactory"}, store.Contracts("live"))
}

func TestLoad_MissingFile(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "deploy.json"))
	require.NoError(t, err)
	assert.Empty(t, store.Contracts("live"))
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"live":{"X":"not-an-address"}}`), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid address")
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deploy.json")

	store, err := Load(path)
	require.NoError(t, err)
	store.SetAddress("dev2", "Lottery", common.HexToAddress("0x3000000000000000000000000000000000000003"))
	store.SetProxy("dev2", "LotteryProxy",
		common.HexToAddress("0x1000000000000000000000000000000000000001"),
		common.HexToAddress("0x2000000000000000000000000000000000000002"))
	require.NoError(t, store.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n\t\"dev2\": {")
	assert.Contains(t, string(raw), `"proxy": "0x1000000000000000000000000000000000000001"`)

	reloaded, err := Load(path)
	require.NoError(t, err)
	addr, err := reloaded.Address("dev2", "LotteryProxy")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x1000000000000000000000000000000000000001"), addr)

	// no temp files left next to the record
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_UnwritableDir(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "missing", "deploy.json"))
	require.NoError(t, err)
	store.SetAddress("dev2", "Lottery", common.HexToAddress("0x01"))

	assert.ErrorContains(t, store.Save(), "failed to write deploy record")
}
