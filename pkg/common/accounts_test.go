package common

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAccount(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	t.Setenv("PRIVATE_KEY_1", hex.EncodeToString(crypto.FromECDSA(key)))
	t.Setenv("ADDRESS_1", addr.Hex())

	acct, err := LoadAccount(DeployerAccount)
	require.NoError(t, err)
	assert.Equal(t, addr, acct.Address)

	t.Setenv("ADDRESS_1", "0x06bcf4fc5F1a6c835fb70B66E8870dD6DE7549fa")
	_, err = LoadAccount(DeployerAccount)
	assert.ErrorContains(t, err, "private key belongs to")
}

func TestLoadAccount_Missing(t *testing.T) {
	t.Setenv("PRIVATE_KEY_2", "")
	t.Setenv("KEYSTORE_2", "")

	_, err := LoadAccount(RewardWalletAccount)
	assert.ErrorContains(t, err, "set PRIVATE_KEY_2 or KEYSTORE_2")
}
