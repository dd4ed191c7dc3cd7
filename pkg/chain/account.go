package chain

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Account is a sender that signs transactions locally
type Account struct {
	Address common.Address
	key     *ecdsa.PrivateKey
}

func NewAccountFromHex(privateKeyHex string) (*Account, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return NewAccount(privateKey), nil
}

// NewAccountFromKeystore decrypts a go-ethereum (web3 v3) keystore file
func NewAccountFromKeystore(path, password string) (*Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}
	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}
	return NewAccount(key.PrivateKey), nil
}

func NewAccount(privateKey *ecdsa.PrivateKey) *Account {
	return &Account{
		Address: crypto.PubkeyToAddress(privateKey.PublicKey),
		key:     privateKey,
	}
}

// ExpectAddress fails when the account does not sign for the expected address
func (a *Account) ExpectAddress(expected string) error {
	if expected == "" {
		return nil
	}
	if !common.IsHexAddress(expected) {
		return fmt.Errorf("invalid address %q", expected)
	}
	if common.HexToAddress(expected) != a.Address {
		return fmt.Errorf("private key belongs to %s, not %s", a.Address.Hex(), expected)
	}
	return nil
}
