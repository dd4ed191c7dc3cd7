package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/chain"
)

// LoadAccount builds signing account n from the environment. PRIVATE_KEY_n wins
// over KEYSTORE_n; ADDRESS_n, when set, must match the key.
func LoadAccount(n int) (*chain.Account, error) {
	idx := strconv.Itoa(n)
	var (
		acct *chain.Account
		err  error
	)
	switch {
	case os.Getenv(PrivateKeyEnvPrefix+idx) != "":
		acct, err = chain.NewAccountFromHex(os.Getenv(PrivateKeyEnvPrefix + idx))
	case os.Getenv(KeystoreEnvPrefix+idx) != "":
		acct, err = chain.NewAccountFromKeystore(os.Getenv(KeystoreEnvPrefix+idx), os.Getenv(KeystorePasswordEnvPrefix+idx))
	default:
		return nil, fmt.Errorf("account %d: set %s%s or %s%s", n, PrivateKeyEnvPrefix, idx, KeystoreEnvPrefix, idx)
	}
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", n, err)
	}
	if err := acct.ExpectAddress(os.Getenv(AddressEnvPrefix + idx)); err != nil {
		return nil, fmt.Errorf("account %d: %w", n, err)
	}
	return acct, nil
}
