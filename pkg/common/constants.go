package common

// Environment variables read for credentials, suffixed with the account index
const (
	AddressEnvPrefix          = "ADDRESS_"
	PrivateKeyEnvPrefix       = "PRIVATE_KEY_"
	KeystoreEnvPrefix         = "KEYSTORE_"
	KeystorePasswordEnvPrefix = "KEYSTORE_PASSWORD_"

	// GnosisSafeEnv holds the multisig that receives contract ownership
	GnosisSafeEnv = "GNOSIS_SAFE"
)

// Account indexes
const (
	DeployerAccount     = 1
	RewardWalletAccount = 2
)
