package keystore

import "github.com/urfave/cli/v2"

// KeystoreCommand groups the ECDSA keystore helpers used for KEYSTORE_n accounts
var KeystoreCommand = &cli.Command{
	Name:  "keystore",
	Usage: "Creates and reads encrypted ECDSA keystore files",
	Subcommands: []*cli.Command{
		CreateCommand,
		ReadCommand,
	},
}
