package keystore

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"

	ethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
)

var ReadCommand = &cli.Command{
	Name:  "read",
	Usage: "Print the private key from a given keystore file, password",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "path",
			Usage:    "Path to the keystore JSON",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "password",
			Usage:    "Password to decrypt the keystore file",
			Required: true,
		},
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		path := cCtx.String("path")
		password := cCtx.String("password")

		fileContent, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read keystore file: %w", err)
		}

		key, err := ethkeystore.DecryptKey(fileContent, password)
		if err != nil {
			return fmt.Errorf("failed to decrypt ECDSA keystore: %w", err)
		}

		w := cCtx.App.Writer
		fmt.Fprintln(w, "✅ ECDSA Keystore decrypted successfully")
		fmt.Fprintf(w, "    Address: %s\n", key.Address.Hex())
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "🔑 Save this ECDSA private key in a secure location:")
		fmt.Fprintf(w, "    0x%s\n", hex.EncodeToString(crypto.FromECDSA(key.PrivateKey)))
		fmt.Fprintln(w, "")
		return nil
	},
}
