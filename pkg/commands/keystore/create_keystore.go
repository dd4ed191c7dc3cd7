package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"

	ethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var CreateCommand = &cli.Command{
	Name:  "create",
	Usage: "Encrypts an ECDSA private key into a keystore JSON file",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "key",
			Usage:    "Hex encoded private key, with or without 0x",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "path",
			Usage:    "Full path to save keystore file, including filename (e.g., ./keystores/deployer.json)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "password",
			Usage: `Password to encrypt the keystore file. Default password is "" `,
			Value: "",
		},
		&cli.BoolFlag{
			Name:  "light",
			Usage: "Use light scrypt parameters (faster, weaker; for test keys only)",
		},
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)
		path := cCtx.String("path")
		password := cCtx.String("password")

		if len(path) < 6 || filepath.Ext(path) != ".json" {
			return fmt.Errorf("invalid path: must include full file name ending in .json")
		}

		privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(cCtx.String("key")), "0x"))
		if err != nil {
			return fmt.Errorf("invalid private key: %w", err)
		}

		scryptN, scryptP := ethkeystore.StandardScryptN, ethkeystore.StandardScryptP
		if cCtx.Bool("light") {
			scryptN, scryptP = ethkeystore.LightScryptN, ethkeystore.LightScryptP
		}

		logger.Debug("Creating ECDSA keystore at %s", path)
		key := &ethkeystore.Key{
			Id:         uuid.New(),
			Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
			PrivateKey: privateKey,
		}
		data, err := ethkeystore.EncryptKey(key, password, scryptN, scryptP)
		if err != nil {
			return fmt.Errorf("failed to create keystore: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create keystore directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to write keystore: %w", err)
		}

		fmt.Fprintln(cCtx.App.Writer, "✅ Keystore generated successfully")
		fmt.Fprintf(cCtx.App.Writer, "    Address: %s\n", key.Address.Hex())
		return nil
	},
}
