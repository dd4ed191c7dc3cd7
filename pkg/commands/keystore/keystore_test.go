package keystore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newApp(out *bytes.Buffer) *cli.App {
	return &cli.App{
		Name:           "opskit",
		Writer:         out,
		ErrWriter:      out,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands:       []*cli.Command{KeystoreCommand},
	}
}

func TestECDSAKeystoreCreateAndRead(t *testing.T) {
	tmpDir := t.TempDir()

	key := "0x7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6"
	password := "testpass"
	path := filepath.Join(tmpDir, "keystores", "deployer.json")

	var out bytes.Buffer
	err := newApp(&out).Run([]string{
		"opskit", "keystore", "create",
		"--key", key,
		"--path", path,
		"--password", password,
		"--light",
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Keystore generated successfully")

	info, err := os.Stat(path)
	require.NoError(t, err, "expected keystore file to be created")
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out.Reset()
	err = newApp(&out).Run([]string{
		"opskit", "keystore", "read",
		"--path", path,
		"--password", password,
	})
	require.NoError(t, err)

	output := out.String()
	require.Contains(t, output, "Save this ECDSA private key in a secure location")
	require.Contains(t, output, key)
}

func TestECDSAKeystoreCreateWithoutPrefix(t *testing.T) {
	tmpDir := t.TempDir()

	key := "7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6"
	path := filepath.Join(tmpDir, "reward.json")

	var out bytes.Buffer
	require.NoError(t, newApp(&out).Run([]string{
		"opskit", "keystore", "create", "--key", key, "--path", path, "--password", "securepass", "--light",
	}))

	out.Reset()
	require.NoError(t, newApp(&out).Run([]string{
		"opskit", "keystore", "read", "--path", path, "--password", "securepass",
	}))
	require.Contains(t, out.String(), "0x"+key)
}

func TestKeystoreReadWrongPassword(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "deployer.json")

	var out bytes.Buffer
	require.NoError(t, newApp(&out).Run([]string{
		"opskit", "keystore", "create",
		"--key", "7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
		"--path", path, "--password", "right", "--light",
	}))

	err := newApp(&out).Run([]string{"opskit", "keystore", "read", "--path", path, "--password", "wrong"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decrypt")
}

func TestKeystoreCreateRejectsBadInput(t *testing.T) {
	tmpDir := t.TempDir()
	var out bytes.Buffer

	err := newApp(&out).Run([]string{
		"opskit", "keystore", "create", "--key", "abcd", "--path", filepath.Join(tmpDir, "k.json"),
	})
	require.ErrorContains(t, err, "invalid private key")

	err = newApp(&out).Run([]string{
		"opskit", "keystore", "create",
		"--key", "7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
		"--path", filepath.Join(tmpDir, "k.txt"),
	})
	require.ErrorContains(t, err, "invalid path")
}
