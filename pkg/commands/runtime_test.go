package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	n, err := parseAmount("seed", "400000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "400000000000000000000000000", n.String())

	for _, bad := range []string{"", "-1", "1e18", "0x10"} {
		_, err := parseAmount("seed", bad)
		assert.Error(t, err, bad)
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := parseAddress("to", "0x06bcf4fc5F1a6c835fb70B66E8870dD6DE7549fa")
	require.NoError(t, err)
	assert.Equal(t, "0x06bcf4fc5f1a6c835fb70b66e8870dd6de7549fa", strings.ToLower(addr.Hex()))

	_, err = parseAddress("to", "0x1234")
	assert.ErrorContains(t, err, "to: invalid address")
}

func TestStringArgs(t *testing.T) {
	assert.Equal(t, []any{"a", "b,c"}, stringArgs([]string{"a", "b,c"}))
	assert.Empty(t, stringArgs(nil))
}

func TestBuiltinABIs(t *testing.T) {
	assert.Contains(t, operatorABI.Methods, "setOperators")
	assert.Contains(t, ownableABI.Methods, "transferOwnership")

	parsed, err := abiFor("", ownableABI)
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "owner")

	_, err = abiFor("does/not/exist.json", ownableABI)
	assert.Error(t, err)
}
