package protocol

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Basic(t *testing.T) {
	cmd, err := Parse("LOGIN --username alice --password hunter2")
	require.NoError(t, err)

	assert.Equal(t, TypeLogin, cmd.Type)
	assert.Equal(t, "alice", cmd.GetString("username"))
	assert.Equal(t, "hunter2", cmd.GetString("password"))
}

func TestParse_BooleanShorthand(t *testing.T) {
	cmd, err := Parse("ADD --name bank --overwrite --password p4ss")
	require.NoError(t, err)

	assert.Equal(t, "bank", cmd.GetString("name"))
	assert.True(t, cmd.GetBool("overwrite"))
	assert.Equal(t, "p4ss", cmd.GetString("password"))
}

func TestParse_TrailingFlag(t *testing.T) {
	cmd, err := Parse("GENERATE --length 20 --special")
	require.NoError(t, err)

	assert.Equal(t, 20, cmd.GetInt("length"))
	assert.True(t, cmd.GetBool("special"))
}

func TestParse_ArgumentOrderIrrelevant(t *testing.T) {
	a, err := Parse("REGISTER --username bob --password pw")
	require.NoError(t, err)
	b, err := Parse("REGISTER --password pw --username bob")
	require.NoError(t, err)

	assert.Equal(t, a.Type, b.Type)
	assert.Equal(t, a.Arguments, b.Arguments)
}

func TestParse_UnknownType(t *testing.T) {
	_, err := Parse("FROBNICATE --x 1")
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestParse_CaseSensitiveType(t *testing.T) {
	_, err := Parse("login --username alice")
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestParse_EmptyLine(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParse_StrayValueIgnored(t *testing.T) {
	cmd, err := Parse("GET stray --name bank")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"name": "bank"}, cmd.Arguments)
}

func TestString_RoundTrip(t *testing.T) {
	lines := []string{
		"PING",
		"REGISTER --username alice --password hunter2",
		"ADD --name bank --password p4ss --overwrite true",
		"GENERATE --length 12 --special true --store true",
	}
	for _, line := range lines {
		original, err := Parse(line)
		require.NoError(t, err, line)

		reparsed, err := Parse(original.String())
		require.NoError(t, err, line)

		assert.Equal(t, original.Type, reparsed.Type, line)
		assert.Equal(t, original.Arguments, reparsed.Arguments, line)
	}
}

func TestString_DropsReservedKeys(t *testing.T) {
	cmd := NewWithArgs(TypeAdd, map[string]string{
		"name":                "bank",
		ArgPassword:           "p4ss",
		ArgEncryptionPassword: "secret",
		ArgDecryptionPassword: "secret",
	})

	reparsed, err := Parse(cmd.String())
	require.NoError(t, err)

	assert.NotContains(t, reparsed.Arguments, ArgEncryptionPassword)
	assert.NotContains(t, reparsed.Arguments, ArgDecryptionPassword)
	assert.Equal(t, "p4ss", reparsed.GetString(ArgPassword))
}

func TestGetInt_Defaults(t *testing.T) {
	cmd := NewWithArgs(TypeGenerate, map[string]string{"length": "twelve"})
	assert.Equal(t, 0, cmd.GetInt("length"))
	assert.Equal(t, 0, cmd.GetInt("missing"))
}

func TestGetBool_Defaults(t *testing.T) {
	cmd := NewWithArgs(TypeAdd, map[string]string{"overwrite": "yep"})
	assert.False(t, cmd.GetBool("overwrite"))
	assert.False(t, cmd.GetBool("missing"))
}

// reversingCipherer is a stand-in engine whose output is recognizable.
type reversingCipherer struct{}

func (reversingCipherer) Encrypt(plaintext, passphrase string) (string, error) {
	return "enc(" + plaintext + "," + passphrase + ")", nil
}

func (reversingCipherer) Decrypt(blob, passphrase string) (string, error) {
	return "dec(" + blob + "," + passphrase + ")", nil
}

func TestEncrypt_SubstitutesPassword(t *testing.T) {
	cmd := NewWithArgs(TypeAdd, map[string]string{
		"name":                "bank",
		ArgPassword:           "p4ss",
		ArgEncryptionPassword: "key",
	})

	require.NoError(t, cmd.Encrypt(reversingCipherer{}))
	assert.Equal(t, "enc(p4ss,key)", cmd.GetString(ArgPassword))
}

func TestEncrypt_NoOpWithoutReservedKey(t *testing.T) {
	cmd := NewWithArgs(TypeAdd, map[string]string{
		"name":      "bank",
		ArgPassword: "p4ss",
	})

	require.NoError(t, cmd.Encrypt(reversingCipherer{}))
	assert.Equal(t, "p4ss", cmd.GetString(ArgPassword))
}

func TestDecrypt_UsesDecryptionPassword(t *testing.T) {
	cmd := NewWithArgs(TypeGet, map[string]string{
		"name":                "bank",
		ArgDecryptionPassword: "key",
	})

	out, err := cmd.Decrypt(reversingCipherer{}, "blob")
	require.NoError(t, err)
	assert.Equal(t, "dec(blob,key)", out)
}

func TestDecrypt_NoOpWithoutReservedKey(t *testing.T) {
	cmd := New(TypeGet)

	out, err := cmd.Decrypt(reversingCipherer{}, "blob")
	require.NoError(t, err)
	assert.Equal(t, "blob", out)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "entry_not_found", KindOf(ErrEntryNotFound))
	assert.Equal(t, "unauthorized", KindOf(fmt.Errorf("%w: details", ErrUnauthorized)))
	assert.Equal(t, "server_error", KindOf(errors.New("disk on fire")))
}
