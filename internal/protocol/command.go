// Package protocol implements the line-oriented command codec spoken
// between the client and the server. A command is one newline-terminated
// line of UTF-8 text: a type token followed by `--name value` argument
// pairs, where a name without a value is boolean shorthand for "true".
package protocol

import (
	"strconv"
	"strings"
)

// Reserved argument names. The cipher-password arguments configure local
// encryption only and are never serialized back onto the wire.
const (
	ArgEncryptionPassword = "encryptionPassword"
	ArgDecryptionPassword = "decryptionPassword"
	ArgPassword           = "password"
	ArgMessage            = "message"
)

// argPrefix marks a token as an argument name.
const argPrefix = "--"

// Type identifies a command. The set is closed: tokens outside the
// mapping table are rejected at parse time.
type Type int

const (
	TypePing Type = iota
	TypeRegister
	TypeLogin
	TypeAdd
	TypeGenerate
	TypeGet
	TypeRemove
	TypeDisconnect
	TypeQuit
	TypeOK
	TypeNOK
	TypeHelp
)

// typeTokens maps each Type onto its wire token and back.
var typeTokens = map[Type]string{
	TypePing:       "PING",
	TypeRegister:   "REGISTER",
	TypeLogin:      "LOGIN",
	TypeAdd:        "ADD",
	TypeGenerate:   "GENERATE",
	TypeGet:        "GET",
	TypeRemove:     "REMOVE",
	TypeDisconnect: "DISCONNECT",
	TypeQuit:       "QUIT",
	TypeOK:         "OK",
	TypeNOK:        "NOK",
	TypeHelp:       "HELP",
}

var tokenTypes = func() map[string]Type {
	m := make(map[string]Type, len(typeTokens))
	for t, token := range typeTokens {
		m[token] = t
	}
	return m
}()

// String returns the wire token for the type.
func (t Type) String() string {
	return typeTokens[t]
}

// Command is one parsed protocol line: a type plus named arguments.
// Keys are unique and case-sensitive; order carries no meaning.
type Command struct {
	Type      Type
	Arguments map[string]string
}

// New constructs a command of the given type with no arguments.
func New(t Type) *Command {
	return &Command{Type: t, Arguments: make(map[string]string)}
}

// NewWithArgs constructs a command of the given type carrying args.
// A nil map is replaced with an empty one.
func NewWithArgs(t Type, args map[string]string) *Command {
	if args == nil {
		args = make(map[string]string)
	}
	return &Command{Type: t, Arguments: args}
}

// Parse turns one line of text into a Command. The first token must be a
// known type. Remaining tokens are scanned left to right with one token
// of lookahead: `--name value` binds value to name, while a `--name`
// immediately followed by another argument name (or the end of the line)
// is boolean shorthand for "true".
func Parse(line string) (*Command, error) {
	if line == "" {
		return nil, ErrInvalidArgument
	}

	tokens := strings.Split(line, " ")
	t, ok := tokenTypes[tokens[0]]
	if !ok {
		return nil, ErrInvalidCommand
	}

	arguments := make(map[string]string)
	for i := 1; i < len(tokens); i++ {
		token := tokens[i]
		if !isArgumentName(token) {
			continue
		}

		name := token[len(argPrefix):]
		if i+1 < len(tokens) && !isArgumentName(tokens[i+1]) {
			arguments[name] = tokens[i+1]
			i++
		} else {
			arguments[name] = strconv.FormatBool(true)
		}
	}

	return &Command{Type: t, Arguments: arguments}, nil
}

// String serializes the command back to a wire line. The reserved
// cipher-password arguments are dropped so they never reach the peer.
// Argument order follows map iteration and is deliberately unspecified;
// receivers look arguments up by name, never by position.
func (c *Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.Type.String())
	for name, value := range c.Arguments {
		if name == ArgEncryptionPassword || name == ArgDecryptionPassword {
			continue
		}
		sb.WriteString(" " + argPrefix + name + " " + value)
	}
	return sb.String()
}

// GetString returns the named argument, or "" when absent.
func (c *Command) GetString(name string) string {
	return c.Arguments[name]
}

// GetInt returns the named argument as an int, or 0 when absent or
// not numeric.
func (c *Command) GetInt(name string) int {
	n, err := strconv.Atoi(c.Arguments[name])
	if err != nil {
		return 0
	}
	return n
}

// GetBool returns the named argument as a bool, or false when absent
// or malformed.
func (c *Command) GetBool(name string) bool {
	b, err := strconv.ParseBool(c.Arguments[name])
	if err != nil {
		return false
	}
	return b
}

// Cipherer transforms a single field value. Implemented by the cipher
// engine; declared here so the codec stays free of crypto details.
type Cipherer interface {
	Encrypt(plaintext, passphrase string) (string, error)
	Decrypt(blob, passphrase string) (string, error)
}

// Encrypt replaces the password argument with its encrypted form when
// both it and an encryption password are present. No-op otherwise.
func (c *Command) Encrypt(engine Cipherer) error {
	passphrase, hasPassphrase := c.Arguments[ArgEncryptionPassword]
	password, hasPassword := c.Arguments[ArgPassword]
	if !hasPassphrase || !hasPassword {
		return nil
	}

	encrypted, err := engine.Encrypt(password, passphrase)
	if err != nil {
		return err
	}
	c.Arguments[ArgPassword] = encrypted
	return nil
}

// Decrypt returns payload decrypted with the decryption-password
// argument, or payload unchanged when no decryption password is set.
func (c *Command) Decrypt(engine Cipherer, payload string) (string, error) {
	passphrase, ok := c.Arguments[ArgDecryptionPassword]
	if !ok {
		return payload, nil
	}
	return engine.Decrypt(payload, passphrase)
}

func isArgumentName(token string) bool {
	return strings.HasPrefix(token, argPrefix)
}
