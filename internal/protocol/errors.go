package protocol

import "errors"

// The closed set of failure kinds exchanged on the wire. A NOK response
// carries the kind's wire string in its message argument, so both sides
// of the connection agree on the same vocabulary.
var (
	ErrBadResponse          = errors.New("bad_response")
	ErrInvalidArgument      = errors.New("invalid_argument")
	ErrSocket               = errors.New("socket_exception")
	ErrUserAlreadyExists    = errors.New("user_already_exists")
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrUserAlreadyConnected = errors.New("user_already_connected")
	ErrServer               = errors.New("server_error")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrCipher               = errors.New("cipher_error")
	ErrInvalidCommand       = errors.New("invalid_command")
	ErrEntryAlreadyExists   = errors.New("entry_already_exists")
	ErrEntryNotFound        = errors.New("entry_not_found")
)

// kinds lists every sentinel so KindOf can resolve wrapped errors back
// to their wire string.
var kinds = []error{
	ErrBadResponse,
	ErrInvalidArgument,
	ErrSocket,
	ErrUserAlreadyExists,
	ErrInvalidCredentials,
	ErrUserAlreadyConnected,
	ErrServer,
	ErrUnauthorized,
	ErrCipher,
	ErrInvalidCommand,
	ErrEntryAlreadyExists,
	ErrEntryNotFound,
}

// KindOf returns the wire string for err. Errors outside the closed set
// collapse to server_error so internal details never reach the peer.
func KindOf(err error) string {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ErrServer.Error()
}
