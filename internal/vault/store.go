// Package vault provides the filesystem persistence layer: one
// directory per registered user holding a credential record and named,
// optionally-encrypted entries. Every path is confinement-checked
// before any filesystem access so entry names cannot escape a user's
// vault directory.
package vault

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/passsecure/passsecure/internal/protocol"
)

const (
	// hashExtension marks a user's credential record.
	hashExtension = ".hs"
	// entryExtension marks a stored vault entry.
	entryExtension = ".ps"
)

// Store persists user vaults under a single root directory. It is
// shared across connection workers; each operation is independently
// atomic at the filesystem level.
type Store struct {
	root string
}

// NewStore constructs a Store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the vault root directory.
func (s *Store) Root() string {
	return s.root
}

// userDir returns the vault directory for a user.
func (s *Store) userDir(user string) string {
	return filepath.Join(s.root, user)
}

// entryPath resolves the file for a named entry inside a user's vault,
// rejecting names that escape the vault directory. The confinement
// check runs before any existence check.
func (s *Store) entryPath(user, name string) (string, error) {
	dir := s.userDir(user)
	path := filepath.Join(dir, name+entryExtension)
	if err := confine(dir, path); err != nil {
		return "", err
	}
	return path, nil
}

// confine fails with unauthorized unless path resolves to a strict
// descendant of dir.
func confine(dir, path string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrServer, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrServer, err)
	}
	if absPath == absDir || !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return protocol.ErrUnauthorized
	}
	return nil
}

// Exists reports whether the named entry is present in the user's
// vault.
func (s *Store) Exists(user, name string) (bool, error) {
	path, err := s.entryPath(user, name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", protocol.ErrServer, err)
	}
	return true, nil
}

// Read returns the content of the named entry.
func (s *Store) Read(user, name string) (string, error) {
	path, err := s.entryPath(user, name)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", protocol.ErrEntryNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", protocol.ErrServer, err)
	}
	return string(content), nil
}

// Write stores content under the named entry. When overwrite is false
// and the entry is already present the write is refused.
func (s *Store) Write(user, name, content string, overwrite bool) error {
	path, err := s.entryPath(user, name)
	if err != nil {
		return err
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return protocol.ErrEntryAlreadyExists
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrServer, err)
	}
	return nil
}

// Remove deletes the named entry.
func (s *Store) Remove(user, name string) error {
	path, err := s.entryPath(user, name)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return protocol.ErrEntryNotFound
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrServer, err)
	}
	return nil
}

// Register creates the user's vault directory and stores the
// credential record. The username itself is confinement-checked
// against the vault root.
func (s *Store) Register(user, passwordHash string) error {
	dir := s.userDir(user)
	if err := confine(s.root, dir); err != nil {
		return err
	}

	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return protocol.ErrUserAlreadyExists
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrServer, err)
	}

	record := filepath.Join(dir, user+hashExtension)
	if err := os.WriteFile(record, []byte(passwordHash), 0o600); err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrServer, err)
	}
	return nil
}

// Verify compares passwordHash against the user's stored credential
// record. A missing user collapses to invalid credentials so observers
// cannot distinguish an unknown user from a wrong password.
func (s *Store) Verify(user, passwordHash string) error {
	dir := s.userDir(user)
	if err := confine(s.root, dir); err != nil {
		return err
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return protocol.ErrInvalidCredentials
	}

	stored, err := os.ReadFile(filepath.Join(dir, user+hashExtension))
	if err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrServer, err)
	}
	if subtle.ConstantTimeCompare(stored, []byte(passwordHash)) != 1 {
		return protocol.ErrInvalidCredentials
	}
	return nil
}
