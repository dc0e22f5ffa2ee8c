// Package hashes produces the salted password hashes accepted by PAN-OS
// phash fields. Three crypt(3) schemes are supported: md5-crypt ($1$),
// traditional DES, and sha512-crypt ($6$). Every call generates a fresh
// random salt, so repeated hashes of the same plaintext differ while all of
// them verify.
package hashes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GehirnInc/crypt"
	_ "github.com/GehirnInc/crypt/md5_crypt"
	_ "github.com/GehirnInc/crypt/sha512_crypt"

	"github.com/netskillet/skilletgen/internal/descrypt"
)

// Algorithm selects one of the supported hash schemes.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	DES    Algorithm = "des"
	SHA512 Algorithm = "sha512"
)

const (
	md5Prefix    = "$1$"
	sha512Prefix = "$6$"
	desHashLen   = 13
)

// ErrMismatch is returned by Verify when the plaintext does not match.
var ErrMismatch = errors.New("hashes: password does not match hash")

// Algorithms lists the supported schemes in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{MD5, DES, SHA512}
}

// Hash returns a self-describing salted hash of plaintext using the given
// algorithm. The salt is generated internally.
func Hash(algo Algorithm, plaintext string) (string, error) {
	switch algo {
	case MD5:
		return generate(crypt.MD5, MD5, plaintext)
	case SHA512:
		return generate(crypt.SHA512, SHA512, plaintext)
	case DES:
		salt, err := descrypt.Salt()
		if err != nil {
			return "", err
		}
		return descrypt.Crypt(plaintext, salt)
	default:
		return "", fmt.Errorf("hashes: unknown algorithm %q", algo)
	}
}

// Verify checks plaintext against a hash produced by any supported scheme,
// detecting the scheme from the hash format. It returns ErrMismatch when the
// plaintext does not match and an error for unrecognised hash formats.
func Verify(hash, plaintext string) error {
	switch {
	case strings.HasPrefix(hash, md5Prefix):
		return verify(crypt.MD5, hash, plaintext)
	case strings.HasPrefix(hash, sha512Prefix):
		return verify(crypt.SHA512, hash, plaintext)
	case len(hash) == desHashLen && !strings.HasPrefix(hash, "$"):
		if !descrypt.Verify(hash, plaintext) {
			return ErrMismatch
		}
		return nil
	default:
		return fmt.Errorf("hashes: unrecognised hash format %q", hash)
	}
}

// Filters returns the hash capability table keyed by the filter names the
// configuration templates use ({{ PASSWORD | sha512_hash }} and friends).
// The renderer exposes each entry as a named template filter.
func Filters() map[string]func(string) (string, error) {
	return map[string]func(string) (string, error){
		"md5_hash":    func(in string) (string, error) { return Hash(MD5, in) },
		"des_hash":    func(in string) (string, error) { return Hash(DES, in) },
		"sha512_hash": func(in string) (string, error) { return Hash(SHA512, in) },
	}
}

func generate(c crypt.Crypt, algo Algorithm, plaintext string) (string, error) {
	hash, err := c.New().Generate([]byte(plaintext), nil)
	if err != nil {
		return "", fmt.Errorf("hashes: generate %s hash: %w", algo, err)
	}
	return hash, nil
}

func verify(c crypt.Crypt, hash, plaintext string) error {
	err := c.New().Verify(hash, []byte(plaintext))
	if errors.Is(err, crypt.ErrKeyMismatch) {
		return ErrMismatch
	}
	return err
}
