// Package descrypt implements the traditional crypt(3) password hash: a
// 56-bit DES key derived from the first eight password characters, a 12-bit
// salt that perturbs the cipher's expansion table, and 25 encryptions of an
// all-zero block. The output is the two salt characters followed by eleven
// characters of crypt base64.
//
// PAN-OS accepts this scheme in phash fields alongside md5-crypt and
// sha512-crypt. It is kept for compatibility with existing device
// configurations; it is not a secure hash by modern standards.
package descrypt

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const alphabet = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Tables follow FIPS 46-3 numbering: entries are 1-based source bit
// positions counted from the most significant bit.
var initialPermutation = [64]byte{
	58, 50, 42, 34, 26, 18, 10, 2,
	60, 52, 44, 36, 28, 20, 12, 4,
	62, 54, 46, 38, 30, 22, 14, 6,
	64, 56, 48, 40, 32, 24, 16, 8,
	57, 49, 41, 33, 25, 17, 9, 1,
	59, 51, 43, 35, 27, 19, 11, 3,
	61, 53, 45, 37, 29, 21, 13, 5,
	63, 55, 47, 39, 31, 23, 15, 7,
}

var finalPermutation = [64]byte{
	40, 8, 48, 16, 56, 24, 64, 32,
	39, 7, 47, 15, 55, 23, 63, 31,
	38, 6, 46, 14, 54, 22, 62, 30,
	37, 5, 45, 13, 53, 21, 61, 29,
	36, 4, 44, 12, 52, 20, 60, 28,
	35, 3, 43, 11, 51, 19, 59, 27,
	34, 2, 42, 10, 50, 18, 58, 26,
	33, 1, 41, 9, 49, 17, 57, 25,
}

var expansion = [48]byte{
	32, 1, 2, 3, 4, 5, 4, 5,
	6, 7, 8, 9, 8, 9, 10, 11,
	12, 13, 12, 13, 14, 15, 16, 17,
	16, 17, 18, 19, 20, 21, 20, 21,
	22, 23, 24, 25, 24, 25, 26, 27,
	28, 29, 28, 29, 30, 31, 32, 1,
}

var permutationFunction = [32]byte{
	16, 7, 20, 21, 29, 12, 28, 17,
	1, 15, 23, 26, 5, 18, 31, 10,
	2, 8, 24, 14, 32, 27, 3, 9,
	19, 13, 30, 6, 22, 11, 4, 25,
}

var permutedChoice1 = [56]byte{
	57, 49, 41, 33, 25, 17, 9, 1,
	58, 50, 42, 34, 26, 18, 10, 2,
	59, 51, 43, 35, 27, 19, 11, 3,
	60, 52, 44, 36, 63, 55, 47, 39,
	31, 23, 15, 7, 62, 54, 46, 38,
	30, 22, 14, 6, 61, 53, 45, 37,
	29, 21, 13, 5, 28, 20, 12, 4,
}

var permutedChoice2 = [48]byte{
	14, 17, 11, 24, 1, 5, 3, 28,
	15, 6, 21, 10, 23, 19, 12, 4,
	26, 8, 16, 7, 27, 20, 13, 2,
	41, 52, 31, 37, 47, 55, 30, 40,
	51, 45, 33, 48, 44, 49, 39, 56,
	34, 53, 46, 42, 50, 36, 29, 32,
}

var keyShifts = [16]uint{1, 1, 2, 2, 2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 1}

var sBoxes = [8][4][16]byte{
	{
		{14, 4, 13, 1, 2, 15, 11, 8, 3, 10, 6, 12, 5, 9, 0, 7},
		{0, 15, 7, 4, 14, 2, 13, 1, 10, 6, 12, 11, 9, 5, 3, 8},
		{4, 1, 14, 8, 13, 6, 2, 11, 15, 12, 9, 7, 3, 10, 5, 0},
		{15, 12, 8, 2, 4, 9, 1, 7, 5, 11, 3, 14, 10, 0, 6, 13},
	},
	{
		{15, 1, 8, 14, 6, 11, 3, 4, 9, 7, 2, 13, 12, 0, 5, 10},
		{3, 13, 4, 7, 15, 2, 8, 14, 12, 0, 1, 10, 6, 9, 11, 5},
		{0, 14, 7, 11, 10, 4, 13, 1, 5, 8, 12, 6, 9, 3, 2, 15},
		{13, 8, 10, 1, 3, 15, 4, 2, 11, 6, 7, 12, 0, 5, 14, 9},
	},
	{
		{10, 0, 9, 14, 6, 3, 15, 5, 1, 13, 12, 7, 11, 4, 2, 8},
		{13, 7, 0, 9, 3, 4, 6, 10, 2, 8, 5, 14, 12, 11, 15, 1},
		{13, 6, 4, 9, 8, 15, 3, 0, 11, 1, 2, 12, 5, 10, 14, 7},
		{1, 10, 13, 0, 6, 9, 8, 7, 4, 15, 14, 3, 11, 5, 2, 12},
	},
	{
		{7, 13, 14, 3, 0, 6, 9, 10, 1, 2, 8, 5, 11, 12, 4, 15},
		{13, 8, 11, 5, 6, 15, 0, 3, 4, 7, 2, 12, 1, 10, 14, 9},
		{10, 6, 9, 0, 12, 11, 7, 13, 15, 1, 3, 14, 5, 2, 8, 4},
		{3, 15, 0, 6, 10, 1, 13, 8, 9, 4, 5, 11, 12, 7, 2, 14},
	},
	{
		{2, 12, 4, 1, 7, 10, 11, 6, 8, 5, 3, 15, 13, 0, 14, 9},
		{14, 11, 2, 12, 4, 7, 13, 1, 5, 0, 15, 10, 3, 9, 8, 6},
		{4, 2, 1, 11, 10, 13, 7, 8, 15, 9, 12, 5, 6, 3, 0, 14},
		{11, 8, 12, 7, 1, 14, 2, 13, 6, 15, 0, 9, 10, 4, 5, 3},
	},
	{
		{12, 1, 10, 15, 9, 2, 6, 8, 0, 13, 3, 4, 14, 7, 5, 11},
		{10, 15, 4, 2, 7, 12, 9, 5, 6, 1, 13, 14, 0, 11, 3, 8},
		{9, 14, 15, 5, 2, 8, 12, 3, 7, 0, 4, 10, 1, 13, 11, 6},
		{4, 3, 2, 12, 9, 5, 15, 10, 11, 14, 1, 7, 6, 0, 8, 13},
	},
	{
		{4, 11, 2, 14, 15, 0, 8, 13, 3, 12, 9, 7, 5, 10, 6, 1},
		{13, 0, 11, 7, 4, 9, 1, 10, 14, 3, 5, 12, 2, 15, 8, 6},
		{1, 4, 11, 13, 12, 3, 7, 14, 10, 15, 6, 8, 0, 5, 9, 2},
		{6, 11, 13, 8, 1, 4, 10, 7, 9, 5, 0, 15, 14, 2, 3, 12},
	},
	{
		{13, 2, 8, 4, 6, 15, 11, 1, 10, 9, 3, 14, 5, 0, 12, 7},
		{1, 15, 13, 8, 10, 3, 7, 4, 12, 5, 6, 11, 0, 14, 9, 2},
		{7, 11, 4, 1, 9, 12, 14, 2, 0, 6, 10, 13, 15, 3, 5, 8},
		{2, 1, 14, 7, 4, 10, 8, 13, 15, 12, 9, 0, 3, 5, 6, 11},
	},
}

// permute maps src, treated as a width-bit value, through a 1-based
// permutation table. Output bits fill in most significant first.
func permute(src uint64, width uint, table []byte) uint64 {
	var out uint64
	for _, pos := range table {
		out = out<<1 | (src>>(width-uint(pos)))&1
	}
	return out
}

// keySchedule derives the sixteen 48-bit round subkeys from the 64-bit key.
func keySchedule(key uint64) [16]uint64 {
	var subkeys [16]uint64
	cd := permute(key, 64, permutedChoice1[:])
	c, d := cd>>28, cd&0xFFFFFFF
	for round, shift := range keyShifts {
		c = (c<<shift | c>>(28-shift)) & 0xFFFFFFF
		d = (d<<shift | d>>(28-shift)) & 0xFFFFFFF
		subkeys[round] = permute(c<<28|d, 56, permutedChoice2[:])
	}
	return subkeys
}

// Crypt hashes password with the given two-character salt and returns the
// 13-character crypt(3) string (salt included). Password bytes beyond the
// eighth are ignored, as in the original Unix implementation.
func Crypt(password, salt string) (string, error) {
	if len(salt) < 2 {
		return "", fmt.Errorf("descrypt: salt must be two characters, got %q", salt)
	}
	s0 := strings.IndexByte(alphabet, salt[0])
	s1 := strings.IndexByte(alphabet, salt[1])
	if s0 < 0 || s1 < 0 {
		return "", fmt.Errorf("descrypt: invalid salt character in %q", salt[:2])
	}
	saltBits := uint(s0) | uint(s1)<<6

	// The salt swaps bit i with bit i+24 of the expanded half-block.
	e := expansion
	for i := uint(0); i < 12; i++ {
		if saltBits>>i&1 == 1 {
			e[i], e[i+24] = e[i+24], e[i]
		}
	}

	// Low 7 bits of each of the first 8 password bytes, parity bit cleared.
	var key uint64
	for i := 0; i < 8; i++ {
		var ch byte
		if i < len(password) {
			ch = password[i]
		}
		key = key<<8 | uint64(ch&0x7F)<<1
	}
	subkeys := keySchedule(key)

	var block uint64
	for i := 0; i < 25; i++ {
		b := permute(block, 64, initialPermutation[:])
		left, right := uint32(b>>32), uint32(b)
		for _, k := range subkeys {
			left, right = right, left^feistel(right, k, &e)
		}
		block = permute(uint64(right)<<32|uint64(left), 64, finalPermutation[:])
	}

	var out strings.Builder
	out.WriteByte(salt[0])
	out.WriteByte(salt[1])
	bits := block
	for i := 0; i < 11; i++ {
		out.WriteByte(alphabet[bits>>58&0x3F])
		bits <<= 6
	}
	return out.String(), nil
}

// Verify reports whether hash is the crypt(3) hash of password.
func Verify(hash, password string) bool {
	if len(hash) != 13 {
		return false
	}
	computed, err := Crypt(password, hash[:2])
	return err == nil && computed == hash
}

// Salt returns two random salt characters from the crypt alphabet.
func Salt() (string, error) {
	var raw [2]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("descrypt: read random salt: %w", err)
	}
	return string([]byte{alphabet[raw[0]&0x3F], alphabet[raw[1]&0x3F]}), nil
}

func feistel(right uint32, subkey uint64, e *[48]byte) uint32 {
	expanded := permute(uint64(right), 32, e[:]) ^ subkey
	var substituted uint32
	for s := 0; s < 8; s++ {
		six := expanded >> (42 - 6*s) & 0x3F
		row := six>>4&2 | six&1
		col := six >> 1 & 0xF
		substituted = substituted<<4 | uint32(sBoxes[s][row][col])
	}
	return uint32(permute(uint64(substituted), 32, permutationFunction[:]))
}
