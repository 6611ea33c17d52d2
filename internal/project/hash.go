package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine hashes content followed by each salt: H(content || s1 || s2 ...).
// The token cache keys entries by Combine(file hash, cache format, version).
func Combine(content Digest, salts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, s := range salts {
		_, _ = h.Write(s)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) Hex() string { return hex.EncodeToString(d[:]) }
