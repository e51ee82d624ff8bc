package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ShortHashLen is the length of an abbreviated hash in listings and logs.
const ShortHashLen = 12

// Hash returns the hex SHA-256 of data. Dataset hashes in the store and
// network keys are built from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ShortHash abbreviates h to ShortHashLen characters.
func ShortHash(h string) string {
	if len(h) > ShortHashLen {
		return h[:ShortHashLen]
	}
	return h
}

// digest hashes the JSON encoding of parts. Station codes and source URLs
// may hold spaces or colons, so they never appear in keys verbatim.
func digest(parts ...any) string {
	data, _ := json.Marshal(parts)
	return Hash(data)
}
