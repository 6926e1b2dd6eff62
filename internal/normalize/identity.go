package normalize

import (
	"crypto/sha256"
	"encoding/hex"
)

// idSeparator keeps the concatenated fields unambiguous: no field can
// contain a NUL, so ("ab","c") and ("a","bc") never collide.
const idSeparator = "\x00"

// FallbackID derives a stable identifier for a record with no native source
// ID. Identical content yields the identical sha256 across runs and
// platforms, so two records with the same (author, text, raw timestamp,
// parent) share one identity.
func FallbackID(author, text, rawTimestamp, parentID string) string {
	h := sha256.New()
	h.Write([]byte(author))
	h.Write([]byte(idSeparator))
	h.Write([]byte(text))
	h.Write([]byte(idSeparator))
	h.Write([]byte(rawTimestamp))
	h.Write([]byte(idSeparator))
	h.Write([]byte(parentID))
	return hex.EncodeToString(h.Sum(nil))
}
