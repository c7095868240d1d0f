package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Article is a core entity describing a single ingested feed entry.
type Article struct {
	ID          int64
	Title       string
	Summary     string
	Link        string
	PublishedAt string
	Fingerprint string
}

// PostRecord marks a fingerprint as already dispatched to the posting API.
type PostRecord struct {
	ID          int64
	Fingerprint string
}

// Fingerprint derives the dedup identity of an entry from its title and
// summary. The digest runs over the exact byte concatenation; callers must
// pass the strings as they will be stored, since any variation in the
// source text yields a different identity.
func Fingerprint(title, summary string) string {
	sum := sha256.Sum256([]byte(title + summary))
	return hex.EncodeToString(sum[:])
}
