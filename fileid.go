package mediastore

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const fileIDHashLength = 12

// NewFileID derives a new file identifier for ownerID.
//
// The id is the owner followed by "_" and 12 hex characters of a SHA-256 over
// the owner, the declared name, the nanosecond timestamp and a random nonce.
// The nonce keeps ids distinct when the same owner uploads the same name twice
// within one clock tick.
func NewFileID(ownerID, name string, now time.Time) string {
	nonce := uuid.New()

	h := sha256.New()
	h.Write([]byte(ownerID))
	h.Write([]byte{'|'})
	h.Write([]byte(name))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(now.UnixNano(), 10)))
	h.Write([]byte{'|'})
	h.Write(nonce[:])

	return ownerID + "_" + hex.EncodeToString(h.Sum(nil))[:fileIDHashLength]
}

// ObjectKey is the object store key for a file. It embeds the owner and file
// id, so no two records can share a key.
func ObjectKey(ownerID, fileID, name string) string {
	return "uploads/" + ownerID + "/" + fileID + "/" + name
}
