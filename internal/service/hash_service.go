package service

import (
	"encoding/binary"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// SHA3HashService implements ports.HashService using SHA3-256.
// Digests are 64-char lowercase hex with no salt.
type SHA3HashService struct{}

// NewSHA3HashService creates a new SHA3-256 hash service.
func NewSHA3HashService() *SHA3HashService {
	return &SHA3HashService{}
}

// Transcript fingerprints a raw transcript. Identical text gives identical digests.
func (s *SHA3HashService) Transcript(transcript string) string {
	sum := sha3.Sum256([]byte(transcript))
	return hex.EncodeToString(sum[:])
}

// Batch hashes a set of transcript hashes independent of their order.
func (s *SHA3HashService) Batch(hashes []string) string {
	sorted := append([]string(nil), hashes...)
	sort.Strings(sorted)
	sum := sha3.Sum256([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(sum[:])
}

// LedgerKey is the idempotency key of a ledger write. Retries of one subject
// (transaction or batch) with the same (hash, address, amount, type) tuple map
// to the same key; distinct subjects never share one, even with identical wording.
func (s *SHA3HashService) LedgerKey(subject uuid.UUID, hash string, address string, amount int64, typeCode uint8) string {
	h := sha3.New256()
	h.Write(subject[:])
	h.Write([]byte(hash))
	h.Write([]byte{0})
	h.Write([]byte(address))
	h.Write([]byte{0})

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(amount))
	h.Write(buf[:])
	h.Write([]byte(strconv.Itoa(int(typeCode))))
	return hex.EncodeToString(h.Sum(nil))
}
