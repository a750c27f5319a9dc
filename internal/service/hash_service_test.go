package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSHA3HashService_Transcript(t *testing.T) {
	svc := NewSHA3HashService()

	h := svc.Transcript("Ramesh ko paanch sau udhaar")
	assert.Regexp(t, `^[0-9a-f]{64}$`, h)
	assert.Equal(t, h, svc.Transcript("Ramesh ko paanch sau udhaar"), "same transcript, same hash")
	assert.NotEqual(t, h, svc.Transcript("Ramesh ko chhe sau udhaar"))
}

func TestSHA3HashService_KnownVector(t *testing.T) {
	// SHA3-256 of the empty string.
	assert.Equal(t,
		"a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a",
		NewSHA3HashService().Transcript(""))
}

func TestSHA3HashService_Batch_OrderIndependent(t *testing.T) {
	svc := NewSHA3HashService()
	a, b, c := svc.Transcript("a"), svc.Transcript("b"), svc.Transcript("c")

	input := []string{c, a, b}
	h1 := svc.Batch(input)
	h2 := svc.Batch([]string{a, b, c})

	assert.Equal(t, h1, h2)
	assert.Equal(t, []string{c, a, b}, input, "input slice must not be reordered")
	assert.NotEqual(t, h1, svc.Batch([]string{a, b}))
}

func TestSHA3HashService_LedgerKey(t *testing.T) {
	svc := NewSHA3HashService()
	h := svc.Transcript("udhaar")
	subject := uuid.New()

	k := svc.LedgerKey(subject, h, "vsh1shop", 50000, 1)
	assert.Equal(t, k, svc.LedgerKey(subject, h, "vsh1shop", 50000, 1), "retries of one subject share a key")

	assert.NotEqual(t, k, svc.LedgerKey(subject, h, "vsh1shop", 50001, 1), "amount is part of the key")
	assert.NotEqual(t, k, svc.LedgerKey(subject, h, "vsh1other", 50000, 1), "address is part of the key")
	assert.NotEqual(t, k, svc.LedgerKey(subject, h, "vsh1shop", 50000, 2), "type is part of the key")
}

func TestSHA3HashService_LedgerKey_SameWordingDifferentSubjects(t *testing.T) {
	svc := NewSHA3HashService()
	h := svc.Transcript("sau rupaye udhaar")

	a := svc.LedgerKey(uuid.New(), h, "vsh1shop", 10000, 1)
	b := svc.LedgerKey(uuid.New(), h, "vsh1shop", 10000, 1)
	assert.NotEqual(t, a, b, "two customers with identical wording are two ledger entries")
}
