// Package verify validates reproducibility proofs: structural format and
// integrity rules plus pluggable cryptographic verification methods.
package verify

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	// HashSize is the required length of the methodology and results hashes.
	HashSize = 32

	// MinPayloadSize is the smallest acceptable verification payload: it
	// must at least carry both 32-byte hashes.
	MinPayloadSize = 2 * HashSize
)

type ProofStatus uint8

const (
	StatusSubmitted ProofStatus = iota
	StatusAccepted
	StatusRejected
)

// Proof is an externally supplied proof of reproduction. Once accepted it
// is recorded on the milestone and the proposal and never mutated again.
type Proof struct {
	Validator       common.Address `json:"validator"`
	Timestamp       uint64         `json:"timestamp"`
	MethodologyHash []byte         `json:"methodology_hash"`
	ResultsHash     []byte         `json:"results_hash"`
	Payload         []byte         `json:"payload"`
	Status          ProofStatus    `json:"status"`
}

var zeroHash = make([]byte, HashSize)

// ValidateFormat checks the structural and integrity rules every proof
// must satisfy before any cryptographic method runs.
func (p *Proof) ValidateFormat() error {
	if p.Timestamp == 0 {
		return errors.New("zero timestamp")
	}
	if len(p.MethodologyHash) == 0 || len(p.ResultsHash) == 0 {
		return errors.New("empty hash")
	}
	if p.Validator == (common.Address{}) {
		return errors.New("null validator identity")
	}
	if p.Status > StatusRejected {
		return errors.Errorf("status code %d out of range", p.Status)
	}
	if len(p.Payload) == 0 {
		return errors.New("empty verification payload")
	}
	if len(p.Payload) < MinPayloadSize {
		return errors.Errorf("payload of %d bytes cannot contain both hashes", len(p.Payload))
	}
	if len(p.MethodologyHash) != HashSize {
		return errors.Errorf("methodology hash is %d bytes, want %d", len(p.MethodologyHash), HashSize)
	}
	if len(p.ResultsHash) != HashSize {
		return errors.Errorf("results hash is %d bytes, want %d", len(p.ResultsHash), HashSize)
	}
	if bytes.Equal(p.MethodologyHash, zeroHash) || bytes.Equal(p.ResultsHash, zeroHash) {
		return errors.New("all-zero hash")
	}
	return nil
}

// checkEmbeddedHashes verifies the payload opens with the proof's own
// methodology and results hashes. Every verification method shares this
// payload framing.
func checkEmbeddedHashes(p *Proof) error {
	if !bytes.Equal(p.Payload[:HashSize], p.MethodologyHash) {
		return errors.New("payload methodology hash mismatch")
	}
	if !bytes.Equal(p.Payload[HashSize:MinPayloadSize], p.ResultsHash) {
		return errors.New("payload results hash mismatch")
	}
	return nil
}
