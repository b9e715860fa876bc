package verify

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func validProof() *Proof {
	methodology := crypto.Keccak256([]byte("methodology"))
	results := crypto.Keccak256([]byte("results"))

	payload := append(append([]byte{}, methodology...), results...)

	return &Proof{
		Validator:       common.HexToAddress("0x110000000000000000000000000000000000ffff"),
		Timestamp:       100,
		MethodologyHash: methodology,
		ResultsHash:     results,
		Payload:         payload,
		Status:          StatusSubmitted,
	}
}

func TestValidateFormat(t *testing.T) {
	assert.Nil(t, validProof().ValidateFormat())
}

func TestValidateFormatRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *Proof)
	}{
		{"zero timestamp", func(p *Proof) { p.Timestamp = 0 }},
		{"empty methodology hash", func(p *Proof) { p.MethodologyHash = nil }},
		{"empty results hash", func(p *Proof) { p.ResultsHash = nil }},
		{"null validator", func(p *Proof) { p.Validator = common.Address{} }},
		{"status out of range", func(p *Proof) { p.Status = StatusRejected + 1 }},
		{"empty payload", func(p *Proof) { p.Payload = nil }},
		{"short payload", func(p *Proof) { p.Payload = p.Payload[:63] }},
		{"short methodology hash", func(p *Proof) { p.MethodologyHash = p.MethodologyHash[:31] }},
		{"long results hash", func(p *Proof) { p.ResultsHash = append(p.ResultsHash, 0) }},
		{"all-zero methodology hash", func(p *Proof) { p.MethodologyHash = make([]byte, HashSize) }},
		{"all-zero results hash", func(p *Proof) { p.ResultsHash = make([]byte, HashSize) }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := validProof()
			c.mutate(p)
			assert.NotNil(t, p.ValidateFormat())
		})
	}
}
