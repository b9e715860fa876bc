package verify

import (
	"testing"

	"github.com/cbergoon/merkletree"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestForMethod(t *testing.T) {
	for _, method := range []string{MethodSignature, MethodMerkle, MethodHashChain} {
		v, err := ForMethod(method)
		assert.Nil(t, err)
		assert.NotNil(t, v)
	}

	_, err := ForMethod("quorum")
	assert.NotNil(t, err)
}

func TestSignatureVerifier(t *testing.T) {
	key, err := crypto.GenerateKey()
	assert.Nil(t, err)

	methodology := crypto.Keccak256([]byte("methodology"))
	results := crypto.Keccak256([]byte("results"))

	head := append(append([]byte{}, methodology...), results...)
	sig, err := crypto.Sign(crypto.Keccak256(head), key)
	assert.Nil(t, err)

	p := &Proof{
		Validator:       crypto.PubkeyToAddress(key.PublicKey),
		Timestamp:       100,
		MethodologyHash: methodology,
		ResultsHash:     results,
		Payload:         append(head, sig...),
		Status:          StatusSubmitted,
	}
	assert.Nil(t, p.ValidateFormat())

	v := &SignatureVerifier{}
	assert.Nil(t, v.Verify(p))

	// a different key must not recover the validator
	otherKey, err := crypto.GenerateKey()
	assert.Nil(t, err)
	otherSig, err := crypto.Sign(crypto.Keccak256(head), otherKey)
	assert.Nil(t, err)
	p.Payload = append(append([]byte{}, head...), otherSig...)
	assert.NotNil(t, v.Verify(p))
}

func TestMerkleVerifier(t *testing.T) {
	leaf1 := crypto.Keccak256([]byte("run-1"))
	leaf2 := crypto.Keccak256([]byte("run-2"))

	tree, err := merkletree.NewTree([]merkletree.Content{merkleLeaf(leaf1), merkleLeaf(leaf2)})
	assert.Nil(t, err)
	root := tree.MerkleRoot()

	methodology := crypto.Keccak256([]byte("methodology"))
	payload := append(append([]byte{}, methodology...), root...)
	payload = append(payload, leaf1...)
	payload = append(payload, leaf2...)

	p := validProof()
	p.MethodologyHash = methodology
	p.ResultsHash = root
	p.Payload = payload

	v := &MerkleVerifier{}
	assert.Nil(t, v.Verify(p))

	// tampered leaf changes the root
	p.Payload[MinPayloadSize] ^= 0xff
	assert.NotNil(t, v.Verify(p))
}

func TestHashChainVerifier(t *testing.T) {
	results := crypto.Keccak256([]byte("results"))
	links := append(crypto.Keccak256([]byte("link-1")), crypto.Keccak256([]byte("link-2"))...)
	methodology := ChainMethodologyHash(results, links)

	payload := append(append([]byte{}, methodology...), results...)
	payload = append(payload, links...)

	p := validProof()
	p.MethodologyHash = methodology
	p.ResultsHash = results
	p.Payload = payload

	v := &HashChainVerifier{}
	assert.Nil(t, v.Verify(p))

	// broken link does not reproduce the methodology hash
	p.Payload[len(p.Payload)-1] ^= 0xff
	assert.NotNil(t, v.Verify(p))
}

func TestVerifierRejectsMismatchedHeader(t *testing.T) {
	p := validProof()
	p.Payload = append([]byte{}, p.Payload...)
	p.Payload[0] ^= 0xff

	for _, v := range []Verifier{&MerkleVerifier{}, &HashChainVerifier{}} {
		assert.NotNil(t, v.Verify(p))
	}
}
