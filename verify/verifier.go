package verify

import (
	"bytes"
	"crypto/sha256"

	"github.com/cbergoon/merkletree"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Verification method descriptors carried on milestones.
const (
	MethodSignature = "signature"
	MethodMerkle    = "merkle"
	MethodHashChain = "hash-chain"
)

const signatureSize = 65

// Verifier is the pluggable cryptographic check run after the format
// rules pass. Implementations must not mutate the proof.
type Verifier interface {
	Verify(p *Proof) error
}

// ForMethod resolves a milestone's verification method descriptor.
func ForMethod(method string) (Verifier, error) {
	switch method {
	case MethodSignature:
		return &SignatureVerifier{}, nil
	case MethodMerkle:
		return &MerkleVerifier{}, nil
	case MethodHashChain:
		return &HashChainVerifier{}, nil
	default:
		return nil, errors.Errorf("unknown verification method %q", method)
	}
}

// SignatureVerifier expects the payload to be
// methodology(32) || results(32) || secp256k1 signature(65) and requires
// the signature over keccak256(methodology || results) to recover the
// proof's validator address.
type SignatureVerifier struct{}

func (v *SignatureVerifier) Verify(p *Proof) error {
	if len(p.Payload) != MinPayloadSize+signatureSize {
		return errors.Errorf("signature payload is %d bytes, want %d", len(p.Payload), MinPayloadSize+signatureSize)
	}
	if err := checkEmbeddedHashes(p); err != nil {
		return err
	}

	digest := crypto.Keccak256(p.Payload[:MinPayloadSize])
	pub, err := crypto.SigToPub(digest, p.Payload[MinPayloadSize:])
	if err != nil {
		return errors.Wrap(err, "recover signer")
	}
	if crypto.PubkeyToAddress(*pub) != p.Validator {
		return errors.New("signature does not recover the validator")
	}
	return nil
}

// MerkleVerifier expects the payload to carry 32-byte result leaves after
// the two hashes; the merkle root over those leaves must equal the
// results hash.
type MerkleVerifier struct{}

func (v *MerkleVerifier) Verify(p *Proof) error {
	if err := checkEmbeddedHashes(p); err != nil {
		return err
	}

	body := p.Payload[MinPayloadSize:]
	if len(body) == 0 || len(body)%HashSize != 0 {
		return errors.Errorf("merkle payload body of %d bytes is not whole leaves", len(body))
	}

	var contents []merkletree.Content
	for off := 0; off < len(body); off += HashSize {
		contents = append(contents, merkleLeaf(body[off:off+HashSize]))
	}
	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return errors.Wrap(err, "build merkle tree")
	}
	if !bytes.Equal(tree.MerkleRoot(), p.ResultsHash) {
		return errors.New("merkle root does not match results hash")
	}
	return nil
}

type merkleLeaf []byte

func (l merkleLeaf) CalculateHash() ([]byte, error) {
	h := sha256.New()
	if _, err := h.Write(l); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

func (l merkleLeaf) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(merkleLeaf)
	if !ok {
		return false, errors.New("content type mismatch")
	}
	return bytes.Equal(l, o), nil
}

// HashChainVerifier expects 32-byte links after the two hashes; folding
// keccak over the chain seeded with the results hash must reproduce the
// methodology hash.
type HashChainVerifier struct{}

func (v *HashChainVerifier) Verify(p *Proof) error {
	if err := checkEmbeddedHashes(p); err != nil {
		return err
	}

	body := p.Payload[MinPayloadSize:]
	if len(body) == 0 || len(body)%HashSize != 0 {
		return errors.Errorf("hash chain body of %d bytes is not whole links", len(body))
	}

	digest := crypto.Keccak256(p.ResultsHash)
	for off := 0; off < len(body); off += HashSize {
		digest = crypto.Keccak256(digest, body[off:off+HashSize])
	}
	if !bytes.Equal(digest, p.MethodologyHash) {
		return errors.New("hash chain does not reproduce methodology hash")
	}
	return nil
}

// ChainMethodologyHash folds the hash chain the way HashChainVerifier
// does. Proof producers use it to derive the methodology hash for a set
// of links.
func ChainMethodologyHash(resultsHash []byte, links []byte) []byte {
	digest := crypto.Keccak256(resultsHash)
	for off := 0; off+HashSize <= len(links); off += HashSize {
		digest = crypto.Keccak256(digest, links[off:off+HashSize])
	}
	return digest
}
