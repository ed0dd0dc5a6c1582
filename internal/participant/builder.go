package participant

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"GenesisTools/internal/crypto"
	"GenesisTools/internal/entropy"
)

// Config carries the protocol constants the builder needs. They are passed
// explicitly per run, never read from package state.
type Config struct {
	MinTTL         uint64 // minimum certificate lifetime, epochs
	MaxTTL         uint64 // maximum certificate lifetime, epochs
	HDAccountIndex uint32 // fixed genesis account index
	HDAddressIndex uint32 // fixed genesis address index
}

// VSSCertificate is a participant's public commitment to its VSS key:
// the VSS public key and an expiry epoch, signed by the participant's
// signing key.
type VSSCertificate struct {
	Issuer       common.Address `json:"issuer"`
	VSSPublicKey []byte         `json:"vss_public_key"`
	ExpiryEpoch  uint64         `json:"expiry_epoch"`
	Signature    []byte         `json:"signature"`
}

// AddressKind tags which of the two bootstrap address variants an address is.
type AddressKind string

const (
	AddressPlain AddressKind = "plain"
	AddressHD    AddressKind = "hd"
)

// BootstrapAddress is a spendable genesis address together with its variant.
type BootstrapAddress struct {
	Kind AddressKind    `json:"kind"`
	Addr common.Address `json:"address"`
}

// Build derives the VSS certificate and the spendable address for one
// participant. It draws exactly once from the stream (the certificate
// expiry); everything else is a pure function of the secrets.
func Build(stream *entropy.Stream, secrets *crypto.ParticipantSecrets, cfg Config, hasHDPayload bool) (*VSSCertificate, BootstrapAddress, error) {
	// Expiry is uniform over [minTTL-1, maxTTL-1], both ends included.
	expiry := stream.DrawUint64Range(cfg.MinTTL-1, cfg.MaxTTL-1)

	cert, err := newCertificate(secrets, expiry)
	if err != nil {
		return nil, BootstrapAddress{}, err
	}
	addr, err := Address(secrets, cfg, hasHDPayload)
	if err != nil {
		return nil, BootstrapAddress{}, err
	}
	return cert, addr, nil
}

// Address derives the participant's spendable address without touching the
// stream. With hasHDPayload it is the child key address at the fixed genesis
// indices; derivation failure there means the HD library broke its contract,
// the indices are valid by construction.
func Address(secrets *crypto.ParticipantSecrets, cfg Config, hasHDPayload bool) (BootstrapAddress, error) {
	if !hasHDPayload {
		return BootstrapAddress{Kind: AddressPlain, Addr: crypto.AddressOf(&secrets.Signing.PublicKey)}, nil
	}
	child, err := secrets.HDRoot.Derive(cfg.HDAccountIndex, cfg.HDAddressIndex)
	if err != nil {
		return BootstrapAddress{}, errors.Wrapf(err,
			"hd derivation broke its contract at fixed genesis indices (%d, %d)",
			cfg.HDAccountIndex, cfg.HDAddressIndex)
	}
	return BootstrapAddress{Kind: AddressHD, Addr: child.Address}, nil
}

func newCertificate(secrets *crypto.ParticipantSecrets, expiry uint64) (*VSSCertificate, error) {
	vssPub := secrets.VSS.PublicBytes()

	var expiryBytes [8]byte
	binary.BigEndian.PutUint64(expiryBytes[:], expiry)
	digest := gethcrypto.Keccak256(vssPub, expiryBytes[:])

	sig, err := gethcrypto.Sign(digest, secrets.Signing)
	if err != nil {
		return nil, errors.Wrap(err, "sign vss certificate")
	}
	return &VSSCertificate{
		Issuer:       crypto.AddressOf(&secrets.Signing.PublicKey),
		VSSPublicKey: vssPub,
		ExpiryEpoch:  expiry,
		Signature:    sig,
	}, nil
}

// Verify checks the certificate signature against the issuer's claim.
func (c *VSSCertificate) Verify() bool {
	var expiryBytes [8]byte
	binary.BigEndian.PutUint64(expiryBytes[:], c.ExpiryEpoch)
	digest := gethcrypto.Keccak256(c.VSSPublicKey, expiryBytes[:])

	pub, err := gethcrypto.SigToPub(digest, c.Signature)
	if err != nil {
		return false
	}
	return gethcrypto.PubkeyToAddress(*pub) == c.Issuer
}
