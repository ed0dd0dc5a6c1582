package avvm

import (
	"crypto/ed25519"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"GenesisTools/internal/entropy"
)

// SeedLength is the exact redeem seed size the ed25519 key schedule accepts.
const SeedLength = 32

// ErrSeedLength reports a redeem seed that is not exactly 32 bytes. The
// stream guarantees the length, so hitting this is an integration bug, not
// an input problem.
var ErrSeedLength = errors.New("redeem seed is not 32 bytes")

// Entry is one synthetic legacy voucher: a redeem key with a fixed one-time
// balance attached.
type Entry struct {
	RedeemPublicKey ed25519.PublicKey `json:"redeem_public_key"`
	Address         common.Address    `json:"address"`
	Balance         *big.Int          `json:"balance"`
}

// Generate produces count synthetic vouchers, each holding perEntryBalance.
// The raw seeds are returned alongside the entries so the vouchers can later
// be redeemed independently of this run.
func Generate(stream *entropy.Stream, count int, perEntryBalance *big.Int) ([]Entry, [][]byte, error) {
	entries := make([]Entry, 0, count)
	seeds := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		seed := stream.Draw(SeedLength)
		entry, err := FromSeed(seed, perEntryBalance)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "voucher %d", i)
		}
		entries = append(entries, entry)
		seeds = append(seeds, seed)
	}
	return entries, seeds, nil
}

// FromSeed derives a single voucher entry from a 32-byte redeem seed.
func FromSeed(seed []byte, balance *big.Int) (Entry, error) {
	if len(seed) != SeedLength {
		return Entry{}, errors.Wrapf(ErrSeedLength, "got %d bytes", len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return Entry{
		RedeemPublicKey: pub,
		Address:         RedeemAddress(pub),
		Balance:         new(big.Int).Set(balance),
	}, nil
}

// RedeemAddress maps a redeem public key to its bootstrap-era address.
func RedeemAddress(pub ed25519.PublicKey) common.Address {
	return common.BytesToAddress(gethcrypto.Keccak256(pub)[12:])
}
