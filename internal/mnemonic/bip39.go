package mnemonic

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
	bip39 "github.com/tyler-smith/go-bip39"
)

// Root is an HD wallet root reconstructed from a BIP-39 mnemonic. The
// passphrase is only applied transiently while the seed is stretched and is
// not retained.
type Root struct {
	Mnemonic string
	wallet   *hdwallet.Wallet
}

// NewRoot builds an HD root from raw entropy (16 bytes for a 12-word
// mnemonic). The same entropy and passphrase always reconstruct the same
// key tree.
func NewRoot(entropy []byte, passphrase string) (*Root, error) {
	mn, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("mnemonic from entropy: %w", err)
	}
	seed := bip39.NewSeed(mn, passphrase)
	w, err := hdwallet.NewFromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("hd root from seed: %w", err)
	}
	return &Root{Mnemonic: mn, wallet: w}, nil
}

// Derived is one child key pair of an HD root.
type Derived struct {
	Account uint32
	Index   uint32
	Path    string
	Priv    *ecdsa.PrivateKey
	Address common.Address
}

// Derive produces the child key pair at m/44'/60'/<account>'/0/<index>.
func (r *Root) Derive(account, index uint32) (*Derived, error) {
	pathStr := fmt.Sprintf("m/44'/60'/%d'/0/%d", account, index)
	path, err := hdwallet.ParseDerivationPath(pathStr)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", pathStr, err)
	}
	acct, err := r.wallet.Derive(path, false)
	if err != nil {
		return nil, fmt.Errorf("derive %q: %w", pathStr, err)
	}
	addr, err := r.wallet.Address(acct)
	if err != nil {
		return nil, fmt.Errorf("address at %q: %w", pathStr, err)
	}
	priv, err := r.wallet.PrivateKey(acct)
	if err != nil {
		return nil, fmt.Errorf("private key at %q: %w", pathStr, err)
	}
	return &Derived{
		Account: account,
		Index:   index,
		Path:    pathStr,
		Priv:    priv,
		Address: addr,
	}, nil
}
