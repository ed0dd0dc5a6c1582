package crypto

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"GenesisTools/internal/entropy"
)

// NewSigningKey draws a secp256k1 signing key from the stream. A 32-byte
// draw may fall outside the curve order; those draws are skipped and the
// next one is used, which keeps the result a pure function of the stream.
func NewSigningKey(stream *entropy.Stream) *ecdsa.PrivateKey {
	for {
		priv, err := gethcrypto.ToECDSA(stream.Draw(32))
		if err == nil {
			return priv
		}
	}
}

// AddressOf returns the spendable address controlled by pub.
func AddressOf(pub *ecdsa.PublicKey) common.Address {
	return gethcrypto.PubkeyToAddress(*pub)
}

func PrivToHex(priv *ecdsa.PrivateKey) string {
	return "0x" + fmt.Sprintf("%x", gethcrypto.FromECDSA(priv))
}

func KeystoreJSON(priv *ecdsa.PrivateKey, password string) ([]byte, error) {
	key := &keystore.Key{
		Address:    gethcrypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}
	return keystore.EncryptKey(key, password, keystore.StandardScryptN, keystore.StandardScryptP)
}
