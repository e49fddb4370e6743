package wallet

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"

	"chainvote/internal/hashing"
	"chainvote/internal/ledger"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"go.uber.org/zap"
)

// broadcaster is the slice of the ledger client the wallet needs to get a
// signed transaction on chain.
type broadcaster interface {
	ExecuteTransaction(ctx context.Context, txBytes string, signature string) (string, error)
}

// Wallet is a local signing wallet: it holds one secp256k1 keypair and
// plays the role the browser wallet extension played for the web dashboard.
type Wallet struct {
	logger *zap.Logger
	client broadcaster

	privateKey *secp256k1.PrivateKey
	address    string
}

// New builds a wallet from a hex-encoded private key, or generates a fresh
// keypair when the key is empty.
func New(logger *zap.Logger, client broadcaster, hexKey string) (*Wallet, error) {

	var privateKey *secp256k1.PrivateKey
	if hexKey == "" {
		generated, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, errors.New("failed to generate the wallet key: " + err.Error())
		}
		privateKey = generated
		logger.Info("generated a fresh wallet key")

	} else {
		keyBytes, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, errors.New("failed to decode the wallet key: " + err.Error())
		}
		privateKey = secp256k1.PrivKeyFromBytes(keyBytes)
	}

	return &Wallet{
		logger:     logger,
		client:     client,
		privateKey: privateKey,
		address:    deriveAddress(privateKey.PubKey()),
	}, nil
}

// Address returns the wallet's ledger address.
func (w *Wallet) Address() string {
	return w.address
}

// SignAndSubmit signs the intent and broadcasts it, returning the
// transaction digest. It does not wait for finality.
func (w *Wallet) SignAndSubmit(ctx context.Context, intent ledger.VoteIntent) (string, error) {

	signingDigest, err := hex.DecodeString(intent.GetSigningDigest())
	if err != nil {
		return "", errors.New("failed to decode the signing digest: " + err.Error())
	}

	signature := ecdsa.Sign(w.privateKey, signingDigest)
	encoded := base64.StdEncoding.EncodeToString(signature.Serialize())

	digest, err := w.client.ExecuteTransaction(ctx, intent.GetTxBytes(), encoded)
	if err != nil {
		return "", errors.New("broadcast failed: " + err.Error())
	}

	w.logger.Debug("transaction signed and broadcast",
		zap.String("target", intent.GetTarget()),
		zap.String("digest", digest))

	return digest, nil
}

// deriveAddress builds the ledger address from the compressed public key.
func deriveAddress(publicKey *secp256k1.PublicKey) string {
	keyHash := hashing.Calculate(publicKey.SerializeCompressed())
	return "0x" + keyHash[:64]
}
