// Package identity models the user persona and its signing keypair.
package identity

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AlgorithmECDSAP256 is the only supported keypair algorithm.
const AlgorithmECDSAP256 = "ECDSA-P256"

// Persona is the user's declared identity. Pipelines consume only the
// display names; keys never leave the dot-directory.
type Persona struct {
	ID               string `json:"id"`
	GivenName        string `json:"givenName"`
	FamilyName       string `json:"familyName"`
	TradeNameAllCaps string `json:"tradeNameAllCaps"`
	DomicileState    string `json:"domicileState"`
	KeyPairID        string `json:"keyPairId"`
}

// KeyPair is a persisted ECDSA P-256 keypair, PEM-encoded.
type KeyPair struct {
	ID            string    `json:"id"`
	Algorithm     string    `json:"algorithm"`
	PublicKeyPEM  string    `json:"publicKeyPem"`
	PrivateKeyPEM string    `json:"privateKeyPem"`
	CreatedAt     time.Time `json:"createdAt"`
}

// GenerateKeyPair creates a fresh ECDSA P-256 keypair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	privDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("marshaling private key: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshaling public key: %w", err)
	}

	return &KeyPair{
		ID:        uuid.NewString(),
		Algorithm: AlgorithmECDSAP256,
		PublicKeyPEM: string(pem.EncodeToMemory(&pem.Block{
			Type:  "PUBLIC KEY",
			Bytes: pubDER,
		})),
		PrivateKeyPEM: string(pem.EncodeToMemory(&pem.Block{
			Type:  "EC PRIVATE KEY",
			Bytes: privDER,
		})),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// PublicKey decodes the PEM-encoded public key.
func (k *KeyPair) PublicKey() (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(k.PublicKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("no PEM block in public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	ecdsaPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not ECDSA")
	}

	return ecdsaPub, nil
}

// NewPersona creates a persona bound to the given keypair.
func NewPersona(givenName, familyName, tradeName, domicileState, keyPairID string) *Persona {
	return &Persona{
		ID:               uuid.NewString(),
		GivenName:        givenName,
		FamilyName:       familyName,
		TradeNameAllCaps: tradeName,
		DomicileState:    domicileState,
		KeyPairID:        keyPairID,
	}
}

// DisplayName returns the persona's full name.
func (p *Persona) DisplayName() string {
	return p.GivenName + " " + p.FamilyName
}
