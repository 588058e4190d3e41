package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/omniverolabs/omnivero/pkg/identity"
)

const (
	personaFile = "persona.json"
	keypairFile = "keypair.json"
)

// LoadPersona loads the persona snapshot from a target .omnivero/persona.json.
// Returns nil, nil if no persona exists.
func (m *Manager) LoadPersona(overrideDir string) (*identity.Persona, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, personaFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading persona: %w", err)
	}

	persona := &identity.Persona{}
	if err := json.Unmarshal(data, persona); err != nil {
		return nil, fmt.Errorf("parsing persona: %w", err)
	}

	return persona, nil
}

// SavePersona persists the persona snapshot to a target .omnivero/persona.json.
func (m *Manager) SavePersona(persona *identity.Persona, overrideDir string) error {
	if persona == nil {
		return errors.New("cannot save nil persona")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(persona, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling persona: %w", err)
	}

	path := filepath.Join(dir, personaFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing persona: %w", err)
	}

	return nil
}

// LoadKeyPair loads the keypair from a target .omnivero/keypair.json.
// Returns nil, nil if no keypair exists.
func (m *Manager) LoadKeyPair(overrideDir string) (*identity.KeyPair, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, keypairFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading keypair: %w", err)
	}

	kp := &identity.KeyPair{}
	if err := json.Unmarshal(data, kp); err != nil {
		return nil, fmt.Errorf("parsing keypair: %w", err)
	}

	return kp, nil
}

// SaveKeyPair persists the keypair to a target .omnivero/keypair.json.
// The file is written with owner-only permissions since it carries the
// private key.
func (m *Manager) SaveKeyPair(kp *identity.KeyPair, overrideDir string) error {
	if kp == nil {
		return errors.New("cannot save nil keypair")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(kp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling keypair: %w", err)
	}

	path := filepath.Join(dir, keypairFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing keypair: %w", err)
	}

	return nil
}

// ClearPersona removes the persona and keypair files. Returns nil when
// nothing was stored.
func (m *Manager) ClearPersona(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	for _, name := range []string{personaFile, keypairFile} {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", name, err)
		}
	}

	return nil
}
