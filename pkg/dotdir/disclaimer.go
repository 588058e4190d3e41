package dotdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const disclaimerFile = "disclaimer_accepted"

// DisclaimerAccepted reports whether the user has acknowledged the
// educational-use disclaimer.
func (m *Manager) DisclaimerAccepted(overrideDir string) (bool, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(filepath.Join(dir, disclaimerFile))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking disclaimer state: %w", err)
	}

	return true, nil
}

// AcceptDisclaimer records the acknowledgement.
func (m *Manager) AcceptDisclaimer(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, disclaimerFile)
	if err := os.WriteFile(path, []byte("accepted\n"), 0o644); err != nil {
		return fmt.Errorf("writing disclaimer state: %w", err)
	}

	return nil
}

// ResetDisclaimer clears the acknowledgement. Returns nil if it was
// never recorded.
func (m *Manager) ResetDisclaimer(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dir, disclaimerFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing disclaimer state: %w", err)
	}

	return nil
}
