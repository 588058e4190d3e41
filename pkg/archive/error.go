package archive

// ErrNotFound is returned when an instrument doesn't exist in the archive.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	if e.ID == "" {
		return "instrument not found"
	}

	return "instrument not found: " + e.ID
}
