package extract

import (
	"errors"
	"fmt"
)

// ErrEmptySubmission is returned when a submission carries neither text
// nor a file.
var ErrEmptySubmission = errors.New("submission requires text or a file")

// ErrUnsupportedMime is returned when a submitted file's MIME type is not
// in the accepted set.
type ErrUnsupportedMime struct {
	MimeType string
}

func (e ErrUnsupportedMime) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MimeType)
}
