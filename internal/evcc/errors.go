package evcc

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ErrMissingEnvelope indicates that the state document lacks the top-level result object.
var ErrMissingEnvelope = errors.New("no result envelope found in state document")

// MappingError reports a failure to map a state document into the domain
// model. It retains the offending raw document for diagnostics.
type MappingError struct {
	Err error
	Raw json.RawMessage
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("failed to map state document: %s", e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

func newMappingError(err error, raw json.RawMessage) *MappingError {
	return &MappingError{Err: err, Raw: raw}
}
