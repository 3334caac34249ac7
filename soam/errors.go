package soam

import "errors"

// ErrConfig, ErrIO and ErrParse mark fatal input-handling failures: a
// malformed configuration, a file that can't be read, or a circuit
// that can't be parsed. Wrap with fmt.Errorf("...: %w", ErrX) and
// check with errors.Is.
var (
	ErrConfig = errors.New("soam: configuration error")
	ErrIO     = errors.New("soam: io error")
	ErrParse  = errors.New("soam: parse error")

	// ErrOracle names a rejected oracle result. The scheduler does not
	// return or log it: a rejected window keeps its pre-task layers
	// and the run goes on.
	ErrOracle = errors.New("soam: oracle rejected result")
)
