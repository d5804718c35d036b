package backend

import "github.com/rajivbishwokarma/tensil/isa"

// The four fatal error kinds live in isa (see isa/errors.go) so that
// lir and segment, both lower-level than backend, can raise them
// directly without an import cycle. backend re-exports them since
// callers of the public API think of them as backend errors.
type ConfigurationError = isa.ConfigurationError
type EncodingError = isa.EncodingError
type IOError = isa.IOError
type InvariantViolation = isa.InvariantViolation
