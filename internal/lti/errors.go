package lti

import "fmt"

// Error codes reported to the platform.
const (
	CodeMissingParams      = "MISSING_REQUIRED_PARAMS"
	CodeInvalidIssuer      = "INVALID_ISSUER"
	CodeTokenMissing       = "TOKEN_MISSING"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeStateInvalid       = "STATE_INVALID"
	CodeNonceMismatch      = "NONCE_MISMATCH"
	CodeInvalidRequest     = "INVALID_LTI_REQUEST"
	CodeUnsupportedVersion = "UNSUPPORTED_LTI_VERSION"
	CodeTokenCreation      = "TOKEN_CREATION_FAILED"
)

// Error is an LTI protocol failure. Details is sent back verbatim.
type Error struct {
	Code    string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("LTI error: %s", e.Code)
}

func newError(code string, details map[string]any) *Error {
	return &Error{Code: code, Details: details}
}
