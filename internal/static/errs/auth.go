package errs

import "errors"

var (
	InvalidToken         = errors.New("invalid token")
	MissingAuthorization = errors.New("authorization header missing")
)
