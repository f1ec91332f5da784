package procure

import (
	"github.com/goliatone/go-errors"
)

// ErrInvalidCredentials is returned for both unknown identifiers and wrong
// passwords so the login path never reveals which condition fired.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateEmail is returned when registration hits the unique email constraint.
var ErrDuplicateEmail = errors.New("email address already registered", errors.CategoryConflict).
	WithTextCode("DUPLICATE_EMAIL").
	WithCode(errors.CodeConflict)

// ErrTokenMalformed covers unparseable tokens and signature failures.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned once a token's expiry is in the past.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenWrongType rejects tokens presented outside their use, e.g. a
// refresh token offered as a bearer credential.
var ErrTokenWrongType = errors.New("token use not accepted here", errors.CategoryAuth).
	WithTextCode("TOKEN_WRONG_TYPE").
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeUnauthorized)

// ErrAccountInactive blocks deactivated accounts at login and on every
// subsequent protected request, regardless of token validity.
var ErrAccountInactive = errors.New("account is inactive", errors.CategoryAuth).
	WithTextCode("ACCOUNT_INACTIVE").
	WithCode(errors.CodeForbidden)

// ErrForbidden is the authorization gate's deny verdict.
var ErrForbidden = errors.New("insufficient role for this operation", errors.CategoryAuthz).
	WithTextCode("FORBIDDEN").
	WithCode(errors.CodeForbidden)

// ErrTooManyLoginAttempts enforces the login cool down window.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryAuth).
	WithTextCode("TOO_MANY_LOGIN_ATTEMPTS").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach the hasher.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_VALUE").
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the hasher's mismatch verdict. The login
// path folds it into ErrInvalidCredentials before anything leaves the core.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == ErrTokenExpired.TextCode
	}
	return false
}

// IsMalformedError will check for malformed token errors
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == ErrTokenMalformed.TextCode
	}
	return false
}
