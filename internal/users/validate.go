package users

import (
	pkgerrors "github.com/arnarg/webshop-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const (
	usernameMinLen = 8
	usernameMaxLen = 100
	passwordMinLen = 4
	passwordMaxLen = 100
)

// ValidateAccount checks account fields and returns every violation found.
// When patching is true, nil fields are skipped; otherwise all three are
// required.
func ValidateAccount(username, email, password *string, patching bool) []pkgerrors.FieldError {
	var fields []pkgerrors.FieldError

	if username != nil || !patching {
		if username == nil || len(*username) < usernameMinLen || len(*username) > usernameMaxLen {
			fields = append(fields, pkgerrors.FieldError{
				Field:   "username",
				Message: "username must be between 8 and 100 characters",
			})
		}
	}

	if email != nil || !patching {
		if email == nil || validate.Var(*email, "required,email") != nil {
			fields = append(fields, pkgerrors.FieldError{
				Field:   "email",
				Message: "email must be a valid email address",
			})
		}
	}

	if password != nil || !patching {
		if password == nil || len(*password) < passwordMinLen || len(*password) > passwordMaxLen {
			fields = append(fields, pkgerrors.FieldError{
				Field:   "password",
				Message: "password must be between 4 and 100 characters",
			})
		}
	}

	return fields
}
