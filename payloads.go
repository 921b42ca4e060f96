package session

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate short-circuits on the first failure, in field order, so the form
// surfaces one problem at a time. The email rule is deliberately loose: the
// backend owns real address validation, the client only catches the obvious
// typo of a missing "@".
func (c Credentials) Validate() error {
	if err := validation.Validate(c.Email,
		validation.Required,
		validation.By(containsAt),
	); err != nil {
		return ErrInvalidEmail
	}

	if err := validation.Validate(c.Password,
		validation.Required,
		validation.Length(6, 0),
	); err != nil {
		return ErrPasswordTooShort
	}

	return nil
}

// Registration is the register request body.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r Registration) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Username, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, validation.By(containsAt)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration data").
			WithTextCode(textCodeRegistration).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

// RefreshRequest presents the refresh token to mint a new access token. The
// backend reuses the "token" field name for it.
type RefreshRequest struct {
	Token string `json:"token"`
}

// ProfileUpdate is the profile update request body.
type ProfileUpdate struct {
	Email string `json:"email"`
}

func (p ProfileUpdate) Validate() error {
	if err := validation.Validate(p.Email,
		validation.Required,
		validation.By(containsAt),
	); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func containsAt(value any) error {
	s, _ := value.(string)
	if !strings.Contains(s, "@") {
		return ErrInvalidEmail
	}
	return nil
}
