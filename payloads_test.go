package session_test

import (
	"testing"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsValidateEmailFirst(t *testing.T) {
	// Both fields are bad; the email failure must win.
	err := session.Credentials{Email: "nope", Password: "123"}.Validate()
	require.Error(t, err)
	assert.Equal(t, session.ErrorMessage(session.ErrInvalidEmail), session.ErrorMessage(err))
}

func TestCredentialsValidateEmailNeedsAtSign(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"admin@example.com", true},
		{"weird@", true},
		{"@also-weird", true},
		{"admin.example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		err := session.Credentials{Email: tt.email, Password: "sup3rsecret"}.Validate()
		if tt.valid {
			assert.NoError(t, err, tt.email)
		} else {
			assert.Error(t, err, tt.email)
		}
	}
}

func TestCredentialsValidatePasswordLength(t *testing.T) {
	err := session.Credentials{Email: "admin@example.com", Password: "12345"}.Validate()
	require.Error(t, err)
	assert.Equal(t, session.ErrorMessage(session.ErrPasswordTooShort), session.ErrorMessage(err))

	assert.NoError(t, session.Credentials{Email: "admin@example.com", Password: "123456"}.Validate())
}

func TestRegistrationValidate(t *testing.T) {
	valid := session.Registration{
		FirstName: "Ada",
		LastName:  "Admin",
		Username:  "ada",
		Email:     "admin@example.com",
		Password:  "sup3rsecret",
	}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.Username = ""
	assert.Error(t, missing.Validate())

	badEmail := valid
	badEmail.Email = "admin.example.com"
	assert.Error(t, badEmail.Validate())

	shortPassword := valid
	shortPassword.Password = "123"
	assert.Error(t, shortPassword.Validate())
}

func TestProfileUpdateValidate(t *testing.T) {
	assert.NoError(t, session.ProfileUpdate{Email: "admin@example.com"}.Validate())
	assert.Error(t, session.ProfileUpdate{Email: "nope"}.Validate())
	assert.Error(t, session.ProfileUpdate{}.Validate())
}
