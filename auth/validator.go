package auth

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"creator-chat/errors"
)

var validate = validator.New()

// ValidatePayload runs the validate tags of an inbound payload struct.
func ValidatePayload(payload any) error {
	if err := validate.Struct(payload); err != nil {
		return err
	}
	return nil
}

// ValidateIdentity checks the identity pair attached to a session. Blank
// or whitespace-only values are rejected before any state is touched.
func ValidateIdentity(userID, userName string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(userName) == "" {
		return errors.ErrInvalidIdentity
	}
	return nil
}
