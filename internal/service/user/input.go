package user

import (
	"strings"

	"github.com/devverse/devverse-backend/internal/domain"
)

// SaveUserInput holds the profile fields delivered by the identity provider.
type SaveUserInput struct {
	Username  string
	Email     string
	Name      string
	AvatarURL *string
}

// Validate checks all fields and collects all errors.
func (i SaveUserInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Username) == "" {
		errs = append(errs, domain.FieldError{Field: "username", Message: "required"})
	}
	if len(i.Username) > 64 {
		errs = append(errs, domain.FieldError{Field: "username", Message: "max 64 characters"})
	}

	email := strings.TrimSpace(i.Email)
	if email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	} else if !strings.Contains(email, "@") {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid format"})
	}

	if len(i.Name) > 128 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 128 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateProfileInput holds the mutable profile fields. Nil means unchanged.
type UpdateProfileInput struct {
	Name      *string
	AvatarURL *string
	Password  *string
}

// Validate checks all fields and collects all errors.
func (i UpdateProfileInput) Validate() error {
	var errs []domain.FieldError

	if i.Name != nil && len(strings.TrimSpace(*i.Name)) > 128 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 128 characters"})
	}
	if i.Password != nil && len(*i.Password) < 8 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "min 8 characters"})
	}
	if i.Name == nil && i.AvatarURL == nil && i.Password == nil {
		errs = append(errs, domain.FieldError{Field: "profile", Message: "nothing to update"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
