package services

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-school-directory/internal/domain"
)

var (
	// Each part excludes "@" and any Unicode whitespace (vertical tab, BOM,
	// no-break and other Z-category spaces), not just ASCII blanks.
	emailRe   = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)
	contactRe = regexp.MustCompile(`^\d{10}$`)

	validate = validator.New()
)

// schoolRules carries the presence and length rules. Field order is the
// order violations are reported in.
type schoolRules struct {
	Name    string `validate:"required,min=2"`
	Address string `validate:"required,min=10"`
	City    string `validate:"required,min=2"`
	State   string `validate:"required,min=2"`
	Contact string `validate:"required"`
	EmailID string `validate:"required"`
}

// validateSchool checks n in a fixed order: presence of all fields, email
// shape, contact shape, then minimum lengths. The first violation wins.
func validateSchool(n domain.NewSchool) error {
	err := validate.Struct(schoolRules{
		Name:    n.Name,
		Address: n.Address,
		City:    n.City,
		State:   n.State,
		Contact: n.Contact,
		EmailID: n.EmailID,
	})

	var fieldErrs validator.ValidationErrors
	if err != nil && !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return ErrFieldsRequired
		}
	}

	if !emailRe.MatchString(n.EmailID) {
		return ErrInvalidEmail
	}
	if !contactRe.MatchString(n.Contact) {
		return ErrInvalidContact
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "min" {
			want, _ := strconv.Atoi(fe.Param())
			return tooShort(fe.Field(), want)
		}
	}
	return nil
}
