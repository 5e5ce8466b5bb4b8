package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
)

var (
	phonePattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

const (
	minFullNameLen = 2
	maxFullNameLen = 100
	maxPasswordLen = 128
)

// PasswordPolicy is the strength rule for new passwords. A character class
// is one of lowercase, uppercase, digit or symbol.
type PasswordPolicy struct {
	MinLength  int
	MinClasses int
}

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8, MinClasses: 3}
}

func (p PasswordPolicy) normalized() PasswordPolicy {
	if p.MinLength <= 0 {
		p.MinLength = 8
	}
	if p.MinClasses <= 0 {
		p.MinClasses = 1
	}
	if p.MinClasses > 4 {
		p.MinClasses = 4
	}
	return p
}

// Check returns nil when pw satisfies the policy.
func (p PasswordPolicy) Check(pw string) error {
	p = p.normalized()
	if len([]rune(pw)) < p.MinLength {
		return fmt.Errorf("must be at least %d characters", p.MinLength)
	}
	if len(pw) > maxPasswordLen {
		return fmt.Errorf("must be at most %d characters", maxPasswordLen)
	}
	if n := passwordClasses(pw); n < p.MinClasses {
		return fmt.Errorf("must mix at least %d of: lowercase, uppercase, digits, symbols", p.MinClasses)
	}
	return nil
}

func (p PasswordPolicy) rule() validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		return p.Check(s)
	}
}

func passwordClasses(pw string) int {
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r), unicode.IsSpace(r):
			symbol = true
		}
	}
	n := 0
	for _, b := range []bool{lower, upper, digit, symbol} {
		if b {
			n++
		}
	}
	return n
}

// NormalizePhone turns user input such as "+1 (555) 123-4567" into E.164.
// Input that does not parse is returned trimmed so the format check
// reports it.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return s
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

var phoneRule = validation.Match(phonePattern).Error("must be in E.164 format, e.g. +15551234567")

func checkPhone(phone string) error {
	return toValidationError(validation.Errors{
		"phone_number": validation.Validate(phone, validation.Required, phoneRule),
	}.Filter())
}

func checkCode(code string) error {
	return toValidationError(validation.Errors{
		"code": validation.Validate(code, validation.Required, validation.Match(codePattern).Error("must be exactly 6 digits")),
	}.Filter())
}

func notInFuture(now time.Time) validation.RuleFunc {
	return func(value interface{}) error {
		d, _ := value.(*models.Date)
		if d == nil || d.IsZero() {
			return nil
		}
		if d.After(now) {
			return errors.New("must not be in the future")
		}
		return nil
	}
}

func validateRegistration(req *models.RegisterRequest, p PasswordPolicy, now time.Time) error {
	return toValidationError(validation.ValidateStruct(req,
		validation.Field(&req.FullName, validation.Required, validation.Length(minFullNameLen, maxFullNameLen)),
		validation.Field(&req.PhoneNumber, validation.Required, phoneRule),
		validation.Field(&req.Gender, validation.Required,
			validation.In(models.GenderMale, models.GenderFemale, models.GenderOther)),
		validation.Field(&req.BirthDate, validation.By(notInFuture(now))),
		validation.Field(&req.Password, validation.Required, validation.By(p.rule())),
	))
}

func validatePasswordChange(req *models.ChangePasswordRequest, p PasswordPolicy) error {
	return toValidationError(validation.ValidateStruct(req,
		validation.Field(&req.CurrentPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required, validation.By(p.rule()),
			validation.By(differsFrom(req.CurrentPassword))),
		validation.Field(&req.ConfirmPassword, validation.Required, validation.By(equals(req.NewPassword))),
	))
}

func validateReset(req *models.ResetPasswordRequest, p PasswordPolicy) error {
	return toValidationError(validation.ValidateStruct(req,
		validation.Field(&req.PhoneNumber, validation.Required, phoneRule),
		validation.Field(&req.Code, validation.Required, validation.Match(codePattern).Error("must be exactly 6 digits")),
		validation.Field(&req.NewPassword, validation.Required, validation.By(p.rule())),
	))
}

func validateProfileUpdate(upd *models.ProfileUpdate, now time.Time) error {
	return toValidationError(validation.ValidateStruct(upd,
		validation.Field(&upd.FullName, validation.By(func(value interface{}) error {
			s, _ := value.(*string)
			if s == nil {
				return nil
			}
			return validation.Validate(*s, validation.Required, validation.Length(minFullNameLen, maxFullNameLen))
		})),
		validation.Field(&upd.Gender, validation.By(func(value interface{}) error {
			g, _ := value.(*models.Gender)
			if g == nil {
				return nil
			}
			if _, ok := models.ParseGender(string(*g)); !ok {
				return errors.New("must be one of male, female, other")
			}
			return nil
		})),
		validation.Field(&upd.BirthDate, validation.By(notInFuture(now))),
	))
}

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func validateRoleInput(in *models.RoleInput) error {
	return toValidationError(validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(2, 50),
			validation.Match(roleNamePattern).Error("must be lowercase letters, digits or underscores")),
		validation.Field(&in.DisplayName, validation.Required, validation.Length(2, 100)),
		validation.Field(&in.Description, validation.Length(0, 500)),
	))
}

func equals(other string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != other {
			return errors.New("passwords do not match")
		}
		return nil
	}
}

func differsFrom(other string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s == other {
			return errors.New("must differ from the current password")
		}
		return nil
	}
}

// toValidationError converts ozzo errors into the shared field error type.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	if len(errs) == 0 {
		return nil
	}
	ve := &common.ValidationError{Fields: make(map[string]string, len(errs))}
	for field, fe := range errs {
		ve.Fields[field] = fe.Error()
	}
	return ve
}
