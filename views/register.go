package views

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/vnkhanh/forms-app/services"
)

type Registrar interface {
	Register(ctx context.Context, req services.RegisterRequest) (services.RegisterResult, error)
}

var commonPasswords = map[string]bool{
	"password":    true,
	"password123": true,
	"123456":      true,
	"12345678":    true,
	"qwerty":      true,
	"admin":       true,
	"welcome":     true,
	"parool":      true,
}

var validate = validator.New()

// validEmail reports whether s is a well formed address.
func validEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// passwordProblem returns the first rule a new password breaks, or "".
func passwordProblem(pw string) MsgKey {
	if pw == "" {
		return MsgPasswordRequired
	}
	if len(pw) < services.MinPasswordLength {
		return MsgPasswordTooShort
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	classes := 0
	for _, ok := range []bool{upper, lower, digit, special} {
		if ok {
			classes++
		}
	}
	if classes < 3 {
		return MsgPasswordWeak
	}
	if commonPasswords[strings.ToLower(pw)] {
		return MsgPasswordCommon
	}
	return ""
}

// Register is the sign-up screen.
type Register struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string

	Errors  map[string]string
	Error   string
	Success string

	reg Registrar
	nav Navigator
	msg *Messages
}

func NewRegister(reg Registrar, nav Navigator, msg *Messages) *Register {
	return &Register{reg: reg, nav: navOrNop(nav), msg: msgOrDefault(msg), Errors: map[string]string{}}
}

// Validate fills Errors with one message per failing field.
func (r *Register) Validate() bool {
	r.Errors = map[string]string{}
	if strings.TrimSpace(r.Name) == "" {
		r.Errors["name"] = r.msg.T(MsgNameRequired)
	}
	switch email := strings.TrimSpace(r.Email); {
	case email == "":
		r.Errors["email"] = r.msg.T(MsgEmailRequired)
	case !validEmail(email):
		r.Errors["email"] = r.msg.T(MsgEmailInvalid)
	}
	if key := passwordProblem(r.Password); key != "" {
		if key == MsgPasswordTooShort {
			r.Errors["password"] = r.msg.T(key, services.MinPasswordLength)
		} else {
			r.Errors["password"] = r.msg.T(key)
		}
	}
	if r.ConfirmPassword != r.Password {
		r.Errors["confirmPassword"] = r.msg.T(MsgPasswordMismatch)
	}
	return len(r.Errors) == 0
}

// Submit registers the account. With a token in the answer the user lands on
// the forms list, otherwise on the login screen.
func (r *Register) Submit(ctx context.Context) bool {
	r.Error, r.Success = "", ""
	if !r.Validate() {
		return false
	}
	res, err := r.reg.Register(ctx, services.RegisterRequest{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	})
	if err != nil {
		var ae *services.AuthError
		switch {
		case errors.As(err, &ae) && ae.Code == services.CodeConflict:
			r.Errors["email"] = r.msg.T(MsgEmailInUse)
			r.Error = r.msg.T(MsgEmailInUse)
		case errors.As(err, &ae) && ae.Code == services.CodeValidationFailed && ae.Field != "":
			r.Errors[ae.Field] = ae.Message
			r.Error = ae.Message
		case errors.As(err, &ae) && ae.Code == services.CodeNetwork:
			r.Error = r.msg.T(MsgNetwork)
		case errors.As(err, &ae) && ae.Message != "":
			r.Error = ae.Message
		default:
			r.Error = r.msg.T(MsgRegisterFailed)
		}
		return false
	}
	r.Success = r.msg.T(MsgRegistered)
	r.Password, r.ConfirmPassword = "", ""
	if res.Token != "" {
		r.nav.Navigate(RouteForms)
	} else {
		r.nav.Navigate(RouteLogin)
	}
	return true
}
