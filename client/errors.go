package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind classifies a failed request.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindNotFound
	KindConflict
	KindServer
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	}
	return "unknown"
}

var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("not authorized")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrServer     = errors.New("server error")
	ErrNetwork    = errors.New("network error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindAuth:
		return ErrAuth
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindNetwork:
		return ErrNetwork
	}
	return ErrServer
}

// KindForStatus maps a non-2xx status code onto the taxonomy.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	}
	return KindServer
}

// Error is returned for every request that did not yield a 2xx response.
// errors.Is matches it against the sentinel of its Kind.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Code    string
	Field   string
	Method  string
	Path    string

	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: ", e.Method, e.Path)
	if e.Status != 0 {
		fmt.Fprintf(&b, "status %d: ", e.Status)
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.cause != nil:
		b.WriteString(e.cause.Error())
	default:
		b.WriteString(e.Kind.sentinel().Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// MessageOf returns the backend supplied message of err, or err.Error().
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// parseErrorBody reads message, code and field from a JSON error body. A
// non-JSON body is used verbatim as the message.
func parseErrorBody(e *Error, body []byte) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return
	}
	if !gjson.Valid(text) {
		e.Message = text
		return
	}
	res := gjson.Parse(text)
	if res.Type == gjson.String {
		e.Message = res.String()
		return
	}
	for _, key := range []string{"message", "error", "errors.0.message", "errors.0"} {
		if v := res.Get(key); v.Exists() && v.Type == gjson.String && v.String() != "" {
			e.Message = v.String()
			break
		}
	}
	e.Code = res.Get("code").String()
	e.Field = res.Get("field").String()
	if e.Field == "" {
		e.Field = res.Get("errors.0.field").String()
	}
}
