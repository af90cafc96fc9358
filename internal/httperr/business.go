package httperr

import (
	"errors"
	"net/http"
	"strings"
)

// BusinessError is a rule violation the caller can fix. Code is the stable
// snake_case identifier sent as error_code.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

// Status picks the HTTP status from the code's shape.
func (e BusinessError) Status() int {
	switch {
	case strings.HasSuffix(e.Code, "_already_exists"):
		return http.StatusConflict
	case e.Code == "payment_mismatch":
		return http.StatusUnprocessableEntity
	case strings.HasSuffix(e.Code, "_disabled"), strings.HasSuffix(e.Code, "_not_configured"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Message is the code spelled out.
func (e BusinessError) Message() string {
	msg := strings.ReplaceAll(e.Code, "_", " ")
	if msg != "" {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	return msg
}

