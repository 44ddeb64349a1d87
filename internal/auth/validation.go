package auth

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxEmailLen    = 254
	MaxPasswordLen = 128
)

var (
	ErrEmailRequired    = errors.New("Vui lòng nhập email.")
	ErrPasswordRequired = errors.New("Vui lòng nhập mật khẩu.")
	ErrFieldTooLong     = errors.New("Dữ liệu quá dài.")
)

// ValidateCredentials only checks that the login form fields are present.
// Whether they are correct is for the backend to decide.
func ValidateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		return ErrEmailRequired
	case password == "":
		return ErrPasswordRequired
	case utf8.RuneCountInString(email) > MaxEmailLen, utf8.RuneCountInString(password) > MaxPasswordLen:
		return ErrFieldTooLong
	}
	return nil
}
