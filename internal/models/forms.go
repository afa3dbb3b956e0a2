package models

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type RegisterForm struct {
	Username string `form:"username" validate:"required,max=50"`
	Email    string `form:"email" validate:"required,email,max=120"`
	Password string `form:"password" validate:"required"`
}

type LoginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// PhotoUpload is an optional file attached to the profile form.
type PhotoUpload struct {
	Filename string
	Size     int64
	File     io.Reader
}

type ProfileForm struct {
	Username string `form:"username" validate:"required,max=50"`
	Password string `form:"password"`
	Photo    *PhotoUpload
}

type PostForm struct {
	URL     string `form:"url" validate:"required,max=100"`
	Title   string `form:"title" validate:"required,max=100"`
	Info    string `form:"info"`
	Content string `form:"content"`
}

type PostUpdateForm struct {
	Title   string `form:"title" validate:"required,max=100"`
	Info    string `form:"info"`
	Content string `form:"content"`
}

// FieldError is one failed rule on one form field.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (e FieldError) Message() string {
	label := strings.ToUpper(e.Field[:1]) + e.Field[1:]
	switch e.Rule {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, e.Param)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, e.Param)
	default:
		return label + " is invalid"
	}
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message()
	}
	return strings.Join(msgs, "; ")
}

// NewValidator returns a validator that reports fields by their form name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateForm runs the struct rules and returns nil when the form is valid.
func ValidateForm(v *validator.Validate, form any) ValidationErrors {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "form", Rule: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}
