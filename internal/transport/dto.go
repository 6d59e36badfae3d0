package transport

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/mernspace/auth-service/internal/httperrors"
)

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r RegisterRequest) Validate() []httperrors.FieldError {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required.Error("First Name is required")),
		validation.Field(&r.LastName, validation.Required.Error("Last Name is required")),
		validation.Field(&r.Email, validation.Required.Error("Email is required"), is.Email),
		validation.Field(&r.Password,
			validation.Required.Error("Password is required"),
			validation.Length(8, 100).Error("Password should be at least 8 characters"),
		),
	)
	return fieldErrors(err)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() []httperrors.FieldError {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Email is required")),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
	return fieldErrors(err)
}

// fieldErrors flattens an ozzo validation result into the wire error shape.
// ozzo keys its error map by the json tag name, which is exactly the path
// clients expect. Sorted so the output is deterministic.
func fieldErrors(err error) []httperrors.FieldError {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validation.Errors)
	if !ok {
		return []httperrors.FieldError{{Type: "field", Msg: err.Error(), Location: "body"}}
	}

	paths := make([]string, 0, len(verrs))
	for path := range verrs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]httperrors.FieldError, 0, len(verrs))
	for _, path := range paths {
		out = append(out, httperrors.FieldError{
			Type:     "field",
			Msg:      verrs[path].Error(),
			Path:     path,
			Location: "body",
		})
	}
	return out
}
