package rest

import (
	"net/http"

	"github.com/go-chi/render"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string   `json:"status"`
	AppCode    int64    `json:"code,omitempty"`
	ErrorText  string   `json:"error,omitempty"`
	Fields     []string `json:"fields,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "invalid request",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, fields []string) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "validation failed",
		ErrorText:      err.Error(),
		Fields:         fields,
	}
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "internal server error",
		ErrorText:      err.Error(),
	}
}

func translateError(err error, trans ut.Translator) []string {
	out := make([]string, 0)
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}
	for _, e := range validatorErrs {
		out = append(out, e.Translate(trans))
	}
	return out
}
