package client

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()
	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	err := en_translations.RegisterDefaultTranslations(validate, translator)
	if err != nil {
		panic(err)
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

// descriptorFields is the validated view of a [Descriptor].
type descriptorFields struct {
	Scheme string `json:"scheme" validate:"required,oneof=http https"`
	Host   string `json:"host" validate:"required"`
	Method Method `json:"method" validate:"required,oneof=GET POST PUT DELETE PATCH"`
}

// FieldError describes one descriptor field that failed validation.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	d, err := json.Marshal(fe)
	if err != nil {
		return err.Error()
	}
	return string(d)
}

// has reports whether field failed validation.
func (fe FieldErrors) has(field string) bool {
	for _, f := range fe {
		if f.Field == field {
			return true
		}
	}

	return false
}

func validateDescriptor(d Descriptor) error {
	fields := descriptorFields{
		Scheme: d.Scheme(),
		Host:   d.Host(),
		Method: d.Method(),
	}

	if err := validate.Struct(fields); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}

		var fes FieldErrors
		for _, verror := range verrors {
			fes = append(fes, FieldError{
				Field: verror.Field(),
				Err:   verror.Translate(translator),
			})
		}
		return fes
	}

	return nil
}
