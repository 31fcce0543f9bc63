package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	classTimeTag   = "classtime"
	classTimeText  = "must be a time like 10:00 or 10:00 AM"
	classTimeRegex = regexp.MustCompile(`^(?i)(0?[1-9]|1[0-2]):[0-5][0-9] ?(AM|PM)$|^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = Validate.RegisterValidation(classTimeTag, classTimeValidation)
	RegisterCustomTranslation(classTimeTag, classTimeText)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// classTimeValidation accepts a 24h "15:04" or 12h "3:04 PM" time string.
func classTimeValidation(fl validator.FieldLevel) bool {
	return classTimeRegex.MatchString(fl.Field().String())
}

// TranslatedFieldErrors flattens validator.ValidationErrors into FieldErrors
// with translated messages.
func TranslatedFieldErrors(err validator.ValidationErrors) []FieldError {
	flds := make([]FieldError, 0, len(err))
	for _, vErr := range err {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(Translator)})
	}
	return flds
}
