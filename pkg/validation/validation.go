// Package validation builds the shared request validator with English messages keyed by JSON field names.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	DriveLinkTag = "drivelink"
	FormEmailTag = "formemail"
)

var (
	driveLinkRegex = regexp.MustCompile(`^https?://(www\.)?drive\.google\.com`)
	formEmailRegex = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)
)

// Validator wraps go-playground/validator with an English translator.
type Validator struct {
	*validator.Validate
	translator ut.Translator
}

// New returns a Validator with the custom tags registered.
func New() *Validator {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(DriveLinkTag, func(fl validator.FieldLevel) bool {
		return driveLinkRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation(FormEmailTag, func(fl validator.FieldLevel) bool {
		return formEmailRegex.MatchString(fl.Field().String())
	})

	v := &Validator{Validate: validate, translator: translator}
	v.registerTranslation(DriveLinkTag, "Please provide a valid Google Drive link")
	v.registerTranslation(FormEmailTag, "Invalid email address")
	return v
}

func (v *Validator) registerTranslation(tag, text string) {
	_ = v.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Describe renders validation failures as one human readable sentence.
// Errors that are not validation failures are returned as their message.
func (v *Validator) Describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fe.Translate(v.translator))
	}
	return strings.Join(messages, "; ")
}

// FirstFailedTag returns the first failing tag matching one of the given tags, in priority order.
func FirstFailedTag(err error, tags ...string) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ""
	}
	for _, tag := range tags {
		for _, fe := range fieldErrs {
			if fe.Tag() == tag {
				return tag
			}
		}
	}
	return ""
}
