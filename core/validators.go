package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	entityNameTag   = "entityname"
	entityNameText  = "must be 3 to 50 characters; letters, digits, spaces, '.', '_' and '-' only"
	entityNameRegex = regexp.MustCompile(`^[ a-zA-Z\d_.\-]{3,50}$`)

	moduleNameTag   = "modulename"
	moduleNameText  = "must be 3 to 40 characters; letters, digits, spaces, '.', '_' and '-' only"
	moduleNameRegex = regexp.MustCompile(`^[ a-zA-Z\d_.\-]{3,40}$`)

	moduleCodeTag   = "modulecode"
	moduleCodeText  = "must be 3 to 15 characters; letters, digits, spaces, '.', '_' and '-' only"
	moduleCodeRegex = regexp.MustCompile(`^[ a-zA-Z\d_.\-]{3,15}$`)

	leaderNameTag   = "leadername"
	leaderNameText  = "must be 3 to 40 alphabetic characters"
	leaderNameRegex = regexp.MustCompile(`^[ a-zA-Z_.]{3,40}$`)

	percentTag   = "percent"
	percentText  = "must be a whole number between 0 and 100"
	percentRegex = regexp.MustCompile(`^(?:100|[1-9][0-9]|[0-9])$`)

	requiredTag  = "required"
	requiredText = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(entityNameTag, regexValidation(entityNameRegex))
	RegisterCustomTranslation(validate, translator, entityNameTag, entityNameText)

	_ = validate.RegisterValidation(moduleNameTag, regexValidation(moduleNameRegex))
	RegisterCustomTranslation(validate, translator, moduleNameTag, moduleNameText)

	_ = validate.RegisterValidation(moduleCodeTag, regexValidation(moduleCodeRegex))
	RegisterCustomTranslation(validate, translator, moduleCodeTag, moduleCodeText)

	_ = validate.RegisterValidation(leaderNameTag, regexValidation(leaderNameRegex))
	RegisterCustomTranslation(validate, translator, leaderNameTag, leaderNameText)

	_ = validate.RegisterValidation(percentTag, regexValidation(percentRegex))
	RegisterCustomTranslation(validate, translator, percentTag, percentText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func regexValidation(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
