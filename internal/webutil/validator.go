package webutil

import (
	"errors"
	"log"
	"reflect"
	"strings"

	"tile_captcha/internal/model"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

// エラーメッセージに出すフィールド名 (jsonタグ名 → 表示名)
var fieldNameTranslations = map[string]string{
	"weekday":           "Weekday",
	"imageUrl":          "Image URL",
	"targetDescription": "Target description",
	"correctTiles":      "Correct tiles",
	"selectedTiles":     "Selected tiles",
}

func displayName(fe validator.FieldError) string {
	field := fe.Field()
	// dive したスライス要素は "correctTiles[2]" の形になる
	if i := strings.IndexByte(field, '['); i > 0 {
		if name, ok := fieldNameTranslations[field[:i]]; ok {
			return name + field[i:]
		}
	}
	if name, ok := fieldNameTranslations[field]; ok {
		return name
	}
	return field
}

func init() {
	Validator = validator.New()

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	var found bool
	Trans, found = uni.GetTranslator("en")
	if !found {
		log.Fatal("translator not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	registerTranslation := func(tag string, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, displayName(fe), fe.Param())
			return t
		})
	}

	registerTranslation("required", "{0} is required.")
	registerTranslation("url", "{0} must be an absolute URL.")
	registerTranslation("unique", "{0} must not contain duplicate tiles.")

	// min/max はスライスなら件数、数値なら値の範囲
	rangeTranslation := func(tag, sliceMsg, numberMsg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			if err := ut.Add(tag+"-slice", sliceMsg, true); err != nil {
				return err
			}
			return ut.Add(tag+"-number", numberMsg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			key := tag + "-number"
			if fe.Kind() == reflect.Slice {
				key = tag + "-slice"
			}
			t, _ := ut.T(key, displayName(fe), fe.Param())
			return t
		})
	}
	rangeTranslation("min", "{0} must contain at least {1} tile(s).", "{0} must be {1} or greater.")
	rangeTranslation("max", "{0} must contain at most {1} tiles.", "{0} must be {1} or less.")
}

// NewValidationErrorResponse は最初のバリデーションエラーを AppError に変換します。
func NewValidationErrorResponse(errs validator.ValidationErrors) *model.AppError {
	if len(errs) == 0 {
		return model.NewAppError("VALIDATION_ERROR", "Validation failed.", "", model.ErrInvalidInput)
	}
	first := errs[0]
	return model.NewAppError("VALIDATION_ERROR", first.Translate(Trans), first.Field(), model.ErrInvalidInput)
}

// ValidateStruct は Validator.Struct を実行し、失敗したら 400 用の AppError を返します。
func ValidateStruct(s interface{}) error {
	err := Validator.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationErrorResponse(validationErrors)
	}
	return err
}
