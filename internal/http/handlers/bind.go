package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// BindJSON binds a JSON body into out and rejects with the full list of
// violated fields on failure. The request never reaches the handler body
// when binding fails (all-or-nothing).
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondValidation(ctx, "Invalid request body", parseBindError(err, out))

		return false
	}

	return true
}

// BindForm is the multipart/urlencoded counterpart used by the create
// endpoint, where fields arrive next to an optional image file.
func BindForm(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBind(out)

	if err != nil {
		RespondValidation(ctx, "Invalid request body", parseBindError(err, out))

		return false
	}

	return true
}

func parseBindError(err error, out interface{}) []FieldError {
	rootType := baseStructType(out)

	// validator errors (struct bind tags)

	var validatorError validator.ValidationErrors

	if errors.As(err, &validatorError) {
		fields := make([]FieldError, 0, len(validatorError))

		for _, fieldError := range validatorError {
			field := wireNameFromValidatorError(rootType, fieldError)
			rule := fieldError.Tag()
			param := fieldError.Param()

			fields = append(fields, FieldError{
				Field:   field,
				Rule:    rule,
				Param:   param,
				Message: validationMessage(rule, param),
			})
		}
		return fields
	}

	// in the event of bad json

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) {
		return []FieldError{{Field: "", Rule: "json", Message: "body is not valid JSON"}}
	}

	// in the event of a type mismatch

	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		field := strings.TrimSpace(unmatchedTypeError.Field)

		if mapped := wireNameForStructField(rootType, field); mapped != "" {
			field = mapped
		}

		return []FieldError{{
			Field:   field,
			Rule:    "type",
			Message: fmt.Sprintf("must be of type %s", unmatchedTypeError.Type.String()),
		}}
	}

	// final fallback if the error could not be deciphered
	return []FieldError{{Field: "", Rule: "bind", Message: err.Error()}}
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

func wireNameFromValidatorError(rootType reflect.Type, fieldError validator.FieldError) string {
	if rootType == nil {
		return fieldError.Field()
	}

	if sf, ok := rootType.FieldByName(fieldError.StructField()); ok {
		if name := wireNameFromTags(sf); name != "" {
			return name
		}
	}

	return fieldError.Field()
}

func wireNameForStructField(rootType reflect.Type, structField string) string {
	if rootType == nil || structField == "" {
		return ""
	}

	// UnmarshalTypeError.Field reports the json name already for flat
	// structs; struct names still come through for embedded fields.
	if sf, ok := rootType.FieldByName(structField); ok {
		return wireNameFromTags(sf)
	}

	return structField
}

// wire name precedence: json tag, then form tag (create uses multipart).
func wireNameFromTags(sf reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		tag := sf.Tag.Get(key)

		if tag == "" {
			continue
		}

		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return sf.Name
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "len":
		return "must be exactly " + param
	case "gte":
		return "must be at least " + param
	case "datetime":
		return "must match format " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
