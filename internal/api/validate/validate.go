// Package validate decodes request bodies and checks them with struct tags.
package validate

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

var (
	v     *validator.Validate
	vOnce sync.Once
)

func get() *validator.Validate {
	vOnce.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// report json field names
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("e164us", func(fl validator.FieldLevel) bool {
			return model.IsUSE164(fl.Field().String())
		})
		_ = v.RegisterValidation("lifechapter", func(fl validator.FieldLevel) bool {
			return model.LifeChapter(fl.Field().String()).Valid()
		})
	})
	return v
}

var messages = map[string]string{
	"required":    "%s is required",
	"e164us":      "%s must be a US phone number in E.164 format (+1XXXXXXXXXX)",
	"lifechapter": "%s must be a known life chapter",
}

var messagesWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translate(fe validator.FieldError) string {
	if t, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(t, fe.Field())
	}
	if t, ok := messagesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(t, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// Struct validates s and returns an error wrapping model.ErrValidation.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = translate(fe)
	}
	return fmt.Errorf("%w: %s", model.ErrValidation, strings.Join(msgs, "; "))
}

// DecodeJSON reads r's body into dst. An empty body is an error unless
// allowEmpty is set, in which case dst keeps its zero value.
func DecodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", model.ErrValidation, err)
	}
	if len(body) > MaxBodyBytes {
		return fmt.Errorf("%w: request body too large", model.ErrValidation)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: request body is required", model.ErrValidation)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", model.ErrValidation)
	}
	return nil
}

// Decode is DecodeJSON followed by Struct.
func Decode(r *http.Request, dst any) error {
	if err := DecodeJSON(r, dst, false); err != nil {
		return err
	}
	return Struct(dst)
}
