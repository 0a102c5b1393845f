package chi

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator. Field names in errors follow the query tag.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("query"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// recommendParams are the query parameters of every recommend endpoint.
type recommendParams struct {
	IMDbID     string   `query:"imdb_id" validate:"required,max=16"`
	TopN       *int     `query:"top_n" validate:"omitempty,gte=1"`
	WithScores bool     `query:"with_scores"`
	SampleFrac *float64 `query:"sample_frac" validate:"omitempty,gt=0,lte=1"`
}

// paramError is a query string that could not be parsed.
type paramError struct {
	name string
	err  error
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.name, e.err)
}

func (e *paramError) Unwrap() error { return e.err }

// parseRecommendParams reads the query string. Syntax errors return *paramError.
func parseRecommendParams(q url.Values) (recommendParams, error) {
	p := recommendParams{IMDbID: strings.TrimSpace(q.Get("imdb_id"))}

	if raw := q.Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, &paramError{name: "top_n", err: err}
		}
		p.TopN = &n
	}

	if raw := q.Get("with_scores"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return p, &paramError{name: "with_scores", err: err}
		}
		p.WithScores = b
	}

	if raw := q.Get("sample_frac"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, &paramError{name: "sample_frac", err: err}
		}
		p.SampleFrac = &f
	}

	return p, nil
}

// validationMessage renders validator errors as one line, "field: rule" per failure.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs[i] = fe.Field() + " is required"
		case "gte", "gt", "lte", "lt", "max":
			msgs[i] = fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param())
		default:
			msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		}
	}
	return strings.Join(msgs, "; ")
}
