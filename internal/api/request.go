package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"restinvoice/internal/core"
)

const (
	defaultPerPage = 15
	maxBodyBytes   = 2 << 20
)

type templateListParams struct {
	Page    int    `schema:"page" validate:"min=1"`
	PerPage int    `schema:"per_page" validate:"min=1,max=100"`
	Sort    string `schema:"sort" validate:"omitempty,oneof=name created_at updated_at"`
	Order   string `schema:"order" validate:"omitempty,oneof=asc desc"`
}

type apiKeyListParams struct {
	Page    int `schema:"page" validate:"min=1"`
	PerPage int `schema:"per_page" validate:"min=1,max=100"`
}

type createTemplateRequest struct {
	Name        string         `json:"name" validate:"required,max=150"`
	Description *string        `json:"description" validate:"omitempty,max=300"`
	HTMLContent string         `json:"html_content" validate:"required"`
	Variables   core.Variables `json:"variables"`
}

type updateTemplateRequest struct {
	Name        *string         `json:"name" validate:"omitempty,min=1,max=150"`
	Description *string         `json:"description" validate:"omitempty,max=300"`
	HTMLContent *string         `json:"html_content" validate:"omitempty,min=1"`
	Variables   *core.Variables `json:"variables"`
}

type renderTemplateRequest struct {
	Variables map[string]any `json:"variables"`
}

type createApiKeyRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=255"`
	ExpiresIn string  `json:"expires_in"`
}

// requestDecoder decodes query strings and JSON bodies and validates the result.
type requestDecoder struct {
	query    *schema.Decoder
	validate *validator.Validate
}

func newRequestDecoder() *requestDecoder {
	q := schema.NewDecoder()
	q.IgnoreUnknownKeys(true)

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "schema"} {
			if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	return &requestDecoder{query: q, validate: v}
}

// Query fills dst from the URL query string. Absent keys keep the values dst already has.
func (d *requestDecoder) Query(r *http.Request, dst any) error {
	if err := d.query.Decode(dst, r.URL.Query()); err != nil {
		return fmt.Errorf("%w: invalid query parameters: %v", core.ErrValidation, err)
	}
	return d.check(dst)
}

// JSON decodes the request body into dst. An empty body leaves dst unchanged;
// anything after the first JSON value is rejected.
func (d *requestDecoder) JSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return d.check(dst)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", core.ErrValidation, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON body: unexpected data after the JSON value", core.ErrValidation)
	}
	return d.check(dst)
}

func (d *requestDecoder) check(v any) error {
	err := d.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", core.ErrValidation, strings.Join(msgs, "; "))
}
