package core

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Template is a user-owned HTML document with named placeholder variables.
type Template struct {
	ID          string    `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	UserID      string    `db:"user_id" json:"user_id"`
	HTMLContent string    `db:"html_content" json:"html_content"`
	Variables   Variables `db:"variables" json:"variables"`
	CreatedAt   int64     `db:"created_at" json:"created_at"`
	UpdatedAt   int64     `db:"updated_at" json:"updated_at"`
}

// Variable describes one placeholder and its sample value.
type Variable struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Variables is stored as a JSON object column.
type Variables map[string]Variable

func (v Variables) Value() (driver.Value, error) {
	if v == nil {
		return "{}", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v *Variables) Scan(src any) error {
	var raw []byte
	switch s := src.(type) {
	case nil:
		*v = Variables{}
		return nil
	case string:
		raw = []byte(s)
	case []byte:
		raw = s
	default:
		return errors.New("variables: unsupported column type")
	}
	out := Variables{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*v = out
	return nil
}

// Values flattens the variables into name -> value.
func (v Variables) Values() map[string]any {
	out := make(map[string]any, len(v))
	for name, variable := range v {
		out[name] = variable.Value
	}
	return out
}

// TemplatePatch carries the fields of a partial update; nil means unchanged.
// An empty Description clears the stored description.
type TemplatePatch struct {
	Name        *string
	Description *string
	HTMLContent *string
	Variables   *Variables
}

func (p TemplatePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.HTMLContent == nil && p.Variables == nil
}

// ApiKey is the displayable metadata of an API key. The secret is never part of it.
type ApiKey struct {
	ID        string  `db:"id" json:"id"`
	Ref       string  `db:"ref" json:"ref"`
	UserID    string  `db:"user_id" json:"user_id"`
	Name      *string `db:"name" json:"name"`
	CreatedAt int64   `db:"created_at" json:"created_at"`
	ExpiredAt *int64  `db:"expired_at" json:"expired_at"`
}

// CreatedApiKey is returned exactly once, when the key is issued.
type CreatedApiKey struct {
	ApiKey
	Key string `json:"key"`
}

// SystemTemplate is a built-in template available to every caller.
type SystemTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	IsSystem    bool      `json:"is_system"`
	HTMLContent string    `json:"html_content"`
	Variables   Variables `json:"variables"`
}
