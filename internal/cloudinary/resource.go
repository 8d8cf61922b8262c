package cloudinary

import (
	"bytes"
	"encoding/json"
	"errors"
)

// MediaType is the resource-type path segment of a list URL.
type MediaType string

const (
	Image MediaType = "image"
	Video MediaType = "video"
)

// Resource is one asset descriptor from a list response. The raw JSON value is
// retained so the descriptor can be handed on unmodified; the typed accessors
// are filled best-effort and return zero values for missing or mistyped keys.
type Resource struct {
	raw    json.RawMessage
	fields resourceFields
}

type resourceFields struct {
	PublicID  string `json:"public_id"`
	Version   int64  `json:"version"`
	Format    string `json:"format"`
	Type      string `json:"type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"created_at"`
}

var errInvalidResource = errors.New("resource is not valid JSON")

// NewResource builds a Resource from a raw JSON value.
func NewResource(raw []byte) (Resource, error) {
	if !json.Valid(raw) {
		return Resource{}, errInvalidResource
	}
	var r Resource
	if err := r.UnmarshalJSON(raw); err != nil {
		return Resource{}, err
	}
	return r, nil
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	r.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	r.fields = resourceFields{}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		// not an object: keep it as is, nothing to read from it
		return nil
	}
	field(obj, "public_id", &r.fields.PublicID)
	field(obj, "version", &r.fields.Version)
	field(obj, "format", &r.fields.Format)
	field(obj, "type", &r.fields.Type)
	field(obj, "width", &r.fields.Width)
	field(obj, "height", &r.fields.Height)
	field(obj, "created_at", &r.fields.CreatedAt)
	return nil
}

// field decodes obj[key] into dst, leaving dst untouched on a type mismatch.
func field[T any](obj map[string]json.RawMessage, key string, dst *T) {
	raw, ok := obj[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

func (r Resource) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// Raw returns a copy of the descriptor exactly as the API sent it.
func (r Resource) Raw() json.RawMessage {
	if r.raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), r.raw...)
}

func (r Resource) PublicID() string  { return r.fields.PublicID }
func (r Resource) Version() int64    { return r.fields.Version }
func (r Resource) Format() string    { return r.fields.Format }
func (r Resource) Type() string      { return r.fields.Type }
func (r Resource) Width() int        { return r.fields.Width }
func (r Resource) Height() int       { return r.fields.Height }
func (r Resource) CreatedAt() string { return r.fields.CreatedAt }

// ListResponse is the body of a list endpoint.
type ListResponse struct {
	Resources []Resource `json:"resources"`
	UpdatedAt string     `json:"updated_at,omitempty"`

	body []byte
}

// Body returns the undecoded response body, if the response came off the wire.
func (r ListResponse) Body() []byte { return r.body }

func (r *ListResponse) UnmarshalJSON(data []byte) error {
	var wire struct {
		Resources []Resource      `json:"resources"`
		UpdatedAt json.RawMessage `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Resources = wire.Resources
	r.UpdatedAt = ""
	var updated string
	if len(wire.UpdatedAt) > 0 && json.Unmarshal(wire.UpdatedAt, &updated) == nil {
		r.UpdatedAt = updated
	}
	return nil
}
