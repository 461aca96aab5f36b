// Package decode turns wire payloads into typed domain values.
//
// Payloads are decoded exactly once, at the transport boundary. Decoding is
// driven by per-type field tables held in a Registry; the registry is built at
// startup and handed to whatever needs it.
package decode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/CrestNiraj12/feedmirror/domain"
)

// Func converts one wire value.
type Func func(v any) (any, error)

// Field describes how one field of a type is decoded. Decoder names either a
// registered Func or another registered type. Single is false for fields
// holding a list or a keyed map of such values.
type Field struct {
	Decoder string
	Single  bool
}

// Registry holds the decoder functions and field tables.
type Registry struct {
	decoders map[string]Func
	types    map[string]map[string]Field
	events   map[string]string
}

// NewRegistry returns a registry populated with the feeds API tables.
func NewRegistry() *Registry {
	r := &Registry{
		decoders: make(map[string]Func),
		types:    make(map[string]map[string]Field),
		events:   make(map[string]string),
	}
	r.RegisterDecoder(DatetimeDecoder, datetime)
	registerDefaults(r)
	return r
}

// RegisterDecoder adds or replaces a decoder function.
func (r *Registry) RegisterDecoder(name string, fn Func) {
	r.decoders[name] = fn
}

// RegisterType adds or replaces the field table of a type.
func (r *Registry) RegisterType(name string, fields map[string]Field) {
	r.types[name] = fields
}

// RegisterEvent maps a push event type to the type table decoding it.
func (r *Registry) RegisterEvent(eventType, typeName string) {
	r.events[eventType] = typeName
}

// Decode returns a copy of raw with every field in the table of typeName
// decoded. Fields outside the table are copied through untouched.
func (r *Registry) Decode(typeName string, raw map[string]any) (map[string]any, error) {
	table, ok := r.types[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %s", domain.ErrDecode, typeName)
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		field, ok := table[k]
		if !ok || v == nil {
			out[k] = v
			continue
		}
		decoded, err := r.field(field, v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", typeName, k, err)
		}
		out[k] = decoded
	}
	return out, nil
}

func (r *Registry) field(f Field, v any) (any, error) {
	if f.Single {
		return r.one(f.Decoder, v)
	}
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			d, err := r.one(f.Decoder, item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = d
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			d, err := r.one(f.Decoder, item)
			if err != nil {
				return nil, fmt.Errorf("[%s]: %w", k, err)
			}
			out[k] = d
		}
		return out, nil
	}
	return r.one(f.Decoder, v)
}

func (r *Registry) one(name string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if fn, ok := r.decoders[name]; ok {
		return fn(v)
	}
	if _, ok := r.types[name]; ok {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: expected object, got %T", domain.ErrDecode, name, v)
		}
		return r.Decode(name, m)
	}
	return nil, fmt.Errorf("%w: unknown decoder %s", domain.ErrDecode, name)
}

// Into decodes a JSON body of typeName into dst.
func (r *Registry) Into(typeName string, body []byte, dst any) error {
	raw, err := parse(body)
	if err != nil {
		return err
	}
	return r.into(typeName, raw, dst)
}

func (r *Registry) into(typeName string, raw map[string]any, dst any) error {
	decoded, err := r.Decode(typeName, raw)
	if err != nil {
		return err
	}
	data, err := json.Marshal(decoded)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrDecode, typeName, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrDecode, typeName, err)
	}
	return nil
}

// parse keeps numbers as json.Number: nanosecond timestamps do not fit a float64.
func parse(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return raw, nil
}
