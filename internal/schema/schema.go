// Package schema derives the structured-output contract of a model response
// from a tagged Go struct. The same tags produce the JSON Schema sent to the
// model, the field list embedded in the instructions and the validation
// applied to whatever the model returns.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai/jsonschema"

	"onchainiq/pkg/util"
)

// Schema is the contract for a model output of type T.
type Schema[T any] struct {
	name        string
	description string
	root        *node
	validate    *validator.Validate
}

// New builds the schema of T, which must be a struct.
func New[T any](name, description string) (*Schema[T], error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema %s: %T is not a struct", name, zero)
	}

	root, err := buildNode(t, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}

	return &Schema[T]{
		name:        name,
		description: description,
		root:        root,
		validate:    newValidator(),
	}, nil
}

// Must is New that panics. Meant for package-level schema variables.
func Must[T any](s *Schema[T], err error) *Schema[T] {
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema[T]) Name() string { return s.name }

func (s *Schema[T]) Description() string { return s.description }

// Definition returns the JSON Schema of T. Every property is listed as
// required and optional ones are marked Nullable, the form strict structured
// output demands. Decode treats null as absent.
func (s *Schema[T]) Definition() *jsonschema.Definition {
	return definition(s.root, "")
}

// JSONSchema is Definition encoded for the wire: nullable properties become
// a type union with "null" instead of carrying the nullable keyword.
func (s *Schema[T]) JSONSchema() json.Marshaler {
	return wireSchema{def: s.Definition()}
}

type wireSchema struct {
	def *jsonschema.Definition
}

func (w wireSchema) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(w.def)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	unionNull(doc)
	return json.Marshal(doc)
}

func unionNull(v any) {
	switch t := v.(type) {
	case map[string]any:
		if nullable, _ := t["nullable"].(bool); nullable {
			delete(t, "nullable")
			if typ, ok := t["type"].(string); ok {
				t["type"] = []any{typ, "null"}
			}
			if enum, ok := t["enum"].([]any); ok {
				t["enum"] = append(enum, nil)
			}
		}
		for _, child := range t {
			unionNull(child)
		}
	case []any:
		for _, child := range t {
			unionNull(child)
		}
	}
}

func definition(n *node, desc string) *jsonschema.Definition {
	d := &jsonschema.Definition{Description: desc}
	if c := n.constraint(); c != "" {
		if d.Description != "" {
			d.Description += " (" + c + ")"
		} else {
			d.Description = c
		}
	}

	switch n.kind {
	case kindString:
		d.Type = jsonschema.String
		d.Enum = n.enum
	case kindNumber:
		d.Type = jsonschema.Number
	case kindInteger:
		d.Type = jsonschema.Integer
	case kindBoolean:
		d.Type = jsonschema.Boolean
	case kindArray:
		d.Type = jsonschema.Array
		d.Items = definition(n.elem, "")
	case kindObject:
		d.Type = jsonschema.Object
		d.Properties = make(map[string]jsonschema.Definition, len(n.fields))
		d.Required = []string{}
		for _, f := range n.fields {
			p := definition(f.node, f.desc)
			p.Nullable = !f.required
			d.Properties[f.name] = *p
			d.Required = append(d.Required, f.name)
		}
		d.AdditionalProperties = false
	}
	return d
}

// Describe lists every field of T, one line each, for embedding in
// natural-language instructions.
func (s *Schema[T]) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Respond with a single JSON object (%s) with these fields:\n", s.name)
	describe(&b, s.root, "")
	return strings.TrimRight(b.String(), "\n")
}

func describe(b *strings.Builder, n *node, prefix string) {
	for _, f := range n.fields {
		path := prefix + f.name
		typ := f.node.kind.String()
		target := f.node
		if f.node.kind == kindArray {
			typ = "array of " + f.node.elem.kind.String()
			target = f.node.elem
		}

		b.WriteString("- ")
		b.WriteString(path)
		b.WriteString(" (")
		b.WriteString(typ)
		if c := target.constraint(); c != "" {
			b.WriteString(", ")
			b.WriteString(c)
		}
		if !f.required {
			b.WriteString(", optional")
		}
		b.WriteString(")")
		if f.desc != "" {
			b.WriteString(": ")
			b.WriteString(f.desc)
		}
		b.WriteString("\n")

		switch {
		case f.node.kind == kindObject:
			describe(b, f.node, path+".")
		case f.node.kind == kindArray && f.node.elem.kind == kindObject:
			describe(b, f.node.elem, path+"[].")
		}
	}
}

// Decode parses raw and checks it against the schema. Any violation returns
// a *SchemaValidationError and the zero T. Values that satisfy the schema are
// returned exactly as the model produced them.
func (s *Schema[T]) Decode(raw []byte) (T, error) {
	var zero T

	raw = bytes.TrimSpace(raw)
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return zero, s.fail(Violation{Rule: "json", Message: "output is not valid JSON: " + err.Error()})
	}

	var missing []Violation
	checkPresence(s.root, doc, "", &missing)
	if len(missing) > 0 {
		return zero, s.fail(missing...)
	}

	var out T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return zero, s.fail(decodeViolation(err))
	}

	if err := s.validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return zero, fmt.Errorf("schema %s: %w", s.name, err)
		}
		vs := make([]Violation, 0, len(verrs))
		for _, fe := range verrs {
			vs = append(vs, ruleViolation(fe))
		}
		return zero, s.fail(vs...)
	}

	return out, nil
}

func (s *Schema[T]) fail(vs ...Violation) error {
	return &SchemaValidationError{Schema: s.name, Violations: vs}
}

// checkPresence reports required keys that are absent or null.
func checkPresence(n *node, v any, path string, out *[]Violation) {
	switch n.kind {
	case kindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			*out = append(*out, Violation{Path: path, Rule: "type", Message: "must be an object"})
			return
		}
		for _, f := range n.fields {
			child := joinPath(path, f.name)
			val, present := obj[f.name]
			if !present || val == nil {
				if f.required {
					*out = append(*out, Violation{Path: child, Rule: "required", Message: "is required"})
				}
				continue
			}
			checkPresence(f.node, val, child, out)
		}
	case kindArray:
		arr, ok := v.([]any)
		if !ok {
			return
		}
		for i, item := range arr {
			checkPresence(n.elem, item, fmt.Sprintf("%s[%d]", path, i), out)
		}
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func decodeViolation(err error) Violation {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Violation{
			Path:    typeErr.Field,
			Rule:    "type",
			Message: fmt.Sprintf("expected %s, got %s", jsonKind(typeErr.Type), typeErr.Value),
		}
	}
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		return Violation{
			Path:    strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`),
			Rule:    "unknown_field",
			Message: "is not part of the schema",
		}
	}
	return Violation{Rule: "json", Message: err.Error()}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

func ruleViolation(fe validator.FieldError) Violation {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}

	var msg string
	switch fe.Tag() {
	case "oneof":
		msg = fmt.Sprintf("must be one of [%s], got %q", strings.ReplaceAll(fe.Param(), " ", ", "), fmt.Sprint(fe.Value()))
	case "gte", "min":
		msg = fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte", "max":
		msg = fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "integral":
		msg = fmt.Sprintf("must be a whole number, got %v", fe.Value())
	case "iso8601":
		msg = fmt.Sprintf("must be an ISO-8601 timestamp, got %q", fmt.Sprint(fe.Value()))
	case "required":
		msg = "must not be empty"
	case "notblank":
		msg = "must not be blank"
	default:
		msg = fmt.Sprintf("failed %s rule", fe.Tag())
	}
	return Violation{Path: path, Rule: fe.Tag(), Message: msg}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("integral", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			x := f.Float()
			return !math.IsInf(x, 0) && x == math.Trunc(x)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, ok := util.ParseISO8601(fl.Field().String())
		return ok
	})
	return v
}
