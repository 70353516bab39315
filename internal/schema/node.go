package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

type kind int

const (
	kindString kind = iota
	kindNumber
	kindInteger
	kindBoolean
	kindArray
	kindObject
)

func (k kind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindNumber:
		return "number"
	case kindInteger:
		return "integer"
	case kindBoolean:
		return "boolean"
	case kindArray:
		return "array"
	default:
		return "object"
	}
}

// node is the shape of one JSON value as declared by struct tags.
type node struct {
	kind   kind
	enum   []string
	min    string
	max    string
	format string
	elem   *node
	fields []*field
}

type field struct {
	name     string
	desc     string
	required bool
	node     *node
}

var timeType = reflect.TypeOf(time.Time{})

// buildNode walks t. rules are the validate tag entries that apply to the
// value itself; elemRules apply to slice elements (the part after "dive").
func buildNode(t reflect.Type, rules, elemRules []string) (*node, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	n := &node{}
	switch {
	case t == timeType:
		n.kind = kindString
		n.format = "date-time"
	case t.Kind() == reflect.String:
		n.kind = kindString
	case t.Kind() == reflect.Bool:
		n.kind = kindBoolean
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Uint64:
		n.kind = kindInteger
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		n.kind = kindNumber
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		n.kind = kindArray
		elem, err := buildNode(t.Elem(), elemRules, nil)
		if err != nil {
			return nil, err
		}
		n.elem = elem
	case t.Kind() == reflect.Struct:
		n.kind = kindObject
		if err := n.addFields(t); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}

	for _, rule := range rules {
		name, param, _ := strings.Cut(rule, "=")
		switch name {
		case "oneof":
			n.enum = strings.Fields(param)
		case "gte", "min":
			if n.kind != kindArray && n.kind != kindString {
				n.min = param
			}
		case "lte", "max":
			if n.kind != kindArray && n.kind != kindString {
				n.max = param
			}
		case "integral":
			n.kind = kindInteger
		case "iso8601":
			n.format = "ISO-8601"
		}
	}
	return n, nil
}

func (n *node) addFields(t reflect.Type) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if err := n.addFields(sf.Type); err != nil {
				return err
			}
			continue
		}

		name, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		rules, elemRules := splitRules(sf.Tag.Get("validate"))
		child, err := buildNode(sf.Type, rules, elemRules)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err)
		}
		n.fields = append(n.fields, &field{
			name:     name,
			desc:     sf.Tag.Get("desc"),
			required: !strings.Contains(","+opts+",", ",omitempty,"),
			node:     child,
		})
	}
	return nil
}

func splitRules(tag string) (own, elem []string) {
	if tag == "" {
		return nil, nil
	}
	target := &own
	for _, r := range strings.Split(tag, ",") {
		if r == "dive" {
			target = &elem
			continue
		}
		*target = append(*target, r)
	}
	return own, elem
}

// constraint renders the value restrictions of n as text, "" when none.
func (n *node) constraint() string {
	var parts []string
	if len(n.enum) > 0 {
		parts = append(parts, "one of "+strings.Join(n.enum, " | "))
	}
	switch {
	case n.min != "" && n.max != "":
		parts = append(parts, fmt.Sprintf("%s to %s", n.min, n.max))
	case n.min != "":
		parts = append(parts, ">= "+n.min)
	case n.max != "":
		parts = append(parts, "<= "+n.max)
	}
	if n.format != "" {
		parts = append(parts, n.format)
	}
	return strings.Join(parts, ", ")
}
