package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// OptionKind tags the variant held by an OptionValue.
type OptionKind int

const (
	OptionString OptionKind = iota
	OptionNumber
	OptionBool
	OptionList
)

// OptionValue is a plugin option: a string, number, bool or list of strings.
type OptionValue struct {
	kind OptionKind
	str  string
	num  float64
	b    bool
	list []string
}

func StringOption(s string) OptionValue { return OptionValue{kind: OptionString, str: s} }
func NumberOption(n float64) OptionValue { return OptionValue{kind: OptionNumber, num: n} }
func BoolOption(b bool) OptionValue { return OptionValue{kind: OptionBool, b: b} }
func ListOption(items ...string) OptionValue { return OptionValue{kind: OptionList, list: items} }

// Kind reports which variant is held.
func (v OptionValue) Kind() OptionKind { return v.kind }

// AsString returns the value when it is a string.
func (v OptionValue) AsString() (string, bool) {
	return v.str, v.kind == OptionString
}

// AsInt returns the value as an integer when it is a whole number or a numeric string.
func (v OptionValue) AsInt() (int, bool) {
	switch v.kind {
	case OptionNumber:
		if v.num != math.Trunc(v.num) {
			return 0, false
		}
		return int(v.num), true
	case OptionString:
		n, err := strconv.Atoi(strings.TrimSpace(v.str))
		return n, err == nil
	}
	return 0, false
}

// AsBool returns the value when it is a boolean.
func (v OptionValue) AsBool() (bool, bool) {
	return v.b, v.kind == OptionBool
}

// List returns the value as a list; a single string becomes a one-item list.
func (v OptionValue) List() []string {
	switch v.kind {
	case OptionList:
		return append([]string(nil), v.list...)
	case OptionString:
		if v.str != "" {
			return []string{v.str}
		}
	}
	return nil
}

// Format renders the value for display.
func (v OptionValue) Format() string {
	switch v.kind {
	case OptionNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case OptionBool:
		return strconv.FormatBool(v.b)
	case OptionList:
		return "[" + strings.Join(v.list, ", ") + "]"
	default:
		return v.str
	}
}

// UnmarshalYAML decodes scalars by tag and sequences as string lists.
func (v *OptionValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			*v = BoolOption(b)
		case "!!int", "!!float":
			var n float64
			if err := node.Decode(&n); err != nil {
				return err
			}
			*v = NumberOption(n)
		default:
			*v = StringOption(node.Value)
		}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: option lists may only contain scalars", item.Line)
			}
			items = append(items, item.Value)
		}
		*v = ListOption(items...)
		return nil
	default:
		return fmt.Errorf("line %d: option must be a scalar or a list", node.Line)
	}
}

// UnmarshalTOML implements toml.Unmarshaler.
func (v *OptionValue) UnmarshalTOML(data any) error {
	switch val := data.(type) {
	case string:
		*v = StringOption(val)
	case bool:
		*v = BoolOption(val)
	case int64:
		*v = NumberOption(float64(val))
	case float64:
		*v = NumberOption(val)
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			switch it := item.(type) {
			case string:
				items = append(items, it)
			case int64:
				items = append(items, strconv.FormatInt(it, 10))
			case float64:
				items = append(items, strconv.FormatFloat(it, 'f', -1, 64))
			case bool:
				items = append(items, strconv.FormatBool(it))
			default:
				return fmt.Errorf("option lists may only contain scalars, got %T", item)
			}
		}
		*v = ListOption(items...)
	default:
		return fmt.Errorf("option has unsupported type %T", data)
	}
	return nil
}
