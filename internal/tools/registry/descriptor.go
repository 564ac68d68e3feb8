package registry

import (
	"fmt"
)

// Kind is the type of a tool parameter.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindStringList:
		return "string list"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Param declares one tool argument.
type Param struct {
	Name        string
	Kind        Kind
	Required    bool
	Default     any // applied when an optional argument is omitted; nil means none
	Description string
	Enum        []string // allowed values for string parameters
}

// Descriptor is a tool's discoverable contract.
type Descriptor struct {
	Name        string
	Description string
	Params      []Param

	// Service and Operation label metrics and audit records.
	Service   string
	Operation string

	// ReadOnly tools never change remote state.
	ReadOnly bool
}

// Validate checks that parameter names are unique and that no required
// parameter carries a default.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}

	seen := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %s: parameter name must not be empty", d.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %s: duplicate parameter %q", d.Name, p.Name)
		}
		seen[p.Name] = true

		if p.Required && p.Default != nil {
			return fmt.Errorf("tool %s: required parameter %q must not have a default", d.Name, p.Name)
		}
		if p.Default != nil {
			if err := checkDefaultKind(p); err != nil {
				return fmt.Errorf("tool %s: %w", d.Name, err)
			}
		}
	}

	return nil
}

// Param returns the parameter called name.
func (d Descriptor) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// RequiredParams returns the names of required parameters in declaration order.
func (d Descriptor) RequiredParams() []string {
	var names []string
	for _, p := range d.Params {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

func checkDefaultKind(p Param) error {
	ok := false
	switch p.Kind {
	case KindString:
		_, ok = p.Default.(string)
	case KindNumber:
		switch p.Default.(type) {
		case int, int64, float64:
			ok = true
		}
	case KindStringList:
		_, ok = p.Default.([]string)
	}
	if !ok {
		return fmt.Errorf("parameter %q: default %v (%T) is not a %s", p.Name, p.Default, p.Default, p.Kind)
	}
	return nil
}
