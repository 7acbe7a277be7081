package components

import (
	"fmt"
)

// UnknownComponentTypeError is returned when no factory is registered
// under a component type name.
type UnknownComponentTypeError struct {
	Type string
}

func (e *UnknownComponentTypeError) Error() string {
	return fmt.Sprintf("unknown component type %q", e.Type)
}

// ComponentConstructionError reports a parameter block a factory could not
// build from. Param is the dotted path of the offending parameter, if any.
type ComponentConstructionError struct {
	Type   string
	Param  string
	Reason string
	Err    error
}

func (e *ComponentConstructionError) Error() string {
	msg := "construct " + e.Type
	if e.Param != "" {
		msg += ": " + e.Param
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ComponentConstructionError) Unwrap() error { return e.Err }

// invalid reports a bad parameter from inside a factory or schema check.
// The registry fills in Type.
func invalid(param, format string, args ...any) *ComponentConstructionError {
	return &ComponentConstructionError{Param: param, Reason: fmt.Sprintf(format, args...)}
}
