package conf

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrDuplicateGroup is returned when declaring a group name that already exists.
	ErrDuplicateGroup = errors.New("configuration group already declared")

	// ErrInvalidName is returned when a group or property name is not a valid identifier.
	ErrInvalidName = errors.New("invalid configuration name")

	// ErrUnknownGroup is returned when accessing a group that was never declared.
	ErrUnknownGroup = errors.New("unknown configuration group")

	// ErrUnknownProp is returned when accessing a property that was never declared.
	ErrUnknownProp = errors.New("unknown configuration property")

	// ErrFrozenProp is returned when writing a property outside a MutateLocally scope.
	ErrFrozenProp = errors.New("configuration properties are frozen")

	// ErrAmbiguousType is returned when a property with a nil default is declared
	// without an explicit parser.
	ErrAmbiguousType = errors.New("ambiguous property type")

	// ErrConfigNotFound is returned by LoadFile when the file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrModuleNotFound is returned by LoadModule when no file matching the
	// dotted name exists on the search path. It is distinct from
	// ErrConfigNotFound so callers can treat optional named configs separately.
	ErrModuleNotFound = errors.New("configuration module not found")
)

func unknownGroupError(group string) error {
	return fmt.Errorf("%w '%s'", ErrUnknownGroup, group)
}

func unknownPropError(group, prop string) error {
	return fmt.Errorf("%w: unknown '%s' property in configuration group '%s'", ErrUnknownProp, prop, group)
}

func frozenPropError(group, prop string) error {
	return fmt.Errorf("%w: cannot set '%s.%s'; values change only through loaders or inside MutateLocally", ErrFrozenProp, group, prop)
}
