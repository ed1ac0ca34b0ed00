package common

import (
	"fmt"
	"strings"
)

// EnumStringMap maps enum values to their string representations.
type EnumStringMap map[int]string

// EnumRegistry provides utilities for managing enum string representations.
type EnumRegistry struct {
	mappings map[string]EnumStringMap
}

// NewEnumRegistry creates a new EnumRegistry instance.
func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{
		mappings: make(map[string]EnumStringMap),
	}
}

// RegisterEnum registers an enum type with its string mapping.
func (er *EnumRegistry) RegisterEnum(typeName string, mapping EnumStringMap) {
	er.mappings[typeName] = mapping
}

// FormatEnum formats an enum value for a registered type.
func (er *EnumRegistry) FormatEnum(typeName string, value int) string {
	if mapping, exists := er.mappings[typeName]; exists {
		if str, found := mapping[value]; found {
			return str
		}
	}
	return fmt.Sprintf("unknown_%s(%d)", typeName, value)
}

// ComparisonKindMapping maps comparison kinds to the short names used by
// bindings and metric labels. Zero is not a valid kind.
var ComparisonKindMapping = EnumStringMap{
	1: "eq",    // Equal
	2: "neq",   // NotEqual
	3: "gt",    // GreaterThan
	4: "gt_eq", // GreaterOrEqual
	5: "lt",    // LessThan
	6: "lt_eq", // LessOrEqual
}

// ComparisonSymbolMapping maps comparison kinds to their operator symbols.
var ComparisonSymbolMapping = EnumStringMap{
	1: "==",
	2: "!=",
	3: ">",
	4: ">=",
	5: "<",
	6: "<=",
}

// comparisonAliases are accepted by ParseComparisonKind in addition to the
// canonical names and symbols.
var comparisonAliases = EnumStringMap{
	1: "=",
	2: "ne",
	4: "ge",
	6: "le",
}

var defaultEnumRegistry = func() *EnumRegistry {
	registry := NewEnumRegistry()
	registry.RegisterEnum("ComparisonKind", ComparisonKindMapping)
	registry.RegisterEnum("ComparisonSymbol", ComparisonSymbolMapping)
	return registry
}()

// FormatComparisonKind formats a comparison kind value as its short name.
func FormatComparisonKind(kind int) string {
	return defaultEnumRegistry.FormatEnum("ComparisonKind", kind)
}

// FormatComparisonSymbol formats a comparison kind value as its operator symbol.
func FormatComparisonSymbol(kind int) string {
	return defaultEnumRegistry.FormatEnum("ComparisonSymbol", kind)
}

// StringToEnum provides utilities for parsing enum values from strings.
type StringToEnum struct {
	reverseMappings map[string]map[string]int
}

// NewStringToEnum creates a new StringToEnum instance.
func NewStringToEnum() *StringToEnum {
	return &StringToEnum{
		reverseMappings: make(map[string]map[string]int),
	}
}

// RegisterReverseMapping adds the strings of mapping to the reverse lookup
// for typeName. Later registrations extend earlier ones.
func (ste *StringToEnum) RegisterReverseMapping(typeName string, mapping EnumStringMap) {
	reverseMap, ok := ste.reverseMappings[typeName]
	if !ok {
		reverseMap = make(map[string]int)
		ste.reverseMappings[typeName] = reverseMap
	}
	for value, str := range mapping {
		reverseMap[strings.ToLower(str)] = value
	}
}

// ParseEnum parses a string to its enum value, ignoring case and surrounding space.
func (ste *StringToEnum) ParseEnum(typeName, str string) (int, bool) {
	if reverseMap, exists := ste.reverseMappings[typeName]; exists {
		if value, found := reverseMap[strings.ToLower(strings.TrimSpace(str))]; found {
			return value, true
		}
	}
	return 0, false
}

var defaultStringToEnum = func() *StringToEnum {
	converter := NewStringToEnum()
	converter.RegisterReverseMapping("ComparisonKind", ComparisonKindMapping)
	converter.RegisterReverseMapping("ComparisonKind", ComparisonSymbolMapping)
	converter.RegisterReverseMapping("ComparisonKind", comparisonAliases)
	return converter
}()

// ParseComparisonKind parses a comparison name ("gt_eq"), symbol (">=") or
// alias ("ge") into its kind value.
func ParseComparisonKind(str string) (int, bool) {
	return defaultStringToEnum.ParseEnum("ComparisonKind", str)
}
