package internal

import (
	"go/token"
	"strings"
	"unicode"
)

// Panics if given non-nil error.
// Should be used only in case of non-recoverable developer error, e.g. a broken built-in catalog.
func PanicOnError(err error) {
	if err != nil {
		panic(err)
	}
}

// Converts a native name such as `bitwise_and` or `cornerHarris` into an exported Go identifier.
func ExportedName(name string) string {
	var builder strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		builder.WriteRune(r)
	}

	return builder.String()
}

// Converts a native name into a snake_case file name stem.
func SnakeName(name string) string {
	var builder strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				builder.WriteRune('_')
			}
			r = unicode.ToLower(r)
		}
		builder.WriteRune(r)
	}

	return builder.String()
}

// Makes a parameter name safe to use as a Go identifier.
func SafeIdent(name string) string {
	if token.IsKeyword(name) {
		return name + "_"
	}

	return name
}
