package reporter

import (
	"strings"
	"unicode"
)

// camelCaseToSpaces splits a compact CamelCase identifier into space
// separated words. Acronym runs stay together: "HTTPServerSpec" becomes
// "HTTP Server Spec".
func camelCaseToSpaces(value string) string {
	runes := []rune(value)
	var builder strings.Builder

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
				builder.WriteRune(' ')
			}
		}
		builder.WriteRune(r)
	}

	return builder.String()
}

func snakeCaseToSpaces(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}

// displayName derives the remote case title from a raw test identifier:
// compound snake_case identifiers split on underscores, compact identifiers
// split on camel-case boundaries.
func displayName(rawName string) string {
	if strings.Contains(rawName, "_") {
		return snakeCaseToSpaces(rawName)
	}
	return camelCaseToSpaces(rawName)
}
