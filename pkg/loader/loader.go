// Package loader decodes results page payloads from JSON, YAML or TOML.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyInput is returned for blank payloads.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidPayload wraps schema violations.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Format names a payload encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var (
	tomlSectionPattern  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// DetectFormat guesses the encoding of input. JSON is recognised by a
// leading brace or bracket, TOML by section headers or a majority of
// key = value lines; anything else is YAML.
func DetectFormat(input string) Format {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}
	if isLikelyTOML(trimmed) {
		return FormatTOML
	}
	if strings.HasPrefix(trimmed, "[") {
		return FormatJSON
	}
	return FormatYAML
}

// decode parses input into generic maps and slices.
func decode(input string) (interface{}, Format, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, "", ErrEmptyInput
	}
	format := DetectFormat(input)
	var data interface{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal([]byte(input), &data)
	case FormatTOML:
		err = toml.Unmarshal([]byte(input), &data)
	default:
		err = yaml.Unmarshal([]byte(input), &data)
	}
	if err != nil {
		return nil, format, fmt.Errorf("invalid %s: %w", strings.ToUpper(string(format)), err)
	}
	return data, format, nil
}

// isLikelyTOML reports whether input has TOML section headers, or whether a
// majority of its lines are key = value pairs (YAML uses key: value).
func isLikelyTOML(input string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}
	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}
