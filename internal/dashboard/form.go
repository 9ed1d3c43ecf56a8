package dashboard

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// splitFields splits comma separated input into exactly count trimmed fields.
// Blank fields and missing trailing fields become NotInformed, surplus fields are dropped.
func splitFields(data string, count int) []string {
	parts := strings.Split(data, ",")
	fields := make([]string, count)
	for i := range fields {
		fields[i] = NotInformed
		if i < len(parts) {
			if field := strings.TrimSpace(parts[i]); field != "" {
				fields[i] = field
			}
		}
	}
	return fields
}

// decodeFields fills target with the values of the named fields.
// Values are converted to the field types, so "10.5" becomes a float64.
func decodeFields(names, values []string, target any) error {
	input := make(map[string]interface{}, len(names))
	for i, name := range names {
		input[name] = values[i]
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("error creating decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("error decoding fields: %w", err)
	}
	return nil
}
