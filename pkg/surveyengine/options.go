package surveyengine

import "strings"

// ParseOptions turns a raw option-encoding string into ordered value/label
// pairs. Three encodings exist in the catalog, checked in this order:
//
//  1. "v1|Label 1||v2|Label 2" - double-bar separated, value before label;
//     segments without a bar are dropped.
//  2. one option per line, "Label|value" with the label first; lines without
//     a bar are both value and label.
//  3. "a|b|c" - single-bar separated, each token is both value and label.
//
// Anything else yields no options. Duplicates are kept in source order.
func ParseOptions(raw string) []Option {
	options := []Option{}

	if raw == "" {
		return options
	}

	if strings.Contains(raw, "||") {
		for _, segment := range strings.Split(raw, "||") {
			parts := strings.Split(strings.TrimSpace(segment), "|")
			if len(parts) > 1 {
				options = append(options, Option{
					Value: parts[0],
					Label: parts[1],
				})
			}
		}
		return options
	}

	if strings.Contains(raw, "\n") {
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(line)
			if strings.Contains(line, "|") {
				parts := strings.Split(line, "|")
				if len(parts) > 1 {
					// label comes first in this encoding
					options = append(options, Option{
						Value: parts[1],
						Label: parts[0],
					})
				}
			} else {
				options = append(options, Option{
					Value: line,
					Label: line,
				})
			}
		}
		return options
	}

	if strings.Contains(raw, "|") {
		for _, token := range strings.Split(raw, "|") {
			token = strings.TrimSpace(token)
			options = append(options, Option{
				Value: token,
				Label: token,
			})
		}
	}

	return options
}
