package render

import "strings"

// MessageSeparator joins several messages for one field into a single line.
const MessageSeparator = ". "

// NormalizeMessages trims messages, drops blanks and duplicates, and keeps
// the original order.
func NormalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// JoinMessages renders a field's messages as one inline string.
func JoinMessages(messages []string) string {
	return strings.Join(NormalizeMessages(messages), MessageSeparator)
}
