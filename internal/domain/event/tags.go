package event

import "strings"

// ParseTags splits comma-separated input into an ordered sequence of
// trimmed, non-empty labels.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// NormalizeTags applies the same trim/drop-empty rule to an already-split
// sequence, preserving order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))

	for _, t := range tags {
		t = strings.TrimSpace(t)

		if t != "" {
			out = append(out, t)
		}
	}

	return out
}

// JoinTags is the display form used when seeding an edit draft.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
