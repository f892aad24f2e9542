package resources

import "strings"

// ParseTags decodes a comma-separated tag string into an ordered list of
// trimmed, non-empty tags. Order is preserved and duplicates are kept.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// NormalizeTags rewrites raw tag input into its canonical stored form:
// trimmed, non-empty tags joined with ", ". Empty input yields "".
// Normalizing an already-normalized string is a no-op.
func NormalizeTags(raw string) string {
	return strings.Join(ParseTags(raw), ", ")
}
