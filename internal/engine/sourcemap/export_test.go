package sourcemap

import "strings"

// EncodeVLQ exposes writeVLQ for testing.
func EncodeVLQ(v int) string {
	var sb strings.Builder
	writeVLQ(&sb, v)
	return sb.String()
}
