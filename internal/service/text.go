package service

import "strings"

// sanitizeUTF8 drops invalid UTF-8 bytes; Postgres rejects them in TEXT columns.
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}
