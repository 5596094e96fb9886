package helpers

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters with a backslash so the result can
// be used with ESCAPE '\'.
func EscapeLike(s string) string { return likeEscaper.Replace(s) }
