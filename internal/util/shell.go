package util

import (
	"regexp"
	"strings"
)

// unsafeShellChars matches any byte that needs quoting for a POSIX shell.
var unsafeShellChars = regexp.MustCompile(`[^\w@%+=:,./-]`)

// ShellQuote returns s quoted for use as a single POSIX shell word.
// Strings made only of safe characters are returned unchanged; everything
// else is wrapped in single quotes, with embedded single quotes spliced
// out as '"'"'.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !unsafeShellChars.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// ShellJoin quotes every argument individually and joins them with spaces.
// The result is a single command line for sh -c.
func ShellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = ShellQuote(arg)
	}
	return strings.Join(quoted, " ")
}
