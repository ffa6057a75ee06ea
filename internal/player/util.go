package player

import "strings"

// ParseArgs splits a string of command-line arguments on whitespace. Single or double quotes group
// words; a quote of the other kind inside a quoted section is kept literally.
func ParseArgs(argsString string) []string {
	var args []string
	var current strings.Builder
	var quote rune
	inArg := false

	for _, r := range argsString {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
			inArg = true
		case quote == 0 && (r == ' ' || r == '\t'):
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}

	if inArg {
		args = append(args, current.String())
	}

	return args
}

// hasArg reports whether args contains flag, either bare or as flag=value
func hasArg(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}
