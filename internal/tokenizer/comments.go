package tokenizer

import "strings"

// commentPrefixes maps a lowercase extension to its line comment prefix.
var commentPrefixes = map[string]string{
	// C-style
	".go":    "//",
	".c":     "//",
	".h":     "//",
	".cpp":   "//",
	".hpp":   "//",
	".cc":    "//",
	".cxx":   "//",
	".java":  "//",
	".js":    "//",
	".jsx":   "//",
	".ts":    "//",
	".tsx":   "//",
	".cs":    "//",
	".swift": "//",
	".kt":    "//",
	".kts":   "//",
	".scala": "//",
	".rs":    "//",
	".php":   "//",
	".dart":  "//",
	".zig":   "//",
	// Hash-style
	".py":   "#",
	".rb":   "#",
	".sh":   "#",
	".bash": "#",
	".zsh":  "#",
	".pl":   "#",
	".r":    "#",
	".yaml": "#",
	".yml":  "#",
	".toml": "#",
	".tf":   "#",
	".mk":   "#",
	".ps1":  "#",
	".jl":   "#",
	".ex":   "#",
	".exs":  "#",
	// Others
	".sql": "--",
	".lua": "--",
	".hs":  "--",
	".erl": "%",
	".tex": "%",
	".vim": "\"",
}

func isCommentOnly(line, prefix string) bool {
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), prefix)
}

// stripBlockComments blanks every /* ... */ comment. Newlines inside a
// comment are kept so that later lines keep their numbers. An unterminated
// comment runs to the end of the text.
func stripBlockComments(content string) string {
	result := []byte(content)
	i := 0
	for i < len(result) {
		if i+1 < len(result) && result[i] == '/' && result[i+1] == '*' {
			result[i] = ' '
			result[i+1] = ' '
			j := i + 2
			for j < len(result) {
				if j+1 < len(result) && result[j] == '*' && result[j+1] == '/' {
					result[j] = ' '
					result[j+1] = ' '
					break
				}
				if result[j] != '\n' {
					result[j] = ' '
				}
				j++
			}
			i = j + 2
		} else {
			i++
		}
	}
	return string(result)
}
