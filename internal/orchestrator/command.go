package orchestrator

import "strings"

// CleanCommand trims the model's final text and unwraps a reply that is one
// markdown code fence or one inline code span.
func CleanCommand(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		inner := s[3 : len(s)-3]
		if !strings.Contains(inner, "```") {
			// Drop the info string (```bash).
			if i := strings.IndexByte(inner, '\n'); i >= 0 {
				info, rest := strings.TrimSpace(inner[:i]), inner[i+1:]
				if strings.TrimSpace(rest) != "" && !strings.ContainsAny(info, " \t") {
					inner = rest
				}
			}
			return strings.TrimSpace(inner)
		}
	}

	if len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' && !strings.Contains(s[1:len(s)-1], "`") {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
