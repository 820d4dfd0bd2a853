package gallery

import "regexp"

var (
	tokenPattern = regexp.MustCompile(`\S+`)
	tagPattern   = regexp.MustCompile(`^@([A-Za-z0-9_]+)$`)
)

// RewriteTags rewrites every whitespace-delimited @name token in the tag text
// into the platform's mention syntax, leaving everything else (including the
// exact whitespace) untouched. It runs only at edit submission time; freshly
// created posts always carry the default sentinel.
func RewriteTags(text string) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		m := tagPattern.FindStringSubmatch(token)
		if m == nil {
			return token
		}
		return "<@" + m[1] + ">"
	})
}
