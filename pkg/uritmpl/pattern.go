package uritmpl

import (
	"regexp"
	"strings"
)

// compilePattern turns an RFC 6570 template into a regexp that matches any
// literal URI the template could expand to. Each {var}/{+var} expression
// becomes a wildcard group; {+var} (reserved expansion) is allowed to match
// path separators, a bare {var} is not.
func compilePattern(template string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")

	i := 0
	for i < len(template) {
		c := template[i]
		if c == '{' {
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				b.WriteString(regexp.QuoteMeta(template[i:]))
				break
			}
			expr := template[i+1 : i+end]
			if strings.HasPrefix(expr, "+") {
				b.WriteString("(.+)")
			} else {
				b.WriteString("([^/]+)")
			}
			i += end + 1
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(c)))
		i++
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
