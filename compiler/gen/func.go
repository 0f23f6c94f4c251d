package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	acronyms = make(map[string]struct{})
	rules    = ruleset()
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HCL", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC",
		"MB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
}

func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// pascal converts the given name into a PascalCase.
//
//	user_info => UserInfo
//	full_name => FullName
//	user_id   => UserID
//	full-admin => FullAdmin
func pascal(s string) string {
	return pascalWords(words(s))
}

// receiver returns the receiver name of the given type.
//
//	User       => u
//	UserQuery  => uq
//	HTTPClient => hc
func receiver(s string) string {
	s = strings.TrimLeft(s, "[]*0123456789")
	var b strings.Builder
	for _, w := range words(snake(s)) {
		b.WriteByte(w[0])
	}
	r := strings.ToLower(b.String())
	if r == "" {
		return "_"
	}
	return r
}

// plural returns the plural form of a lower-case name. Uncountable names are
// returned unchanged.
func plural(s string) string {
	return rules.Pluralize(s)
}

// kebab converts a name to kebab-case.
func kebab(s string) string {
	return strings.ReplaceAll(snake(s), "_", "-")
}
