package templates

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
)

// initialisms are rendered fully upper case in exported identifiers
var initialisms = map[string]bool{
	"API": true, "CPU": true, "DNS": true, "EOF": true, "GUID": true,
	"HTML": true, "HTTP": true, "HTTPS": true, "ID": true, "IP": true,
	"JSON": true, "RPC": true, "SQL": true, "TCP": true, "TTL": true,
	"UDP": true, "UI": true, "URI": true, "URL": true, "UTF8": true,
	"UUID": true, "XML": true,
}

// reserved are the identifiers generated function bodies declare or import
var reserved = map[string]bool{
	"ctx": true, "p": true, "in": true, "request": true, "response": true,
	"err": true, "args": true, "handler": true, "svc": true, "impl": true,
	"caller": true, "value": true, "raw": true, "v": true,
	"context": true, "payload": true, "transform": true, "invoke": true,
	"mono": true, "flux": true, "time": true, "fmt": true,
}

// splitWords breaks an identifier on separators and case changes:
// "getUser" -> get, User; "HTTPServer" -> HTTP, Server; "user_id" -> user, id
func splitWords(name string) []string {
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(current) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}

func titleWord(word string) string {
	upper := strings.ToUpper(word)
	if initialisms[upper] {
		return upper
	}
	r := []rune(strings.ToLower(word))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// ExportName converts a model name into an exported Go identifier
func ExportName(name string) string {
	var b strings.Builder
	for _, w := range splitWords(name) {
		b.WriteString(titleWord(w))
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	if unicode.IsDigit([]rune(out)[0]) {
		out = "X" + out
	}
	return out
}

// lowerFirst lower-cases the leading word of an exported identifier,
// keeping initialisms whole: "GetUser" -> "getUser", "IDToken" -> "idToken"
func lowerFirst(exported string) string {
	words := splitWords(exported)
	if len(words) == 0 {
		return exported
	}
	first := words[0]
	return strings.ToLower(first) + exported[len(first):]
}

// LocalName converts a parameter name into an unexported identifier that
// cannot shadow anything a generated body relies on
func LocalName(name string) string {
	local := lowerFirst(ExportName(name))
	if reserved[local] || token.IsKeyword(local) {
		local += "Arg"
	}
	return local
}

// uniqueNames appends a counter to repeated identifiers
func uniqueNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		seen[n]++
		if seen[n] > 1 {
			out[i] = n + strconv.Itoa(seen[n])
			continue
		}
		out[i] = n
	}
	return out
}

// commentLines renders free text as line comments
func commentLines(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// " + line + "\n")
	}
	return b.String()
}
