package schema

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// typeRef is a parsed type reference such as "User" or "stream<Event>"
type typeRef struct {
	Stream *typeRef `parser:"  'stream' '<' @@ '>'"`
	Name   string   `parser:"| @Ident"`
}

func (t *typeRef) String() string {
	if t.Stream != nil {
		return "stream<" + t.Stream.String() + ">"
	}
	return t.Name
}

// annotationRef is a parsed annotation such as "provider" or
// `deprecated(reason="use v2")`
type annotationRef struct {
	Name string           `parser:"@Ident"`
	Args []*annotationArg `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

type annotationArg struct {
	Key   string `parser:"@Ident '='"`
	Value string `parser:"@(String | Ident)"`
}

var (
	refLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Punct", Pattern: `[<>(),=]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	typeRefParser = participle.MustBuild[typeRef](
		participle.Lexer(refLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	annotationParser = participle.MustBuild[annotationRef](
		participle.Lexer(refLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)
)

func parseTypeRef(s string) (*typeRef, error) {
	ref, err := typeRefParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid type reference %q: %w", s, err)
	}
	return ref, nil
}

func parseAnnotation(s string) (*annotationRef, error) {
	ref, err := annotationParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid annotation %q: %w", s, err)
	}
	return ref, nil
}
