package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportName(t *testing.T) {
	tests := map[string]string{
		"getUser":    "GetUser",
		"user_id":    "UserID",
		"userID":     "UserID",
		"id":         "ID",
		"HTTPServer": "HTTPServer",
		"RED":        "Red",
		"list-items": "ListItems",
		"v2":         "V2",
		"2fa":        "X2fa",
		"":           "X",
	}
	for in, want := range tests {
		assert.Equal(t, want, ExportName(in), in)
	}
}

func TestLocalName(t *testing.T) {
	tests := map[string]string{
		"UserID":  "userID",
		"id":      "id",
		"IDToken": "idToken",
		"ctx":     "ctxArg",
		"type":    "typeArg",
		"flux":    "fluxArg",
		"request": "requestArg",
		"topic":   "topic",
	}
	for in, want := range tests {
		assert.Equal(t, want, LocalName(in), in)
	}
}

func TestUniqueNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "a2", "a3"}, uniqueNames([]string{"a", "b", "a", "a"}))
}

func TestCommentLines(t *testing.T) {
	assert.Equal(t, "", commentLines("  "))
	assert.Equal(t, "// First.\n//\n// Second.\n", commentLines("First.\n\nSecond.\n"))
}
