package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePythonBalanced(t *testing.T) {
	errs := validatePython("def f(x):\n    return (x + 1)\n")
	assert.Empty(t, errs)
}

func TestValidatePythonUnclosedBracket(t *testing.T) {
	errs := validatePython("def f(x:\n    return x\n")
	assert.NotEmpty(t, errs)
}

func TestValidatePythonIgnoresBracketsInStrings(t *testing.T) {
	errs := validatePython(`s = "this ( is not [ a bracket { "` + "\n")
	assert.Empty(t, errs)
}

func TestValidatePythonIgnoresBracketsInComments(t *testing.T) {
	errs := validatePython("x = 1  # unmatched ( bracket here\n")
	assert.Empty(t, errs)
}

func TestValidatePythonTripleQuotedStringIsOpaque(t *testing.T) {
	errs := validatePython("s = \"\"\"has ( and [ and { inside\"\"\"\n")
	assert.Empty(t, errs)
}

func TestValidateJSLikeBalanced(t *testing.T) {
	errs := validateJSLike("function f(x) { return [x, 1]; }\n")
	assert.Empty(t, errs)
}

func TestValidateJSLikeIgnoresLineComment(t *testing.T) {
	errs := validateJSLike("const x = 1; // unmatched ( here\n")
	assert.Empty(t, errs)
}

func TestValidateJSLikeIgnoresBlockComment(t *testing.T) {
	errs := validateJSLike("/* unmatched ( [ { */\nconst x = 1;\n")
	assert.Empty(t, errs)
}

func TestValidateJSLikeIgnoresBracketsInStringLiteral(t *testing.T) {
	errs := validateJSLike(`const s = "func() { [ ( unbalanced";` + "\n")
	assert.Empty(t, errs)
}

func TestValidateJSLikeTemplateLiteralInterpolationCounts(t *testing.T) {
	errs := validateJSLike("const s = `value is ${a + (b}`;\n")
	assert.NotEmpty(t, errs)
}

func TestValidateJSLikeTemplateLiteralTextIsOpaque(t *testing.T) {
	errs := validateJSLike("const s = `has ( and [ and { as plain text`;\n")
	assert.Empty(t, errs)
}

func TestValidateJSLikeUnclosedBrace(t *testing.T) {
	errs := validateJSLike("function f() {\n  return 1;\n")
	assert.NotEmpty(t, errs)
}

func TestValidateJSONValid(t *testing.T) {
	errs := validateJSON(`{"a": 1, "b": [1,2,3]}`)
	assert.Empty(t, errs)
}

func TestValidateJSONInvalid(t *testing.T) {
	errs := validateJSON(`{"a": 1,}`)
	assert.NotEmpty(t, errs)
}

func TestValidateHTMLBalanced(t *testing.T) {
	errs := validateHTML("<div><span>hi</span></div>")
	assert.Empty(t, errs)
}

func TestValidateHTMLVoidElementsDoNotRequireClose(t *testing.T) {
	errs := validateHTML("<div><img src=\"a.png\"><br><input type=\"text\"></div>")
	assert.Empty(t, errs)
}

func TestValidateHTMLSelfClosingToleratesXHTMLStyle(t *testing.T) {
	errs := validateHTML("<div><custom-el /></div>")
	assert.Empty(t, errs)
}

func TestValidateHTMLMismatchedClose(t *testing.T) {
	errs := validateHTML("<div><span>hi</div></span>")
	assert.NotEmpty(t, errs)
}

func TestValidateHTMLUnclosedTag(t *testing.T) {
	errs := validateHTML("<div><span>hi</span>")
	assert.NotEmpty(t, errs)
}

func TestValidateHTMLCommentIsOpaque(t *testing.T) {
	errs := validateHTML("<div><!-- <unclosed> --></div>")
	assert.Empty(t, errs)
}

func TestValidateCSSBalanced(t *testing.T) {
	errs := validateCSS(".a { color: red; } .b { color: blue; }")
	assert.Empty(t, errs)
}

func TestValidateCSSUnclosedBrace(t *testing.T) {
	errs := validateCSS(".a { color: red;")
	assert.NotEmpty(t, errs)
}

func TestValidateCSSIgnoresBraceInStringLiteral(t *testing.T) {
	errs := validateCSS(`.a::before { content: "{ not a brace"; }`)
	assert.Empty(t, errs)
}

func TestValidateDispatchesByExtensionAndSkipsUnknown(t *testing.T) {
	files := []FileInput{
		{Path: "a.py", Content: "def f(x):\n    return x\n"},
		{Path: "b.unknownext", Content: "whatever, not checked"},
	}
	result := Validate(files)
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 1, result.ValidatedFiles)
}

func TestValidateAggregatesErrorsAcrossFiles(t *testing.T) {
	files := []FileInput{
		{Path: "a.py", Content: "def f(x:\n    return x\n"},
		{Path: "b.json", Content: `{"a": 1,}`},
	}
	result := Validate(files)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
}

// TestValidateIsIdempotent asserts the advisory property that running the
// validator twice over the same files yields identical errors.
func TestValidateIsIdempotent(t *testing.T) {
	files := []FileInput{
		{Path: "a.py", Content: "def f(x:\n    return x\n"},
		{Path: "b.css", Content: ".a { color: red;"},
		{Path: "c.html", Content: "<div><span>hi</div></span>"},
	}
	first := Validate(files)
	second := Validate(files)
	assert.Equal(t, first, second)
}
