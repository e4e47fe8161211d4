package sanitize

import "regexp"

// compiledPattern mirrors the teacher's masking.CompiledPattern shape: a
// pre-compiled regex plus the replacement/description used when it fires.
// Unlike masking, sanitize patterns exist to elide dangerous markup from
// user-supplied text (the request description), never to mask
// secrets in LLM output.
type compiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// xssPatterns target the markup shapes that would execute if a description
// field were ever rendered back into an HTML context downstream. Eliding
// (not rejecting the whole request) keeps a user's honest mistake from
// failing an otherwise valid generation request.
var xssPatterns = []compiledPattern{
	{
		Name:        "script_tag",
		Regex:       regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		Replacement: "",
	},
	{
		Name:        "script_tag_unclosed",
		Regex:       regexp.MustCompile(`(?is)<script[^>]*>`),
		Replacement: "",
	},
	{
		Name:        "on_event_handler",
		Regex:       regexp.MustCompile(`(?is)\son\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`),
		Replacement: "",
	},
	{
		Name:        "javascript_uri",
		Regex:       regexp.MustCompile(`(?is)javascript\s*:`),
		Replacement: "",
	},
	{
		Name:        "iframe_tag",
		Regex:       regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`),
		Replacement: "",
	},
}
