package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextStripsNullBytes(t *testing.T) {
	res := Text("hello\x00world", 0)
	assert.True(t, res.NullBytesFound)
	assert.Equal(t, "helloworld", res.Text)
}

func TestTextElidesScriptTag(t *testing.T) {
	res := Text(`a <script>alert(1)</script> b`, 0)
	assert.Contains(t, res.PatternsFired, "script_tag")
	assert.NotContains(t, res.Text, "<script")
}

func TestTextElidesEventHandler(t *testing.T) {
	res := Text(`<img src=x onerror="alert(1)">`, 0)
	assert.Contains(t, res.PatternsFired, "on_event_handler")
	assert.NotContains(t, res.Text, "onerror")
}

func TestTextElidesJavascriptURI(t *testing.T) {
	res := Text(`<a href="javascript:alert(1)">click</a>`, 0)
	assert.Contains(t, res.PatternsFired, "javascript_uri")
}

func TestTextClampsLength(t *testing.T) {
	input := strings.Repeat("a", 100)
	res := Text(input, 10)
	assert.True(t, res.Truncated)
	assert.Len(t, []rune(res.Text), 10)
}

func TestTextLeavesCleanInputUntouched(t *testing.T) {
	res := Text("a perfectly normal description", 0)
	assert.False(t, res.NullBytesFound)
	assert.False(t, res.Truncated)
	assert.Empty(t, res.PatternsFired)
	assert.Equal(t, "a perfectly normal description", res.Text)
}

func TestDetectImageTypePNG(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	mime, ok := DetectImageType(png)
	assert.True(t, ok)
	assert.Equal(t, "image/png", mime)
}

func TestDetectImageTypeWebP(t *testing.T) {
	data := append([]byte("RIFF\x00\x00\x00\x00WEBP"), []byte("VP8 extra bytes here")...)
	mime, ok := DetectImageType(data)
	assert.True(t, ok)
	assert.Equal(t, "image/webp", mime)
}

func TestDetectImageTypeRejectsUnknown(t *testing.T) {
	_, ok := DetectImageType([]byte("not an image at all"))
	assert.False(t, ok)
}
