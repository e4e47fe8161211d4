package sanitize

import (
	"bytes"
	"net/http"
)

// AllowedImageTypes is the closed set of MIME types accepted as a mockup
// upload (spec §6.5's image normalization step only handles these).
var AllowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

var webpMagic = []byte("WEBP")

// DetectImageType sniffs the declared content type from the raw bytes
// rather than trusting a client-supplied Content-Type header. net/http's
// sniffer does not reliably classify WebP across Go versions, so the RIFF
// container's "WEBP" marker at offset 8 is checked explicitly first.
func DetectImageType(data []byte) (mime string, ok bool) {
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], webpMagic) {
		return "image/webp", true
	}

	detected := http.DetectContentType(data)
	// http.DetectContentType appends a charset/params suffix for some types;
	// image sniffing never does, so an exact match against the allowed set
	// is enough, and any suffixed result is rejected.
	for allowed := range AllowedImageTypes {
		if detected == allowed {
			return detected, true
		}
	}
	return detected, false
}
