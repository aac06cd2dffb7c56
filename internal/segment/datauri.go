package segment

import (
	"encoding/base64"
	"strings"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

const (
	dataURIScheme  = "data:"
	base64Marker   = "base64,"
	wavDataURIHead = "data:audio/wav;base64,"
)

// StripDataURI removes a data:<mime>;base64, prefix when present,
// returning the bare base64 payload. Strings without the scheme pass
// through unchanged.
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, dataURIScheme) {
		return s
	}
	if idx := strings.Index(s, base64Marker); idx >= 0 {
		return s[idx+len(base64Marker):]
	}
	return s
}

// DecodePayload turns a segment's audio field into compressed bytes,
// stripping any data-URI prefix first. Malformed base64 and empty
// payloads are DecodeErrors: the segment is unusable, its siblings are
// not.
func DecodePayload(payload string) ([]byte, error) {
	raw := StripDataURI(strings.TrimSpace(payload))
	if raw == "" {
		return nil, &audio.DecodeError{Reason: "empty audio payload"}
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, &audio.DecodeError{Reason: "invalid base64 payload", Err: err}
	}
	return data, nil
}

// EncodeDataURI wraps encoded WAV bytes as a data URI.
func EncodeDataURI(wav []byte) string {
	return wavDataURIHead + base64.StdEncoding.EncodeToString(wav)
}
