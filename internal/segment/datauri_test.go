package segment

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

func TestStripDataURI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare base64", "SGVsbG8=", "SGVsbG8="},
		{"mp3 data URI", "data:audio/mpeg;base64,SGVsbG8=", "SGVsbG8="},
		{"wav data URI", "data:audio/wav;base64,AAAA", "AAAA"},
		{"scheme without base64 marker", "data:text/plain,hello", "data:text/plain,hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripDataURI(tt.in); got != tt.want {
				t.Errorf("StripDataURI(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodePayload(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xFE, 0xFF}
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		payload string
	}{
		{"bare", encoded},
		{"with data URI prefix", "data:audio/mpeg;base64," + encoded},
		{"surrounding whitespace", "  " + encoded + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePayload(tt.payload)
			if err != nil {
				t.Fatalf("DecodePayload() error = %v", err)
			}
			if !bytes.Equal(got, raw) {
				t.Errorf("DecodePayload() = %v, want %v", got, raw)
			}
		})
	}
}

func TestDecodePayloadErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"prefix only", "data:audio/wav;base64,"},
		{"invalid base64", "!!!not base64!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(tt.payload)
			if err == nil {
				t.Fatal("DecodePayload() expected error, got nil")
			}
			var decodeErr *audio.DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("error type = %T, want *audio.DecodeError", err)
			}
		})
	}
}

func TestEncodeDataURIRoundTrip(t *testing.T) {
	wav := []byte{'R', 'I', 'F', 'F', 0, 0, 0, 0}

	uri := EncodeDataURI(wav)

	const prefix = "data:audio/wav;base64,"
	if len(uri) < len(prefix) || uri[:len(prefix)] != prefix {
		t.Fatalf("EncodeDataURI() = %q, want %q prefix", uri, prefix)
	}

	back, err := DecodePayload(uri)
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if !bytes.Equal(back, wav) {
		t.Errorf("round trip = %v, want %v", back, wav)
	}
}
