// Package audiocodec converts audio payloads between the JSON transport
// encoding (base64, optionally with a data-URI header) and raw bytes.
package audiocodec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPayload is returned when a payload is not valid base64.
// Callers should treat this as "no audio available" and continue with
// whatever text the request carried.
var ErrMalformedPayload = errors.New("audiocodec: malformed base64 payload")

// Decode strips an optional data-URI header ("data:<mime>;base64,") and
// decodes the remaining base64 payload into raw audio bytes.
func Decode(payload string) ([]byte, error) {
	if i := strings.IndexByte(payload, ','); i >= 0 {
		payload = payload[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}

	// Browsers occasionally emit unpadded base64.
	data, rawErr := base64.RawStdEncoding.DecodeString(payload)
	if rawErr == nil {
		return data, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
}

// Encode base64-encodes audio bytes and prepends a data-URI header for
// the given MIME type. Encoding well-formed bytes cannot fail.
func Encode(data []byte, mime string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
