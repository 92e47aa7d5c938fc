package erp

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeResponse converts a raw ERP response body from windows-1253 to UTF-8.
// The ERP always answers in the legacy Greek code page, so the body must pass
// through here before it is parsed as JSON.
func DecodeResponse(raw []byte) ([]byte, error) {
	decoded, err := charmap.Windows1253.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("erp: decode windows-1253 response: %w", err)
	}
	if !utf8.Valid(decoded) {
		return nil, fmt.Errorf("erp: decoded response is not valid UTF-8")
	}
	return decoded, nil
}
