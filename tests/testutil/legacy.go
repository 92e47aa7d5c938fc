package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

// EncodeWindows1253 converts UTF-8 text to the ERP's legacy Greek code page.
// Characters without a mapping are rejected.
func EncodeWindows1253(text []byte) ([]byte, error) {
	return charmap.Windows1253.NewEncoder().Bytes(text)
}

// LegacyBody encodes a UTF-8 response body the way the ERP sends it
func LegacyBody(t *testing.T, body string) []byte {
	t.Helper()
	raw, err := EncodeWindows1253([]byte(body))
	require.NoError(t, err, "Failed to encode legacy body")
	return raw
}
