package util

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataURL(t *testing.T) {
	data := []byte("fake-image-bytes")

	url := DataURL("picture.png", data)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	assert.True(t, strings.HasSuffix(url, base64.StdEncoding.EncodeToString(data)))
}

func TestDataURLUnknownExtensionSniffsContent(t *testing.T) {
	// a real PNG header so content sniffing can identify the type
	data := []byte("\x89PNG\r\n\x1a\n0000000000")

	url := DataURL("picture.unknownext", data)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}
