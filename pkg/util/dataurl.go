package util

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
)

// DataURL encodes an image file as a data URL for inline previews. The
// media type comes from the file extension, falling back to content
// sniffing.
func DataURL(fileName string, data []byte) string {
	mediaType := mime.TypeByExtension(filepath.Ext(fileName))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data))
}
