package scribd

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// newBoundary returns a random multipart boundary.
func newBoundary() string {
	return "----------" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// encodeMultipart writes fields as a multipart/form-data body in the given
// order and returns the body with its content type.
func encodeMultipart(fields []formField, boundary string) ([]byte, string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, "", fmt.Errorf("invalid boundary: %w", err)
	}

	for _, f := range fields {
		h := make(textproto.MIMEHeader)
		var data []byte
		if f.File != nil {
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				quoteEscaper.Replace(f.Name), quoteEscaper.Replace(f.File.Name)))
			h.Set("Content-Type", guessContentType(f.File.Name))
			data = f.File.Data
		} else {
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, quoteEscaper.Replace(f.Name)))
			data = []byte(f.Value)
		}

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %q: %w", f.Name, err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("failed to write part %q: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return body.Bytes(), w.FormDataContentType(), nil
}

func guessContentType(name string) string {
	if ctype := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ctype != "" {
		return ctype
	}
	return "application/octet-stream"
}
