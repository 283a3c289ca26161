package scribd

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestSign(t *testing.T) {
	t.Run("concatenates sorted fields after the secret", func(t *testing.T) {
		fields := Fields{
			"method":  "docs.getList",
			"api_key": "key",
			"limit":   10,
		}
		want := md5Hex("secret" + "api_keykey" + "limit10" + "methoddocs.getList")
		assert.Equal(t, want, Sign("secret", fields))
	})

	t.Run("independent of insertion order", func(t *testing.T) {
		a := Fields{}
		b := Fields{}
		names := []string{"zeta", "alpha", "mid", "beta", "omega"}
		for i, n := range names {
			a[n] = i
		}
		for i := len(names) - 1; i >= 0; i-- {
			b[names[i]] = i
		}
		assert.Equal(t, Sign("s", a), Sign("s", b))
	})

	t.Run("excludes file fields and nil values", func(t *testing.T) {
		withFile := Fields{
			"doc_type": "pdf",
			"file":     File{Name: "report.pdf", Data: []byte("%PDF-1.4")},
			"access":   nil,
		}
		without := Fields{"doc_type": "pdf"}
		assert.Equal(t, Sign("s", without), Sign("s", withFile))
	})

	t.Run("depends on the secret", func(t *testing.T) {
		fields := Fields{"a": "b"}
		assert.NotEqual(t, Sign("one", fields), Sign("two", fields))
	})
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string", value: "héllo", want: "héllo"},
		{name: "int", value: 42, want: "42"},
		{name: "negative int64", value: int64(-7), want: "-7"},
		{name: "uint", value: uint(9), want: "9"},
		{name: "float", value: 1.5, want: "1.5"},
		{name: "large float has no exponent", value: 1e21, want: "1000000000000000000000"},
		{name: "true", value: true, want: "1"},
		{name: "false", value: false, want: "0"},
		{name: "bytes", value: []byte("raw"), want: "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}

func TestNormalize(t *testing.T) {
	fields := Fields{
		"b":    "2",
		"a":    1,
		"skip": nil,
		"file": &File{Name: "x.txt", Data: []byte("x")},
	}

	got := fields.normalize()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "1", got[0].Value)
	assert.Equal(t, "b", got[1].Name)
	assert.Equal(t, "file", got[2].Name)
	require.NotNil(t, got[2].File)
	assert.Equal(t, "x.txt", got[2].File.Name)
}

func TestEncodeMultipart(t *testing.T) {
	form := Fields{
		"method":   "docs.upload",
		"doc_type": "pdf",
		"file":     File{Name: "report.pdf", Data: []byte("%PDF-1.4 content")},
	}.normalize()

	body, contentType, err := encodeMultipart(form, "test-boundary")
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data; boundary=test-boundary", contentType)
	assert.True(t, strings.HasPrefix(string(body), "--test-boundary\r\n"))
	assert.True(t, strings.HasSuffix(string(body), "--test-boundary--\r\n"))

	r := multipart.NewReader(strings.NewReader(string(body)), "test-boundary")

	var names []string
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		names = append(names, part.FormName())

		switch part.FormName() {
		case "file":
			assert.Equal(t, "report.pdf", part.FileName())
			assert.Equal(t, "application/pdf", part.Header.Get("Content-Type"))
			assert.Equal(t, "%PDF-1.4 content", string(data))
		case "doc_type":
			assert.Empty(t, part.FileName())
			assert.Equal(t, "pdf", string(data))
		}
	}
	assert.Equal(t, []string{"doc_type", "file", "method"}, names)

	again, _, err := encodeMultipart(form, "test-boundary")
	require.NoError(t, err)
	assert.Equal(t, body, again, "encoding must be deterministic")
}

func TestGuessContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", guessContentType("a/b/REPORT.PDF"))
	assert.Equal(t, "application/octet-stream", guessContentType("noext"))
}
