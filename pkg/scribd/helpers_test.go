package scribd

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "test-key"
	testSecret = "test-secret"
)

// apiCall is one request received by the fake API.
type apiCall struct {
	Method string
	Values map[string]string
	Files  map[string]*multipart.FileHeader
	Header http.Header
}

// fakeAPI serves envelopes produced by handler and records every call.
type fakeAPI struct {
	*httptest.Server

	mu      sync.Mutex
	calls   []apiCall
	handler func(call apiCall) (status int, body string)
}

func newFakeAPI(t *testing.T, handler func(call apiCall) (int, string)) *fakeAPI {
	t.Helper()

	f := &fakeAPI{handler: handler}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		call := apiCall{
			Method: r.FormValue("method"),
			Values: make(map[string]string),
			Files:  make(map[string]*multipart.FileHeader),
			Header: r.Header.Clone(),
		}
		for k, v := range r.MultipartForm.Value {
			call.Values[k] = v[0]
		}
		for k, v := range r.MultipartForm.File {
			call.Files[k] = v[0]
		}

		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.mu.Unlock()

		status, body := f.handler(call)
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) LastCall(t *testing.T) apiCall {
	t.Helper()
	calls := f.Calls()
	require.NotEmpty(t, calls)
	return calls[len(calls)-1]
}

// newTestClient returns a client pointed at endpoint with a short retry
// window.
func mustVirtualUser(t *testing.T, c *Client, id string) *VirtualUser {
	t.Helper()
	v, err := c.VirtualUser(id)
	require.NoError(t, err)
	return v
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()

	c, err := New(&Config{
		APIKey:        testKey,
		APISecret:     testSecret,
		Endpoint:      endpoint,
		SiteURL:       "http://www.scribd.test",
		RetryWindow:   300 * time.Millisecond,
		RetryInterval: 5 * time.Millisecond,
		Logger:        hclog.NewNullLogger(),
	})
	require.NoError(t, err)
	return c
}

// ok wraps inner in a successful envelope.
func ok(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><rsp stat="ok">` + inner + `</rsp>`
}

// fail returns a failure envelope with the given code and message.
func fail(code int, message string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><rsp stat="fail"><error code="%d" message="%s"/></rsp>`, code, message)
}

// docResult renders a result element for a document.
func docResult(id int, title string) string {
	return fmt.Sprintf(`<result><doc_id type="integer">%d</doc_id><title><![CDATA[%s]]></title></result>`, id, title)
}

func docResults(tag string, ids ...int) string {
	var b strings.Builder
	b.WriteString("<" + tag + ">")
	for _, id := range ids {
		b.WriteString(docResult(id, fmt.Sprintf("Document %d", id)))
	}
	b.WriteString("</" + tag + ">")
	return b.String()
}

func mustParse(t *testing.T, xml string) *Element {
	t.Helper()
	el, err := ParseElement(strings.NewReader(xml))
	require.NoError(t, err)
	return el
}
