package scribd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	envelopeTag     = "rsp"
	filePreviewSize = 16
)

// SendRequest signs and sends an API call and returns the root element of the
// response envelope.
//
// Transport failures and HTTP 500 responses are retried until the configured
// retry window elapses. A stat="fail" envelope is returned as a *RemoteError.
func (c *Client) SendRequest(ctx context.Context, method string, fields Fields) (*Element, error) {
	if !c.config.Configured() {
		return nil, ErrNotConfigured
	}
	if method == "" {
		return nil, fmt.Errorf("%w: method must be specified", ErrInvalidArgument)
	}

	form := fields.with(Fields{
		"method":  method,
		"api_key": c.config.APIKey,
	}).normalize()

	c.logRequest(method, form)

	form = append(form, formField{Name: "api_sig", Value: sign(c.config.APISecret, form)})
	sort.SliceStable(form, func(i, j int) bool { return form[i].Name < form[j].Name })

	body, contentType, err := encodeMultipart(form, c.boundary())
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryInterval
	b.MaxInterval = time.Second
	b.MaxElapsedTime = c.config.RetryWindow

	attempt := 0
	var (
		root *Element
		raw  []byte
	)
	operation := func() error {
		attempt++
		if attempt > 1 {
			c.logger.Debug("retrying request", "method", method, "attempt", attempt)
		}

		resp, err := c.post(ctx, body, contentType)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		root, raw, err = c.readResponse(resp)
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	c.logger.Debug("response", "method", method, "body", strings.TrimSpace(string(raw)))

	if root.Attrs["stat"] == "fail" {
		return nil, envelopeError(method, root)
	}
	return root, nil
}

func (c *Client) post(ctx context.Context, body []byte, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "no-store")

	return c.client.Do(req)
}

// readResponse validates the HTTP response and parses the envelope. Errors
// that must not be retried are wrapped with backoff.Permanent.
func (c *Client) readResponse(resp *http.Response) (*Element, []byte, error) {
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusInternalServerError:
		io.Copy(io.Discard, resp.Body)
		return nil, nil, &MalformedResponseError{
			Status: resp.StatusCode,
			Reason: "remote host internal error",
		}
	default:
		return nil, nil, backoff.Permanent(&MalformedResponseError{
			Status: resp.StatusCode,
			Reason: fmt.Sprintf("remote host status error: %s", resp.Status),
		})
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/xml" {
		return nil, nil, backoff.Permanent(&MalformedResponseError{
			Status: resp.StatusCode,
			Reason: fmt.Sprintf("unexpected remote host response format: %q", resp.Header.Get("Content-Type")),
		})
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read response: %w", ErrUnavailable, err)
	}

	root, err := ParseElement(bytes.NewReader(raw))
	if err != nil || root.Name != envelopeTag {
		return nil, raw, backoff.Permanent(&MalformedResponseError{
			Status: resp.StatusCode,
			Reason: "remote host response could not be interpreted",
		})
	}
	return root, raw, nil
}

// envelopeError builds the RemoteError for a stat="fail" envelope.
func envelopeError(method string, root *Element) error {
	errEl, ok := root.Get("error")
	if !ok {
		return &RemoteError{
			Method:  method,
			Code:    -1,
			Message: "unidentified error:\n" + root.XML(),
		}
	}

	code, err := strconv.Atoi(errEl.Attrs["code"])
	if err != nil {
		code = -1
	}
	return &RemoteError{
		Method:  method,
		Code:    code,
		Message: errEl.Attrs["message"],
	}
}

// logRequest emits the outbound fields without the method, key and file
// contents.
func (c *Client) logRequest(method string, form []formField) {
	if !c.logger.IsDebug() {
		return
	}

	args := make([]string, 0, len(form))
	for _, f := range form {
		switch f.Name {
		case "method", "api_key":
			continue
		}
		if f.File != nil {
			preview := f.File.Data
			if len(preview) > filePreviewSize {
				preview = preview[:filePreviewSize]
			}
			args = append(args, fmt.Sprintf("%s=(%q(...), %q)", f.Name, preview, f.File.Name))
			continue
		}
		args = append(args, fmt.Sprintf("%s=%q", f.Name, f.Value))
	}
	c.logger.Debug("request", "method", method, "fields", strings.Join(args, ", "))
}
