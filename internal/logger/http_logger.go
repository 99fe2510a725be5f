package logger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MaxBodyLogged limits what we read. 1 << 20 = 1 MiB.
const MaxBodyLogged = 1 << 20

// loggedHeaders lists what is kept from HTTP headers and gRPC metadata.
// A true value means the content is masked.
var loggedHeaders = map[string]bool{
	"content-type":   false,
	"user-agent":     false,
	"content-length": false,
	"x-trace-id":     false,
	"x-request-id":   false,
	"traceparent":    false,
	"authorization":  true,
	"set-cookie":     true,
}

func headerAttrs(prefix string, hdr map[string][]string) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(hdr))
	for name, values := range hdr {
		lower := strings.ToLower(name)
		masked, ok := loggedHeaders[lower]
		if !ok {
			continue
		}
		v := strings.Join(values, ", ")
		if masked {
			v = "***"
		}
		attrs = append(attrs, slog.String(prefix+lower, v))
	}
	return attrs
}

// CaptureBody reads r.Body up to MaxBodyLogged bytes and puts a readable copy back.
func CaptureBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyLogged))
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func HeaderAttrs(hdr http.Header) []slog.Attr {
	return headerAttrs("http.header.", hdr)
}

// DecodeBody turns a request or response body into slog attributes by content type.
func DecodeBody(contentType string, body []byte) ([]slog.Attr, error) {
	if len(body) == 0 {
		return nil, nil
	}

	ct, _, _ := mime.ParseMediaType(contentType)
	switch ct {
	case "application/json":
		return jsonAttrs(body)
	case "application/x-www-form-urlencoded":
		return formAttrs(body)
	case "text/plain":
		return []slog.Attr{slog.String("http.body", string(body))}, nil
	default:
		return binaryAttrs(body), nil
	}
}

// QueryAttrs flattens url.Values into slog.Attrs with "http.query." prefix.
func QueryAttrs(q url.Values) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(q))
	for key, values := range q {
		if len(values) == 0 {
			continue
		}
		attrs = append(attrs, slog.String("http.query."+key, strings.Join(values, ",")))
	}
	return attrs
}

func jsonAttrs(b []byte) ([]slog.Attr, error) {
	return jsonAttrsWithPrefix("http.body", b)
}

func jsonAttrsWithPrefix(prefix string, b []byte) ([]slog.Attr, error) {
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return []slog.Attr{slog.String(prefix, string(b))}, nil
	}
	attrs := make([]slog.Attr, 0, 8)
	flattenJSON(prefix, data, &attrs)
	return attrs, nil
}

// flattenJSON keeps only the first and last element of arrays; listings can be large.
func flattenJSON(prefix string, v any, dst *[]slog.Attr) {
	switch t := v.(type) {
	case map[string]any:
		for k, v2 := range t {
			flattenJSON(prefix+"."+k, v2, dst)
		}
	case []any:
		n := len(t)
		if n == 0 {
			return
		}
		*dst = append(*dst, slog.Int(prefix+".len", n))
		flattenJSON(prefix+".0", t[0], dst)
		if n > 1 {
			flattenJSON(prefix+"."+strconv.Itoa(n-1), t[n-1], dst)
		}
	case string:
		*dst = append(*dst, slog.String(prefix, redactIfNeeded(prefix, t)))
	case float64:
		*dst = append(*dst, slog.Float64(prefix, t))
	case bool:
		*dst = append(*dst, slog.Bool(prefix, t))
	case nil:
	default:
		*dst = append(*dst, slog.String(prefix, fmt.Sprintf("%v", t)))
	}
}

func formAttrs(b []byte) ([]slog.Attr, error) {
	vals, err := url.ParseQuery(string(b))
	if err != nil {
		return nil, err
	}
	attrs := make([]slog.Attr, 0, len(vals))
	for k, v := range vals {
		key := "http.body." + k
		attrs = append(attrs, slog.String(key, redactIfNeeded(key, strings.Join(v, ", "))))
	}
	return attrs, nil
}

func binaryAttrs(b []byte) []slog.Attr {
	const max = 256
	if len(b) <= max {
		return []slog.Attr{slog.String("http.body.base64", base64.StdEncoding.EncodeToString(b))}
	}
	return []slog.Attr{
		slog.Int("http.body.size_bytes", len(b)),
		slog.String("http.body.sample_base64", base64.StdEncoding.EncodeToString(b[:max])),
	}
}

// redactIfNeeded hides passwords and issued tokens.
func redactIfNeeded(key, s string) string {
	lk := strings.ToLower(key)
	if strings.HasSuffix(lk, ".token") || strings.Contains(lk, "password") ||
		strings.Contains(strings.ToLower(s), "password") {
		return "***"
	}
	return s
}

// LogHTTPRequest builds attributes for request metadata, allowed headers, query and body.
func LogHTTPRequest(ctx context.Context, r *http.Request, direction string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("http.direction", direction),
		slog.String("http.remote_addr", r.RemoteAddr),
		slog.String("http.method", r.Method),
		slog.String("http.path", r.URL.Path),
	}

	attrs = append(attrs, HeaderAttrs(r.Header)...)
	attrs = append(attrs, QueryAttrs(r.URL.Query())...)

	if body, err := CaptureBody(r); err == nil && len(body) > 0 {
		if bodyAttrs, err := DecodeBody(r.Header.Get("Content-Type"), body); err == nil {
			attrs = append(attrs, bodyAttrs...)
		} else {
			attrs = append(attrs, slog.String("http.body.error", err.Error()))
		}
	}

	return attrs
}

// LogHTTPResponse builds attributes for response status, duration, headers and buffered body.
func LogHTTPResponse(ctx context.Context, req *http.Request, header http.Header, status int, body io.Reader, durationMs int64, direction string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("http.direction", direction),
		slog.String("http.remote_addr", req.RemoteAddr),
		slog.String("http.method", req.Method),
		slog.String("http.path", req.URL.Path),
		slog.Int("http.status", status),
		slog.Int64("duration_ms", durationMs),
	}

	attrs = append(attrs, HeaderAttrs(header)...)

	if body != nil {
		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, body); err == nil && buf.Len() > 0 {
			bAttrs, err := DecodeBody(header.Get("Content-Type"), buf.Bytes())
			if err == nil {
				attrs = append(attrs, bAttrs...)
			} else {
				attrs = append(attrs, slog.String("http.body.error", err.Error()))
			}
		}
	}
	return attrs
}
