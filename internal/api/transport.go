package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/rit-client/internal/jsonview"
	"github.com/rickgao/rit-client/internal/version"
)

// Method is the HTTP verb of a request.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodDelete Method = http.MethodDelete
)

// ParseMethod accepts a verb in any case.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(s)); m {
	case MethodGet, MethodPost, MethodDelete:
		return m, nil
	}
	return "", fmt.Errorf("unsupported method %q", s)
}

// hasBody reports whether parameters travel in the request body.
func (m Method) hasBody() bool {
	return m == MethodPost
}

// Params are request parameters. Values must be scalars; nil values are
// left out of the request.
type Params map[string]any

// send performs exactly one round trip and decodes the response body.
func (c *Client) send(ctx context.Context, method Method, path string, params Params) (any, error) {
	values, err := encodeParams(params)
	if err != nil {
		return nil, &Failure{Kind: TransportKind, Method: method, Path: path, Err: fmt.Errorf("encode parameters: %w", err)}
	}

	fullURL := c.baseURL + path
	var body io.Reader
	if method.hasBody() {
		body = strings.NewReader(values.Encode())
	} else if len(values) > 0 {
		fullURL += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, string(method), fullURL, body)
	if err != nil {
		return nil, &Failure{Kind: TransportKind, Method: method, Path: path, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if method.hasBody() {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}
	if id, ok := requestID(ctx); ok {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Failure{Kind: TransportKind, Method: method, Path: path, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Failure{Kind: TransportKind, Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	data, err := jsonview.Parse(raw)
	if err != nil {
		return nil, &Failure{Kind: TransportKind, Method: method, Path: path, StatusCode: resp.StatusCode, Body: raw, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classify(method, path, resp.StatusCode, data, raw)
	}

	return data, nil
}

// classify turns an error document into a Rejected or Throttled failure. A
// non-negative numeric "wait" member marks throttling whatever the status
// code is; a negative one leaves the failure Rejected.
func classify(method Method, path string, status int, data any, raw []byte) *Failure {
	f := &Failure{
		Kind:       RejectedKind,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    http.StatusText(status),
		Body:       raw,
	}

	doc, ok := data.(*jsonview.Object)
	if !ok {
		return f
	}
	m := jsonview.NewMapping(doc)

	if code, err := m.Text("code"); err == nil {
		f.Code = code
	}
	if msg, err := m.Text("message"); err == nil && msg != "" {
		f.Message = msg
	}
	if secs, err := m.Float("wait"); err == nil && secs >= 0 {
		f.Kind = ThrottledKind
		f.Wait = secondsToDuration(secs)
	}

	return f
}

func secondsToDuration(secs float64) time.Duration {
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func encodeParams(params Params) (url.Values, error) {
	values := url.Values{}
	for k, v := range params {
		if isNil(v) {
			continue
		}
		s, err := formatParam(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		values.Set(k, s)
	}
	return values, nil
}

func formatParam(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case fmt.Stringer:
		return t.String(), nil
	}

	// Named scalar types such as OrderType.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.Pointer:
		return formatParam(rv.Elem().Interface())
	}
	return "", fmt.Errorf("unsupported type %T", v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
