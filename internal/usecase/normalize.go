package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"html"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

const maxMultipartMemory = 1 << 20

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// Recognized payload keys. The first key present wins.
var (
	contactNameKeys = []string{"contact_name", "name"}
	companyNameKeys = []string{"company_name"}
	emailKeys       = []string{"email"}
	phoneKeys       = []string{"phone"}
	messageKeys     = []string{"message", "project"}
	honeypotKeys    = []string{"website"}
)

var errMalformed = &DomainError{Code: CodeMalformedRequest, Message: "Invalid request payload."}

var (
	errNotObject    = errors.New("payload is not a JSON object")
	errTrailingData = errors.New("unexpected data after JSON object")
)

// NormalizeRequest parses a raw JSON or form-encoded body into a sanitized
// submission. Anything that is not structured key/value data is rejected with
// MALFORMED_REQUEST.
func NormalizeRequest(contentType string, body []byte) (entity.Submission, error) {
	fields, err := parseFields(contentType, body)
	if err != nil {
		return entity.Submission{}, errMalformed
	}
	return NormalizeFields(fields), nil
}

// NormalizeFields extracts the recognized fields, defaulting missing ones to
// "", and sanitizes every value.
func NormalizeFields(fields map[string]string) entity.Submission {
	return entity.Submission{
		ContactName: pick(fields, contactNameKeys),
		CompanyName: pick(fields, companyNameKeys),
		Email:       pick(fields, emailKeys),
		Phone:       pick(fields, phoneKeys),
		Message:     pick(fields, messageKeys),
		Honeypot:    pick(fields, honeypotKeys),
	}
}

// Sanitize trims, strips markup and escapes HTML-significant characters.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = htmlTagRegex.ReplaceAllString(s, "")
	return html.EscapeString(strings.TrimSpace(s))
}

// pick returns the first key present, even when its value is empty.
func pick(fields map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return Sanitize(v)
		}
	}
	return ""
}

func parseFields(contentType string, body []byte) (map[string]string, error) {
	mediaType, params, _ := mime.ParseMediaType(contentType)

	switch mediaType {
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, err
		}
		return flattenValues(values), nil

	case "multipart/form-data":
		form, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).ReadForm(maxMultipartMemory)
		if err != nil {
			return nil, err
		}
		defer form.RemoveAll()
		return flattenValues(form.Value), nil

	default:
		return parseJSONObject(body)
	}
}

func parseJSONObject(body []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errNotObject
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = strconv.FormatBool(val)
		}
	}
	return fields, nil
}

func flattenValues(values map[string][]string) map[string]string {
	fields := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields
}
