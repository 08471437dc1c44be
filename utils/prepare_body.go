package utils

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/joy-dx/goajax/dto"
)

// Payload is the outcome of preparing request data for the wire.
type Payload struct {
	Body []byte
	// ContentType is only set for multipart bodies
	ContentType string
	// Query is appended to the URL for non body methods
	Query string
}

// PrepareBody decides where request data travels. File inputs always build a
// multipart body; otherwise data is serialized into the body for url encoded
// methods and into the query string for everything else.
func PrepareBody(method string, data any, inputs []dto.FileInput) (Payload, error) {
	if len(inputs) > 0 {
		body, ct, err := BuildMultipart(inputs, data)
		if err != nil {
			return Payload{}, fmt.Errorf("build multipart: %w", err)
		}
		return Payload{Body: body, ContentType: ct}, nil
	}

	serialized := Serialize(data)
	if serialized == "" {
		return Payload{}, nil
	}
	if dto.IsURLEncodedMethod(method) {
		return Payload{Body: []byte(serialized)}, nil
	}
	return Payload{Query: serialized}, nil
}

// BuildMultipart writes every selected file plus the flattened data fields.
func BuildMultipart(inputs []dto.FileInput, data any) ([]byte, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for i, input := range inputs {
		if len(input.Files) == 0 {
			continue
		}
		field := input.Name
		if field == "" {
			field = "file_" + strconv.Itoa(i)
		}
		if len(input.Files) > 1 {
			field += "[]"
		}
		for _, f := range input.Files {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				escapeQuotes(field), escapeQuotes(f.Name)))
			ct := f.ContentType
			if ct == "" {
				ct = "application/octet-stream"
			}
			h.Set("Content-Type", ct)
			part, err := w.CreatePart(h)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(f.Content); err != nil {
				return nil, "", err
			}
		}
	}

	for _, f := range Flatten(data) {
		if err := w.WriteField(f.Key, f.Value.(string)); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
