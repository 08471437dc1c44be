package httpclient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/utils"
)

var ErrMultipartFields = errors.New("fields cannot be merged into a multipart body")

// FinalizeBody merges middleware Fields into the wire body exactly once.
// Rules:
// - Without Fields the body is sent untouched.
// - Fields are serialized and appended to a url encoded body.
// - A multipart body cannot take extra fields.
func (r *HTTPRequest) FinalizeBody() error {
	if len(r.Fields) == 0 {
		return nil
	}
	if strings.HasPrefix(r.Header("Content-Type"), "multipart/") {
		return fmt.Errorf("finalize body: %w", ErrMultipartFields)
	}

	extra := utils.Serialize(r.Fields)
	if len(r.Body) > 0 {
		r.Body = append(append(r.Body, '&'), extra...)
	} else {
		r.Body = []byte(extra)
	}
	r.Fields = nil

	if r.Header("Content-Type") == "" {
		r.SetHeader(dto.HeaderContentType, dto.ContentURLEncoded)
	}
	return nil
}
