package utils

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/joy-dx/goajax/dto"
)

func TestPrepareBody_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		method    string
		data      any
		wantBody  string
		wantQuery string
	}{
		{
			name:     "put data goes to body",
			method:   "PUT",
			data:     map[string]any{"foo": "bar"},
			wantBody: "foo=bar",
		},
		{
			name:      "get data goes to query",
			method:    "GET",
			data:      map[string]any{"foo": "bar"},
			wantQuery: "foo=bar",
		},
		{
			name:      "head data goes to query",
			method:    "HEAD",
			data:      dto.Fields{{Key: "a", Value: 1}},
			wantQuery: "a=1",
		},
		{
			name:   "empty mapping produces nothing",
			method: "POST",
			data:   map[string]any{},
		},
		{
			name:   "nil data produces nothing",
			method: "DELETE",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PrepareBody(tt.method, tt.data, nil)
			if err != nil {
				t.Fatalf("err=%v", err)
			}
			if string(got.Body) != tt.wantBody {
				t.Fatalf("body=%q want %q", got.Body, tt.wantBody)
			}
			if got.Query != tt.wantQuery {
				t.Fatalf("query=%q want %q", got.Query, tt.wantQuery)
			}
			if got.ContentType != "" {
				t.Fatalf("content-type=%q want empty", got.ContentType)
			}
		})
	}
}

func TestBuildMultipart_FieldNames(t *testing.T) {
	t.Parallel()

	inputs := []dto.FileInput{
		{Name: "avatar", Files: []dto.File{{Name: "a.png", ContentType: "image/png", Content: []byte("png")}}},
		{Files: []dto.File{
			{Name: "1.txt", Content: []byte("one")},
			{Name: "2.txt", Content: []byte("two")},
		}},
		{Name: "empty"},
	}

	got, err := PrepareBody("POST", dto.Fields{{Key: "title", Value: "hi"}}, inputs)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !strings.HasPrefix(got.ContentType, "multipart/form-data") {
		t.Fatalf("content-type=%q", got.ContentType)
	}

	_, params, err := mime.ParseMediaType(got.ContentType)
	if err != nil {
		t.Fatalf("parse media type: %v", err)
	}
	r := multipart.NewReader(bytes.NewReader(got.Body), params["boundary"])

	var fields []string
	var contents []string
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		b, _ := io.ReadAll(part)
		fields = append(fields, part.FormName())
		contents = append(contents, string(b))
	}

	wantFields := []string{"avatar", "file_1[]", "file_1[]", "title"}
	wantContents := []string{"png", "one", "two", "hi"}
	if strings.Join(fields, ",") != strings.Join(wantFields, ",") {
		t.Fatalf("fields=%v want %v", fields, wantFields)
	}
	if strings.Join(contents, ",") != strings.Join(wantContents, ",") {
		t.Fatalf("contents=%v want %v", contents, wantContents)
	}
}
