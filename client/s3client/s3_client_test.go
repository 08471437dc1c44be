package s3client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/joy-dx/goajax/dto"
)

type fakeS3 struct {
	// Captured inputs
	gotGet    []*s3.GetObjectInput
	gotPut    []*s3.PutObjectInput
	gotDelete []*s3.DeleteObjectInput
	gotList   []*s3.ListObjectsV2Input

	// Stubbed outputs / errors
	getOut  *s3.GetObjectOutput
	getErr  error
	putOut  *s3.PutObjectOutput
	putErr  error
	delOut  *s3.DeleteObjectOutput
	delErr  error
	listOut *s3.ListObjectsV2Output
	listErr error
}

func (f *fakeS3) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	f.gotGet = append(f.gotGet, params)
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(nil))}, nil
	}
	return f.getOut, nil
}

func (f *fakeS3) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	f.gotPut = append(f.gotPut, params)
	if f.putErr != nil {
		return nil, f.putErr
	}
	if f.putOut == nil {
		return &s3.PutObjectOutput{}, nil
	}
	return f.putOut, nil
}

func (f *fakeS3) DeleteObject(
	ctx context.Context,
	params *s3.DeleteObjectInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteObjectOutput, error) {
	f.gotDelete = append(f.gotDelete, params)
	if f.delErr != nil {
		return nil, f.delErr
	}
	if f.delOut == nil {
		return &s3.DeleteObjectOutput{}, nil
	}
	return f.delOut, nil
}

func (f *fakeS3) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	f.gotList = append(f.gotList, params)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listOut == nil {
		return &s3.ListObjectsV2Output{}, nil
	}
	return f.listOut, nil
}

func newTestClient(t *testing.T, mw ...Middleware) (*S3Client, *fakeS3) {
	t.Helper()

	f := &fakeS3{}
	c := &S3Client{
		cfg: &S3ClientConfig{
			Middlewares: mw,
		},
		client: f,
		NetClient: dto.NetClient{
			Name:        "S3 Client",
			Ref:         "test",
			ClientType:  NetClientS3Ref,
			Description: "test",
		},
	}
	return c, f
}

func wire(method, url string) *dto.WireRequest {
	return &dto.WireRequest{Method: method, URL: url, Headers: http.Header{}}
}

func TestS3Request_Finalize_Golden(t *testing.T) {
	cases := []struct {
		name    string
		req     *S3Request
		wantErr string

		wantGet    *s3.GetObjectInput
		wantPut    *s3.PutObjectInput
		wantDelete *s3.DeleteObjectInput
		wantList   *s3.ListObjectsV2Input
	}{
		{
			name: "get builds GetObjectInput",
			req: &S3Request{
				Operation: "get",
				Bucket:    "b",
				Key:       "k",
			},
			wantGet: &s3.GetObjectInput{
				Bucket: aws.String("b"),
				Key:    aws.String("k"),
			},
		},
		{
			name: "put builds PutObjectInput with content-type and metadata from map[string]string",
			req: &S3Request{
				Operation:   "put",
				Bucket:      "b",
				Key:         "k",
				Body:        []byte("payload"),
				ContentType: "text/plain",
				ExtraOpts: map[string]any{
					"metadata": map[string]string{
						"a": "1",
						"b": "2",
					},
					"cache_control": "max-age=60",
				},
			},
			wantPut: &s3.PutObjectInput{
				Bucket:       aws.String("b"),
				Key:          aws.String("k"),
				Body:         bytes.NewReader([]byte("payload")),
				ContentType:  aws.String("text/plain"),
				CacheControl: aws.String("max-age=60"),
				Metadata: map[string]string{
					"a": "1",
					"b": "2",
				},
			},
		},
		{
			name: "put builds PutObjectInput metadata from map[string]any (string-only values)",
			req: &S3Request{
				Operation: "put",
				Bucket:    "b",
				Key:       "k",
				Body:      []byte("x"),
				ExtraOpts: map[string]any{
					"metadata": map[string]any{
						"a": "1",
						"b": 2, // ignored
					},
				},
			},
			wantPut: &s3.PutObjectInput{
				Bucket: aws.String("b"),
				Key:    aws.String("k"),
				Body:   bytes.NewReader([]byte("x")),
				Metadata: map[string]string{
					"a": "1",
				},
			},
		},
		{
			name: "get carries If-None-Match",
			req: &S3Request{
				Operation: "get",
				Bucket:    "b",
				Key:       "k",
				Headers:   map[string]string{"If-None-Match": "etag"},
			},
			wantGet: &s3.GetObjectInput{
				Bucket:      aws.String("b"),
				Key:         aws.String("k"),
				IfNoneMatch: aws.String("etag"),
			},
		},
		{
			name: "delete builds DeleteObjectInput",
			req: &S3Request{
				Operation: "delete",
				Bucket:    "b",
				Key:       "k",
			},
			wantDelete: &s3.DeleteObjectInput{
				Bucket: aws.String("b"),
				Key:    aws.String("k"),
			},
		},
		{
			name: "list builds ListObjectsV2Input with prefix",
			req: &S3Request{
				Operation: "list",
				Bucket:    "b",
				Prefix:    "p/",
			},
			wantList: &s3.ListObjectsV2Input{
				Bucket:    aws.String("b"),
				Prefix:    aws.String("p/"),
				Delimiter: aws.String("/"),
			},
		},
		{
			name: "unsupported operation returns error",
			req: &S3Request{
				Operation: "nope",
			},
			wantErr: "unsupported s3 operation: nope",
		},
		{
			name: "Finalize clears previously prepared inputs before rebuilding",
			req: &S3Request{
				Operation: "get",
				Bucket:    "b",
				Key:       "k",
				PutInput:  &s3.PutObjectInput{Bucket: aws.String("old")},
			},
			wantGet: &s3.GetObjectInput{
				Bucket: aws.String("b"),
				Key:    aws.String("k"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Finalize()
			if tc.wantErr != "" {
				if err == nil || err.Error() != tc.wantErr {
					t.Fatalf("expected err=%q, got=%v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Finalize error: %v", err)
			}

			// Helper: compare AWS input structs with pointer fields.
			// For PutObjectInput, Body is an io.ReadSeeker; compare by reading.
			if tc.wantGet != nil && !reflect.DeepEqual(tc.req.GetInput, tc.wantGet) {
				t.Fatalf("GetInput mismatch:\n got=%#v\nwant=%#v", tc.req.GetInput, tc.wantGet)
			}
			if tc.wantDelete != nil && !reflect.DeepEqual(tc.req.DeleteInput, tc.wantDelete) {
				t.Fatalf("DeleteInput mismatch:\n got=%#v\nwant=%#v", tc.req.DeleteInput, tc.wantDelete)
			}
			if tc.wantList != nil && !reflect.DeepEqual(tc.req.ListInput, tc.wantList) {
				t.Fatalf("ListInput mismatch:\n got=%#v\nwant=%#v", tc.req.ListInput, tc.wantList)
			}
			if tc.wantPut != nil {
				if tc.req.PutInput == nil {
					t.Fatalf("expected PutInput, got nil")
				}
				// Compare all fields except Body by zeroing Body for DeepEqual,
				// then compare Body contents separately.
				got := *tc.req.PutInput
				want := *tc.wantPut
				gotBody := got.Body
				wantBody := want.Body
				got.Body = nil
				want.Body = nil

				if !reflect.DeepEqual(&got, &want) {
					t.Fatalf("PutInput mismatch (excluding Body):\n got=%#v\nwant=%#v", &got, &want)
				}

				gotBytes, err := io.ReadAll(gotBody)
				if err != nil {
					t.Fatalf("read got body: %v", err)
				}
				wantBytes, err := io.ReadAll(wantBody)
				if err != nil {
					t.Fatalf("read want body: %v", err)
				}
				if !bytes.Equal(gotBytes, wantBytes) {
					t.Fatalf("PutInput.Body mismatch: got=%q want=%q", string(gotBytes), string(wantBytes))
				}
			}
		})
	}
}

func TestS3Client_ProcessRequest_Golden(t *testing.T) {
	errBoom := errors.New("boom")

	type golden struct {
		status   int
		body     string
		headers  map[string]string
		errIs    error
		errMatch string
	}

	cases := []struct {
		name  string
		req   *dto.WireRequest
		mw    []Middleware
		setup func(f *fakeS3)
		want  golden
		check func(t *testing.T, f *fakeS3)
	}{
		{
			name: "non s3 url is rejected",
			req:  wire(http.MethodGet, "http://example.com/x"),
			want: golden{errIs: ErrNotS3URL},
		},
		{
			name: "middleware aborts before the sdk call",
			req:  wire(http.MethodGet, "s3://b/k"),
			mw: []Middleware{func(ctx context.Context, r *S3Request) error {
				return errBoom
			}},
			want: golden{errIs: errBoom},
			check: func(t *testing.T, f *fakeS3) {
				if len(f.gotGet) != 0 {
					t.Fatalf("GetObject called %d times", len(f.gotGet))
				}
			},
		},
		{
			name: "get returns body, content type and metadata headers",
			req:  wire(http.MethodGet, "s3://b/tpl/item.html"),
			setup: func(f *fakeS3) {
				f.getOut = &s3.GetObjectOutput{
					Body:        io.NopCloser(strings.NewReader("<p>item</p>")),
					ContentType: aws.String("text/html"),
					Metadata:    map[string]string{"x-version": "7"},
				}
			},
			want: golden{
				status:  200,
				body:    "<p>item</p>",
				headers: map[string]string{"Content-Type": "text/html", "X-Version": "7"},
			},
			check: func(t *testing.T, f *fakeS3) {
				if aws.ToString(f.gotGet[0].Bucket) != "b" || aws.ToString(f.gotGet[0].Key) != "tpl/item.html" {
					t.Fatalf("get input=%#v", f.gotGet[0])
				}
			},
		},
		{
			name:  "missing key is a 404 exchange",
			req:   wire(http.MethodGet, "s3://b/missing"),
			setup: func(f *fakeS3) { f.getErr = &s3types.NoSuchKey{} },
			want:  golden{status: 404},
		},
		{
			name:  "get sdk error is wrapped",
			req:   wire(http.MethodGet, "s3://b/k"),
			setup: func(f *fakeS3) { f.getErr = errBoom },
			want:  golden{errIs: errBoom, errMatch: "s3 get object"},
		},
		{
			name: "put sends body and content type",
			req: func() *dto.WireRequest {
				w := wire(http.MethodPut, "s3://b/k")
				w.Body = []byte("payload")
				w.Headers.Set("Content-Type", "text/plain")
				w.Headers.Set("X-Amz-Meta-Owner", "me")
				return w
			}(),
			mw:   []Middleware{HeaderMetaMiddleware()},
			want: golden{status: 200},
			check: func(t *testing.T, f *fakeS3) {
				in := f.gotPut[0]
				if aws.ToString(in.ContentType) != "text/plain" || in.Metadata["owner"] != "me" {
					t.Fatalf("put input=%#v", in)
				}
				got, _ := io.ReadAll(in.Body)
				if string(got) != "payload" {
					t.Fatalf("put body=%q", got)
				}
			},
		},
		{
			name:  "put sdk error is wrapped",
			req:   wire(http.MethodPost, "s3://b/k"),
			setup: func(f *fakeS3) { f.putErr = errBoom },
			want:  golden{errIs: errBoom, errMatch: "s3 put object"},
		},
		{
			name: "delete routes to DeleteObject",
			req:  wire(http.MethodDelete, "s3://b/k"),
			want: golden{status: 200},
			check: func(t *testing.T, f *fakeS3) {
				if len(f.gotDelete) != 1 {
					t.Fatalf("DeleteObject calls=%d", len(f.gotDelete))
				}
			},
		},
		{
			name: "trailing slash lists newline separated keys",
			req:  wire(http.MethodGet, "s3://b/tpl/"),
			setup: func(f *fakeS3) {
				f.listOut = &s3.ListObjectsV2Output{
					Contents: []s3types.Object{{Key: aws.String("tpl/a")}, {Key: aws.String("tpl/b")}},
				}
			},
			want: golden{status: 200, body: "tpl/a\ntpl/b\n"},
			check: func(t *testing.T, f *fakeS3) {
				if aws.ToString(f.gotList[0].Prefix) != "tpl/" {
					t.Fatalf("list input=%#v", f.gotList[0])
				}
			},
		},
		{
			name:  "list sdk error is wrapped",
			req:   wire(http.MethodGet, "s3://b"),
			setup: func(f *fakeS3) { f.listErr = errBoom },
			want:  golden{errIs: errBoom, errMatch: "s3 list objects"},
		},
		{
			name: "unsupported method",
			req:  wire("OPTIONS", "s3://b/k"),
			want: golden{errMatch: "unsupported s3 method"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, f := newTestClient(t, tc.mw...)
			if tc.setup != nil {
				tc.setup(f)
			}

			var stages []dto.ReadyState
			ex, err := c.ProcessRequest(context.Background(), tc.req, func(stage dto.ReadyState, ex dto.Exchange) {
				stages = append(stages, stage)
			})

			if tc.want.errIs != nil || tc.want.errMatch != "" {
				if err == nil {
					t.Fatalf("expected error, got exchange %+v", ex)
				}
				if tc.want.errIs != nil && !errors.Is(err, tc.want.errIs) {
					t.Fatalf("err=%v; want %v", err, tc.want.errIs)
				}
				if tc.want.errMatch != "" && !strings.Contains(err.Error(), tc.want.errMatch) {
					t.Fatalf("err=%v; want contains %q", err, tc.want.errMatch)
				}
			} else {
				if err != nil {
					t.Fatalf("ProcessRequest error: %v", err)
				}
				if ex.StatusCode != tc.want.status || string(ex.Body) != tc.want.body {
					t.Fatalf("exchange=%d %q; want %d %q", ex.StatusCode, ex.Body, tc.want.status, tc.want.body)
				}
				for k, v := range tc.want.headers {
					if got := ex.Headers.Get(k); got != v {
						t.Fatalf("header %s=%q; want %q", k, got, v)
					}
				}
				if !reflect.DeepEqual(stages, []dto.ReadyState{dto.Opened, dto.HeadersReceived}) {
					t.Fatalf("stages=%v", stages)
				}
			}
			if tc.check != nil {
				tc.check(t, f)
			}
		})
	}
}

func TestS3Client_Type_And_Ref_Golden(t *testing.T) {
	c, _ := newTestClient(t)
	if c.Ref() != "test" {
		t.Fatalf("Ref=%q", c.Ref())
	}
	if c.Type() != NetClientS3Ref {
		t.Fatalf("Type=%q", c.Type())
	}
}

func TestDoGet_ClosesBody_Golden(t *testing.T) {
	c, f := newTestClient(t)
	body := &closeTracker{Reader: strings.NewReader("x")}
	f.getOut = &s3.GetObjectOutput{Body: body}

	if _, err := c.ProcessRequest(context.Background(), wire(http.MethodGet, "s3://b/k"), nil); err != nil {
		t.Fatalf("ProcessRequest error: %v", err)
	}
	if !body.closed {
		t.Fatal("object body was not closed")
	}
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}
