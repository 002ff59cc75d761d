package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthcrm/backend/internal/interfaces/http/dto"
)

// HTTPTestCase drives one handler call. Handlers run without a router, so
// path parameters come from Params.
type HTTPTestCase struct {
	Name           string
	Method         string // defaults to GET
	Path           string
	Params         map[string]string
	Body           any
	Headers        map[string]string
	ExpectedStatus int
	// ExpectedCode is the envelope error code; empty expects a success envelope
	// whenever ExpectedStatus is below 400.
	ExpectedCode string
	Setup        func(t *testing.T, tc *TestContext)
	Validate     func(t *testing.T, tc *TestContext)
}

// Envelope mirrors dto.Response with the payload left undecoded.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

// RunHTTPTestCases runs each case as a subtest against the same handler.
func RunHTTPTestCases(t *testing.T, handler gin.HandlerFunc, cases []HTTPTestCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunHTTPTestCase(t, handler, tc)
		})
	}
}

// RunHTTPTestCase invokes handler once and checks status and envelope.
func RunHTTPTestCase(t *testing.T, handler gin.HandlerFunc, tc HTTPTestCase) {
	t.Helper()

	method := tc.Method
	if method == "" {
		method = http.MethodGet
	}
	path := tc.Path
	if path == "" {
		path = "/"
	}
	var body io.Reader
	if tc.Body != nil {
		body = ToJSONReader(t, tc.Body)
	}

	req := httptest.NewRequest(method, path, body)
	if tc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	for k, v := range tc.Params {
		c.Params = append(c.Params, gin.Param{Key: k, Value: v})
	}

	testCtx := &TestContext{Context: c, Recorder: w}
	if tc.Setup != nil {
		tc.Setup(t, testCtx)
	}

	handler(c)

	if tc.ExpectedStatus != 0 {
		assert.Equal(t, tc.ExpectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())
	}
	switch {
	case tc.ExpectedCode != "":
		AssertErrorResponse(t, testCtx, tc.ExpectedCode)
	case tc.ExpectedStatus != 0 && tc.ExpectedStatus < http.StatusBadRequest && w.Body.Len() > 0:
		AssertSuccessResponse(t, testCtx)
	}

	if tc.Validate != nil {
		tc.Validate(t, testCtx)
	}
}

// ParseEnvelope decodes the response body as the API envelope.
func ParseEnvelope(t *testing.T, tc *TestContext) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &env), "body: %s", tc.ResponseBody())
	return env
}

// DataAs decodes the envelope's data field into T.
func DataAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()
	var out T
	env := ParseEnvelope(t, tc)
	require.NotEmpty(t, env.Data, "envelope has no data")
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// AssertSuccessResponse checks for a success envelope without an error.
func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()
	env := ParseEnvelope(t, tc)
	assert.True(t, env.Success, "expected success envelope")
	assert.Nil(t, env.Error, "expected no error")
}

// AssertErrorResponse checks for a failed envelope carrying code.
func AssertErrorResponse(t *testing.T, tc *TestContext, code string) {
	t.Helper()
	env := ParseEnvelope(t, tc)
	assert.False(t, env.Success, "expected failed envelope")
	require.NotNil(t, env.Error, "expected error object")
	assert.Equal(t, code, env.Error.Code)
}

// ToJSONReader marshals v for use as a request body.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}
