package testutil

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	assert.NotNil(t, mockDB.SqlDB)

	// No expectations set, should pass
	mockDB.ExpectationsWereMet(t)
}

func TestMockDB_QueryError(t *testing.T) {
	mockDB := NewMockDB(t)
	mockDB.Mock.ExpectQuery(`SELECT 1`).WillReturnError(errors.New("boom"))

	var one int
	err := mockDB.DB.Raw("SELECT 1").Scan(&one).Error
	assert.EqualError(t, err, "boom")
	mockDB.ExpectationsWereMet(t)
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)

	assert.NotNil(t, tc.Context)
	assert.NotNil(t, tc.Recorder)
	assert.NotNil(t, tc.Engine)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
}

func TestTestContext_SetRequestID(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetRequestID("req-123")

	assert.Equal(t, "req-123", tc.Context.GetString("request_id"))
}

func TestTestContext_SetParam(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetParam("id", "abc")

	assert.Equal(t, "abc", tc.Context.Param("id"))
}

func TestTestContext_SetHeader(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetHeader("X-Request-ID", "req-9")

	assert.Equal(t, "req-9", tc.Context.GetHeader("X-Request-ID"))
}

func TestTestContext_ResponseCode(t *testing.T) {
	tc := NewTestContext(t)
	tc.Context.Status(http.StatusTeapot)
	tc.Context.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusTeapot, tc.ResponseCode())
}

func TestNewTestUUID(t *testing.T) {
	a := NewTestUUID("customer-alice")
	b := NewTestUUID("customer-alice")
	c := NewTestUUID("customer-bob")

	assert.Equal(t, a, b, "same seed should give the same UUID")
	assert.NotEqual(t, a, c)
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, 50*time.Millisecond)

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
}

func TestAssertEventually(t *testing.T) {
	start := time.Now()
	AssertEventually(t, func() bool {
		return time.Since(start) > 20*time.Millisecond
	}, time.Second, 5*time.Millisecond)
}

func TestRunHTTPTestCase(t *testing.T) {
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": c.Param("id")}})
	}

	RunHTTPTestCase(t, handler, HTTPTestCase{
		Name:           "path param",
		Path:           "/customers/c-1",
		Params:         map[string]string{"id": "c-1"},
		ExpectedStatus: http.StatusOK,
		Validate: func(t *testing.T, tc *TestContext) {
			got := DataAs[map[string]string](t, tc)
			assert.Equal(t, "c-1", got["id"])
		},
	})
}

func TestRunHTTPTestCases(t *testing.T) {
	handler := func(c *gin.Context) {
		if c.Request.Method == http.MethodPost {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "VALIDATION_ERROR", "message": "title is required"},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}

	RunHTTPTestCases(t, handler, []HTTPTestCase{
		{Name: "success", ExpectedStatus: http.StatusOK},
		{
			Name:           "error code",
			Method:         http.MethodPost,
			Body:           map[string]string{"title": ""},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   "VALIDATION_ERROR",
		},
	})
}

func TestParseEnvelope(t *testing.T) {
	tc := NewTestContext(t)
	tc.Context.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    []string{"a", "b"},
		"meta":    gin.H{"total": 2},
	})

	env := ParseEnvelope(t, tc)
	assert.True(t, env.Success)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(2), env.Meta.Total)
	assert.Equal(t, []string{"a", "b"}, DataAs[[]string](t, tc))
}

func TestAssertErrorResponse(t *testing.T) {
	tc := NewTestContext(t)
	tc.Context.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error":   gin.H{"code": "NOT_FOUND", "message": "customer not found"},
	})

	AssertErrorResponse(t, tc, "NOT_FOUND")
}

func TestAssertSuccessResponse(t *testing.T) {
	tc := NewTestContext(t)
	tc.Context.JSON(http.StatusOK, gin.H{"success": true})

	AssertSuccessResponse(t, tc)
}
