package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestInfo_RoundTrip(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))

	ctx := WithRequestInfo(context.Background(), RequestInfo{
		RequestID: "req-1",
		Method:    "GET",
		Route:     "/api/gardens/:id",
		Path:      "/api/gardens/g-1",
	})

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "/api/gardens/:id", GetRequestInfo(ctx).Route)
}

func TestRequestInfo_FieldsSkipsEmpty(t *testing.T) {
	fields := RequestInfo{RequestID: "req-1", Method: "DELETE"}.Fields()

	assert.Equal(t, map[string]interface{}{"request_id": "req-1", "method": "DELETE"}, fields)
}
