package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		body      string
		wantMsg   string
		wantParam *string
		wantCode  *string
	}{
		{"nulls", `{"object":"error","message":"Invalid model","type":"invalid_request_error","param":null,"code":null}`,
			"Invalid model", nil, nil},
		{"absent optional fields", `{"object":"error","message":"m","type":"t"}`, "m", nil, nil},
		{"strings", `{"object":"error","message":"bad","type":"t","param":"model","code":"1000"}`,
			"bad", ptr("model"), ptr("1000")},
		{"extra fields ignored", `{"object":"error","message":"x","type":"t","request_id":"abc"}`, "x", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeError([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, "error", got.Object)
			assert.Equal(t, tt.wantMsg, ErrorMessage(got))
			assert.Equal(t, tt.wantParam, got.Param)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestDecodeError_SchemaMismatch(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"object":`},
		{"array", `[1,2]`},
		{"wrong object", `{"object":"list","message":"m","type":"t"}`},
		{"missing object", `{"message":"m","type":"t"}`},
		{"missing message", `{"object":"error","type":"t"}`},
		{"numeric message", `{"object":"error","message":5,"type":"t"}`},
		{"missing type", `{"object":"error","message":"m"}`},
		{"numeric code", `{"object":"error","message":"m","type":"t","code":1000}`},
		{"object param", `{"object":"error","message":"m","type":"t","param":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeError([]byte(tt.body))
			require.ErrorIs(t, err, ErrSchemaMismatch)
		})
	}
}

func ptr(s string) *string { return &s }
