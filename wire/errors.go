package wire

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrSchemaMismatch is returned by DecodeError when a body is not a valid vendor error payload.
var ErrSchemaMismatch = errors.New("wire: error payload does not match schema")

// ErrorData is the vendor error payload. Param and Code are nil when absent or null.
type ErrorData struct {
	Object  string  `json:"object"`
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param"`
	Code    *string `json:"code"`
}

// DecodeError validates body against the error schema and returns its fields.
// object must be the string "error"; message and type must be strings; param
// and code must be strings, null or absent.
func DecodeError(body []byte) (ErrorData, error) {
	if !gjson.ValidBytes(body) {
		return ErrorData{}, fmt.Errorf("%w: invalid JSON", ErrSchemaMismatch)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return ErrorData{}, fmt.Errorf("%w: not an object", ErrSchemaMismatch)
	}

	var out ErrorData
	object := root.Get("object")
	if object.Type != gjson.String || object.Str != "error" {
		return ErrorData{}, fmt.Errorf("%w: object must be %q", ErrSchemaMismatch, "error")
	}
	out.Object = object.Str

	for _, f := range []struct {
		name string
		dst  *string
	}{{"message", &out.Message}, {"type", &out.Type}} {
		v := root.Get(f.name)
		if v.Type != gjson.String {
			return ErrorData{}, fmt.Errorf("%w: %s must be a string", ErrSchemaMismatch, f.name)
		}
		*f.dst = v.Str
	}

	for _, f := range []struct {
		name string
		dst  **string
	}{{"param", &out.Param}, {"code", &out.Code}} {
		v := root.Get(f.name)
		switch v.Type {
		case gjson.Null:
			// absent or explicit null
		case gjson.String:
			s := v.Str
			*f.dst = &s
		default:
			return ErrorData{}, fmt.Errorf("%w: %s must be a string or null", ErrSchemaMismatch, f.name)
		}
	}
	return out, nil
}

// ErrorMessage returns the human-readable message of a vendor error payload.
func ErrorMessage(d ErrorData) string { return d.Message }
