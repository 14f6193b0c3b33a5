package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

var errEmptyBody = errors.New("request body is empty")

// BindNestedOrFlat decodes the JSON body into obj, accepting both
// {"sale": {...}} and the flat {...}. The body can be read again afterwards.
func BindNestedOrFlat(c *gin.Context, key string, obj any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if len(bytes.TrimSpace(raw)) == 0 {
		return errEmptyBody
	}

	return json.Unmarshal(unwrap(raw, key), obj)
}

// unwrap returns the value under key when raw is an object holding it.
func unwrap(raw []byte, key string) []byte {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return raw
	}
	if nested, ok := fields[key]; ok {
		return nested
	}
	return raw
}
