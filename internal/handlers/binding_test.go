package handlers

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type plateForm struct {
	Plate string `json:"plate"`
	Year  int    `json:"year"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    plateForm
		expectError bool
	}{
		{
			name:     "nested under the resource key",
			key:      "vehicle",
			body:     `{"vehicle": {"plate": "PDA1234", "year": 2021}}`,
			expected: plateForm{Plate: "PDA1234", Year: 2021},
		},
		{
			name:     "flat body",
			key:      "vehicle",
			body:     `{"plate": "HBC0420", "year": 2019}`,
			expected: plateForm{Plate: "HBC0420", Year: 2019},
		},
		{
			name:     "other keys fall back to flat",
			key:      "vehicle",
			body:     `{"sale": 1, "plate": "TGU7788", "year": 2018}`,
			expected: plateForm{Plate: "TGU7788", Year: 2018},
		},
		{
			name:        "flat with wrong type",
			key:         "vehicle",
			body:        `{"plate": "PDA1234", "year": "nuevo"}`,
			expectError: true,
		},
		{
			name:        "nested with wrong type",
			key:         "vehicle",
			body:        `{"vehicle": {"plate": "PDA1234", "year": "nuevo"}}`,
			expectError: true,
		},
		{
			name:        "nested key is not an object",
			key:         "vehicle",
			body:        `{"vehicle": "PDA1234"}`,
			expectError: true,
		},
		{
			name:        "empty body",
			key:         "vehicle",
			body:        ``,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result plateForm
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)

			// The body stays readable for later binds.
			rest, _ := io.ReadAll(c.Request.Body)
			assert.Equal(t, tt.body, string(rest))
		})
	}
}
