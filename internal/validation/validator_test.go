package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/sakenavi/sakenavi-server/internal/errors"
	"github.com/sakenavi/sakenavi-server/internal/validation"
)

type TestRequest struct {
	Name    string `json:"name" validate:"required,max=30"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=500"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Name:   "さけのみ太郎",
		Rating: 4,
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       TestRequest
		wantField string
	}{
		{
			name:      "missing required field",
			req:       TestRequest{Name: "", Rating: 3},
			wantField: "name",
		},
		{
			name:      "name too long",
			req:       TestRequest{Name: string(make([]rune, 31)), Rating: 3},
			wantField: "name",
		},
		{
			name:      "rating too high",
			req:       TestRequest{Name: "Test", Rating: 6},
			wantField: "rating",
		},
		{
			name:      "comment too long",
			req:       TestRequest{Name: "Test", Rating: 3, Comment: string(make([]rune, 501))},
			wantField: "comment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			if assert.True(t, errors.As(err, &domainErr)) {
				assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
				assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

				fields, ok := domainErr.Details.(map[string]string)
				if assert.True(t, ok, "details should be a field error map") {
					assert.Contains(t, fields, tt.wantField)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(TestRequest{Name: "", Rating: 3})
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	if assert.True(t, errors.As(err, &domainErr)) {
		fields := domainErr.Details.(map[string]string)
		// Should use the JSON tag name "name", not the field name "Name".
		assert.Contains(t, fields, "name")
		assert.NotContains(t, fields, "Name")
	}
}
