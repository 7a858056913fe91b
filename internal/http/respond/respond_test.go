package respond

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/core"
)

func TestError(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{name: "Validation", err: core.Invalid("amount", "must be positive"), wantStatus: http.StatusBadRequest, wantBody: "invalid amount"},
		{name: "NotFound", err: fmt.Errorf("backup x: %w", core.ErrNotFound), wantStatus: http.StatusNotFound, wantBody: "not found"},
		{name: "Store", err: &core.StoreError{Op: "open", Path: "/secret/path", Err: errors.New("denied")}, wantStatus: http.StatusInternalServerError, wantBody: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "/secret/path")
		})
	}
}

func TestDecode(t *testing.T) {
	var v struct {
		Amount int64 `json:"amount"`
	}

	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": 5}`))
	require.NoError(t, Decode(rec, req, &v))
	assert.Equal(t, int64(5), v.Amount)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": 5, "extra": true}`))
	assert.ErrorIs(t, Decode(rec, req, &v), core.ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	assert.ErrorIs(t, Decode(rec, req, &v), core.ErrValidation)
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())
}
