package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sagarc03/todos"
	todoshttp "github.com/sagarc03/todos/http"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", todos.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("get item: %w", todos.ErrNotFound), http.StatusNotFound, "not_found"},
		{"joined not found", errors.Join(errors.New("context"), todos.ErrNotFound), http.StatusNotFound, "not_found"},
		{"invalid input", todos.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{"unauthorized", todos.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"store unavailable", todos.ErrStoreUnavailable, http.StatusInternalServerError, "internal_error"},
		{"unexpected", errors.New("some unexpected error"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/todos", nil)

			todoshttp.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.code+`"`)
		})
	}
}

func TestHandleError_InputMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "operation prefixes dropped",
			err:  fmt.Errorf("update item %s: %w", "5b3e8f8e-4a1c-4b8e-9a55-0d6f1f0c2a11", fmt.Errorf("%w: name is required", todos.ErrInvalidInput)),
			want: "name is required",
		},
		{
			name: "nested fetch error",
			err:  fmt.Errorf("filter image: %w", fmt.Errorf("fetch: %w: %w", todos.ErrInvalidInput, errors.New("image host resolves to a non-public address"))),
			want: "image host resolves to a non-public address",
		},
		{name: "bare sentinel", err: todos.ErrInvalidInput, want: "invalid input"},
		{name: "wrapped bare sentinel", err: fmt.Errorf("create item: %w", todos.ErrInvalidInput), want: "invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("PATCH", "/todos/x", nil)

			todoshttp.HandleError(rec, req, tt.err)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.want+`","code":"invalid_input"}`, rec.Body.String())
		})
	}
}

func TestWriteError_Success(t *testing.T) {
	rec := httptest.NewRecorder()

	todoshttp.WriteError(rec, http.StatusBadRequest, "bad_request", "Invalid request")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Invalid request","code":"bad_request"}`, rec.Body.String())
}

func TestWriteJSON_Success(t *testing.T) {
	rec := httptest.NewRecorder()

	data := map[string]string{"key": "value"}
	err := todoshttp.WriteJSON(rec, http.StatusOK, data)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"key":"value"`)
}

func TestWriteJSON_EncodingError(t *testing.T) {
	rec := httptest.NewRecorder()

	// Channels cannot be JSON encoded
	data := make(chan int)
	err := todoshttp.WriteJSON(rec, http.StatusOK, data)

	assert.Error(t, err)
}
