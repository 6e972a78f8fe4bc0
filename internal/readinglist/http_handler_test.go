package readinglist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHTTPHandler_Toggle(t *testing.T) {
	tests := []struct {
		name           string
		bookID         string
		updateErr      error
		expectedStatus int
	}{
		{"success", "b1", nil, http.StatusOK},
		{"not in list", "nope", nil, http.StatusBadRequest},
		{"upstream rejects", "b1", &apiclient.HTTPError{StatusCode: 403}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{}
			api.On("GetReadingList", mock.Anything, "l1").Return(sampleList(), nil)
			if tt.updateErr != nil {
				api.On("UpdateReadingList", mock.Anything, mock.Anything).Return(entity.ReadingList{}, tt.updateErr)
			} else {
				api.On("UpdateReadingList", mock.Anything, mock.Anything).
					Return(func(_ context.Context, l entity.ReadingList) entity.ReadingList { return l }, nil)
			}
			handler := NewHTTPHandler(NewService(api, nil))

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/reading-lists/l1/books/"+tt.bookID+"/toggle", nil)
			r.SetPathValue("id", "l1")
			r.SetPathValue("bookId", tt.bookID)

			handler.Toggle(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHTTPHandler_List(t *testing.T) {
	api := &mockAPI{}
	api.On("ListReadingLists", mock.Anything).Return([]entity.ReadingList{sampleList()}, nil)
	handler := NewHTTPHandler(NewService(api, nil))

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/reading-lists", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []struct {
			ID       string   `json:"id"`
			Progress Progress `json:"progress"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "l1", body.Data[0].ID)
	assert.Equal(t, 1, body.Data[0].Progress.Completed)
}

func TestHTTPHandler_Create(t *testing.T) {
	api := &mockAPI{}
	handler := NewHTTPHandler(NewService(api, nil))

	w := httptest.NewRecorder()
	handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/reading-lists", strings.NewReader(`{"name":""}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	api.On("CreateReadingList", mock.Anything, mock.Anything).Return(entity.ReadingList{ID: "l2", Name: "New"}, nil)
	w = httptest.NewRecorder()
	handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/reading-lists", strings.NewReader(`{"name":"New"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
}
