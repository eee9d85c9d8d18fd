package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	Date      string `json:"date" binding:"required,isodate"`
	StartTime string `json:"startTime" binding:"required,hhmm"`
	Name      string `json:"name" binding:"required,min=3"`
}

func postJSON(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	RegisterValidators()
	gin.SetMode(gin.TestMode)

	var ok bool
	router := gin.New()
	router.POST("/slots", func(c *gin.Context) {
		var req slotRequest
		ok = BindJSON(c, &req)
		if ok {
			c.Status(http.StatusNoContent)
		}
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/slots", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w, ok
}

func TestBindJSON_Valid(t *testing.T) {
	w, ok := postJSON(t, `{"date":"2025-03-14","startTime":"09:00","name":"Yoga"}`)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBindJSON_ValidationErrors(t *testing.T) {
	w, ok := postJSON(t, `{"date":"14/03/2025","startTime":"9am","name":"Yo"}`)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Success      bool              `json:"success"`
		ErrorDetails []ValidationError `json:"errorDetails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.False(t, body.Success)
	tags := map[string]string{}
	for _, d := range body.ErrorDetails {
		tags[d.Field] = d.Tag
	}
	assert.Equal(t, "isodate", tags["Date"])
	assert.Equal(t, "hhmm", tags["StartTime"])
	assert.Equal(t, "min", tags["Name"])
}

func TestBindJSON_Malformed(t *testing.T) {
	w, ok := postJSON(t, `{"date":`)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}
