package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashviews/dashviews-cli/pkg/models"
	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"json message", 422, `{"message":"Name is taken"}`, "Name is taken"},
		{"json field errors", 422, `{"message":"Invalid","data":{"errors":{"name":["too long"],"a":["x","y"]}}}`, "Invalid"},
		{"plain text", 500, "  database is locked\n", "database is locked"},
		{"html page", 502, "<html><body>Bad gateway</body></html>", "Bad Gateway"},
		{"json without message", 500, `{"error":"boom"}`, "Internal Server Error"},
		{"empty", 412, "", "Precondition Failed"},
		{"unknown status", 599, "", "HTTP 599"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMessage(tt.status, []byte(tt.body)))
		})
	}
}

func TestNewErrorKeepsFieldErrorsApart(t *testing.T) {
	e := newError(422, []byte(`{"message":"Validation failed","data":{"errors":{"name":["taken"]}}}`))
	assert.Equal(t, "Validation failed", e.Reason())
	assert.Equal(t, map[string][]string{"name": {"taken"}}, e.Fields)

	e = newError(500, []byte("boom"))
	assert.Equal(t, "boom", e.Reason())
	assert.Nil(t, e.Fields)
}

func TestErrorReasonAndConflict(t *testing.T) {
	var err error = &Error{Status: http.StatusPreconditionFailed, Message: "stale"}
	assert.True(t, personalize.IsConflict(err))
	assert.Equal(t, "stale", personalize.Reason(err))

	err = &Error{Status: http.StatusUnprocessableEntity, Message: "bad"}
	assert.False(t, personalize.IsConflict(err))
	assert.Equal(t, "bad", personalize.Reason(err))
}

func TestClientRequests(t *testing.T) {
	var gotIfMatch, gotUser string
	var gotBody models.SelectionUpdate

	mux := http.NewServeMux()
	mux.HandleFunc(models.SelectionPath, func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get(models.UserHeader)
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("ETag", `"h1"`)
			io.WriteString(w, `{"filters":[{"name":"Default","type":"blacklist","pipeline_groups":[]}]}`)
		case http.MethodPut:
			gotIfMatch = r.Header.Get("If-Match")
			json.NewDecoder(r.Body).Decode(&gotBody)
			if gotIfMatch != `"h1"` {
				w.WriteHeader(http.StatusPreconditionFailed)
				io.WriteString(w, `{"message":"stale"}`)
				return
			}
			io.WriteString(w, `{"contentHash":"h2"}`)
		}
	})
	mux.HandleFunc(models.GroupsPath, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"name":"build","pipelines":["compile"]}]`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := New(ts.URL+"/", "alice", WithTimeout(time.Second))
	ctx := context.Background()

	p, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, "h1", p.ContentHash, "falls back to the ETag")
	assert.Equal(t, []string{"Default"}, p.Names())

	hash, err := c.Save(ctx, p.Filters, p.ContentHash)
	require.NoError(t, err)
	assert.Equal(t, "h2", hash)
	assert.Equal(t, `"h1"`, gotIfMatch)
	assert.Equal(t, p.Filters, gotBody.Filters)

	_, err = c.Save(ctx, p.Filters, "old")
	require.Error(t, err)
	assert.True(t, personalize.IsConflict(err))
	assert.Equal(t, "stale", personalize.Reason(err))

	groups, err := c.PipelineGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.PipelineGroup{{Name: "build", Pipelines: []string{"compile"}}}, groups)
}

func TestClientDefaultsUser(t *testing.T) {
	c := New("http://example.invalid", "")
	assert.Equal(t, models.DefaultUser, c.User())
	assert.Equal(t, "http://example.invalid", c.BaseURL())
}

func TestClientUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, "alice").Load(context.Background())
	require.Error(t, err)
	assert.False(t, personalize.IsConflict(err))
}

func TestWebsocketURL(t *testing.T) {
	assert.Equal(t, "ws://host:1", websocketURL("http://host:1"))
	assert.Equal(t, "wss://host", websocketURL("https://host"))
}
