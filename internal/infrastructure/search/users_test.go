package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/social-feed/internal/domain/entity"
	"github.com/oksasatya/social-feed/pkg/helpers"
)

// fakeES records requests and answers the handful of endpoints UserIndex uses.
type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
	exists   bool
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies[r.Method+" "+r.URL.Path] = string(body)
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodHead:
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
		}
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_source":{"id":"u-1","email":"alice@example.com","username":"alice"}}]}}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		_, _ = io.WriteString(w, `{"acknowledged":true,"result":"created"}`)
	}
}

func newIndex(t *testing.T, f *fakeES) *UserIndex {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	es, err := helpers.NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return NewUserIndex(es, "users")
}

func TestUserIndex_IndexAndRemove(t *testing.T) {
	f := &fakeES{bodies: map[string]string{}}
	x := newIndex(t, f)
	ctx := context.Background()

	require.NoError(t, x.Index(ctx, entity.UserSummary{ID: "u-1", Email: "alice@example.com"}))
	require.NoError(t, x.Remove(ctx, "u-1"))

	assert.Equal(t, []string{"PUT /users/_doc/u-1", "DELETE /users/_doc/u-1"}, f.requests)
	assert.Contains(t, f.bodies["PUT /users/_doc/u-1"], `"email":"alice@example.com"`)
}

func TestUserIndex_SearchEscapesWildcards(t *testing.T) {
	f := &fakeES{bodies: map[string]string{}}
	x := newIndex(t, f)

	got, err := x.SearchByEmail(context.Background(), "Al*ce")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u-1", got[0].ID)

	var sent struct {
		Query struct {
			Wildcard struct {
				Email struct {
					Value           string `json:"value"`
					CaseInsensitive bool   `json:"case_insensitive"`
				} `json:"email"`
			} `json:"wildcard"`
		} `json:"query"`
	}
	var raw string
	for k, v := range f.bodies {
		if strings.HasSuffix(k, "/_search") {
			raw = v
		}
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &sent))
	assert.Equal(t, `*al\*ce*`, sent.Query.Wildcard.Email.Value)
	assert.True(t, sent.Query.Wildcard.Email.CaseInsensitive)
}

func TestUserIndex_EnsureIndex(t *testing.T) {
	f := &fakeES{bodies: map[string]string{}}
	x := newIndex(t, f)

	require.NoError(t, x.EnsureIndex(context.Background()))
	assert.Equal(t, []string{"HEAD /users", "PUT /users"}, f.requests)

	f.requests, f.exists = nil, true
	require.NoError(t, x.EnsureIndex(context.Background()))
	assert.Equal(t, []string{"HEAD /users"}, f.requests)
}
