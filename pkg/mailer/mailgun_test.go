package mailer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailgunSend(t *testing.T) {
	var got struct {
		path, to, subject, html string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			_ = r.ParseMultipartForm(1 << 20)
		} else {
			_ = r.ParseForm()
		}
		got.to, got.subject, got.html = r.FormValue("to"), r.FormValue("subject"), r.FormValue("html")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"<1@mg.example.com>","message":"Queued. Thank you."}`))
	}))
	t.Cleanup(srv.Close)

	m := NewMailgun("mg.example.com", "key-test", "Feed <noreply@mg.example.com>", srv.URL+"/v3")
	err := m.Send(context.Background(), "alice@example.com", "Welcome", "hi", "<p>hi</p>")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got.path, "/mg.example.com/messages"), got.path)
	assert.Equal(t, "alice@example.com", got.to)
	assert.Equal(t, "Welcome", got.subject)
	assert.Equal(t, "<p>hi</p>", got.html)
}

func TestMailgunSend_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	m := NewMailgun("mg.example.com", "key-test", "noreply@mg.example.com", srv.URL+"/v3")
	require.Error(t, m.Send(context.Background(), "alice@example.com", "s", "t", ""))
}
