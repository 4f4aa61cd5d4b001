package ytmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWithOembed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "abc123")
		w.Write([]byte(`{"title":"Lecture 1","author_name":"Prof","thumbnail_url":"https://i.ytimg.com/vi/abc123/hqdefault.jpg"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client())
	c.oembedURL = srv.URL

	data, err := c.Get(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Lecture 1", data.Title)
	assert.Equal(t, "Prof", data.AuthorName)
}

func TestGetFallsBackToPage(t *testing.T) {
	oembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer oembed.Close()

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/abc123", r.URL.Path)
		w.Write([]byte(`<html><head><title>Lecture 1 - YouTube</title><link itemprop="name" content="Prof"></head><body></body></html>`))
	}))
	defer page.Close()

	c := NewClient(http.DefaultClient)
	c.oembedURL = oembed.URL
	c.pageURL = page.URL

	data, err := c.Get(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Lecture 1 - YouTube", data.Title)
	assert.Equal(t, "Prof", data.AuthorName)
	assert.Equal(t, "https://i.ytimg.com/vi/abc123/hqdefault.jpg", data.ThumbnailUrl)
}

func TestGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.Client())
	c.oembedURL = srv.URL

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
