package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itunesFixture = `{
	"resultCount": 2,
	"results": [
		{
			"artistName": "Arctic Monkeys",
			"trackName": "505",
			"primaryGenreName": "Alternative",
			"artworkUrl100": "https://example.com/505.jpg",
			"previewUrl": "https://example.com/505.m4a"
		},
		{
			"artistName": "Tame Impala",
			"trackName": "",
			"primaryGenreName": "Psychedelic"
		}
	]
}`

func newTestService(handler http.HandlerFunc) (*Service, *httptest.Server) {
	ts := httptest.NewServer(handler)
	svc := NewService()
	svc.baseURL = ts.URL
	return svc, ts
}

func TestSearchArtistsMapsResults(t *testing.T) {
	var requests int32
	svc, ts := newTestService(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.Equal(t, "arctic", r.URL.Query().Get("term"))
		assert.Equal(t, "musicArtist", r.URL.Query().Get("entity"))
		assert.Equal(t, "music", r.URL.Query().Get("media"))
		w.Write([]byte(itunesFixture))
	})
	defer ts.Close()

	results, err := svc.SearchArtists(context.Background(), "arctic", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Arctic Monkeys", results[0].Name)
	assert.Equal(t, "Alternative", results[0].Genre)
	assert.Equal(t, "https://example.com/505.jpg", results[0].ArtworkURL)
	assert.Equal(t, "Tame Impala", results[1].Name)
}

func TestSearchSongsDropsUntitledTracks(t *testing.T) {
	svc, ts := newTestService(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "song", r.URL.Query().Get("entity"))
		w.Write([]byte(itunesFixture))
	})
	defer ts.Close()

	results, err := svc.SearchSongs(context.Background(), "505", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "505", results[0].Title)
	assert.Equal(t, "Arctic Monkeys", results[0].Artist)
	assert.Equal(t, "https://example.com/505.m4a", results[0].PreviewURL)
}

func TestSearchArtistsCachesResults(t *testing.T) {
	var requests int32
	svc, ts := newTestService(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(itunesFixture))
	})
	defer ts.Close()

	_, err := svc.SearchArtists(context.Background(), "arctic", 5)
	require.NoError(t, err)
	_, err = svc.SearchArtists(context.Background(), "arctic", 5)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))

	// A different limit is a different cache entry.
	_, err = svc.SearchArtists(context.Background(), "arctic", 3)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestSearchArtistsUpstreamError(t *testing.T) {
	svc, ts := newTestService(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	defer ts.Close()

	_, err := svc.SearchArtists(context.Background(), "arctic", 5)
	assert.Error(t, err)
}
