package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	cache "github.com/patrickmn/go-cache"
)

const defaultBaseURL = "https://itunes.apple.com/search"

type Service struct {
	httpClient *http.Client
	cache      *cache.Cache
	baseURL    string
}

func NewService() *Service {
	log.Println("✅ [Search] Service initialized")
	return &Service{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.New(15*time.Minute, 30*time.Minute),
		baseURL:    defaultBaseURL,
	}
}

// SearchArtists looks up artists by free-text query, with a 15 minute cache.
func (s *Service) SearchArtists(ctx context.Context, query string, limit int) ([]ArtistResult, error) {
	cacheKey := fmt.Sprintf("artist:%s:%d", query, limit)
	if cached, found := s.cache.Get(cacheKey); found {
		log.Printf("💾 [Search] Cache hit: %s", cacheKey)
		return cached.([]ArtistResult), nil
	}

	resp, err := s.query(ctx, query, "musicArtist", limit)
	if err != nil {
		return nil, err
	}

	results := make([]ArtistResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.ArtistName == "" {
			continue
		}
		results = append(results, ArtistResult{
			Name:       r.ArtistName,
			Genre:      r.PrimaryGenre,
			ArtworkURL: r.ArtworkURL100,
		})
	}

	s.cache.Set(cacheKey, results, cache.DefaultExpiration)
	return results, nil
}

// SearchSongs looks up songs by free-text query, with a 15 minute cache.
func (s *Service) SearchSongs(ctx context.Context, query string, limit int) ([]SongResult, error) {
	cacheKey := fmt.Sprintf("song:%s:%d", query, limit)
	if cached, found := s.cache.Get(cacheKey); found {
		log.Printf("💾 [Search] Cache hit: %s", cacheKey)
		return cached.([]SongResult), nil
	}

	resp, err := s.query(ctx, query, "song", limit)
	if err != nil {
		return nil, err
	}

	results := make([]SongResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.TrackName == "" {
			continue
		}
		results = append(results, SongResult{
			Title:      r.TrackName,
			Artist:     r.ArtistName,
			ArtworkURL: r.ArtworkURL100,
			PreviewURL: r.PreviewURL,
		})
	}

	s.cache.Set(cacheKey, results, cache.DefaultExpiration)
	return results, nil
}

func (s *Service) query(ctx context.Context, term, entity string, limit int) (*itunesResponse, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("entity", entity)
	params.Set("media", "music")
	params.Set("limit", fmt.Sprintf("%d", limit))

	reqURL := s.baseURL + "?" + params.Encode()
	log.Printf("🔍 [Search] Querying: entity=%s term=%s limit=%d", entity, term, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	httpResp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("search failed with status %d: %s", httpResp.StatusCode, string(body))
	}

	var decoded itunesResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return &decoded, nil
}
