package search

// ArtistResult is one artist enrichment hit.
type ArtistResult struct {
	Name       string `json:"name"`
	Genre      string `json:"genre,omitempty"`
	ArtworkURL string `json:"artwork_url,omitempty"`
}

// SongResult is one song enrichment hit.
type SongResult struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	ArtworkURL string `json:"artwork_url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// itunesResponse mirrors the iTunes Search API payload.
type itunesResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []itunesResult `json:"results"`
}

type itunesResult struct {
	ArtistName    string `json:"artistName"`
	TrackName     string `json:"trackName"`
	PrimaryGenre  string `json:"primaryGenreName"`
	ArtworkURL100 string `json:"artworkUrl100"`
	PreviewURL    string `json:"previewUrl"`
}
