package domain

// Thumbnails holds the thumbnail URL variants the provider returns for a
// search result. Any of them may be empty.
type Thumbnails struct {
	Default string `json:"default,omitempty"`
	Medium  string `json:"medium,omitempty"`
	High    string `json:"high,omitempty"`
}

// SearchResult is one provider search hit enriched with detail fields.
// ViewCount and Duration come from a separate detail lookup and stay empty
// when the lookup has no data for the video.
type SearchResult struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Channel     string     `json:"channel"`
	PublishedAt string     `json:"publishedAt,omitempty"`
	Thumbnails  Thumbnails `json:"thumbnails"`
	ViewCount   string     `json:"viewCount,omitempty"`
	// Duration is an ISO-8601 period string such as "PT4M13S".
	Duration string `json:"duration,omitempty"`
}

// MediaFile describes one downloaded file in the storage directory.
type MediaFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}
