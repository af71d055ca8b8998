package api

// AlbumListResponse wraps an album view for HTTP clients.
type AlbumListResponse struct {
	Albums []AlbumEntry `json:"albums"`
}

// TrackListResponse wraps the track view for HTTP clients.
type TrackListResponse struct {
	Tracks []TrackEntry `json:"tracks"`
}

// RatingResponse reports a stored rating. Rating is empty when unrated.
type RatingResponse struct {
	Rating string `json:"rating"`
}

// RateResponse reports the outcome of a rating decision. Changed is false
// for skips and repeat scores.
type RateResponse struct {
	Rating  string `json:"rating"`
	Changed bool   `json:"changed"`
}

// QueueResponse reports how many tracks a queue operation added.
type QueueResponse struct {
	Queued int    `json:"queued"`
	Mode   string `json:"mode"`
}

// RandomAlbumResponse names the album a random pick replaced the queue with.
type RandomAlbumResponse struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Date   string `json:"date"`
	Tracks int    `json:"tracks"`
}

// RebuildResponse reports view sizes after a cache rebuild.
type RebuildResponse struct {
	Albums int `json:"albums"`
	Latest int `json:"latest"`
	Tracks int `json:"tracks"`
}

// CurrentAlbumResponse reports the playing album and its stored rating.
type CurrentAlbumResponse struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Date   string `json:"date"`
	Rating string `json:"rating"`
}

// DaemonStatus is the /api/v1/status payload.
type DaemonStatus struct {
	PID        int         `json:"pid"`
	MPDOnline  bool        `json:"mpd_online"`
	MPDVersion string      `json:"mpd_version,omitempty"`
	Cache      CacheStatus `json:"cache"`
	DataDir    string      `json:"data_dir"`
}
