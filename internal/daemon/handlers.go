package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/carnager/clerk-modular/internal/api"
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/playlist"
	"github.com/carnager/clerk-modular/internal/ratings"
)

type rateRequest struct {
	Rating string `json:"rating"`
}

type queueRequest struct {
	Mode string `json:"mode"`
}

func (s *apiServer) handleAlbums(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	albums, err := s.library.Albums(r.URL.Query().Get("view"), r.URL.Query().Get("rating"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.AlbumListResponse{Albums: albums})
}

func (s *apiServer) handleTracks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	tracks, err := s.library.Tracks(r.URL.Query().Get("rating"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.TrackListResponse{Tracks: tracks})
}

// handleAlbumRating serves /api/v1/albums/{id}/rating. The rating store is
// local, so these routes work even while MPD is down.
func (s *apiServer) handleAlbumRating(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/albums/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "rating" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	id := parts[0]
	view := r.URL.Query().Get("view")

	switch r.Method {
	case http.MethodGet:
		album, err := s.library.AlbumByID(view, id)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.RatingResponse{Rating: album.Rating})
	case http.MethodPost:
		if !s.authorized(r) {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var req rateRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		rating, err := ratings.ParseRating(req.Rating)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		changed, err := s.library.RateAlbumByID(r.Context(), view, id, rating)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		album, err := s.library.AlbumByID(view, id)
		if err != nil {
			s.writeLookupError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.RateResponse{Rating: album.Rating, Changed: changed})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleQueueAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := s.queuePathID(w, r, "/api/v1/playlist/add/album/")
	if !ok {
		return
	}
	mode, ok := s.queueMode(w, r)
	if !ok {
		return
	}
	if !s.mpdReady(w, r) {
		return
	}

	album, err := s.library.AlbumRecordByID(r.URL.Query().Get("view"), id)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	queued, err := s.queue.QueueAlbums(r.Context(), []library.Album{album}, mode)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.QueueResponse{Queued: queued, Mode: string(mode)})
}

func (s *apiServer) handleQueueTrack(w http.ResponseWriter, r *http.Request) {
	id, ok := s.queuePathID(w, r, "/api/v1/playlist/add/track/")
	if !ok {
		return
	}
	mode, ok := s.queueMode(w, r)
	if !ok {
		return
	}
	if !s.mpdReady(w, r) {
		return
	}

	track, err := s.library.TrackByID(id)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	queued, err := s.queue.QueueTracks(r.Context(), []string{track.File}, mode)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.QueueResponse{Queued: queued, Mode: string(mode)})
}

func (s *apiServer) handleRandomAlbum(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.mpdReady(w, r) {
		return
	}
	album, err := s.queue.RandomAlbum(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.RandomAlbumResponse{
		Artist: album.Artist,
		Album:  album.Album,
		Date:   album.Date,
		Tracks: album.Tracks,
	})
}

func (s *apiServer) handleRandomTracks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.mpdReady(w, r) {
		return
	}
	queued, err := s.queue.RandomTracks(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.QueueResponse{Queued: queued, Mode: string(playlist.ModeReplace)})
}

func (s *apiServer) handleCacheUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.mpdReady(w, r) {
		return
	}
	snap, err := s.library.Rebuild(r.Context())
	if err != nil {
		if errors.Is(err, api.ErrRebuildRunning) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.RebuildResponse{
		Albums: len(snap.Albums),
		Latest: len(snap.Latest),
		Tracks: len(snap.Tracks),
	})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := api.DaemonStatus{
		PID:     os.Getpid(),
		DataDir: s.dataDir,
	}
	if version, err := s.player.Version(r.Context()); err == nil {
		status.MPDOnline = true
		status.MPDVersion = version
	}
	cache, err := s.library.Status()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status.Cache = cache
	s.writeJSON(w, http.StatusOK, status)
}

// handleCurrentAlbumRating keeps the legacy /current_album/rating path:
// read or set the rating of whatever album is playing right now.
func (s *apiServer) handleCurrentAlbumRating(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.mpdReady(w, r) {
		return
	}

	info, playing, err := s.player.CurrentSong(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if !playing {
		s.writeError(w, http.StatusNotFound, "no song playing")
		return
	}
	key, ok := library.TrackKey(info)
	if !ok {
		s.writeError(w, http.StatusNotFound, "current song has no album identity")
		return
	}

	switch r.Method {
	case http.MethodGet:
		current, _ := s.ratings.Get(key)
		s.writeJSON(w, http.StatusOK, api.CurrentAlbumResponse{
			Artist: albumArtist(info).Display(),
			Album:  info.Album.Display(),
			Date:   info.Date.Display(),
			Rating: current.String(),
		})
	case http.MethodPost:
		if !s.authorized(r) {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var req rateRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		rating, err := ratings.ParseRating(req.Rating)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		changed, err := s.ratings.Rate(r.Context(), key, rating)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		current, _ := s.ratings.Get(key)
		s.writeJSON(w, http.StatusOK, api.RateResponse{Rating: current.String(), Changed: changed})
	}
}

// queuePathID extracts the trailing id from a queue route and rejects
// non-POST methods.
func (s *apiServer) queuePathID(w http.ResponseWriter, r *http.Request, prefix string) (string, bool) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return "", false
	}
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "not found")
		return "", false
	}
	return id, true
}

// queueMode reads the optional {"mode": ...} body, defaulting to add.
func (s *apiServer) queueMode(w http.ResponseWriter, r *http.Request) (playlist.Mode, bool) {
	var req queueRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if req.Mode == "" {
		return playlist.ModeAdd, true
	}
	mode, err := playlist.ParseMode(req.Mode)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return mode, true
}

func (s *apiServer) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, api.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

// decodeBody parses a JSON request body. An empty body decodes to the zero
// request so commands work without one.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// albumArtist mirrors the view builder's artist choice for display.
func albumArtist(info library.TrackInfo) library.Tag {
	if !info.AlbumArtist.IsAbsent() {
		return info.AlbumArtist
	}
	return info.Artist
}
