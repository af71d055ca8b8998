package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carnager/clerk-modular/internal/api"
	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/logging"
	"github.com/carnager/clerk-modular/internal/playlist"
	"github.com/carnager/clerk-modular/internal/ratings"
)

// libraryService is the cache facade slice the HTTP layer uses.
type libraryService interface {
	Albums(view, ratingFilter string) ([]api.AlbumEntry, error)
	Tracks(ratingFilter string) ([]api.TrackEntry, error)
	AlbumByID(view, id string) (api.AlbumEntry, error)
	TrackByID(id string) (api.TrackEntry, error)
	AlbumRecordByID(view, id string) (library.Album, error)
	RateAlbumByID(ctx context.Context, view, id string, rating ratings.Rating) (bool, error)
	Rebuild(ctx context.Context) (*library.Snapshot, error)
	Status() (api.CacheStatus, error)
}

// albumRatings is the rating store slice for the current-album routes.
type albumRatings interface {
	Get(key library.Key) (ratings.Rating, bool)
	Rate(ctx context.Context, key library.Key, rating ratings.Rating) (bool, error)
}

// queueService applies selections to the play queue.
type queueService interface {
	QueueAlbums(ctx context.Context, albums []library.Album, mode playlist.Mode) (int, error)
	QueueTracks(ctx context.Context, files []string, mode playlist.Mode) (int, error)
	RandomAlbum(ctx context.Context) (playlist.QueuedAlbum, error)
	RandomTracks(ctx context.Context) (int, error)
}

// player is the daemon-connection slice the HTTP layer touches directly.
type player interface {
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
	CurrentSong(ctx context.Context) (library.TrackInfo, bool, error)
}

type apiServer struct {
	bind      string
	token     string
	publicDir string
	dataDir   string
	logger    *slog.Logger

	library libraryService
	ratings albumRatings
	queue   queueService
	player  player

	server *http.Server
}

func newAPIServer(cfg *config.Config, librarySvc libraryService, ratingStore albumRatings, queue queueService, player player, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:      cfg.Daemon.APIBind,
		token:     cfg.Daemon.APIToken,
		publicDir: cfg.Daemon.PublicDir,
		dataDir:   cfg.Library.DataDir,
		logger:    logging.NewComponentLogger(logger, "api-server"),
		library:   librarySvc,
		ratings:   ratingStore,
		queue:     queue,
		player:    player,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/albums", srv.handleAlbums)
	mux.HandleFunc("/api/v1/albums/", srv.handleAlbumRating)
	mux.HandleFunc("/api/v1/tracks", srv.handleTracks)
	mux.HandleFunc("/api/v1/playlist/add/album/", authMiddleware(srv.token, srv.handleQueueAlbum))
	mux.HandleFunc("/api/v1/playlist/add/track/", authMiddleware(srv.token, srv.handleQueueTrack))
	mux.HandleFunc("/api/v1/playback/random/album", authMiddleware(srv.token, srv.handleRandomAlbum))
	mux.HandleFunc("/api/v1/playback/random/tracks", authMiddleware(srv.token, srv.handleRandomTracks))
	mux.HandleFunc("/api/v1/cache/update", authMiddleware(srv.token, srv.handleCacheUpdate))
	mux.HandleFunc("/api/v1/status", srv.handleStatus)
	mux.HandleFunc("/current_album/rating", srv.handleCurrentAlbumRating)
	mux.HandleFunc("/", srv.handleStatic)

	srv.server = &http.Server{
		Handler:           srv.withAccessLog(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// run serves until ctx is canceled, then shuts down gracefully.
func (s *apiServer) run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))

	served := make(chan error, 1)
	go func() {
		served <- s.server.Serve(listener)
	}()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
		<-served
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withAccessLog tags every request with an id and logs its outcome. Static
// asset requests stay at debug so API traffic remains readable.
func (s *apiServer) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()

		next.ServeHTTP(recorder, r)

		logFn := s.logger.Debug
		if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/current_album") {
			logFn = s.logger.Info
		}
		logFn("request handled",
			logging.String("request_id", requestID),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", recorder.status),
			logging.Duration("elapsed", time.Since(started)))
	})
}

// authorized checks the bearer token on handlers that serve both safe and
// mutating methods.
func (s *apiServer) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	return bearerMatches(r, s.token)
}

// mpdReady answers 503 and reports false when the music daemon is down.
// Mutating routes call it first; cache reads never do.
func (s *apiServer) mpdReady(w http.ResponseWriter, r *http.Request) bool {
	if err := s.player.Ping(r.Context()); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "music daemon unreachable")
		return false
	}
	return true
}

// handleStatic serves the web frontend from the configured public
// directory, falling back to index.html for client-side routes.
func (s *apiServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.publicDir == "" {
		s.writeError(w, http.StatusNotFound, "no web frontend configured")
		return
	}

	name := filepath.Join(s.publicDir, filepath.Clean("/"+r.URL.Path))
	info, err := os.Stat(name)
	if err != nil || info.IsDir() {
		name = filepath.Join(s.publicDir, "index.html")
	}
	http.ServeFile(w, r, name)
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
