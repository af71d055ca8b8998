package mpdclient_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/logging"
	"github.com/carnager/clerk-modular/internal/mpdclient"
)

// fakeMPD speaks just enough of the MPD wire protocol for the client: a
// banner on connect, one reply per command line, "ACK ..." for errors.
type fakeMPD struct {
	ln      net.Listener
	handler func(cmd string) (reply string, drop bool)

	mu   sync.Mutex
	cmds []string
}

func newFakeMPD(t *testing.T, handler func(cmd string) (string, bool)) *fakeMPD {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := &fakeMPD{ln: ln, handler: handler}
	go server.acceptLoop()
	t.Cleanup(func() { _ = ln.Close() })
	return server
}

func (s *fakeMPD) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.serve(conn)
	}
}

func (s *fakeMPD) serve(conn net.Conn) {
	defer conn.Close()
	if _, err := io.WriteString(conn, "OK MPD 0.23.5\n"); err != nil {
		return
	}
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		cmd := scanner.Text()
		if cmd == "close" {
			return
		}
		s.mu.Lock()
		s.cmds = append(s.cmds, cmd)
		s.mu.Unlock()

		reply, drop := s.handler(cmd)
		if reply != "" {
			if _, err := io.WriteString(conn, reply); err != nil {
				return
			}
		}
		if drop {
			return
		}
	}
}

func (s *fakeMPD) commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cmds...)
}

func (s *fakeMPD) clientFor(t *testing.T) *mpdclient.Client {
	t.Helper()
	host, portText, err := net.SplitHostPort(s.ln.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		t.Fatalf("Atoi: %v", err)
	}
	cfg := config.Default()
	cfg.MPD.Host = host
	cfg.MPD.Port = port
	cfg.MPD.TimeoutSeconds = 2
	client := mpdclient.New(&cfg, logging.NewNop())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func okHandler(overrides map[string]string) func(string) (string, bool) {
	return func(cmd string) (string, bool) {
		for prefix, reply := range overrides {
			if strings.HasPrefix(cmd, prefix) {
				return reply, false
			}
		}
		return "OK\n", false
	}
}

func TestConnectAndStats(t *testing.T) {
	server := newFakeMPD(t, okHandler(map[string]string{
		"stats": "artists: 3\nalbums: 7\nsongs: 42\nuptime: 60\ndb_playtime: 3600\ndb_update: 1700000000\nOK\n",
	}))
	client := server.clientFor(t)
	ctx := context.Background()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	stats, err := client.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Songs != 42 || stats.Albums != 7 || stats.Artists != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Uptime != time.Minute {
		t.Fatalf("Uptime = %v", stats.Uptime)
	}
	if stats.DBUpdated.Unix() != 1700000000 {
		t.Fatalf("DBUpdated = %v", stats.DBUpdated)
	}

	count, err := client.SongCount(ctx)
	if err != nil {
		t.Fatalf("SongCount: %v", err)
	}
	if count != 42 {
		t.Fatalf("SongCount = %d, want 42", count)
	}
}

func TestWindowFetchesAndConverts(t *testing.T) {
	server := newFakeMPD(t, okHandler(map[string]string{
		"search": "file: a/01.flac\n" +
			"Last-Modified: 2024-03-01T10:20:30Z\n" +
			"Artist: A\nAlbumArtist: AA\nAlbum: X\nDate: 2020\nTitle: one\nTrack: 1\n" +
			"file: a/02.flac\n" +
			"Artist: A\nAlbum: X\nTitle: two\n" +
			"OK\n",
	}))
	client := server.clientFor(t)

	tracks, err := client.Window(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if tracks[0].File != "a/01.flac" || tracks[1].File != "a/02.flac" {
		t.Fatalf("files = %q, %q", tracks[0].File, tracks[1].File)
	}
	if got, ok := tracks[0].AlbumArtist.First(); !ok || got != "AA" {
		t.Fatalf("AlbumArtist = %q, %v", got, ok)
	}
	if !tracks[1].AlbumArtist.IsAbsent() {
		t.Fatal("second track's AlbumArtist must be absent")
	}

	var windowCmd string
	for _, cmd := range server.commands() {
		if strings.HasPrefix(cmd, "search") {
			windowCmd = cmd
		}
	}
	want := `search filename "" window 0:2`
	if windowCmd != want {
		t.Fatalf("wire command = %q, want %q", windowCmd, want)
	}
}

func TestUpdateTriggersRescan(t *testing.T) {
	server := newFakeMPD(t, okHandler(map[string]string{
		"update": "updating_db: 5\nOK\n",
		"status": "state: stop\nupdating_db: 5\nOK\n",
	}))
	client := server.clientFor(t)
	ctx := context.Background()

	job, err := client.Update(ctx)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if job != 5 {
		t.Fatalf("job = %d, want 5", job)
	}

	status, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.UpdatingDB {
		t.Fatal("UpdatingDB must be true while a rescan job is reported")
	}
}

func TestReconnectAfterServerDrop(t *testing.T) {
	var statsCalls int
	var mu sync.Mutex
	server := newFakeMPD(t, func(cmd string) (string, bool) {
		if strings.HasPrefix(cmd, "stats") {
			mu.Lock()
			statsCalls++
			calls := statsCalls
			mu.Unlock()
			if calls == 1 {
				return "songs: 1\nOK\n", true
			}
			return "songs: 2\nOK\n", false
		}
		return "OK\n", false
	})
	client := server.clientFor(t)
	ctx := context.Background()

	count, err := client.SongCount(ctx)
	if err != nil {
		t.Fatalf("first SongCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("first SongCount = %d, want 1", count)
	}

	count, err = client.SongCount(ctx)
	if err != nil {
		t.Fatalf("SongCount after drop: %v", err)
	}
	if count != 2 {
		t.Fatalf("SongCount after drop = %d, want 2", count)
	}
}

func TestDeleteStickerSwallowsMissing(t *testing.T) {
	server := newFakeMPD(t, okHandler(map[string]string{
		"sticker delete": "ACK [50@0] {sticker} no such sticker\n",
	}))
	client := server.clientFor(t)

	if err := client.DeleteSticker(context.Background(), "a/01.flac", "rating"); err != nil {
		t.Fatalf("DeleteSticker: %v", err)
	}
}

func TestSetStickerQuotesArguments(t *testing.T) {
	server := newFakeMPD(t, okHandler(nil))
	client := server.clientFor(t)

	if err := client.SetSticker(context.Background(), "a dir/01.flac", "rating", "8"); err != nil {
		t.Fatalf("SetSticker: %v", err)
	}
	var got string
	for _, cmd := range server.commands() {
		if strings.HasPrefix(cmd, "sticker set") {
			got = cmd
		}
	}
	want := `sticker set song "a dir/01.flac" "rating" "8"`
	if got != want {
		t.Fatalf("wire command = %q, want %q", got, want)
	}
}

func TestCanceledContextShortCircuits(t *testing.T) {
	cfg := config.Default()
	cfg.MPD.Host = "127.0.0.1"
	cfg.MPD.Port = 1
	client := mpdclient.New(&cfg, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.SongCount(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestDialTimesOutWithoutBanner(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	var (
		heldMu sync.Mutex
		held   []net.Conn
	)
	t.Cleanup(func() {
		_ = ln.Close()
		heldMu.Lock()
		defer heldMu.Unlock()
		for _, conn := range held {
			_ = conn.Close()
		}
	})
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			// Hold the connection open without sending the banner.
			heldMu.Lock()
			held = append(held, conn)
			heldMu.Unlock()
		}
	}()

	host, portText, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portText)
	cfg := config.Default()
	cfg.MPD.Host = host
	cfg.MPD.Port = port
	cfg.MPD.TimeoutSeconds = 1
	client := mpdclient.New(&cfg, logging.NewNop())

	start := time.Now()
	err = client.Ping(context.Background())
	if err == nil {
		t.Fatal("expected a dial timeout")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("timeout took %v", elapsed)
	}
}
