package transfer

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/checksum"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServe_SendsDatabaseOverHTTP(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ansuz.db")
	payload := []byte("sqlite file contents")
	if err := os.WriteFile(dbPath, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(context.Background(), ln, dbPath, discardLogger())
	}()

	resp, err := http.Get("http://" + ln.Addr().String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.ContentLength != int64(len(payload)) {
		t.Errorf("content length = %d, want %d", resp.ContentLength, len(payload))
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != string(payload) {
		t.Errorf("body = %q, want %q", body, payload)
	}
	if got := resp.Header.Get("X-Checksum-SHA256"); got != checksum.Sum(payload) {
		t.Errorf("checksum header = %q, want %q", got, checksum.Sum(payload))
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after the transfer")
	}
}

func TestServe_CancelUnblocksAccept(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ansuz.db")
	if err := os.WriteFile(dbPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(ctx, ln, dbPath, discardLogger())
	}()

	cancel()
	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_MissingDatabase(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(context.Background(), ln, "/nonexistent/ansuz.db", discardLogger())
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("expected error for missing database file")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return")
	}
}
