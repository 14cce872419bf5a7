// Package transfer implements the one-shot database handoff: a tiny TCP
// server that sends the SQLite file to the first peer that connects, then
// exits. The response is plain HTTP so the receiving side can be curl, a
// browser, or another instance.
package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"

	"github.com/starford/ansuz/internal/checksum"
)

// Serve accepts exactly one connection on ln, streams the database file at
// dbPath to it, and returns. Cancelling ctx aborts the wait.
func Serve(ctx context.Context, ln net.Listener, dbPath string, logger *slog.Logger) error {
	// Unblock Accept when the caller gives up.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-done:
		}
	}()

	logger.Info("transfer: waiting for receiver",
		slog.String("address", ln.Addr().String()),
		slog.String("database", dbPath))

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	logger.Info("transfer: receiver connected", slog.String("peer", conn.RemoteAddr().String()))

	f, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat database: %w", err)
	}
	sum, err := checksum.File(dbPath)
	if err != nil {
		return fmt.Errorf("checksum database: %w", err)
	}

	header := fmt.Sprintf(
		"HTTP/1.1 200 OK\r\nContent-Type: application/octet-stream\r\nContent-Length: %d\r\nX-Checksum-SHA256: %s\r\n\r\n",
		info.Size(), sum)
	if _, err := io.WriteString(conn, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	n, err := io.Copy(conn, f)
	if err != nil {
		return fmt.Errorf("write database: %w", err)
	}

	logger.Info("transfer: database sent",
		slog.Int64("bytes", n),
		slog.String("sha256", sum))
	return nil
}

// Send listens on addr and serves the database to the first peer.
func Send(ctx context.Context, addr, dbPath string, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()
	return Serve(ctx, ln, dbPath, logger)
}
