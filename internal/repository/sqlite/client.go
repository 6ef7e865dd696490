// Package sqlite implements the event repository on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jdank417/GroceryBarcodeScanner/internal/config"
)

// Client holds one write connection and a small read pool over the same file.
// All appends go through the writer so SQLite never sees competing writers.
type Client struct {
	writer *sql.DB
	reader *sql.DB
	path   string
	log    *zap.Logger
}

// NewClient opens the database file at cfg.Path
func NewClient(ctx context.Context, cfg config.SQLite, log *zap.Logger) (*Client, error) {
	log.Info("Opening SQLite event store", zap.String("path", cfg.Path))

	dsn := buildDSN(cfg.Path)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("failed to open SQLite reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := writer.PingContext(ctx); err != nil {
		_ = writer.Close()
		_ = reader.Close()
		log.Error("Failed to ping SQLite", zap.Error(err))
		return nil, fmt.Errorf("failed to ping SQLite: %w", err)
	}

	log.Info("SQLite event store opened successfully")

	return &Client{writer: writer, reader: reader, path: cfg.Path, log: log}, nil
}

func buildDSN(path string) string {
	params := url.Values{}
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")
	params.Add("_pragma", "busy_timeout(5000)")
	return "file:" + path + "?" + params.Encode()
}

// Writer returns the single write connection
func (c *Client) Writer() *sql.DB {
	return c.writer
}

// Reader returns the read pool
func (c *Client) Reader() *sql.DB {
	return c.reader
}

// Close closes both connection pools
func (c *Client) Close() error {
	c.log.Info("Closing SQLite event store", zap.String("path", c.path))
	werr := c.writer.Close()
	rerr := c.reader.Close()
	if werr != nil {
		c.log.Error("Error closing SQLite writer", zap.Error(werr))
		return werr
	}
	if rerr != nil {
		c.log.Error("Error closing SQLite reader", zap.Error(rerr))
		return rerr
	}
	return nil
}
