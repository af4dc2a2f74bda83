package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteProvider 单文件持久化存储
type SQLiteProvider struct {
	db *sql.DB
}

// NewSQLiteProvider 打开（必要时创建）数据库文件
func NewSQLiteProvider(ctx context.Context, path string) (*SQLiteProvider, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.ToSlash(path)))
	if err != nil {
		return nil, err
	}
	// modernc sqlite 单连接写入，避免 database is locked
	db.SetMaxOpenConns(1)

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteProvider{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("初始化SQLite失败: %w", err)
		}
	}
	return nil
}

func (p *SQLiteProvider) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("读取SQLite失败 %s: %w", key, err)
	}
	return data, nil
}

func (p *SQLiteProvider) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv(key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("写入SQLite失败 %s: %w", key, err)
	}
	return nil
}

func (p *SQLiteProvider) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := p.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, k); err != nil {
			return fmt.Errorf("删除SQLite键失败 %s: %w", k, err)
		}
	}
	return nil
}

func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}
