package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"color-engine/entities"

	_ "github.com/go-sql-driver/mysql"
)

const createResultsTable = `CREATE TABLE IF NOT EXISTS game_results (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	room_code VARCHAR(32) NOT NULL,
	winner VARCHAR(64) NOT NULL,
	rounds INT NOT NULL,
	players VARCHAR(512) NOT NULL,
	finished_at DATETIME(3) NOT NULL,
	INDEX idx_game_results_winner (winner)
)`

// MySQLResults implements ResultStore on a game_results table.
type MySQLResults struct {
	db *sql.DB
}

// NewMySQLResults opens the database and creates the table if needed. The DSN needs
// parseTime=true for DATETIME columns.
func NewMySQLResults(ctx context.Context, dsn string) (*MySQLResults, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql connection failed: %w", err)
	}
	if _, err := db.ExecContext(ctx, createResultsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create game_results: %w", err)
	}
	return &MySQLResults{db: db}, nil
}

func (r *MySQLResults) Close() error {
	return r.db.Close()
}

func (r *MySQLResults) SaveResult(ctx context.Context, result entities.GameResult) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO game_results (room_code, winner, rounds, players, finished_at) VALUES (?, ?, ?, ?, ?)",
		result.RoomCode, result.Winner, result.Rounds, strings.Join(result.Players, ","), result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save game result: %w", err)
	}
	return nil
}
