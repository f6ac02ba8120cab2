package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GenerationRecord represents a row in the generation_history table. It is
// the persisted union of a generation request and its normalized result,
// written once as pending and updated to a terminal state when the provider
// call resolves.
type GenerationRecord struct {
	ID                string
	CustomerID        string
	WallColorName     string
	WallColorCode     string
	RoofColorName     string
	RoofColorCode     string
	DoorColorName     string
	DoorColorCode     string
	Weather           string
	LayoutSideBySide  bool
	BackgroundColor   string
	OtherInstructions string
	Prompt            string
	ProviderUsed      string
	Model             string
	RawResponse       string // opaque provider response JSON
	Status            string // "pending", "processing", "completed", "failed"
	ImageURL          string
	ErrorMessage      string
	ProcessingTimeMS  int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Subscription represents a row in the subscriptions table.
type Subscription struct {
	CustomerID      string
	PlanID          string
	GenerationLimit int
	GenerationCount int
	UpdatedAt       time.Time
}

// Remaining returns how many generations the subscription has left.
func (s Subscription) Remaining() int {
	if r := s.GenerationLimit - s.GenerationCount; r > 0 {
		return r
	}
	return 0
}

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("db: record not found")

// Repository provides CRUD operations for generation history and
// subscriptions over a single SQLite connection.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository over an open connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertGeneration writes a new generation record. Callers set Status
// (normally "pending") and the request fields; result fields stay zero until
// a later update.
func (r *Repository) InsertGeneration(ctx context.Context, rec GenerationRecord) error {
	if r.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	query := `
		INSERT INTO generation_history (
			id, customer_id,
			wall_color_name, wall_color_code,
			roof_color_name, roof_color_code,
			door_color_name, door_color_code,
			weather, layout_side_by_side, background_color, other_instructions,
			prompt, provider_used, model, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.CustomerID,
		rec.WallColorName, rec.WallColorCode,
		rec.RoofColorName, rec.RoofColorCode,
		rec.DoorColorName, rec.DoorColorCode,
		rec.Weather, rec.LayoutSideBySide, rec.BackgroundColor, rec.OtherInstructions,
		rec.Prompt, rec.ProviderUsed, rec.Model, rec.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation record: %w", err)
	}
	return nil
}

// UpdateGenerationStatus moves a record to a new status without touching
// result fields. Used for the pending -> processing transition.
func (r *Repository) UpdateGenerationStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE generation_history
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update generation status: %w", err)
	}
	return requireRow(res)
}

// FinishGeneration writes the terminal state of a record: completed or
// failed, plus the normalized result fields and the raw provider response.
func (r *Repository) FinishGeneration(ctx context.Context, rec GenerationRecord) error {
	query := `
		UPDATE generation_history
		SET status = ?, image_url = ?, error_message = ?, raw_response = ?,
		    provider_used = ?, model = ?, processing_time_ms = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		rec.Status, rec.ImageURL, rec.ErrorMessage, rec.RawResponse,
		rec.ProviderUsed, rec.Model, rec.ProcessingTimeMS, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish generation record: %w", err)
	}
	return requireRow(res)
}

const generationColumns = `
	id, customer_id,
	wall_color_name, wall_color_code,
	roof_color_name, roof_color_code,
	door_color_name, door_color_code,
	weather, layout_side_by_side, background_color, other_instructions,
	prompt, provider_used, model, raw_response,
	status, image_url, error_message, processing_time_ms,
	created_at, updated_at`

// GetGeneration returns one record by id, or ErrNotFound.
func (r *Repository) GetGeneration(ctx context.Context, id string) (GenerationRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+generationColumns+` FROM generation_history WHERE id = ?`, id)
	rec, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return GenerationRecord{}, ErrNotFound
	}
	return rec, err
}

// ListGenerations returns records newest-first, optionally filtered by
// customer. limit <= 0 means a default of 50.
func (r *Repository) ListGenerations(ctx context.Context, customerID string, limit int) ([]GenerationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + generationColumns + ` FROM generation_history`
	args := []any{}
	if customerID != "" {
		query += ` WHERE customer_id = ?`
		args = append(args, customerID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation records: %w", err)
	}
	defer rows.Close()

	var out []GenerationRecord
	for rows.Next() {
		rec, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(s scanner) (GenerationRecord, error) {
	var rec GenerationRecord
	err := s.Scan(
		&rec.ID, &rec.CustomerID,
		&rec.WallColorName, &rec.WallColorCode,
		&rec.RoofColorName, &rec.RoofColorCode,
		&rec.DoorColorName, &rec.DoorColorCode,
		&rec.Weather, &rec.LayoutSideBySide, &rec.BackgroundColor, &rec.OtherInstructions,
		&rec.Prompt, &rec.ProviderUsed, &rec.Model, &rec.RawResponse,
		&rec.Status, &rec.ImageURL, &rec.ErrorMessage, &rec.ProcessingTimeMS,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("failed to scan generation record: %w", err)
	}
	return rec, err
}

// EnsureSubscription returns the customer's subscription, creating a default
// row with the given plan and limit when none exists yet.
func (r *Repository) EnsureSubscription(ctx context.Context, customerID, planID string, limit int) (Subscription, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (customer_id, plan_id, generation_limit)
		VALUES (?, ?, ?)
		ON CONFLICT (customer_id) DO NOTHING`,
		customerID, planID, limit)
	if err != nil {
		return Subscription{}, fmt.Errorf("failed to ensure subscription: %w", err)
	}
	return r.GetSubscription(ctx, customerID)
}

// GetSubscription returns one subscription by customer id, or ErrNotFound.
func (r *Repository) GetSubscription(ctx context.Context, customerID string) (Subscription, error) {
	var s Subscription
	err := r.db.QueryRowContext(ctx, `
		SELECT customer_id, plan_id, generation_limit, generation_count, updated_at
		FROM subscriptions WHERE customer_id = ?`, customerID).
		Scan(&s.CustomerID, &s.PlanID, &s.GenerationLimit, &s.GenerationCount, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Subscription{}, ErrNotFound
	}
	if err != nil {
		return Subscription{}, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

// IncrementGenerationCount bumps the customer's usage counter by one. The
// increment happens in SQL, so concurrent requests never lose updates.
func (r *Repository) IncrementGenerationCount(ctx context.Context, customerID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET generation_count = generation_count + 1, updated_at = CURRENT_TIMESTAMP
		WHERE customer_id = ?`, customerID)
	if err != nil {
		return fmt.Errorf("failed to increment generation count: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
