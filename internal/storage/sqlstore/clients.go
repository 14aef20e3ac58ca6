package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harsh-0015/freelance-tracker/internal/models"
	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

// CreateClient persists a new client.
func (s *Store) CreateClient(ctx context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now()
	}
	client.CreatedAt = normalizeTime(client.CreatedAt)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO clients (id, name, email, phone, address, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		client.ID, client.Name, client.Email, client.Phone, client.Address, toMillis(client.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	return nil
}

// GetClient retrieves a client by ID.
func (s *Store) GetClient(ctx context.Context, id string) (*models.Client, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, phone, address, created_at FROM clients WHERE id = ?", id)

	client, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}

// ListClients retrieves all clients, newest first.
func (s *Store) ListClients(ctx context.Context) ([]*models.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, phone, address, created_at FROM clients ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return clients, nil
}

// DeleteClient removes a client by ID. Records referencing the client by
// name are left untouched.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %s: %w", id, storage.ErrNotFound)
	}

	return nil
}

func scanClient(row scanner) (*models.Client, error) {
	client := &models.Client{}
	var created int64

	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.Address,
		&created,
	); err != nil {
		return nil, err
	}

	client.CreatedAt = fromMillis(created)
	return client, nil
}
