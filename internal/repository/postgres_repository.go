package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/rongwang/pokerclub-server/internal/models"
)

var _ Repository = (*PostgresRepository)(nil)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB

	resetsMu      sync.Mutex
	resetsCreated bool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// Admin repository methods
func (r *PostgresRepository) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	admin.CreatedAt = Now()

	return r.db.QueryRowContext(ctx, query,
		admin.Username, admin.PasswordHash, admin.CreatedAt).Scan(&admin.ID)
}

func (r *PostgresRepository) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query := `SELECT * FROM admins WHERE username = $1`

	var admin models.Admin
	err := r.db.GetContext(ctx, &admin, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Admin not found
		}
		return nil, err
	}

	return &admin, nil
}

// Player repository methods
func (r *PostgresRepository) CreatePlayer(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (name, phone, email, notes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	now := Now()
	player.CreatedAt = now
	player.UpdatedAt = now

	return r.db.QueryRowContext(ctx, query,
		player.Name, player.Phone, player.Email, player.Notes, player.Active,
		player.CreatedAt, player.UpdatedAt).Scan(&player.ID)
}

func (r *PostgresRepository) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	query := `SELECT * FROM players WHERE id = $1`

	var player models.Player
	err := r.db.GetContext(ctx, &player, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Player not found
		}
		return nil, err
	}

	return &player, nil
}

func (r *PostgresRepository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	query := `SELECT * FROM players ORDER BY name ASC, id ASC`

	players := []models.Player{}
	if err := r.db.SelectContext(ctx, &players, query); err != nil {
		return nil, err
	}

	return players, nil
}

func (r *PostgresRepository) UpdatePlayer(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET name = $1, phone = $2, email = $3, notes = $4, active = $5, updated_at = $6
		WHERE id = $7
		RETURNING created_at
	`

	player.UpdatedAt = Now()

	err := r.db.QueryRowContext(ctx, query,
		player.Name, player.Phone, player.Email, player.Notes, player.Active,
		player.UpdatedAt, player.ID).Scan(&player.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	return err
}

// DeletePlayer removes the player's transactions and then the player in one database
// transaction. It returns the number of transactions removed.
func (r *PostgresRepository) DeletePlayer(ctx context.Context, id int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var locked int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM players WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	// Delete transactions first (due to foreign key constraint)
	res, err := tx.ExecContext(ctx, `DELETE FROM player_transactions WHERE player_id = $1`, id)
	if err != nil {
		return 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return removed, nil
}
