// Package playerdb stores player profiles, most importantly the preferred
// response language the chat boundary resolves per request.
package playerdb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const defaultLanguage = "my"

var ErrNotFound = errors.New("player not found")

type Config struct {
	DSN string `split_words:"true" required:"true"`
}

type Player struct {
	bun.BaseModel `bun:"table:players"`

	ID           string    `bun:"id,pk"`
	Username     string    `bun:"username,notnull"`
	MLBBUsername string    `bun:"mlbb_username,nullzero"`
	Language     string    `bun:"language,notnull,default:'my'"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type Repository struct {
	db *bun.DB
}

func NewRepository(cfg Config) (*Repository, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("player db dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &Repository{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// EnsureSchema creates the players table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*Player)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (*Player, error) {
	player := new(Player)
	err := r.db.NewSelect().
		Model(player).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return player, nil
}

// GetLanguage resolves a player's preferred language, defaulting to Burmese
// for unknown players.
func (r *Repository) GetLanguage(ctx context.Context, id string) (string, error) {
	player, err := r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return defaultLanguage, nil
		}
		return "", err
	}
	if player.Language == "" {
		return defaultLanguage, nil
	}
	return player.Language, nil
}

func (r *Repository) Upsert(ctx context.Context, player *Player) error {
	if player == nil || strings.TrimSpace(player.ID) == "" {
		return errors.New("player id is required")
	}
	if player.Language == "" {
		player.Language = defaultLanguage
	}

	_, err := r.db.NewInsert().
		Model(player).
		On("CONFLICT (id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("mlbb_username = EXCLUDED.mlbb_username").
		Set("language = EXCLUDED.language").
		Exec(ctx)
	return err
}

func (r *Repository) Close() error {
	return r.db.Close()
}
