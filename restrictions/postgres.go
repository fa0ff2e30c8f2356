package restrictions

import (
	"context"
	"errors"

	"github.com/cardinal-bot/cardinal/db"
	"github.com/jackc/pgx/v5"
)

var recordCols = db.ColsString(Record{})

// PostgresRepository stores records in the command_restrictions table
type PostgresRepository struct {
	conn db.DbConn
}

func NewPostgresRepository(conn db.DbConn) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

func (p *PostgresRepository) FindOne(ctx context.Context, key Key) (*Record, error) {
	rows, err := p.conn.Query(ctx, "SELECT "+recordCols+" FROM command_restrictions WHERE id = $1", key.ID())

	if err != nil {
		return nil, err
	}

	rec, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Record])

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (p *PostgresRepository) Upsert(ctx context.Context, key Key, create, update *Record) (*Record, error) {
	create.normalize()
	update.normalize()

	rows, err := p.conn.Query(
		ctx,
		`INSERT INTO command_restrictions (id, guild_id, command, allowed_members, denied_members, allowed_roles, denied_roles, allowed_channels, denied_channels)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			allowed_members = $10,
			denied_members = $11,
			allowed_roles = $12,
			denied_roles = $13,
			allowed_channels = $14,
			denied_channels = $15,
			updated_at = NOW()
		RETURNING `+recordCols,
		key.ID(),
		key.GuildID,
		key.Command,
		create.AllowedMembers,
		create.DeniedMembers,
		create.AllowedRoles,
		create.DeniedRoles,
		create.AllowedChannels,
		create.DeniedChannels,
		update.AllowedMembers,
		update.DeniedMembers,
		update.AllowedRoles,
		update.DeniedRoles,
		update.AllowedChannels,
		update.DeniedChannels,
	)

	if err != nil {
		return nil, err
	}

	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Record])
}

func (p *PostgresRepository) Delete(ctx context.Context, key Key) error {
	tag, err := p.conn.Exec(ctx, "DELETE FROM command_restrictions WHERE id = $1", key.ID())

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresRepository) List(ctx context.Context, guildID string) ([]*Record, error) {
	rows, err := p.conn.Query(ctx, "SELECT "+recordCols+" FROM command_restrictions WHERE guild_id = $1 ORDER BY command", guildID)

	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Record])
}
