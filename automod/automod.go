// Package automod stores which automated moderation rules are enabled per guild
package automod

import (
	"context"
	"errors"
	"time"

	"github.com/cardinal-bot/cardinal/db"
	"github.com/jackc/pgx/v5"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Setting struct {
	GuildID   string    `db:"guild_id" json:"guild_id"`
	Rule      Rule      `db:"rule" json:"rule"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

var settingCols = db.ColsString(Setting{})

// Config is the automod configuration of a single guild
type Config struct {
	conn    db.DbConn
	guildID string
}

func New(conn db.DbConn, guildID string) *Config {
	return &Config{conn: conn, guildID: guildID}
}

// GetSetting returns nil when the rule has never been configured
func (c *Config) GetSetting(ctx context.Context, rule Rule) (*Setting, error) {
	rule, err := ParseRule(string(rule))
	if err != nil {
		return nil, err
	}

	rows, err := c.conn.Query(ctx, "SELECT "+settingCols+" FROM automod_rules WHERE guild_id = $1 AND rule = $2", c.guildID, string(rule))

	if err != nil {
		return nil, err
	}

	s, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Setting])

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return s, nil
}

func (c *Config) EnableRule(ctx context.Context, rule Rule) error {
	return c.setRule(ctx, rule, true)
}

func (c *Config) DisableRule(ctx context.Context, rule Rule) error {
	return c.setRule(ctx, rule, false)
}

// setRule stores the canonical rule name so Overview matches it
func (c *Config) setRule(ctx context.Context, rule Rule, enabled bool) error {
	rule, err := ParseRule(string(rule))
	if err != nil {
		return err
	}

	_, err = c.conn.Exec(ctx, "INSERT INTO guilds (id) VALUES ($1) ON CONFLICT DO NOTHING", c.guildID)

	if err != nil {
		return err
	}

	_, err = c.conn.Exec(
		ctx,
		`INSERT INTO automod_rules (guild_id, rule, enabled) VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, rule) DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = NOW()`,
		c.guildID,
		string(rule),
		enabled,
	)

	return err
}

// List returns every configured rule
func (c *Config) List(ctx context.Context) ([]Setting, error) {
	rows, err := c.conn.Query(ctx, "SELECT "+settingCols+" FROM automod_rules WHERE guild_id = $1", c.guildID)

	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[Setting])
}

// Overview maps every rule, in display order, to whether it is enabled.
// Rules that were never configured are reported as disabled.
func Overview(settings []Setting) *orderedmap.OrderedMap[Rule, bool] {
	enabled := make(map[Rule]bool, len(settings))
	for _, s := range settings {
		if r, err := ParseRule(string(s.Rule)); err == nil {
			enabled[r] = s.Enabled
		}
	}

	om := orderedmap.New[Rule, bool](len(Rules))
	for _, r := range Rules {
		om.Set(r, enabled[r])
	}

	return om
}
