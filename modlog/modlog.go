// Package modlog records moderation actions with a per guild case number
package modlog

import (
	"context"
	"errors"
	"time"

	"github.com/cardinal-bot/cardinal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type Type string

const (
	TypeModnick Type = "modnick"
)

type Entry struct {
	ID        pgtype.UUID    `db:"id" json:"id"`
	CaseID    int64          `db:"case_id" json:"case_id"`
	GuildID   string         `db:"guild_id" json:"guild_id"`
	MemberID  string         `db:"member_id" json:"member_id"`
	StaffID   string         `db:"staff_id" json:"staff_id"`
	Type      Type           `db:"type" json:"type"`
	Data      map[string]any `db:"data" json:"data"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

var entryCols = db.ColsString(Entry{})

// ModnickData is the payload of a modnick entry
type ModnickData struct {
	ModeratedNickname string
	OriginalNickname  string
	Frozen            bool
}

func (m ModnickData) toMap() map[string]any {
	return map[string]any{
		"moderatedNickname": m.ModeratedNickname,
		"originalNickname":  m.OriginalNickname,
		"frozen":            m.Frozen,
	}
}

// Create inserts an entry, assigning it the next case number of the guild
func Create(ctx context.Context, conn db.DbConn, e Entry) (*Entry, error) {
	if e.GuildID == "" || e.MemberID == "" || e.StaffID == "" {
		return nil, errors.New("modlog: guild, member and staff are required")
	}

	if e.Data == nil {
		e.Data = map[string]any{}
	}

	rows, err := conn.Query(
		ctx,
		`INSERT INTO modlogs (case_id, guild_id, member_id, staff_id, type, data)
		VALUES ((SELECT COALESCE(MAX(case_id), 0) + 1 FROM modlogs WHERE guild_id = $1), $1, $2, $3, $4, $5)
		RETURNING `+entryCols,
		e.GuildID,
		e.MemberID,
		e.StaffID,
		e.Type,
		e.Data,
	)

	if err != nil {
		return nil, err
	}

	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Entry])
}

// CreateModnick logs a nickname moderation
func CreateModnick(ctx context.Context, conn db.DbConn, guildID, memberID, staffID string, data ModnickData) (*Entry, error) {
	return Create(ctx, conn, Entry{
		GuildID:  guildID,
		MemberID: memberID,
		StaffID:  staffID,
		Type:     TypeModnick,
		Data:     data.toMap(),
	})
}
