package types

import "time"

// CreateAppeal is the body of an appeal submission
type CreateAppeal struct {
	ID        string `json:"id" validate:"required" msg:"ID is required" description:"Client generated appeal ID"`
	GuildID   string `json:"guild_id" validate:"required" msg:"Guild ID is required" description:"The guild the appeal is for"`
	UserID    string `json:"user_id" validate:"required" msg:"User ID is required" description:"The appealing user"`
	MuteOrBan string `json:"mute_or_ban" validate:"required" msg:"mute_or_ban is required" description:"What is being appealed"`
	Reason    string `json:"reason" validate:"required" msg:"Reason is required" description:"The reason of the punishment"`
	Appeal    string `json:"appeal" validate:"required" msg:"Appeal is required" description:"Why the punishment should be lifted"`
	Extra     string `json:"extra" validate:"required" msg:"Extra is required" description:"Anything else"`
}

type Appeal struct {
	ID        string    `db:"id" json:"id" description:"The appeal ID"`
	GuildID   string    `db:"guild_id" json:"guild_id" description:"The guild the appeal is for"`
	UserID    string    `db:"user_id" json:"user_id" description:"The appealing user"`
	MuteOrBan string    `db:"mute_or_ban" json:"mute_or_ban" description:"What is being appealed"`
	Reason    string    `db:"reason" json:"reason" description:"The reason of the punishment"`
	Appeal    string    `db:"appeal" json:"appeal" description:"Why the punishment should be lifted"`
	Extra     string    `db:"extra" json:"extra" description:"Anything else"`
	CreatedAt time.Time `db:"created_at" json:"created_at" description:"When the appeal was submitted"`
}
