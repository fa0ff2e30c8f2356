package types

import "github.com/cardinal-bot/cardinal/restrictions"

// PatchRestriction adds a subject to or removes it from one restriction set
type PatchRestriction struct {
	Kind      string `json:"kind" validate:"required,oneof=member role channel" msg:"Kind must be member, role or channel" description:"member, role or channel"`
	SubjectID string `json:"subject_id" validate:"required,numeric" msg:"Subject ID must be a discord ID" description:"The member, role or channel ID"`
	Action    string `json:"action" validate:"required,oneof=allow deny" msg:"Action must be allow or deny" description:"allow or deny"`
	Op        string `json:"op" validate:"required,oneof=add remove" msg:"Op must be add or remove" description:"add or remove"`
}

type RestrictionList struct {
	Restrictions []*restrictions.Record `json:"restrictions" description:"Every configured command of the guild"`
}
