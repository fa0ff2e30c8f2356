package types

import "github.com/cardinal-bot/cardinal/automod"

type PatchAutomodRule struct {
	Rule    string `json:"rule" validate:"required" msg:"Rule is required" description:"The automod rule to update"`
	Enabled bool   `json:"enabled" description:"Whether the rule should be enabled"`
}

// AutomodOverview lists every rule in display order
type AutomodOverview struct {
	Rules []AutomodRuleState `json:"rules" description:"Every automod rule and whether it is enabled"`
}

type AutomodRuleState struct {
	Rule    automod.Rule `json:"rule" description:"The rule name"`
	Enabled bool         `json:"enabled" description:"Whether the rule is enabled"`
}
