package types

import "time"

// FlattenedGuild is the dashboard view of a guild
type FlattenedGuild struct {
	ID                       string     `json:"id" description:"The ID of the guild"`
	Name                     string     `json:"name" description:"The name of the guild"`
	Icon                     string     `json:"icon" description:"The icon hash of the guild"`
	IconURL                  string     `json:"icon_url" description:"The resolved icon URL of the guild"`
	Banner                   string     `json:"banner,omitempty" description:"The banner hash of the guild"`
	Splash                   string     `json:"splash,omitempty" description:"The splash hash of the guild"`
	Description              string     `json:"description,omitempty" description:"The description of the guild"`
	OwnerID                  string     `json:"owner_id,omitempty" description:"The ID of the guild owner, empty when unknown"`
	AfkChannelID             string     `json:"afk_channel_id,omitempty" description:"The AFK channel ID"`
	AfkTimeout               int        `json:"afk_timeout" description:"AFK timeout in seconds"`
	SystemChannelID          string     `json:"system_channel_id,omitempty" description:"The system channel ID"`
	VanityURLCode            string     `json:"vanity_url_code,omitempty" description:"The vanity invite code"`
	PreferredLocale          string     `json:"preferred_locale" description:"The preferred locale of the guild"`
	MemberCount              int        `json:"member_count" description:"Approximate member count, 0 when unknown"`
	PremiumTier              int        `json:"premium_tier" description:"The boost tier"`
	PremiumSubscriptionCount int        `json:"premium_subscription_count" description:"Number of boosts"`
	VerificationLevel        int        `json:"verification_level" description:"The verification level"`
	ExplicitContentFilter    int        `json:"explicit_content_filter" description:"The explicit content filter level"`
	MfaLevel                 int        `json:"mfa_level" description:"The MFA level required for moderation"`
	DefaultNotifications     int        `json:"default_message_notifications" description:"Default message notification level"`
	WidgetEnabled            bool       `json:"widget_enabled" description:"Whether the widget is enabled"`
	Features                 []string   `json:"features" description:"Guild features"`
	Roles                    []string   `json:"roles" description:"Role IDs of the guild"`
	Channels                 []string   `json:"channels" description:"Channel IDs of the guild"`
	JoinedAt                 *time.Time `json:"joined_at,omitempty" description:"When the bot joined the guild"`
}

// OauthFlattenedGuild is a guild from the user's OAuth guild list
type OauthFlattenedGuild struct {
	FlattenedGuild
	Permissions  string `json:"permissions" description:"The user's permissions in the guild, as a bitfield string"`
	Manageable   bool   `json:"manageable" description:"Whether the user can manage the bot in this guild"`
	CardinalIsIn bool   `json:"cardinal_is_in" description:"Whether the bot is in this guild"`
}
