package types

import (
	"github.com/infinitybotlist/eureka/dovewing/dovetypes"
)

// Me is the authenticated user along with the guilds they share with the bot
type Me struct {
	User   *dovetypes.PlatformUser `json:"user" description:"The user object of the user"`
	State  string                  `json:"state" description:"The state of the user"`
	Guilds []*FlattenedGuild       `json:"guilds" description:"Guilds the user is in that the bot is also in"`
}
