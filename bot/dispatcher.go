package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/restrictions"
	"github.com/cardinal-bot/cardinal/utils"
	"go.uber.org/zap"
)

const communityFeature = discordgo.GuildFeature("COMMUNITY")

type Options struct {
	Prefix       string
	RootUsers    []string
	Restrictions Restrictions
	Cooldowns    Cooldowns
	Analytics    Counter
	Logger       *zap.Logger

	// How long temporary replies stay up
	TemporaryTTL time.Duration

	// Bound on a single command run
	Timeout time.Duration

	// Overrides DefaultCooldown for commands without their own
	DefaultCooldown time.Duration
}

type Dispatcher struct {
	opts     Options
	commands map[string]*Command
	ordered  []*Command

	// Resolves the bot's own member in the invoking guild
	selfMember func(c *Context) (*discordgo.Member, error)
}

func NewDispatcher(opts Options) *Dispatcher {
	if opts.Prefix == "" {
		opts.Prefix = ">"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Dispatcher{
		opts:       opts,
		commands:   map[string]*Command{},
		selfMember: fetchSelfMember,
	}
}

// Register adds commands under their name, aliases and the dashless form of each
func (d *Dispatcher) Register(cmds ...*Command) error {
	for _, cmd := range cmds {
		if cmd.Name == "" || cmd.Run == nil {
			return fmt.Errorf("command %q is missing a name or run function", cmd.Name)
		}

		names := append([]string{cmd.Name}, cmd.Aliases...)
		for _, name := range names {
			if dashless := strings.ReplaceAll(name, "-", ""); dashless != name {
				names = append(names, dashless)
			}
		}

		for _, name := range names {
			name = strings.ToLower(name)
			if existing, ok := d.commands[name]; ok && existing != cmd {
				return fmt.Errorf("command name %q registered twice", name)
			}
			d.commands[name] = cmd
		}

		d.ordered = append(d.ordered, cmd)
	}

	return nil
}

// Find looks up a command by name or alias
func (d *Dispatcher) Find(name string) (*Command, bool) {
	cmd, ok := d.commands[strings.ToLower(name)]
	return cmd, ok
}

// Commands lists registered commands in registration order
func (d *Dispatcher) Commands() []*Command {
	return d.ordered
}

func (d *Dispatcher) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.System {
		return
	}

	name, tokens, ok := ParseInvocation(m.Content, d.opts.Prefix)
	if !ok {
		return
	}

	cmd, ok := d.Find(name)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.opts.Timeout)
	defer cancel()

	c := &Context{
		Context:      ctx,
		Session:      s,
		Message:      m.Message,
		Command:      cmd,
		Prefix:       d.opts.Prefix,
		Invoked:      name,
		temporaryTTL: d.opts.TemporaryTTL,
		Logger: d.opts.Logger.With(
			zap.String("command", cmd.Name),
			zap.String("userId", m.Author.ID),
			zap.String("guildId", m.GuildID),
		),
	}

	err := d.run(c, tokens)

	d.countUsage(ctx, cmd.Name, err == nil)

	if err == nil {
		return
	}

	if _, isUserErr := AsUserError(err); !isUserErr {
		c.Logger.Error("Command failed", zap.Error(err))
	}

	embed := PresentError(err)
	if embed == nil {
		return
	}

	if err := c.ReplyTemporary(embed); err != nil {
		c.Logger.Error("Failed to send error reply", zap.Error(err))
	}
}

func (d *Dispatcher) run(c *Context, tokens []string) error {
	args, err := ParseArgs(tokens, c.Command.Flags)
	if err != nil {
		return err
	}
	c.Args = args

	if err := d.populate(c); err != nil {
		return err
	}

	if err := d.checkPreconditions(c); err != nil {
		return err
	}

	return c.Command.Run(c)
}

func (d *Dispatcher) populate(c *Context) error {
	if c.Message.GuildID == "" {
		return &UserError{Identifier: ErrIdentifierGuildOnly}
	}

	g, err := Guild(c, c.Session, c.Message.GuildID)
	if err != nil {
		return fmt.Errorf("fetching guild: %w", err)
	}
	c.Guild = g

	ch, err := Channel(c, c.Session, c.Message.ChannelID)
	if err != nil {
		return fmt.Errorf("fetching channel: %w", err)
	}
	c.Channel = ch

	member := c.Message.Member
	if member == nil {
		member, err = Member(c, c.Session, g.ID, c.Message.Author.ID)
		if err != nil {
			return fmt.Errorf("fetching member: %w", err)
		}
	}

	// Message members come without a user
	if member.User == nil {
		member.User = c.Message.Author
	}
	member.GuildID = g.ID
	c.Member = member

	return nil
}

func (d *Dispatcher) checkPreconditions(c *Context) error {
	cmd := c.Command

	if cmd.Community && !hasFeature(c.Guild, communityFeature) {
		return &UserError{Identifier: ErrIdentifierCommunity}
	}

	verdict := restrictions.VerdictUnset
	if !cmd.Guarded && d.opts.Restrictions != nil {
		verdict = d.restrictionVerdict(c)
		if verdict == restrictions.VerdictDeny {
			return &UserError{Identifier: ErrIdentifierRestricted}
		}
	}

	if verdict != restrictions.VerdictAllow {
		perms := utils.BasePermissions(c.Guild, c.Member)
		isOwner := c.Guild.OwnerID == c.Member.User.ID
		if !HasPermissionLevel(cmd.PermissionLevel, perms, isOwner, isRootUser(d.opts.RootUsers, c.Member.User.ID)) {
			return &UserError{
				Identifier: ErrIdentifierPermissionLevel,
				Message:    fmt.Sprintf("You need the %s permission level to run this command", cmd.PermissionLevel),
			}
		}
	}

	if err := d.checkClientPermissions(c); err != nil {
		return err
	}

	return d.checkCooldown(c)
}

func (d *Dispatcher) restrictionVerdict(c *Context) restrictions.Verdict {
	r := d.opts.Restrictions
	guildID, command := c.Guild.ID, c.Command.Name

	return CombineVerdicts(
		r.EvaluateMember(c, guildID, command, c.Member.User.ID),
		r.EvaluateRoles(c, guildID, command, c.Member.Roles),
		r.EvaluateChannel(c, guildID, command, c.Channel.ID),
	)
}

func fetchSelfMember(c *Context) (*discordgo.Member, error) {
	self, err := Member(c, c.Session, c.Guild.ID, c.Session.State.User.ID)
	if err != nil {
		return nil, err
	}

	if self.User == nil {
		self.User = c.Session.State.User
	}

	return self, nil
}

func (d *Dispatcher) checkClientPermissions(c *Context) error {
	self, err := d.selfMember(c)
	if err != nil {
		return fmt.Errorf("fetching bot member: %w", err)
	}

	have := utils.ChannelPermissions(c.Guild, self, c.Channel)
	missing := utils.MissingPermissions(have, c.Command.ClientPermissions())
	if missing == 0 {
		return nil
	}

	return &UserError{
		Identifier: ErrIdentifierClientPermissions,
		Context:    ErrorContext{Missing: utils.PermissionNames(missing)},
	}
}

func (d *Dispatcher) checkCooldown(c *Context) error {
	delay := c.Command.CooldownDelay()
	if c.Command.Cooldown == 0 && d.opts.DefaultCooldown > 0 {
		delay = d.opts.DefaultCooldown
	}
	if delay == 0 || d.opts.Cooldowns == nil || isRootUser(d.opts.RootUsers, c.Member.User.ID) {
		return nil
	}

	key := cooldownKey(c.Command.Name, c.Member.User.ID)
	now := int(time.Now().Unix())

	claimed, err := d.opts.Cooldowns.Claim(c, key, &now, delay)
	if err != nil {
		// Cooldowns are best effort
		c.Logger.Warn("Failed to claim cooldown", zap.Error(err))
		return nil
	}

	if claimed {
		return nil
	}

	remaining, err := d.opts.Cooldowns.Expiry(c, key)
	if err != nil || remaining <= 0 {
		remaining = delay
	}

	return &UserError{
		Identifier: ErrIdentifierCooldown,
		Context:    ErrorContext{Remaining: remaining.Seconds()},
	}
}

func (d *Dispatcher) countUsage(ctx context.Context, command string, ok bool) {
	if d.opts.Analytics == nil {
		return
	}

	outcome := "ok"
	if !ok {
		outcome = "fail"
	}

	if err := d.opts.Analytics.IncrementOne(ctx, command+":"+outcome); err != nil {
		d.opts.Logger.Debug("Failed to count command usage", zap.Error(err), zap.String("command", command))
	}
}
