package cli

// Categories for organizing commands.
const (
	CategoryCombat = "combat"
	CategoryInfo   = "info"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to runner actions.
const (
	HandlerAttack = "attack"
	HandlerDefend = "defend"
	HandlerPass   = "pass"
	HandlerStatus = "status"
	HandlerLog    = "log"
	HandlerHelp   = "help"
	HandlerQuit   = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (combat, info, system).
	Category string
	// Handler maps to the runner action.
	Handler string
}

// BuiltinCommands returns all built-in encounter commands.
func BuiltinCommands() []Command {
	return []Command{
		// Combat commands
		{Name: "attack", Aliases: []string{"att", "a"}, Help: "Attack a target (attack <name>)", Category: CategoryCombat, Handler: HandlerAttack},
		{Name: "defend", Aliases: []string{"def"}, Help: "Take a defensive stance until your next turn (+2 AC)", Category: CategoryCombat, Handler: HandlerDefend},
		{Name: "pass", Aliases: []string{"p"}, Help: "Do nothing this turn", Category: CategoryCombat, Handler: HandlerPass},

		// Info commands
		{Name: "status", Aliases: []string{"st"}, Help: "Show initiative order and hit points", Category: CategoryInfo, Handler: HandlerStatus},
		{Name: "log", Aliases: nil, Help: "Show the combat log", Category: CategoryInfo, Handler: HandlerLog},

		// System commands
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit"}, Help: "Concede the encounter and quit", Category: CategorySystem, Handler: HandlerQuit},
	}
}
