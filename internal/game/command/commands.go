// Package command provides the command registry, parser, and built-in command definitions.
package command

// Categories for organizing commands.
const (
	CategoryPlay   = "play"
	CategoryInfo   = "info"
	CategoryMatch  = "match"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to session actions.
const (
	HandlerThrow   = "throw"
	HandlerHold    = "hold"
	HandlerScore   = "score"
	HandlerChoices = "choices"
	HandlerDice    = "dice"
	HandlerScores  = "scores"
	HandlerNew     = "new"
	HandlerResume  = "resume"
	HandlerQuit    = "quit"
	HandlerHelp    = "help"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, if any.
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler names the session action that runs the command.
	Handler string
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "throw", Aliases: []string{"roll", "t"}, Help: "Throw every die that is not held or locked", Category: CategoryPlay, Handler: HandlerThrow},
		{Name: "hold", Aliases: []string{"h", "select"}, Usage: "<die> [die...]", Help: "Toggle holding dice (1-6) before the next throw", Category: CategoryPlay, Handler: HandlerHold},
		{Name: "score", Aliases: []string{"s", "play"}, Usage: "<low|4-12>", Help: "Score the dice in a category and end the round", Category: CategoryPlay, Handler: HandlerScore},

		{Name: "choices", Aliases: []string{"c", "open"}, Help: "List categories still open", Category: CategoryInfo, Handler: HandlerChoices},
		{Name: "dice", Aliases: []string{"d", "look"}, Help: "Show the dice and throws left", Category: CategoryInfo, Handler: HandlerDice},
		{Name: "scores", Aliases: []string{"sheet", "results"}, Help: "Show the score sheet and total", Category: CategoryInfo, Handler: HandlerScores},

		{Name: "new", Aliases: []string{"restart"}, Help: "Abandon the current match and start a new one", Category: CategoryMatch, Handler: HandlerNew},
		{Name: "resume", Aliases: []string{"load"}, Usage: "<match-id>", Help: "Continue a saved match", Category: CategoryMatch, Handler: HandlerResume},

		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Save and disconnect", Category: CategorySystem, Handler: HandlerQuit},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}

// CategoryOrder lists categories in the order help output shows them.
func CategoryOrder() []string {
	return []string{CategoryPlay, CategoryInfo, CategoryMatch, CategorySystem}
}
