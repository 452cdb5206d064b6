package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/thirty/internal/frontend/telnet"
	"github.com/cory-johannsen/thirty/internal/game/command"
	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/match"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

// RenderDie formats one die: held dice in yellow brackets, locked dice dim in
// parentheses, consumed dice marked with a trailing *.
func RenderDie(d dice.State) string {
	v := strconv.Itoa(d.Value)
	var s string
	switch {
	case d.Selected:
		s = telnet.Colorize(telnet.Yellow, "["+v+"]")
	case !d.Enabled:
		s = telnet.Colorize(telnet.Dim, "("+v+")")
	default:
		s = telnet.Colorize(telnet.BrightWhite, " "+v+" ")
	}
	if d.Consumed {
		s += telnet.Colorize(telnet.Red, "*")
	}
	return s
}

// RenderTable formats the current round, throws left and the numbered dice.
//
// Postcondition: Returns a multi-line string; lines are separated by \n.
func RenderTable(m *match.Match) string {
	var b strings.Builder
	if m.Complete() {
		b.WriteString(telnet.Colorf(telnet.Bold, "Match complete - total %d", m.Total()))
	} else {
		b.WriteString(telnet.Colorf(telnet.Bold, "Round %d/%d", m.Round(), m.Rules().Rounds))
		b.WriteString(fmt.Sprintf("  throws left: %d", m.ThrowsLeft()))
	}
	b.WriteString("\n")

	states := m.Dice()
	for i := range states {
		b.WriteString(telnet.Colorf(telnet.Dim, " %d", i+1))
		b.WriteString(telnet.PadRight("", 3))
	}
	b.WriteString("\n")
	for _, d := range states {
		b.WriteString(telnet.PadRight(RenderDie(d), 5))
	}
	return b.String()
}

// RenderChoices lists the open categories on one line.
func RenderChoices(open []scoring.Category) string {
	if len(open) == 0 {
		return telnet.Colorize(telnet.Dim, "No categories left.")
	}
	names := make([]string, len(open))
	for i, c := range open {
		names[i] = c.String()
	}
	return telnet.Colorize(telnet.Cyan, "Open: ") + strings.Join(names, " ")
}

// RenderScoreSheet lists every category with its points, or "-" while open,
// followed by the running total.
func RenderScoreSheet(results []scoring.Score, total int) string {
	played := make(map[scoring.Category]int, len(results))
	for _, s := range results {
		played[s.Category] = s.Points
	}

	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.Bold, "Category  Points"))
	b.WriteString("\n")
	for _, c := range scoring.AllCategories() {
		points, ok := played[c]
		cell := telnet.Colorize(telnet.Dim, "-")
		if ok {
			cell = telnet.Colorize(telnet.Green, strconv.Itoa(points))
		}
		b.WriteString(telnet.PadRight("  "+c.String(), 10))
		b.WriteString(cell)
		b.WriteString("\n")
	}
	b.WriteString(telnet.Colorf(telnet.Bold, "Total     %d", total))
	return b.String()
}

// RenderOutcome reports a committed round.
func RenderOutcome(out match.Outcome) string {
	used := make([]string, len(out.Used))
	for i, idx := range out.Used {
		used[i] = strconv.Itoa(idx + 1)
	}
	msg := telnet.Colorf(telnet.Green, "Round %d: %d points in %s", out.Round, out.Points, out.Category)
	if len(used) > 0 {
		msg += telnet.Colorize(telnet.Dim, " (dice "+strings.Join(used, ", ")+")")
	}
	return msg
}

// RenderHelp lists commands grouped by category.
func RenderHelp(registry *command.Registry) string {
	labels := map[string]string{
		command.CategoryPlay:   "Play",
		command.CategoryInfo:   "Info",
		command.CategoryMatch:  "Match",
		command.CategorySystem: "System",
	}

	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "Available commands:"))
	byCategory := registry.CommandsByCategory()
	for _, cat := range command.CategoryOrder() {
		cmds := byCategory[cat]
		if len(cmds) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(telnet.Colorf(telnet.Yellow, "  %s:", labels[cat]))
		for _, cmd := range cmds {
			usage := cmd.Name
			if cmd.Usage != "" {
				usage += " " + cmd.Usage
			}
			line := telnet.PadRight(telnet.Colorize(telnet.Green, "    "+usage), 26) + cmd.Help
			if len(cmd.Aliases) > 0 {
				line += telnet.Colorize(telnet.Dim, " ("+strings.Join(cmd.Aliases, ", ")+")")
			}
			b.WriteString("\n")
			b.WriteString(line)
		}
	}
	return b.String()
}
