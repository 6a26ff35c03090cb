package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// hpBarWidth is the character width of rendered health bars.
const hpBarWidth = 10

// RenderStatus formats the initiative table with hit point bars. The row for
// currentID is marked with an arrow.
func RenderStatus(snap combat.StateSnapshot, currentID string) string {
	var b strings.Builder

	b.WriteString(Colorf(BrightYellow, "Round %d", snap.Round))
	b.WriteString("\n")

	for _, v := range snap.Combatants {
		marker := "  "
		if v.ID == currentID {
			marker = Colorize(BrightCyan, "> ")
		}

		name := v.Name
		if v.Defeated {
			name = Colorize(Dim, name+" (defeated)")
		} else if v.Allegiance == combat.AllegiancePlayer {
			name = Colorize(BrightGreen, name)
		} else {
			name = Colorize(BrightRed, name)
		}

		b.WriteString(fmt.Sprintf("%s%-32s init %2d  AC %2d  %s %d/%d\n",
			marker, name, v.Initiative, v.AC, healthBar(v.CurrentHP, v.MaxHP), v.CurrentHP, v.MaxHP))
	}

	return b.String()
}

// healthBar renders a fixed-width bar colored by remaining HP fraction.
func healthBar(current, max int) string {
	if max <= 0 {
		max = 1
	}
	filled := current * hpBarWidth / max
	if filled < 0 {
		filled = 0
	}
	if filled > hpBarWidth {
		filled = hpBarWidth
	}

	color := Green
	switch {
	case current*4 <= max:
		color = Red
	case current*2 <= max:
		color = Yellow
	}

	return Colorize(color, "["+strings.Repeat("=", filled)+strings.Repeat(" ", hpBarWidth-filled)+"]")
}

// RenderAttack formats an attack outcome's log entries for display.
func RenderAttack(outcome combat.AttackOutcome) string {
	var b strings.Builder
	for _, line := range outcome.LogEntries {
		color := White
		switch {
		case strings.Contains(line, "defeated"):
			color = BrightRed
		case outcome.Critical:
			color = BrightYellow
		case !outcome.Success:
			color = Dim
		}
		b.WriteString(Colorize(color, line))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderVerdict formats the end-of-combat banner.
func RenderVerdict(check combat.EndCheck) string {
	if !check.Ended {
		return ""
	}
	var headline string
	switch check.Winners {
	case combat.AllegiancePlayer:
		headline = Colorize(BrightGreen, "VICTORY")
	case combat.AllegianceAdversary:
		headline = Colorize(BrightRed, "DEFEAT")
	default:
		headline = Colorize(Yellow, "STALEMATE")
	}
	return fmt.Sprintf("\n=== %s ===\n%s\n", headline, check.Reason)
}

// RenderLog formats the combat log, one line per entry.
func RenderLog(lines []string) string {
	var b strings.Builder
	b.WriteString(Colorize(Cyan, "Combat log:"))
	b.WriteString("\n")
	for i, line := range lines {
		b.WriteString(fmt.Sprintf("  %3d  %s\n", i+1, line))
	}
	return b.String()
}

// RenderHelp formats the command reference grouped by category.
func RenderHelp(r *Registry) string {
	var b strings.Builder
	byCat := r.CommandsByCategory()

	cats := make([]string, 0, len(byCat))
	for cat := range byCat {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	for _, cat := range cats {
		cmds := byCat[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		b.WriteString(Colorize(BrightYellow, strings.ToUpper(cat)))
		b.WriteString("\n")
		for _, cmd := range cmds {
			name := cmd.Name
			if len(cmd.Aliases) > 0 {
				name += " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			b.WriteString(fmt.Sprintf("  %-24s %s\n", name, cmd.Help))
		}
	}
	return b.String()
}
