package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/adversary"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/narrative"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// defendBonus is the AC bonus granted by the defend action until the
// defender's next turn.
const defendBonus = 2

// PlayerLoadout carries the attack numbers the player brings into a fight.
type PlayerLoadout struct {
	AttackBonus int
	Damage      dice.Expression
}

// RunnerConfig wires a Runner. Narrator and Scripts are optional.
type RunnerConfig struct {
	Combat      *combat.Combat
	PlayerID    string
	Loadout     PlayerLoadout
	Adversaries []adversary.Instance
	Source      dice.Source
	Narrator    narrative.Narrator
	Scripts     *scripting.Manager
	Input       io.Reader
	Output      io.Writer
	Logger      *zap.Logger
}

// Runner drives one encounter to completion: player turns read commands from
// Input, adversary turns consult the policy, and every resolved attack is
// rendered (and narrated, when a narrator is configured) to Output.
type Runner struct {
	cbt         *combat.Combat
	playerID    string
	loadout     PlayerLoadout
	adversaries map[string]adversary.Instance // combatant ID → instance
	policy      *adversary.Policy
	src         dice.Source
	narrator    narrative.Narrator
	scripts     *scripting.Manager
	registry    *Registry
	scanner     *bufio.Scanner
	out         io.Writer
	logger      *zap.Logger

	// acBonus tracks temporary defend bonuses by combatant ID, removed at the
	// start of the defender's next turn.
	acBonus map[string]int
}

// NewRunner creates a Runner for one encounter.
//
// Precondition: cfg.Combat, cfg.Source, cfg.Input, cfg.Output, and cfg.Logger
// must be non-nil; cfg.PlayerID must name a combatant in cfg.Combat.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if _, err := cfg.Combat.GetCombatant(cfg.PlayerID); err != nil {
		return nil, fmt.Errorf("cli: player not in roster: %w", err)
	}

	instances := make(map[string]adversary.Instance, len(cfg.Adversaries))
	for _, inst := range cfg.Adversaries {
		instances[inst.Combatant.ID] = inst
	}

	return &Runner{
		cbt:         cfg.Combat,
		playerID:    cfg.PlayerID,
		loadout:     cfg.Loadout,
		adversaries: instances,
		policy:      adversary.NewPolicy(cfg.Source),
		src:         cfg.Source,
		narrator:    cfg.Narrator,
		scripts:     cfg.Scripts,
		registry:    DefaultRegistry(),
		scanner:     bufio.NewScanner(cfg.Input),
		out:         cfg.Output,
		logger:      cfg.Logger,
		acBonus:     make(map[string]int),
	}, nil
}

// Run plays the encounter until one side wins, the player concedes, or input
// is exhausted.
//
// Postcondition: Returns the final end check; the combat is inactive.
func (r *Runner) Run(ctx context.Context) (combat.EndCheck, error) {
	r.callHook(scripting.HookCombatStart, lua.LString(r.cbt.ID))
	r.printf("%s", RenderStatus(r.cbt.Snapshot(), r.cbt.CurrentCombatant().ID))

	// The initiative leader acts first; NextTurn advances from there.
	first := true
	for {
		if check := r.cbt.CheckCombatEnd(); check.Ended {
			return r.finish(check), nil
		}

		actor, newRound, err := r.advance(first)
		if err != nil {
			return combat.EndCheck{}, err
		}
		first = false
		if actor == nil {
			return r.finish(r.cbt.CheckCombatEnd()), nil
		}
		if newRound {
			r.printf("%s\n", Colorf(BrightYellow, "--- round %d ---", r.cbt.Round))
			r.callHook(scripting.HookRoundStart, lua.LNumber(r.cbt.Round))
		}

		// A defend stance lapses when the defender's turn comes around again.
		r.dropDefend(actor)

		if actor.ID == r.playerID {
			quit, err := r.playerTurn(ctx, actor)
			if err != nil {
				return combat.EndCheck{}, err
			}
			if quit {
				return r.finish(r.cbt.CheckCombatEnd()), nil
			}
		} else {
			r.adversaryTurn(ctx, actor)
		}
	}
}

// advance yields the next actor. On the very first call the initiative leader
// acts without consuming a NextTurn.
func (r *Runner) advance(first bool) (*combat.Combatant, bool, error) {
	if first {
		cur := r.cbt.CurrentCombatant()
		if !cur.Defeated {
			return cur, false, nil
		}
	}
	adv, err := r.cbt.NextTurn()
	if err != nil {
		return nil, false, fmt.Errorf("cli: advancing turn: %w", err)
	}
	return adv.Current, adv.NewRound, nil
}

// playerTurn reads commands until the player takes a turn-consuming action.
// Returns true when the player concedes.
func (r *Runner) playerTurn(ctx context.Context, actor *combat.Combatant) (bool, error) {
	for {
		r.printf("%s", Colorf(BrightCyan, "[%s] > ", actor.Name))
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return false, fmt.Errorf("cli: reading input: %w", err)
			}
			// EOF concedes.
			r.concede(actor)
			return true, nil
		}

		parsed := Parse(r.scanner.Text())
		if parsed.Command == "" {
			continue
		}
		cmd, ok := r.registry.Resolve(parsed.Command)
		if !ok {
			r.printf("%s\n", Colorf(Red, "unknown command %q (try help)", parsed.Command))
			continue
		}

		switch cmd.Handler {
		case HandlerAttack:
			if done := r.playerAttack(ctx, actor, parsed.RawArgs); done {
				return false, nil
			}
		case HandlerDefend:
			r.applyDefend(actor)
			r.printf("%s\n", Colorf(Green, "%s takes a defensive stance (+%d AC)", actor.Name, defendBonus))
			return false, nil
		case HandlerPass:
			r.printf("%s\n", Colorize(Dim, actor.Name+" passes"))
			return false, nil
		case HandlerStatus:
			r.printf("%s", RenderStatus(r.cbt.Snapshot(), actor.ID))
		case HandlerLog:
			r.printf("%s", RenderLog(r.cbt.Log()))
		case HandlerHelp:
			r.printf("%s", RenderHelp(r.registry))
		case HandlerQuit:
			r.concede(actor)
			return true, nil
		}
	}
}

// playerAttack resolves one player attack. Returns true when the attack
// consumed the turn (a missing or ambiguous target does not).
func (r *Runner) playerAttack(ctx context.Context, actor *combat.Combatant, targetName string) bool {
	target, err := r.findTarget(targetName)
	if err != nil {
		r.printf("%s\n", Colorf(Red, "%v", err))
		return false
	}

	outcome, err := r.cbt.ProcessAttack(actor.ID, target.ID, r.loadout.AttackBonus, r.loadout.Damage, r.src)
	if err != nil {
		r.printf("%s\n", Colorf(Red, "%v", err))
		return false
	}

	r.renderOutcome(ctx, actor, target, outcome)
	return true
}

// adversaryTurn consults the policy and executes the chosen action.
func (r *Runner) adversaryTurn(ctx context.Context, actor *combat.Combatant) {
	decision := r.policy.DecideAction(actor, r.cbt.Combatants)
	r.logger.Debug("adversary decision",
		zap.String("actor", actor.Name),
		zap.String("action", decision.Action.String()),
		zap.String("reasoning", decision.Reasoning),
	)

	switch decision.Action {
	case adversary.ActionAttack:
		target, err := r.cbt.GetCombatant(decision.TargetID)
		if err != nil {
			r.logger.Warn("policy chose unknown target", zap.Error(err))
			return
		}
		profile := r.profileFor(actor)
		outcome, err := r.cbt.ProcessAttack(actor.ID, target.ID, profile.AttackBonus, profile.Damage, r.src)
		if err != nil {
			r.logger.Warn("adversary attack failed", zap.Error(err))
			return
		}
		r.renderOutcome(ctx, actor, target, outcome)
	case adversary.ActionDefend:
		r.applyDefend(actor)
		r.printf("%s\n", Colorf(Yellow, "%s falls back into a defensive stance", actor.Name))
	case adversary.ActionPass:
		r.printf("%s\n", Colorize(Dim, actor.Name+" hesitates"))
	}
}

// renderOutcome prints the mechanical log lines, narrates the exchange, and
// fires the defeat hook when the target drops.
func (r *Runner) renderOutcome(ctx context.Context, actor, target *combat.Combatant, outcome combat.AttackOutcome) {
	r.printf("%s", RenderAttack(outcome))

	if r.narrator != nil {
		prose, err := r.narrator.Narrate(ctx, narrative.Event{
			Round:    r.cbt.Round,
			Actor:    actor.Name,
			Target:   target.Name,
			Hit:      outcome.Success,
			Critical: outcome.Critical,
			Damage:   outcome.Damage,
			Defeated: outcome.TargetDefeated,
		})
		if err != nil {
			r.logger.Warn("narration failed", zap.Error(err))
		} else {
			r.printf("%s\n", Colorize(Magenta, prose))
		}
	}

	if outcome.TargetDefeated {
		r.callHook(scripting.HookCombatantDefeated, lua.LString(target.ID), lua.LString(target.Name))
	}
}

// findTarget resolves a case-insensitive name prefix to a live adversary.
func (r *Runner) findTarget(name string) (*combat.Combatant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("attack requires a target (attack <name>)")
	}

	var matches []*combat.Combatant
	for _, cbt := range r.cbt.ActiveCombatants() {
		if cbt.ID == r.playerID {
			continue
		}
		if strings.HasPrefix(strings.ToLower(cbt.Name), name) {
			matches = append(matches, cbt)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no live target matches %q", name)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, fmt.Errorf("%q is ambiguous: %s", name, strings.Join(names, ", "))
	}
}

// profileFor returns the attack profile for an adversary combatant, falling
// back to type defaults when the instance is unknown.
func (r *Runner) profileFor(actor *combat.Combatant) adversary.Profile {
	if inst, ok := r.adversaries[actor.ID]; ok {
		return inst.Profile()
	}
	return adversary.Stats(adversary.TypeUnknown)
}

func (r *Runner) applyDefend(actor *combat.Combatant) {
	if r.acBonus[actor.ID] == 0 {
		actor.AC += defendBonus
		r.acBonus[actor.ID] = defendBonus
	}
}

func (r *Runner) dropDefend(actor *combat.Combatant) {
	if bonus := r.acBonus[actor.ID]; bonus > 0 {
		actor.AC -= bonus
		delete(r.acBonus, actor.ID)
	}
}

// concede drops the player to 0 HP so the encounter resolves as a defeat.
func (r *Runner) concede(actor *combat.Combatant) {
	actor.CurrentHP = 0
	actor.Defeated = true
	r.printf("%s\n", Colorf(Yellow, "%s concedes the fight", actor.Name))
}

// finish renders the verdict and fires the end-of-combat hook.
func (r *Runner) finish(check combat.EndCheck) combat.EndCheck {
	r.cbt.EndCombat()
	r.printf("%s", RenderVerdict(check))
	r.callHook(scripting.HookCombatEnd, lua.LString(check.Winners.String()))
	return check
}

func (r *Runner) callHook(hook string, args ...lua.LValue) {
	if r.scripts == nil {
		return
	}
	if _, err := r.scripts.CallHook(r.cbt.ID, hook, args...); err != nil {
		r.logger.Warn("script hook failed", zap.String("hook", hook), zap.Error(err))
	}
}

func (r *Runner) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}
