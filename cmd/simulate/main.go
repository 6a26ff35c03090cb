// Package main provides a headless encounter simulator for balancing
// adversary templates and class kits: it auto-plays fights with a seeded
// dice source and reports aggregate outcomes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/adversary"
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

// defendBonus mirrors the interactive client's defend stance.
const defendBonus = 2

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Int64("seed", 1, "dice seed; identical seeds replay identical fights")
	adversarySpec := flag.String("adversaries", "goblin,goblin", "comma-separated adversary template IDs")
	classID := flag.String("class", "fighter", "class kit for the simulated character")
	fights := flag.Int("fights", 1, "number of fights to simulate")
	maxRounds := flag.Int("max-rounds", 100, "round cap per fight before declaring a stalemate")
	verbose := flag.Bool("verbose", false, "print the full combat log of every fight")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	classes, err := character.LoadClasses(cfg.Game.ClassesDir)
	if err != nil {
		logger.Fatal("loading classes", zap.Error(err))
	}
	class, ok := classes[*classID]
	if !ok {
		logger.Fatal("unknown class", zap.String("class", *classID))
	}
	templates, err := adversary.LoadTemplates(cfg.Game.AdversariesDir)
	if err != nil {
		logger.Fatal("loading adversary templates", zap.Error(err))
	}

	src := dice.NewSeededSource(*seed)

	var playerWins, adversaryWins, draws int
	totalRounds := 0
	for i := 0; i < *fights; i++ {
		check, rounds, err := simulate(class, *adversarySpec, templates, src, *maxRounds)
		if err != nil {
			logger.Fatal("simulating fight", zap.Int("fight", i+1), zap.Error(err))
		}
		totalRounds += rounds
		switch check.Winners {
		case combat.AllegiancePlayer:
			playerWins++
		case combat.AllegianceAdversary:
			adversaryWins++
		default:
			draws++
		}
		if *verbose {
			fmt.Fprintf(os.Stdout, "fight %d: %s after %d rounds (%s)\n",
				i+1, check.Winners, rounds, check.Reason)
		}
	}

	fmt.Fprintf(os.Stdout,
		"%d fights (%s vs %s, seed %d): %d player wins, %d adversary wins, %d draws, %.1f avg rounds\n",
		*fights, *classID, *adversarySpec, *seed,
		playerWins, adversaryWins, draws,
		float64(totalRounds)/float64(*fights),
	)
}

// simulate plays one fight to completion. The player always attacks the
// live adversary with the lowest HP; adversaries follow the standard policy.
func simulate(class *character.Class, spec string, templates map[string]*adversary.Template, src dice.Source, maxRounds int) (combat.EndCheck, int, error) {
	pc, err := character.Build("Sim", class, src)
	if err != nil {
		return combat.EndCheck{}, 0, err
	}
	player := pc.ToCombatant(src)
	loadout := dice.MustParse(pc.Damage)

	combatants := []*combat.Combatant{player}
	instances := make(map[string]adversary.Instance)
	counts := make(map[string]int)
	for _, id := range strings.Split(spec, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		tmpl, ok := templates[id]
		if !ok {
			return combat.EndCheck{}, 0, fmt.Errorf("unknown adversary template %q", id)
		}
		inst := tmpl.Spawn(src)
		counts[id]++
		if counts[id] > 1 {
			inst.Combatant.Name = fmt.Sprintf("%s %d", tmpl.Name, counts[id])
		}
		instances[inst.Combatant.ID] = inst
		combatants = append(combatants, inst.Combatant)
	}
	if len(instances) == 0 {
		return combat.EndCheck{}, 0, fmt.Errorf("adversary spec %q names no templates", spec)
	}

	cbt, err := combat.NewCombat(uuid.NewString(), combatants)
	if err != nil {
		return combat.EndCheck{}, 0, err
	}
	policy := adversary.NewPolicy(src)
	acBonus := make(map[string]int)

	first := true
	for {
		if check := cbt.CheckCombatEnd(); check.Ended {
			return check, cbt.Round, nil
		}
		if cbt.Round > maxRounds {
			cbt.EndCombat()
			return combat.EndCheck{Ended: true, Winners: combat.AllegianceNone, Reason: "round cap reached"}, cbt.Round, nil
		}

		actor := cbt.CurrentCombatant()
		if !first || actor.Defeated {
			adv, err := cbt.NextTurn()
			if err != nil {
				return combat.EndCheck{}, cbt.Round, err
			}
			actor = adv.Current
		}
		first = false
		if actor == nil {
			check := cbt.CheckCombatEnd()
			return check, cbt.Round, nil
		}

		if bonus, ok := acBonus[actor.ID]; ok {
			actor.AC -= bonus
			delete(acBonus, actor.ID)
		}

		if actor.ID == player.ID {
			target := weakestAdversary(cbt)
			if target == nil {
				continue
			}
			if _, err := cbt.ProcessAttack(actor.ID, target.ID, pc.AttackBonus, loadout, src); err != nil {
				return combat.EndCheck{}, cbt.Round, err
			}
			continue
		}

		decision := policy.DecideAction(actor, cbt.Combatants)
		switch decision.Action {
		case adversary.ActionAttack:
			inst := instances[actor.ID]
			profile := inst.Profile()
			if _, err := cbt.ProcessAttack(actor.ID, decision.TargetID, profile.AttackBonus, profile.Damage, src); err != nil {
				return combat.EndCheck{}, cbt.Round, err
			}
		case adversary.ActionDefend:
			actor.AC += defendBonus
			acBonus[actor.ID] = defendBonus
		}
	}
}

// weakestAdversary returns the live adversary with the lowest current HP.
func weakestAdversary(cbt *combat.Combat) *combat.Combatant {
	var target *combat.Combatant
	for _, cb := range cbt.ActiveCombatants() {
		if cb.IsPlayer() {
			continue
		}
		if target == nil || cb.CurrentHP < target.CurrentHP {
			target = cb
		}
	}
	return target
}
