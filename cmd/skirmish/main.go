// Package main provides the interactive skirmish client: profile login,
// character selection, and a turn-based encounter on the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/cli"
	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/adversary"
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/session"
	"github.com/cory-johannsen/skirmish/internal/narrative"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Int64("seed", 0, "dice seed for reproducible encounters (0 = cryptographic)")
	adversarySpec := flag.String("adversaries", "goblin,goblin", "comma-separated adversary template IDs")
	offline := flag.Bool("offline", false, "run without PostgreSQL; nothing is persisted")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	var src dice.Source
	if *seed != 0 {
		src = dice.NewSeededSource(*seed)
		logger.Info("using seeded dice source", zap.Int64("seed", *seed))
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewRoller(src, logger)

	classes, err := character.LoadClasses(cfg.Game.ClassesDir)
	if err != nil {
		logger.Fatal("loading classes", zap.Error(err))
	}
	templates, err := adversary.LoadTemplates(cfg.Game.AdversariesDir)
	if err != nil {
		logger.Fatal("loading adversary templates", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("classes", len(classes)),
		zap.Int("adversary_templates", len(templates)),
	)

	scripts := scripting.NewManager(roller, logger)
	if err := scripts.LoadGlobal(cfg.Game.ScriptsDir, cfg.Game.ScriptInstructionLimit); err != nil {
		logger.Fatal("loading global scripts", zap.Error(err))
	}

	narrator := buildNarrator(cfg.Narrative, logger)

	in := bufio.NewReader(os.Stdin)
	out := os.Stdout

	var (
		pool     *postgres.Pool
		charRepo *postgres.CharacterRepository
		encRepo  *postgres.EncounterRepository
		profile  postgres.Profile
	)
	if !*offline {
		pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		charRepo = postgres.NewCharacterRepository(pool.DB())
		encRepo = postgres.NewEncounterRepository(pool.DB())

		profile, err = login(ctx, in, out, postgres.NewProfileRepository(pool.DB()))
		if err != nil {
			logger.Fatal("login failed", zap.Error(err))
		}
	}

	pc, err := pickCharacter(ctx, in, out, charRepo, classes, profile.ID, src)
	if err != nil {
		logger.Fatal("selecting character", zap.Error(err))
	}

	sessions := session.NewManager()
	sess, err := sessions.Attach(profile.ID, profile.Username, pc.ID, pc.Name)
	if err != nil {
		logger.Fatal("attaching session", zap.Error(err))
	}
	defer sessions.Detach(sess.SID)

	instances, err := spawnAdversaries(*adversarySpec, templates, src)
	if err != nil {
		logger.Fatal("spawning adversaries", zap.Error(err))
	}

	engine := combat.NewEngine(logger)
	combatants := []*combat.Combatant{pc.ToCombatant(src)}
	playerID := combatants[0].ID
	for _, inst := range instances {
		combatants = append(combatants, inst.Combatant)
	}
	cbt, err := engine.StartCombat(sess.SID, combatants)
	if err != nil {
		logger.Fatal("starting combat", zap.Error(err))
	}
	if err := sessions.BeginEncounter(sess.SID, cbt.ID); err != nil {
		logger.Fatal("beginning encounter", zap.Error(err))
	}

	wireScriptCallbacks(scripts, cbt, sess, out)
	encScripts := filepath.Join(cfg.Game.ScriptsDir, "encounters")
	if _, statErr := os.Stat(encScripts); statErr == nil {
		if err := scripts.LoadEncounter(cbt.ID, encScripts, cfg.Game.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading encounter scripts", zap.Error(err))
		}
		defer scripts.Unload(cbt.ID)
	}

	runner, err := cli.NewRunner(cli.RunnerConfig{
		Combat:      cbt,
		PlayerID:    playerID,
		Loadout:     cli.PlayerLoadout{AttackBonus: pc.AttackBonus, Damage: dice.MustParse(pc.Damage)},
		Adversaries: instances,
		Source:      src,
		Narrator:    narrator,
		Scripts:     scripts,
		Input:       os.Stdin,
		Output:      out,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("creating encounter runner", zap.Error(err))
	}

	check, err := runner.Run(ctx)
	if err != nil {
		logger.Fatal("running encounter", zap.Error(err))
	}

	playerCombatant, _ := cbt.GetCombatant(playerID)
	if !*offline {
		persistOutcome(ctx, logger, charRepo, encRepo, cbt, pc, playerCombatant, profile.ID, check)
	}

	sessions.EndEncounter(sess.SID)
	if err := engine.EndCombat(sess.SID); err != nil {
		logger.Warn("ending combat", zap.Error(err))
	}
}

// buildNarrator assembles the narration chain: the Claude narrator with a
// template fallback when enabled, templates alone otherwise.
func buildNarrator(cfg config.NarrativeConfig, logger *zap.Logger) narrative.Narrator {
	static := narrative.NewStaticNarrator()
	if !cfg.Enabled {
		return static
	}
	primary := narrative.NewAnthropicNarrator(cfg.Model, cfg.MaxTokens, cfg.Timeout, logger)
	return narrative.NewFallbackNarrator(primary, static, logger)
}

// login authenticates an existing profile or registers a new one.
func login(ctx context.Context, in *bufio.Reader, out io.Writer, profiles *postgres.ProfileRepository) (postgres.Profile, error) {
	for {
		username, err := prompt(in, out, "username: ")
		if err != nil {
			return postgres.Profile{}, err
		}
		password, err := prompt(in, out, "password: ")
		if err != nil {
			return postgres.Profile{}, err
		}

		profile, err := profiles.Authenticate(ctx, username, password)
		switch {
		case err == nil:
			fmt.Fprintf(out, "welcome back, %s\n", profile.Username)
			return profile, nil
		case errors.Is(err, postgres.ErrProfileNotFound):
			answer, perr := prompt(in, out, fmt.Sprintf("no profile %q; create it? [y/N] ", username))
			if perr != nil {
				return postgres.Profile{}, perr
			}
			if strings.EqualFold(answer, "y") {
				return profiles.Create(ctx, username, password)
			}
		case errors.Is(err, postgres.ErrInvalidCredentials):
			fmt.Fprintln(out, "invalid credentials, try again")
		default:
			return postgres.Profile{}, err
		}
	}
}

// pickCharacter lists the profile's characters and lets the player pick one
// or roll a new one. With a nil repository (offline mode) it always rolls a
// fresh, unpersisted character.
func pickCharacter(ctx context.Context, in *bufio.Reader, out io.Writer, repo *postgres.CharacterRepository, classes map[string]*character.Class, profileID int64, src dice.Source) (*character.Character, error) {
	if repo != nil {
		existing, err := repo.ListByProfile(ctx, profileID)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			fmt.Fprintln(out, "your characters:")
			for i, c := range existing {
				fmt.Fprintf(out, "  %d) %s (%s, level %d, %d/%d HP)\n", i+1, c.Name, c.Class, c.Level, c.CurrentHP, c.MaxHP)
			}
			answer, err := prompt(in, out, "pick a number, or 'new': ")
			if err != nil {
				return nil, err
			}
			if !strings.EqualFold(answer, "new") {
				var idx int
				if _, err := fmt.Sscanf(answer, "%d", &idx); err != nil || idx < 1 || idx > len(existing) {
					return nil, fmt.Errorf("invalid selection %q", answer)
				}
				pc := existing[idx-1]
				if pc.CurrentHP < 1 {
					// A character saved at 0 HP rests back to full before the
					// next encounter.
					pc.CurrentHP = pc.MaxHP
				}
				return pc, nil
			}
		}
	}

	name, err := prompt(in, out, "character name: ")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(classes))
	for id := range classes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fmt.Fprintf(out, "classes: %s\n", strings.Join(ids, ", "))
	classID, err := prompt(in, out, "class: ")
	if err != nil {
		return nil, err
	}
	class, ok := classes[strings.ToLower(classID)]
	if !ok {
		return nil, fmt.Errorf("unknown class %q", classID)
	}

	pc, err := character.Build(name, class, src)
	if err != nil {
		return nil, err
	}
	pc.ProfileID = profileID

	if repo != nil {
		pc, err = repo.Create(ctx, pc)
		if err != nil {
			return nil, err
		}
	}
	fmt.Fprintf(out, "rolled %s: STR %d DEX %d CON %d INT %d WIS %d CHA %d, %d HP, AC %d\n",
		pc.Name,
		pc.Abilities.Strength, pc.Abilities.Dexterity, pc.Abilities.Constitution,
		pc.Abilities.Intelligence, pc.Abilities.Wisdom, pc.Abilities.Charisma,
		pc.MaxHP, pc.AC,
	)
	return pc, nil
}

// spawnAdversaries materializes one instance per comma-separated template ID.
func spawnAdversaries(spec string, templates map[string]*adversary.Template, src dice.Source) ([]adversary.Instance, error) {
	var instances []adversary.Instance
	counts := make(map[string]int)
	for _, id := range strings.Split(spec, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		tmpl, ok := templates[id]
		if !ok {
			return nil, fmt.Errorf("unknown adversary template %q", id)
		}
		inst := tmpl.Spawn(src)
		counts[id]++
		if counts[id] > 1 {
			inst.Combatant.Name = fmt.Sprintf("%s %d", tmpl.Name, counts[id])
		}
		instances = append(instances, inst)
	}
	if len(instances) == 0 {
		return nil, fmt.Errorf("adversary spec %q names no templates", spec)
	}
	return instances, nil
}

// wireScriptCallbacks binds the engine.combat Lua module to the live combat
// and routes announcements to both the terminal and the session feed.
func wireScriptCallbacks(scripts *scripting.Manager, cbt *combat.Combat, sess *session.Session, out io.Writer) {
	scripts.GetCombatant = func(uid string) *scripting.CombatantInfo {
		cb, err := cbt.GetCombatant(uid)
		if err != nil {
			return nil
		}
		return &scripting.CombatantInfo{
			UID:        cb.ID,
			Name:       cb.Name,
			HP:         cb.CurrentHP,
			MaxHP:      cb.MaxHP,
			AC:         cb.AC,
			Allegiance: cb.Allegiance.String(),
		}
	}
	scripts.ApplyDamage = func(uid string, hp int) error {
		_, err := cbt.ProcessEffectDamage(uid, hp)
		return err
	}
	scripts.ApplyHealing = func(uid string, hp int) error {
		_, err := cbt.ProcessHeal(uid, uid, hp)
		return err
	}
	scripts.Announce = func(msg string) {
		fmt.Fprintln(out, cli.Colorize(cli.Cyan, msg))
		if sess.Feed != nil {
			sess.Feed.Push(msg)
		}
	}
}

// persistOutcome saves the character's remaining HP and records the
// encounter summary. Persistence failures are logged, never fatal: the fight
// already happened.
func persistOutcome(ctx context.Context, logger *zap.Logger, charRepo *postgres.CharacterRepository, encRepo *postgres.EncounterRepository, cbt *combat.Combat, pc *character.Character, playerCombatant *combat.Combatant, profileID int64, check combat.EndCheck) {
	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if playerCombatant != nil {
		if err := charRepo.SaveState(saveCtx, pc.ID, playerCombatant.CurrentHP); err != nil {
			logger.Error("saving character state", zap.Error(err))
		}
	}

	rec := &postgres.EncounterRecord{
		ID:          cbt.ID,
		ProfileID:   profileID,
		CharacterID: pc.ID,
		Winner:      winnerLabel(check.Winners),
		Reason:      check.Reason,
		Rounds:      cbt.Round,
		Log:         cbt.Log(),
	}
	if _, err := encRepo.Record(saveCtx, rec); err != nil {
		logger.Error("recording encounter", zap.Error(err))
	}
}

// winnerLabel maps an allegiance to the encounter record's winner column.
func winnerLabel(a combat.Allegiance) string {
	switch a {
	case combat.AllegiancePlayer:
		return "players"
	case combat.AllegianceAdversary:
		return "adversaries"
	default:
		return "none"
	}
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
