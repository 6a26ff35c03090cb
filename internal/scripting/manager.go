package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Hook names dispatched by the encounter loop.
const (
	HookCombatStart       = "on_combat_start"
	HookRoundStart        = "on_round_start"
	HookCombatantDefeated = "on_combatant_defeated"
	HookCombatEnd         = "on_combat_end"
)

// globalKey is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no encounter VM is found.
const globalKey = "__global__"

// CombatantInfo is a snapshot of a combatant's state passed to Lua callbacks.
type CombatantInfo struct {
	UID        string
	Name       string
	HP         int
	MaxHP      int
	AC         int
	Allegiance string
}

// Manager owns one sandboxed LState per encounter and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all LoadEncounter calls
// complete. Each encounter's LState is single-threaded; the read lock
// serializes concurrent calls to the same VM while allowing different
// encounters to run concurrently.
type Manager struct {
	mu      sync.RWMutex
	states  map[string]*lua.LState
	cancels map[string]func()
	roller  *dice.Roller
	logger  *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	GetCombatant func(uid string) *CombatantInfo
	ApplyDamage  func(uid string, hp int) error
	ApplyHealing func(uid string, hp int) error
	Announce     func(msg string)
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with an empty VM map.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	return &Manager{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]func()),
		roller:  roller,
		logger:  logger,
	}
}

// LoadEncounter creates a sandboxed VM for encounterID, registers all engine.*
// modules, then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: encounterID must be non-empty; scriptDir must be a readable directory.
// Postcondition: Encounter VM is registered; returns error on Lua load failure.
func (m *Manager) LoadEncounter(encounterID, scriptDir string, instLimit int) error {
	return m.loadInto(encounterID, scriptDir, instLimit)
}

// LoadGlobal creates the "__global__" VM for shared scripts accessible as a
// CallHook fallback from any encounter.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalKey, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		if oldCancel := m.cancels[key]; oldCancel != nil {
			oldCancel()
		}
		old.Close()
	}
	m.states[key] = L
	m.cancels[key] = cancel
	m.mu.Unlock()
	return nil
}

// Unload closes and removes the VM for encounterID, if any.
func (m *Manager) Unload(encounterID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if L, ok := m.states[encounterID]; ok {
		if cancel := m.cancels[encounterID]; cancel != nil {
			cancel()
		}
		L.Close()
		delete(m.states, encounterID)
		delete(m.cancels, encounterID)
	}
}

// CallHook calls the named Lua global function in encounterID's VM. If the
// encounter has no VM, the __global__ VM is tried as a fallback. Returns
// (LNil, nil) if the hook is not defined or no VM exists. Lua runtime errors
// are logged at Warn level and never propagated; a broken script must not
// abort an encounter.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(encounterID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	L, ok := m.states[encounterID]
	if !ok {
		L = m.states[globalKey]
	}
	m.mu.RUnlock()

	if L == nil {
		m.logger.Debug("scripting: no VM for encounter",
			zap.String("encounter", encounterID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("encounter", encounterID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}
