package combat

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine manages the active Combat encounters, keyed by session ID.
//
// The Engine's own methods are safe for concurrent use; the Combats it hands
// out are not. Each Combat assumes a single driving caller: a server running
// several sessions concurrently must confine each session's Combat to one
// goroutine or serialize its calls externally.
type Engine struct {
	mu      sync.RWMutex
	combats map[string]*Combat
	logger  *zap.Logger
}

// NewEngine creates an empty combat Engine.
//
// Precondition: logger must be non-nil.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		combats: make(map[string]*Combat),
		logger:  logger,
	}
}

// StartCombat begins a new encounter for sessionID with the given roster.
//
// Precondition: sessionID must be non-empty.
// Postcondition: Returns the new Active combat, ErrCombatActive when the
// session already has one, or ErrNoCombatants for an empty roster.
func (e *Engine) StartCombat(sessionID string, combatants []*Combatant) (*Combat, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.combats[sessionID]; exists {
		return nil, ErrCombatActive
	}

	cbt, err := NewCombat(uuid.NewString(), combatants)
	if err != nil {
		return nil, err
	}
	e.combats[sessionID] = cbt

	e.logger.Info("combat started",
		zap.String("session_id", sessionID),
		zap.String("combat_id", cbt.ID),
		zap.Int("combatants", len(cbt.Combatants)),
	)
	return cbt, nil
}

// GetCombat returns the active combat for sessionID.
//
// Postcondition: Returns (combat, true) if found, or (nil, false) otherwise.
func (e *Engine) GetCombat(sessionID string) (*Combat, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cbt, ok := e.combats[sessionID]
	return cbt, ok
}

// EndCombat deactivates and removes the encounter for sessionID.
//
// Postcondition: Returns ErrCombatNotFound when the session has no encounter.
func (e *Engine) EndCombat(sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cbt, ok := e.combats[sessionID]
	if !ok {
		return ErrCombatNotFound
	}
	cbt.EndCombat()
	delete(e.combats, sessionID)

	e.logger.Info("combat ended",
		zap.String("session_id", sessionID),
		zap.String("combat_id", cbt.ID),
	)
	return nil
}
