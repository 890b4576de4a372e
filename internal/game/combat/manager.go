package combat

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/entity"
)

type managed struct {
	enc    *Encounter
	cancel context.CancelFunc
}

// Manager tracks all running encounters, keyed by encounter ID.
// All methods are safe for concurrent use.
type Manager struct {
	roller Roller
	rules  Rules
	logger *zap.Logger

	mu         sync.RWMutex
	encounters map[string]*managed
	busy       map[*entity.Entity]string
}

// NewManager creates an empty Manager. Every encounter it starts shares roller and rules.
//
// Precondition: roller must be non-nil.
// Postcondition: Returns a non-nil Manager ready for use.
func NewManager(roller Roller, rules Rules, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		roller:     roller,
		rules:      rules,
		logger:     logger,
		encounters: make(map[string]*managed),
		busy:       make(map[*entity.Entity]string),
	}
}

// Start creates and launches an encounter between player and enemy.
//
// Precondition: neither entity may be fighting in another encounter owned by m.
// Postcondition: Returns the new encounter ID, or ErrEntityBusy / a hook error.
// The encounter removes itself from m when its worker exits.
func (m *Manager) Start(ctx context.Context, player, enemy *entity.Entity, policy EnemyPolicy, hooks Hooks) (string, error) {
	if player == enemy {
		return "", fmt.Errorf("player and enemy must be distinct entities")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ent := range []*entity.Entity{player, enemy} {
		if id, ok := m.busy[ent]; ok {
			return "", fmt.Errorf("%w: %s in %s", ErrEntityBusy, ent.Name(), id)
		}
	}

	enc := NewEncounter(player, enemy, policy, m.roller, m.rules, m.logger)
	encCtx, cancel := context.WithCancel(ctx)
	if err := enc.Start(encCtx, hooks); err != nil {
		cancel()
		return "", err
	}
	m.encounters[enc.ID()] = &managed{enc: enc, cancel: cancel}
	m.busy[player] = enc.ID()
	m.busy[enemy] = enc.ID()

	go func() {
		<-enc.Done()
		m.remove(enc.ID())
	}()
	return enc.ID(), nil
}

// Submit forwards a player action to the encounter id.
//
// Postcondition: Returns ErrEncounterNotFound if id is unknown or finished;
// otherwise reports whether the encounter accepted the action.
func (m *Manager) Submit(id string, a Action) (bool, error) {
	m.mu.RLock()
	me, ok := m.encounters[id]
	m.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrEncounterNotFound, id)
	}
	return me.enc.Submit(a), nil
}

// Get returns the running encounter for id.
func (m *Manager) Get(id string) (*Encounter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	me, ok := m.encounters[id]
	if !ok {
		return nil, false
	}
	return me.enc, true
}

// End cancels the encounter id. It does not wait for the worker to exit;
// callers that need to should wait on the encounter's Done channel.
//
// Postcondition: Returns ErrEncounterNotFound if id is unknown or already finished.
func (m *Manager) End(id string) error {
	m.mu.RLock()
	me, ok := m.encounters[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrEncounterNotFound, id)
	}
	me.cancel()
	return nil
}

// Count returns the number of running encounters.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.encounters)
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	me, ok := m.encounters[id]
	if !ok {
		return
	}
	me.cancel()
	delete(m.encounters, id)
	delete(m.busy, me.enc.Player())
	delete(m.busy, me.enc.Enemy())
	m.logger.Debug("encounter removed", zap.String("encounter_id", id))
}
