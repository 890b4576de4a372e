package arena

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/ai"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/npc"
)

// Scripts is the subset of *scripting.Manager the service needs.
type Scripts interface {
	ai.ScriptCaller
	Has(name string) bool
}

// Service starts duels between the player and enemies built from templates.
//
// Precondition: All fields must be non-nil after construction, except scripts,
// which may be nil when scripted enemies are disabled.
type Service struct {
	content *Content
	scripts Scripts
	table   *ai.Table
	params  ai.Params
	manager *combat.Manager
	loot    npc.Chancer
	logger  *zap.Logger
}

// NewService creates a Service.
//
// Precondition: content, table, manager and loot must be non-nil.
// Postcondition: Returns a non-nil Service.
func NewService(
	content *Content,
	scripts Scripts,
	table *ai.Table,
	params ai.Params,
	manager *combat.Manager,
	loot npc.Chancer,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		content: content,
		scripts: scripts,
		table:   table,
		params:  params,
		manager: manager,
		loot:    loot,
		logger:  logger,
	}
}

// Enemies returns the IDs of every enemy template, sorted.
func (s *Service) Enemies() []string { return s.content.Enemies.IDs() }

// NewPlayer restores a fresh player entity from the content snapshot.
func (s *Service) NewPlayer() (*entity.Entity, error) {
	return entity.Restore(s.content.Player, s.content.Spells, s.content.Items)
}

// PolicyFor resolves a template's behaviour: its Lua script when one is named,
// otherwise its built-in archetype.
//
// Postcondition: Returns an error if the script is not loaded or the archetype
// is unknown.
func (s *Service) PolicyFor(t *npc.Template) (combat.EnemyPolicy, error) {
	if t.Script != "" {
		if s.scripts == nil || !s.scripts.Has(t.Script) {
			return nil, fmt.Errorf("enemy %q: script %q is not loaded", t.ID, t.Script)
		}
		return ai.NewScriptedPolicy(s.scripts, t.Script, s.logger.With(zap.String("enemy", t.ID))), nil
	}
	p, err := s.table.Policy(ai.Archetype(t.Archetype), s.params)
	if err != nil {
		return nil, fmt.Errorf("enemy %q: %w", t.ID, err)
	}
	return p, nil
}

// Validate resolves the behaviour of every enemy template once, so a missing
// script or unknown archetype fails at startup rather than mid-duel.
func (s *Service) Validate() error {
	for _, id := range s.content.Enemies.IDs() {
		tmpl, err := s.content.Enemies.Get(id)
		if err != nil {
			return err
		}
		if _, err := s.PolicyFor(tmpl); err != nil {
			return err
		}
	}
	return nil
}

// Duel is one running encounter started through the Service.
type Duel struct {
	ID       string
	Player   *entity.Entity
	Enemy    *entity.Entity
	Template *npc.Template

	svc  *Service
	done chan struct{}

	mu     sync.Mutex
	result combat.Result
	ok     bool
	loot   []string
}

// Start spawns enemyID and launches an encounter against player.
// hooks.Result is optional here. On Victory the enemy's loot is rolled and
// equipped into the player's empty consumable slots before hooks.Result fires.
// Hooks run on the encounter worker and may fire before Start returns, so they
// must not call methods on the returned Duel.
//
// Precondition: player must not be fighting another duel.
// Postcondition: Returns a running Duel, or an error if the template, policy
// or encounter could not be set up.
func (s *Service) Start(ctx context.Context, player *entity.Entity, enemyID string, hooks combat.Hooks) (*Duel, error) {
	tmpl, err := s.content.Enemies.Get(enemyID)
	if err != nil {
		return nil, err
	}
	enemy, err := tmpl.Spawn(s.content.Spells, s.content.Items)
	if err != nil {
		return nil, err
	}
	policy, err := s.PolicyFor(tmpl)
	if err != nil {
		return nil, err
	}

	d := &Duel{Player: player, Enemy: enemy, Template: tmpl, svc: s, done: make(chan struct{})}
	userResult := hooks.Result
	hooks.Result = func(r combat.Result) {
		loot := s.award(d, r)
		d.mu.Lock()
		d.result, d.ok, d.loot = r, true, loot
		d.mu.Unlock()
		if userResult != nil {
			userResult(r)
		}
	}

	id, err := s.manager.Start(ctx, player, enemy, policy, hooks)
	if err != nil {
		return nil, err
	}
	d.ID = id
	enc, ok := s.manager.Get(id)
	if !ok {
		// Worker already finished and removed itself.
		close(d.done)
	} else {
		go func() {
			<-enc.Done()
			close(d.done)
		}()
	}
	s.logger.Info("duel started",
		zap.String("encounter_id", id),
		zap.String("enemy", tmpl.ID),
		zap.String("player", player.Name()),
	)
	return d, nil
}

// award rolls d's loot on Victory. Runs on the encounter worker.
func (s *Service) award(d *Duel, r combat.Result) []string {
	if r != combat.Victory || d.Template.Loot == nil {
		return nil
	}
	drops := d.Template.Loot.Roll(s.loot)
	got, err := npc.Award(d.Player, drops, s.content.Items)
	if err != nil {
		s.logger.Warn("awarding loot", zap.String("enemy", d.Template.ID), zap.Error(err))
	}
	if len(got) > 0 {
		s.logger.Info("loot awarded", zap.String("enemy", d.Template.ID), zap.Strings("items", got))
	}
	return got
}

// Submit hands the player's action for the current turn to the encounter.
//
// Postcondition: Returns false if a submission is already pending or the duel
// is over.
func (d *Duel) Submit(a combat.Action) bool {
	ok, err := d.svc.manager.Submit(d.ID, a)
	return err == nil && ok
}

// Abandon cancels the duel. No result is reported.
func (d *Duel) Abandon() {
	_ = d.svc.manager.End(d.ID)
}

// Done is closed once the encounter worker has exited.
func (d *Duel) Done() <-chan struct{} { return d.done }

// Wait blocks until the duel finishes or ctx is cancelled.
//
// Postcondition: ok is false if the duel ended without a result or ctx expired first.
func (d *Duel) Wait(ctx context.Context) (r combat.Result, ok bool) {
	select {
	case <-d.done:
	case <-ctx.Done():
		return 0, false
	}
	return d.Outcome()
}

// Outcome returns the result, if one has been reported.
func (d *Duel) Outcome() (combat.Result, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.result, d.ok
}

// Loot returns the names of items awarded on Victory.
func (d *Duel) Loot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.loot...)
}
