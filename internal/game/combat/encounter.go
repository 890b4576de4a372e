package combat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

// State is the turn engine's position in the encounter lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateAwaiting   State = "awaiting_player_action"
	StateResolving  State = "resolving_turn"
	StateTerminated State = "terminated"
)

const (
	eventStart     = "start"
	eventSubmit    = "submit"
	eventResolve   = "resolve"
	eventTerminate = "terminate"
)

var errNoResultHook = errors.New("combat: Hooks.Result must not be nil")

// Hooks are the callbacks an encounter invokes from its worker goroutine.
// A hook must not block on the encounter it belongs to finishing.
type Hooks struct {
	// Prompt is called at the start of every turn, before waiting for the player's action.
	Prompt func(turn int)
	// Result is called exactly once when the encounter terminates normally. Required.
	Result func(Result)
	// Log receives every resolved action event. Optional.
	Log func(Event)
}

// Encounter drives one player-versus-enemy battle on a dedicated worker goroutine.
// The worker is the only goroutine that mutates either entity while the encounter runs.
type Encounter struct {
	id      string
	player  *entity.Entity
	enemy   *entity.Entity
	policy  EnemyPolicy
	roller  Roller
	rules   Rules
	logger  *zap.Logger
	mailbox *Mailbox
	machine *fsm.FSM

	started  atomic.Bool
	finished atomic.Bool
	turn     atomic.Int64
	done     chan struct{}
	once     sync.Once

	mu       sync.Mutex
	result   Result
	resulted bool
}

// NewEncounter prepares an encounter between player and enemy. Nothing runs until Start.
//
// Precondition: player, enemy, policy and roller must be non-nil.
// Postcondition: Returns an Encounter in StateIdle with a fresh unique ID.
func NewEncounter(player, enemy *entity.Entity, policy EnemyPolicy, roller Roller, rules Rules, logger *zap.Logger) *Encounter {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	logger = logger.With(zap.String("encounter_id", id))
	e := &Encounter{
		id:      id,
		player:  player,
		enemy:   enemy,
		policy:  policy,
		roller:  roller,
		rules:   rules,
		logger:  logger,
		mailbox: NewMailbox(),
		done:    make(chan struct{}),
	}
	e.machine = fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: eventStart, Src: []string{string(StateIdle)}, Dst: string(StateAwaiting)},
			{Name: eventSubmit, Src: []string{string(StateAwaiting)}, Dst: string(StateResolving)},
			{Name: eventResolve, Src: []string{string(StateResolving)}, Dst: string(StateAwaiting)},
			{Name: eventTerminate, Src: []string{string(StateIdle), string(StateAwaiting), string(StateResolving)}, Dst: string(StateTerminated)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, ev *fsm.Event) {
				logger.Debug("encounter state", zap.String("from", ev.Src), zap.String("to", ev.Dst))
			},
		},
	)
	return e
}

// ID returns the encounter's unique identifier.
func (e *Encounter) ID() string { return e.id }

// Player returns the player entity.
func (e *Encounter) Player() *entity.Entity { return e.player }

// Enemy returns the enemy entity.
func (e *Encounter) Enemy() *entity.Entity { return e.enemy }

// State returns the current lifecycle state.
func (e *Encounter) State() State { return State(e.machine.Current()) }

// Turn returns the number of the current (or last) turn, starting at 1. Zero before Start.
func (e *Encounter) Turn() int { return int(e.turn.Load()) }

// Done returns a channel that is closed when the worker goroutine exits for any reason.
func (e *Encounter) Done() <-chan struct{} { return e.done }

// Result returns the terminal result. ok is false while the encounter is running,
// after cancellation, and after a worker fault.
func (e *Encounter) Result() (r Result, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result, e.resulted
}

// Start launches the worker goroutine.
//
// Precondition: hooks.Result must be non-nil.
// Postcondition: Returns ErrEncounterStarted on any call after the first successful one.
// Cancelling ctx terminates the encounter without a result.
func (e *Encounter) Start(ctx context.Context, hooks Hooks) error {
	if hooks.Result == nil {
		return errNoResultHook
	}
	if !e.started.CompareAndSwap(false, true) {
		return ErrEncounterStarted
	}
	e.fire(eventStart)
	e.logger.Info("encounter started",
		zap.String("player", e.player.Name()),
		zap.String("enemy", e.enemy.Name()),
	)
	go e.run(ctx, hooks)
	return nil
}

// Submit hands the player's action to the worker without blocking.
//
// Postcondition: Returns false before Start, after termination, or while an action is already pending.
func (e *Encounter) Submit(a Action) bool {
	if !e.started.Load() || e.finished.Load() {
		return false
	}
	return e.mailbox.Submit(a)
}

func (e *Encounter) fire(event string) {
	if err := e.machine.Event(context.Background(), event); err != nil {
		e.logger.Error("encounter state transition failed", zap.String("event", event), zap.Error(err))
	}
}

func (e *Encounter) run(ctx context.Context, hooks Hooks) {
	defer close(e.done)
	defer func() {
		if r := recover(); r != nil {
			e.finished.Store(true)
			e.logger.Error("encounter worker fault",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			if e.machine.Current() != string(StateTerminated) {
				e.fire(eventTerminate)
			}
			e.player.ClearBoosts()
			e.enemy.ClearBoosts()
		}
	}()

	for turn := 1; ; turn++ {
		if turn > 1 {
			if e.mailbox.Drain() {
				e.logger.Debug("discarded stale action", zap.Int("turn", turn))
			}
		}
		e.turn.Store(int64(turn))
		if hooks.Prompt != nil {
			hooks.Prompt(turn)
		}

		act, err := e.mailbox.Receive(ctx)
		if err != nil {
			e.finished.Store(true)
			e.logger.Info("encounter cancelled", zap.Int("turn", turn), zap.Error(err))
			e.fire(eventTerminate)
			e.player.ClearBoosts()
			e.enemy.ClearBoosts()
			return
		}

		e.fire(eventSubmit)
		fled := e.resolveTurn(turn, act, hooks)
		if fled || !e.player.Alive() || !e.enemy.Alive() {
			e.finished.Store(true)
			e.fire(eventTerminate)
			e.conclude(turn, hooks)
			return
		}
		e.fire(eventResolve)
	}
}

// resolveTurn executes both actions in initiative order and reports whether someone fled.
func (e *Encounter) resolveTurn(turn int, playerAct Action, hooks Hooks) bool {
	if playerAct.Actor() != e.player {
		playerAct = Action{actor: e.player}
	}
	enemyAct := e.policy.Decide(e.enemy, e.player)
	if enemyAct.Actor() != e.enemy {
		e.logger.Warn("enemy policy returned an action for another actor", zap.Int("turn", turn))
		enemyAct = Action{actor: e.enemy}
	}

	first, second := playerAct, enemyAct
	if !PlayerFirst(e.player, e.enemy, e.roller) {
		first, second = enemyAct, playerAct
	}

	ev := e.execute(turn, first, hooks)
	if ev.Ended() {
		return ev.Fled
	}
	ev = e.execute(turn, second, hooks)
	if ev.Ended() {
		return ev.Fled
	}

	for _, ent := range []*entity.Entity{e.player, e.enemy} {
		for _, b := range ent.TickBoosts() {
			e.logger.Debug("boost expired",
				zap.Int("turn", turn),
				zap.String("actor", ent.Name()),
				zap.Stringer("stat", b.Stat()),
				zap.Int("magnitude", b.Magnitude()),
			)
		}
	}
	e.player.TickCooldowns()
	e.enemy.TickCooldowns()
	return false
}

func (e *Encounter) execute(turn int, a Action, hooks Hooks) Event {
	ev := Execute(a, e.roller, e.rules)
	ev.Turn = turn
	e.logger.Info("action resolved",
		zap.Int("turn", turn),
		zap.String("actor", ev.Actor),
		zap.String("target", ev.Target),
		zap.Stringer("action", ev.Kind),
		zap.Int("damage", ev.Damage),
		zap.Bool("noop", ev.NoOp),
	)
	if hooks.Log != nil {
		hooks.Log(ev)
	}
	return ev
}

func (e *Encounter) conclude(turn int, hooks Hooks) {
	var r Result
	switch {
	case !e.player.Alive():
		r = Defeat
	case !e.enemy.Alive():
		r = Victory
	default:
		r = Fled
	}
	e.player.ClearBoosts()
	e.enemy.ClearBoosts()

	e.mu.Lock()
	e.result, e.resulted = r, true
	e.mu.Unlock()

	e.logger.Info("encounter finished",
		zap.Int("turn", turn),
		zap.Stringer("result", r),
		zap.Int("player_hp", e.player.Stat(stat.HP)),
		zap.Int("enemy_hp", e.enemy.Stat(stat.HP)),
	)
	e.once.Do(func() { hooks.Result(r) })
}

// PlayerFirst reports whether the player acts before the enemy this turn.
// Higher current SPEED acts first; a tie is broken by a coin flip.
func PlayerFirst(player, enemy *entity.Entity, roller Roller) bool {
	ps, es := player.Stat(stat.Speed), enemy.Stat(stat.Speed)
	if ps != es {
		return ps > es
	}
	return roller.Coin("initiative")
}
