package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/arena"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/command"
	"github.com/cory-johannsen/arena/internal/game/entity"
	"github.com/cory-johannsen/arena/internal/game/stat"
)

// errQuit is returned by readAction when the player abandons the duel.
var errQuit = errors.New("player quit")

// App is the assembled arena binary.
type App struct {
	Service  *arena.Service
	Commands *command.Registry
	Logger   *zap.Logger
}

// printer serialises writes from the encounter worker and the input loop.
type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

// Run plays one duel against enemyID, reading commands from in and writing
// the transcript to out.
//
// Postcondition: ok is false when the duel was abandoned (quit, end of input,
// or ctx cancellation) and no result was produced.
func (a *App) Run(ctx context.Context, enemyID string, in io.Reader, out io.Writer) (r combat.Result, ok bool, err error) {
	player, err := a.Service.NewPlayer()
	if err != nil {
		return 0, false, err
	}

	p := &printer{out: out}
	prompts := make(chan int, 1)
	duel, err := a.Service.Start(ctx, player, enemyID, combat.Hooks{
		Prompt: func(turn int) { prompts <- turn },
		Result: func(combat.Result) {},
		Log: func(ev combat.Event) {
			p.printf("  %s\n", ev.Narrative)
		},
	})
	if err != nil {
		return 0, false, err
	}
	p.printf("%s faces %s!\n", player.Name(), duel.Enemy.Name())

	lines := scanLines(in)
	for {
		select {
		case <-duel.Done():
			return a.finish(p, duel)
		case <-ctx.Done():
			duel.Abandon()
			<-duel.Done()
			return 0, false, nil
		case turn := <-prompts:
			// The worker is blocked on the mailbox until Submit, so reading
			// entity state here does not race with resolution.
			p.printf("\n-- turn %d --\n%s\n%s\n", turn, describe(player), describe(duel.Enemy))
			act, err := a.readAction(ctx, p, lines, player, duel.Enemy)
			if err != nil {
				duel.Abandon()
				<-duel.Done()
				if errors.Is(err, errQuit) || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
					return 0, false, nil
				}
				return 0, false, err
			}
			if !duel.Submit(act) {
				a.Logger.Warn("submission rejected", zap.String("encounter_id", duel.ID))
			}
		}
	}
}

func (a *App) finish(p *printer, duel *arena.Duel) (combat.Result, bool, error) {
	r, ok := duel.Outcome()
	if !ok {
		p.printf("The duel ends without a winner.\n")
		return 0, false, nil
	}
	p.printf("\nResult: %s\n", r)
	for _, name := range duel.Loot() {
		p.printf("You found: %s\n", name)
	}
	return r, true, nil
}

// readAction prompts until the player enters a command that takes a turn.
func (a *App) readAction(ctx context.Context, p *printer, lines <-chan string, player, enemy *entity.Entity) (combat.Action, error) {
	for {
		p.printf("> ")
		var line string
		select {
		case <-ctx.Done():
			return combat.Action{}, ctx.Err()
		case l, more := <-lines:
			if !more {
				return combat.Action{}, io.EOF
			}
			line = l
		}
		res := command.Parse(line)
		if res.Command == "" {
			continue
		}
		cmd, found := a.Commands.Resolve(res.Command)
		if found {
			switch cmd.Handler {
			case command.HandlerQuit:
				return combat.Action{}, errQuit
			case command.HandlerHelp:
				a.help(p)
				continue
			case command.HandlerStatus:
				p.printf("%s\n%s\n", detail(player), detail(enemy))
				continue
			}
		}
		act, err := a.Commands.ToAction(res, player, enemy)
		if err != nil {
			p.printf("%v\n", err)
			continue
		}
		return act, nil
	}
}

func (a *App) help(p *printer) {
	for _, c := range a.Commands.Commands() {
		p.printf("  %-12s %s\n", c.Usage, c.Help)
	}
}

// scanLines feeds in to a channel so the input loop can also watch ctx.
func scanLines(in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}

func describe(e *entity.Entity) string {
	return fmt.Sprintf("%-12s HP %d/%d", e.Name(), e.Stat(stat.HP), e.Stat(stat.MaxHP))
}

func detail(e *entity.Entity) string {
	var b strings.Builder
	b.WriteString(describe(e))
	fmt.Fprintf(&b, "  STR %d INT %d DEF %d SPD %d",
		e.Stat(stat.Strength), e.Stat(stat.Intelligence), e.EffectiveDefense(), e.Stat(stat.Speed))
	for i, inst := range e.Spells() {
		if inst == nil {
			continue
		}
		state := "ready"
		if !inst.Ready() {
			state = fmt.Sprintf("%d turns", inst.Remaining())
		}
		fmt.Fprintf(&b, "\n  spell %d: %s (%s)", i+1, inst.Name(), state)
	}
	for i, c := range e.Consumables() {
		if c != nil {
			fmt.Fprintf(&b, "\n  item %d: %s", i+1, c.Name())
		}
	}
	for _, boost := range e.Boosts() {
		fmt.Fprintf(&b, "\n  %s %+d (%d turns)", boost.Stat(), boost.Magnitude(), boost.Remaining())
	}
	return b.String()
}
