// Package status runs the per-tick lifecycle of attached status entities:
// duration expiry and periodic trigger firing, synchronized to the game
// clock.
package status

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dmeverett/arbiter/internal/game/clock"
	"github.com/dmeverett/arbiter/internal/game/effect"
	"github.com/dmeverett/arbiter/internal/game/entity"
)

// Manager drives status expiry and trigger firing. It runs once per
// game-clock advance, independent of any specific interaction.
type Manager struct {
	applier   *effect.Applier
	templates effect.TemplateSource
	logger    *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: applier and logger must be non-nil; templates may be nil
// when no status ever injects further statuses.
func NewManager(applier *effect.Applier, templates effect.TemplateSource, logger *zap.Logger) *Manager {
	return &Manager{applier: applier, templates: templates, logger: logger}
}

// Tick evaluates every status currently attached to host at the clock's
// current time and returns the narrative lines produced.
//
// A status with ANY expired duration component is removed in full
// (first-expiry-wins) and emits an expiry line; its triggers do not fire on
// the tick that removes it. Each trigger of a surviving status fires at most
// once per Tick call, no matter how many whole intervals elapsed since it
// last fired.
//
// Postcondition: every removed status is detached from host.Statuses; every
// fired trigger has LastFired == clk.Now().
func (m *Manager) Tick(host *entity.Entity, clk *clock.Clock) []string {
	if host == nil {
		return nil
	}
	now := clk.Now()
	var lines []string

	// Snapshot first: removal during iteration must not skip or double-visit
	// the remaining statuses.
	snapshot := make([]*entity.Entity, len(host.Statuses))
	copy(snapshot, host.Statuses)

	for _, st := range snapshot {
		if expired(st, now) {
			host.RemoveStatus(st.ID)
			lines = append(lines, fmt.Sprintf("%s is no longer %s.", host.Name, st.Name))
			m.logger.Debug("status expired",
				zap.String("host", host.Name),
				zap.String("status", st.Name),
				zap.Int64("now", now))
			continue
		}
		lines = append(lines, m.fireTriggers(st, host, clk, now)...)
	}
	return lines
}

// expired reports whether any duration component of the status has elapsed.
func expired(st *entity.Entity, now int64) bool {
	for _, d := range st.Durations {
		if d.Expired(now) {
			return true
		}
	}
	return false
}

func (m *Manager) fireTriggers(st, host *entity.Entity, clk *clock.Clock, now int64) []string {
	var lines []string
	for _, t := range st.Triggers {
		if !t.Unit.Valid() {
			m.logger.Warn("trigger has invalid frequency; skipping",
				zap.String("status", st.Name),
				zap.String("frequency", string(t.Unit)))
			continue
		}
		if !t.Due(now) {
			continue
		}
		for _, eff := range t.SelfEffects {
			line, err := m.applier.Apply(eff, effect.Context{
				User:      st,
				Target:    host,
				Source:    st,
				Clock:     clk,
				Templates: m.templates,
			})
			if err != nil {
				m.logger.Warn("trigger effect failed",
					zap.String("status", st.Name),
					zap.String("host", host.Name),
					zap.Error(err))
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
		}
		// One firing per Tick call; missed intervals are not backfilled.
		t.LastFired = now
	}
	return lines
}
