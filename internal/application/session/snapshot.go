package session

import (
	"github.com/younwookim/farmstack/internal/ecs"
)

// Snapshot is the HUD view of one session, safe to serialize.
type Snapshot struct {
	Score       float64 `json:"score"`
	Wave        int     `json:"wave"`
	Lives       int     `json:"lives"`
	Combo       int     `json:"combo"`
	Multiplier  float64 `json:"multiplier"`
	Banked      int     `json:"banked"`
	StackHeight int     `json:"stackHeight"`
	InDanger    bool    `json:"inDanger"`
	Paused      bool    `json:"paused"`
	GameOver    bool    `json:"gameOver"`
	Time        float64 `json:"time"`
	Entities    int     `json:"entities"`
}

// Snapshot returns the current HUD state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Score:       s.score,
		Wave:        s.wave,
		Lives:       s.lives,
		Combo:       s.combo,
		Multiplier:  s.Multiplier(),
		Banked:      s.banked,
		StackHeight: ecs.StackHeight(s.world, s.player.ID),
		InDanger:    s.inDanger,
		Paused:      s.paused,
		GameOver:    s.gameOver,
		Time:        s.now,
		Entities:    s.world.Size(),
	}
}

// EntityView is the render/debug view of one entity.
type EntityView struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Subtype  string   `json:"subtype"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Scale    float64  `json:"scale"`
	State    string   `json:"state"`
	Confused bool     `json:"confused,omitempty"`
	Wobble   *float64 `json:"wobble,omitempty"`
	BossHP   int      `json:"bossHp,omitempty"`
	Phasing  bool     `json:"phasing,omitempty"`
}

// Entities returns the live entity list for rendering and the debug stream.
func (s *Session) Entities() []EntityView {
	all := s.world.With()
	out := make([]EntityView, 0, len(all))
	for _, e := range all {
		v := EntityView{
			ID:       string(e.ID),
			Type:     string(e.Tag.Type),
			Subtype:  e.Tag.Subtype,
			X:        e.Position.X,
			Y:        e.Position.Y,
			Scale:    e.Scale.X,
			State:    lifecycleName(e),
			Confused: e.Confused != nil,
		}
		if e.Wobble != nil {
			off := e.Wobble.Offset
			v.Wobble = &off
		}
		if e.Boss != nil {
			v.BossHP = e.Boss.Health
			v.Phasing = e.Boss.Phasing
		}
		out = append(out, v)
	}
	return out
}

func lifecycleName(e *ecs.Entity) string {
	switch {
	case e.Falling != nil:
		return "falling"
	case e.Stacked != nil:
		return "stacked"
	case e.Banking != nil:
		return "banking"
	case e.Scattering != nil:
		return "scattering"
	}
	return "idle"
}
