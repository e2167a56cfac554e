package service

import (
	"time"

	"monster-battle/internal/modules/battle/engine"
)

// BattleSnapshot 对外展示的对战快照
type BattleSnapshot struct {
	ID                 string            `json:"id"`
	AdventureSessionID string            `json:"adventure_session_id"`
	AreaID             string            `json:"area_id,omitempty"`
	Mode               string            `json:"mode"`
	Status             string            `json:"status"`
	Weather            string            `json:"weather"`
	Terrain            string            `json:"terrain"`
	WinCondition       int               `json:"win_condition"`
	TurnNumber         int               `json:"turn_number"`
	ActingSide         string            `json:"acting_side"`
	WinnerSide         string            `json:"winner_side,omitempty"`
	Aggressive         bool              `json:"aggressive,omitempty"`
	Participants       []ParticipantView `json:"participants"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	ResolvedAt         *time.Time        `json:"resolved_at,omitempty"`
}

// ParticipantView 参与者
type ParticipantView struct {
	TrainerName     string        `json:"trainer_name"`
	Side            string        `json:"side"`
	Synthetic       bool          `json:"synthetic"`
	ActiveSlotIndex int           `json:"active_slot_index"`
	KOCount         int           `json:"ko_count"`
	HasFled         bool          `json:"has_fled"`
	HasForfeited    bool          `json:"has_forfeited"`
	Accepted        bool          `json:"accepted"`
	WordCount       int           `json:"word_count"`
	MessageCount    int           `json:"message_count"`
	Monsters        []MonsterView `json:"monsters"`
}

// MonsterView 精灵
type MonsterView struct {
	Name      string     `json:"name"`
	Level     int        `json:"level"`
	Types     []string   `json:"types"`
	CurrentHP int        `json:"current_hp"`
	MaxHP     int        `json:"max_hp"`
	Status    string     `json:"status"`
	Fainted   bool       `json:"fainted"`
	Captured  bool       `json:"captured,omitempty"`
	Moves     []MoveView `json:"moves"`
}

// MoveView 招式
type MoveView struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	PP    int    `json:"pp"`
	MaxPP int    `json:"max_pp"`
}

// LogEntryView 对战记录
type LogEntryView struct {
	TurnNumber       int       `json:"turn_number"`
	Sequence         int       `json:"sequence"`
	ActorSide        string    `json:"actor_side,omitempty"`
	ActorName        string    `json:"actor_name,omitempty"`
	ActionType       string    `json:"action_type"`
	NarrativeMessage string    `json:"narrative_message,omitempty"`
	ResultSummary    string    `json:"result_summary"`
	Timestamp        time.Time `json:"timestamp"`
}

// NewBattleSnapshot 由内部快照生成展示用结构
func NewBattleSnapshot(b *engine.Battle) *BattleSnapshot {
	if b == nil {
		return nil
	}
	s := &BattleSnapshot{
		ID:                 b.ID,
		AdventureSessionID: b.AdventureSessionID,
		AreaID:             b.AreaID,
		Mode:               string(b.Mode),
		Status:             string(b.Status),
		Weather:            string(b.Weather),
		Terrain:            string(b.Terrain),
		WinCondition:       b.WinCondition,
		TurnNumber:         b.TurnNumber,
		ActingSide:         string(b.ActingSide),
		WinnerSide:         string(b.WinnerSide),
		Aggressive:         b.Aggressive,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		Participants:       make([]ParticipantView, 0, len(b.Participants)),
	}
	if b.ResolvedAt != nil {
		t := *b.ResolvedAt
		s.ResolvedAt = &t
	}
	for _, p := range b.Participants {
		pv := ParticipantView{
			TrainerName:     p.TrainerName,
			Side:            string(p.Side),
			Synthetic:       p.Synthetic,
			ActiveSlotIndex: p.ActiveSlotIndex,
			KOCount:         p.KOCount,
			HasFled:         p.HasFled,
			HasForfeited:    p.HasForfeited,
			Accepted:        p.Accepted,
			WordCount:       p.WordCount,
			MessageCount:    p.MessageCount,
			Monsters:        make([]MonsterView, 0, len(p.Monsters)),
		}
		for _, m := range p.Monsters {
			pv.Monsters = append(pv.Monsters, newMonsterView(m))
		}
		s.Participants = append(s.Participants, pv)
	}
	return s
}

func newMonsterView(m *engine.MonsterState) MonsterView {
	mv := MonsterView{
		Name:      m.Name,
		Level:     m.Level,
		CurrentHP: m.CurrentHP,
		MaxHP:     m.MaxHP,
		Status:    string(m.Status),
		Fainted:   m.Fainted(),
		Captured:  m.Captured,
		Types:     make([]string, len(m.Types)),
		Moves:     make([]MoveView, len(m.Moves)),
	}
	for i, t := range m.Types {
		mv.Types[i] = string(t)
	}
	for i, mo := range m.Moves {
		mv.Moves[i] = MoveView{Name: mo.Name, Type: string(mo.Type), PP: mo.PP, MaxPP: mo.MaxPP}
	}
	return mv
}

// NewLogEntryViews 转换对战记录
func NewLogEntryViews(entries []engine.LogEntry) []LogEntryView {
	out := make([]LogEntryView, len(entries))
	for i, e := range entries {
		out[i] = LogEntryView{
			TurnNumber:       e.TurnNumber,
			Sequence:         e.Sequence,
			ActorSide:        string(e.ActorSide),
			ActorName:        e.ActorName,
			ActionType:       string(e.ActionType),
			NarrativeMessage: e.NarrativeMessage,
			ResultSummary:    e.ResultSummary,
			Timestamp:        e.Timestamp,
		}
	}
	return out
}
