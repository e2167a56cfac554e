package engine

import (
	"strings"
	"time"
)

// Stats 精灵的六项能力值
type Stats struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"sp_attack"`
	SpDefense int `json:"sp_defense"`
	Speed     int `json:"speed"`
}

// StatStages 能力等级修正，每项限制在 [-6, +6]
type StatStages struct {
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"sp_attack"`
	SpDefense int `json:"sp_defense"`
	Speed     int `json:"speed"`
	Accuracy  int `json:"accuracy"`
}

func (s *StatStages) field(stat Stat) *int {
	switch stat {
	case StatAttack:
		return &s.Attack
	case StatDefense:
		return &s.Defense
	case StatSpAttack:
		return &s.SpAttack
	case StatSpDefense:
		return &s.SpDefense
	case StatSpeed:
		return &s.Speed
	case StatAccuracy:
		return &s.Accuracy
	}
	return nil
}

// Get 读取某项能力等级
func (s StatStages) Get(stat Stat) int {
	if f := s.field(stat); f != nil {
		return *f
	}
	return 0
}

// Apply 修改能力等级，返回实际变化量
func (s *StatStages) Apply(stat Stat, delta int) int {
	f := s.field(stat)
	if f == nil {
		return 0
	}
	next := clampInt(*f+delta, MinStage, MaxStage)
	applied := next - *f
	*f = next
	return applied
}

// StatChange 招式附带的能力等级变化
type StatChange struct {
	Stat   Stat `json:"stat,omitempty"`
	Stages int  `json:"stages,omitempty"`
	// Self 为 true 时作用于使用者
	Self bool `json:"self,omitempty"`
}

// Move 招式
type Move struct {
	Name     string       `json:"name"`
	Type     MonsterType  `json:"type"`
	Category MoveCategory `json:"category"`
	Power    int          `json:"power"`
	// Accuracy 命中率百分比，0 表示必中
	Accuracy     int             `json:"accuracy"`
	PP           int             `json:"pp"`
	MaxPP        int             `json:"max_pp"`
	StatusEffect StatusCondition `json:"status_effect,omitempty"`
	StatusChance float64         `json:"status_chance,omitempty"`
	StatChange   StatChange      `json:"stat_change,omitempty"`
}

// MonsterState 对战中的精灵快照
type MonsterState struct {
	InstanceID  string          `json:"instance_id"`
	MonsterID   string          `json:"monster_id"`
	Name        string          `json:"name"`
	Species     string          `json:"species"`
	Level       int             `json:"level"`
	Types       []MonsterType   `json:"types"`
	Stats       Stats           `json:"stats"`
	MaxHP       int             `json:"max_hp"`
	CurrentHP   int             `json:"current_hp"`
	Status      StatusCondition `json:"status"`
	StatusTurns int             `json:"status_turns"`
	Stages      StatStages      `json:"stages"`
	Moves       []Move          `json:"moves"`
	// LevelsGained 本场对战中通过击倒获得的等级
	LevelsGained int  `json:"levels_gained"`
	Captured     bool `json:"captured,omitempty"`
}

// Fainted 体力归零即视为倒下
func (m *MonsterState) Fainted() bool {
	return m.CurrentHP == 0
}

// Available 还能继续战斗
func (m *MonsterState) Available() bool {
	return !m.Fainted() && !m.Captured
}

// SetHP 设置体力并限制在 [0, MaxHP]
func (m *MonsterState) SetHP(hp int) {
	m.CurrentHP = clampInt(hp, 0, m.MaxHP)
}

// HasStatus 是否处于异常状态
func (m *MonsterState) HasStatus() bool {
	return m.Status != "" && m.Status != StatusNone
}

// HasType 是否拥有某属性
func (m *MonsterState) HasType(t MonsterType) bool {
	for _, own := range m.Types {
		if own == t {
			return true
		}
	}
	return false
}

// FindMove 按名称查找招式（大小写不敏感）
func (m *MonsterState) FindMove(name string) (int, bool) {
	for i := range m.Moves {
		if strings.EqualFold(m.Moves[i].Name, strings.TrimSpace(name)) {
			return i, true
		}
	}
	return -1, false
}

// OutOfPP 所有招式 PP 均已耗尽
func (m *MonsterState) OutOfPP() bool {
	for _, mv := range m.Moves {
		if mv.PP > 0 {
			return false
		}
	}
	return true
}

// Clone 深拷贝
func (m *MonsterState) Clone() *MonsterState {
	if m == nil {
		return nil
	}
	c := *m
	c.Types = append([]MonsterType(nil), m.Types...)
	c.Moves = append([]Move(nil), m.Moves...)
	return &c
}

// Participant 对战的一方参与者
type Participant struct {
	TrainerID   string `json:"trainer_id"`
	TrainerName string `json:"trainer_name"`
	// OwnerID 训练师所属的身份 ID，野生方为空
	OwnerID   string `json:"owner_id,omitempty"`
	Side      Side   `json:"side"`
	Synthetic bool   `json:"synthetic"`
	// ActiveSlotIndex 为 -1 表示场上没有精灵
	ActiveSlotIndex int             `json:"active_slot_index"`
	KOCount         int             `json:"ko_count"`
	HasFled         bool            `json:"has_fled"`
	HasForfeited    bool            `json:"has_forfeited"`
	Accepted        bool            `json:"accepted"`
	Monsters        []*MonsterState `json:"monsters"`
	WordCount       int             `json:"word_count"`
	MessageCount    int             `json:"message_count"`
	JoinedAt        time.Time       `json:"joined_at"`
}

// ActiveMonster 当前在场的精灵
func (p *Participant) ActiveMonster() *MonsterState {
	if p.ActiveSlotIndex < 0 || p.ActiveSlotIndex >= len(p.Monsters) {
		return nil
	}
	return p.Monsters[p.ActiveSlotIndex]
}

// AvailableCount 还能战斗的精灵数量
func (p *Participant) AvailableCount() int {
	n := 0
	for _, m := range p.Monsters {
		if m.Available() {
			n++
		}
	}
	return n
}

// FirstAvailableSlot 第一只能战斗的精灵位置，没有时返回 -1
func (p *Participant) FirstAvailableSlot() int {
	for i, m := range p.Monsters {
		if m.Available() {
			return i
		}
	}
	return -1
}

// FindMonster 按名称查找队伍中的精灵
func (p *Participant) FindMonster(name string) (int, *MonsterState) {
	name = strings.TrimSpace(name)
	for i, m := range p.Monsters {
		if strings.EqualFold(m.Name, name) {
			return i, m
		}
	}
	return -1, nil
}

// NeedsReplacement 在场精灵已倒下或空缺，且还有可替换的精灵
func (p *Participant) NeedsReplacement() bool {
	active := p.ActiveMonster()
	return (active == nil || !active.Available()) && p.AvailableCount() > 0
}

// RecordNarrative 累计叙事字数
func (p *Participant) RecordNarrative(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	p.WordCount += len(strings.Fields(text))
	p.MessageCount++
}

// Clone 深拷贝
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	c := *p
	c.Monsters = make([]*MonsterState, len(p.Monsters))
	for i, m := range p.Monsters {
		c.Monsters[i] = m.Clone()
	}
	return &c
}

// Battle 一场对战
type Battle struct {
	ID                 string          `json:"id"`
	AdventureSessionID string          `json:"adventure_session_id"`
	AreaID             string          `json:"area_id,omitempty"`
	Mode               Mode            `json:"mode"`
	Status             Status          `json:"status"`
	Weather            Weather         `json:"weather"`
	Terrain            Terrain         `json:"terrain"`
	WinCondition       int             `json:"win_condition"`
	TurnNumber         int             `json:"turn_number"`
	// NextSequence 当前回合下一条记录的序号
	NextSequence       int             `json:"next_sequence"`
	ActingSide         Side            `json:"acting_side"`
	WinnerSide         Side            `json:"winner_side,omitempty"`
	Aggression         int             `json:"aggression,omitempty"`
	Aggressive         bool            `json:"aggressive,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	ResolvedAt         *time.Time      `json:"resolved_at,omitempty"`
	Participants       []*Participant  `json:"participants"`
	KOLedger           map[string]Side `json:"ko_ledger"`
}

// Clone 深拷贝，所有变更都在副本上进行
func (b *Battle) Clone() *Battle {
	if b == nil {
		return nil
	}
	c := *b
	if b.ResolvedAt != nil {
		t := *b.ResolvedAt
		c.ResolvedAt = &t
	}
	c.Participants = make([]*Participant, len(b.Participants))
	for i, p := range b.Participants {
		c.Participants[i] = p.Clone()
	}
	c.KOLedger = make(map[string]Side, len(b.KOLedger))
	for k, v := range b.KOLedger {
		c.KOLedger[k] = v
	}
	return &c
}

// Participant 按训练师 ID 查找参与者
func (b *Battle) Participant(trainerID string) *Participant {
	for _, p := range b.Participants {
		if p.TrainerID == trainerID {
			return p
		}
	}
	return nil
}

// ParticipantByName 按训练师名称查找参与者
func (b *Battle) ParticipantByName(name string) *Participant {
	name = strings.TrimSpace(name)
	for _, p := range b.Participants {
		if strings.EqualFold(p.TrainerName, name) {
			return p
		}
	}
	return nil
}

// SideParticipants 某一方的全部参与者
func (b *Battle) SideParticipants(side Side) []*Participant {
	var out []*Participant
	for _, p := range b.Participants {
		if p.Side == side {
			out = append(out, p)
		}
	}
	return out
}

// SideKOCount 某一方累计的击倒数
func (b *Battle) SideKOCount(side Side) int {
	n := 0
	for _, p := range b.SideParticipants(side) {
		n += p.KOCount
	}
	return n
}

// SideAvailableCount 某一方还能战斗的精灵数
func (b *Battle) SideAvailableCount(side Side) int {
	n := 0
	for _, p := range b.SideParticipants(side) {
		n += p.AvailableCount()
	}
	return n
}

// WildParticipant 野生方参与者
func (b *Battle) WildParticipant() *Participant {
	for _, p := range b.Participants {
		if p.Synthetic {
			return p
		}
	}
	return nil
}

// WinningSide 满足胜利条件的一方: 击倒数达到要求且对方没有可战斗的精灵
func (b *Battle) WinningSide() Side {
	for _, side := range []Side{SideA, SideB} {
		if b.SideKOCount(side) >= b.WinCondition && b.SideAvailableCount(side.Opposite()) == 0 {
			return side
		}
	}
	return SideNone
}

// ReachableKOs 某一方最多还能达到的击倒数: 已有击倒加上对方仍可战斗的精灵
func (b *Battle) ReachableKOs(side Side) int {
	return b.SideKOCount(side) + b.SideAvailableCount(side.Opposite())
}

// MaxWinCondition 双方都还能满足的最大胜利条件，至少为 1
func (b *Battle) MaxWinCondition() int {
	n := b.ReachableKOs(SideA)
	if other := b.ReachableKOs(SideB); other < n {
		n = other
	}
	if n < 1 {
		n = 1
	}
	return n
}

// LeadingSide 击倒数较多的一方，相同时为平局
func (b *Battle) LeadingSide() Side {
	a, bb := b.SideKOCount(SideA), b.SideKOCount(SideB)
	switch {
	case a > bb:
		return SideA
	case bb > a:
		return SideB
	default:
		return SideNone
	}
}

// AdvanceTurn 回合号加一，回合内序号归零
func (b *Battle) AdvanceTurn() {
	b.TurnNumber++
	b.NextSequence = 0
}

// StampEntries 为记录填入对战 ID、当前回合号与回合内序号
func (b *Battle) StampEntries(entries []LogEntry) []LogEntry {
	for i := range entries {
		entries[i].BattleID = b.ID
		entries[i].TurnNumber = b.TurnNumber
		entries[i].Sequence = b.NextSequence
		b.NextSequence++
	}
	return entries
}

// Faint 倒下事件
type Faint struct {
	InstanceID string `json:"instance_id"`
	MonsterID  string `json:"monster_id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	OwnerSide  Side   `json:"owner_side"`
	// CreditTrainerID 获得击倒计数的参与者，为空时记到该方第一个参与者
	CreditTrainerID string `json:"credit_trainer_id,omitempty"`
}

// MaxLevel 等级上限
const MaxLevel = 100

// MaxPartySize 一方参与者最多携带的精灵数
const MaxPartySize = 6

// CreditFaint 记录一次击倒，同一只精灵只计一次
// 返回 false 表示已经记录过
func (b *Battle) CreditFaint(f Faint) bool {
	if b.KOLedger == nil {
		b.KOLedger = make(map[string]Side)
	}
	if _, seen := b.KOLedger[f.InstanceID]; seen {
		return false
	}
	creditSide := f.OwnerSide.Opposite()
	b.KOLedger[f.InstanceID] = creditSide

	var credited *Participant
	if f.CreditTrainerID != "" {
		if p := b.Participant(f.CreditTrainerID); p != nil && p.Side == creditSide {
			credited = p
		}
	}
	if credited == nil {
		if ps := b.SideParticipants(creditSide); len(ps) > 0 {
			credited = ps[0]
		}
	}
	if credited == nil {
		return true
	}
	credited.KOCount++

	gain := 1 + f.Level/10
	for _, p := range b.SideParticipants(creditSide) {
		if p.Synthetic {
			continue
		}
		for _, m := range p.Monsters {
			if !m.Available() || m.Level >= MaxLevel {
				continue
			}
			next := clampInt(m.Level+gain, 1, MaxLevel)
			m.LevelsGained += next - m.Level
			m.Level = next
		}
	}
	return true
}

// LogEntry 一条对战记录，写入后不再修改
type LogEntry struct {
	BattleID         string     `json:"battle_id"`
	TurnNumber       int        `json:"turn_number"`
	Sequence         int        `json:"sequence"`
	ActorSide        Side       `json:"actor_side,omitempty"`
	ActorName        string     `json:"actor_name,omitempty"`
	ActionType       ActionType `json:"action_type"`
	NarrativeMessage string     `json:"narrative_message,omitempty"`
	ResultSummary    string     `json:"result_summary"`
	Timestamp        time.Time  `json:"timestamp"`
}
