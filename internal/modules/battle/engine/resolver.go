package engine

import (
	"fmt"
	"strings"
	"time"

	"monster-battle/internal/pkg/xerrors"
)

// NoSlot 未指定队伍位置
const NoSlot = -1

// Action 一次待结算的动作
type Action struct {
	Type      ActionType
	TrainerID string

	MoveName   string
	TargetName string

	ItemName string
	// ItemQuantity 由调用方从背包查询后填入
	ItemQuantity int
	// CaptureSucceeded 使用精灵球时由调用方预先掷出的捕获结果
	CaptureSucceeded *bool

	MonsterName string
	SlotIndex   int

	Narrative string

	// EngineDriven 为 true 时允许代替野生方行动
	EngineDriven bool
}

// Outcome 动作结算结果，State 为结算后的新快照，入参快照不会被修改
type Outcome struct {
	State   *Battle
	Entries []LogEntry
	Faints  []Faint

	// ConsumesTurn 为 false 的动作仍会推进回合号，但不会交换行动方
	ConsumesTurn bool
	// ForcedReplacement 在场精灵倒下后的替换
	ForcedReplacement bool
	Skipped           bool
	Fled              bool
	Captured          bool
	ItemUsed          string
}

// Config 结算规则
type Config struct {
	// WildSwapConsumesTurn 野生对战中换人是否消耗回合
	WildSwapConsumesTurn bool
}

type handlerFunc func(rc *resolveContext) error

// Resolver 无状态的动作结算器
type Resolver struct {
	cfg      Config
	rand     RandSource
	now      func() time.Time
	handlers map[ActionType]handlerFunc
}

// NewResolver 创建结算器
func NewResolver(cfg Config, r RandSource) *Resolver {
	if r == nil {
		r = DefaultRandSource()
	}
	res := &Resolver{cfg: cfg, rand: r, now: time.Now}
	res.handlers = map[ActionType]handlerFunc{
		ActionAttack:   resolveAttack,
		ActionUseItem:  resolveUseItem,
		ActionRelease:  resolveRelease,
		ActionWithdraw: resolveWithdraw,
		ActionFlee:     resolveFlee,
	}
	return res
}

// Rand 结算器使用的随机数来源
func (r *Resolver) Rand() RandSource {
	return r.rand
}

type resolveContext struct {
	*Resolver
	battle *Battle
	actor  *Participant
	action Action
	out    *Outcome
	main   int
}

// Resolve 校验并结算一个动作
func (r *Resolver) Resolve(snapshot *Battle, action Action) (*Outcome, error) {
	handler, ok := r.handlers[action.Type]
	if !ok {
		return nil, xerrors.NewValidationError("action", fmt.Sprintf("unknown action %q", action.Type))
	}
	if snapshot == nil {
		return nil, xerrors.FromCode(xerrors.CodeBattleNotFound)
	}

	state := snapshot.Clone()
	actor := state.Participant(action.TrainerID)
	if actor == nil || actor.HasFled || actor.HasForfeited {
		return nil, xerrors.FromCode(xerrors.CodeNotParticipant).WithMetadata("trainer_id", action.TrainerID)
	}
	if actor.Synthetic && !action.EngineDriven {
		return nil, xerrors.FromCode(xerrors.CodeNotParticipant).WithDetail("the wild side cannot be controlled")
	}

	rc := &resolveContext{
		Resolver: r,
		battle:   state,
		actor:    actor,
		action:   action,
		out:      &Outcome{State: state, ConsumesTurn: true},
		main:     -1,
	}
	if err := handler(rc); err != nil {
		return nil, err
	}

	if narrative := strings.TrimSpace(action.Narrative); narrative != "" && len(rc.out.Entries) > 0 {
		idx := rc.main
		if idx < 0 {
			idx = len(rc.out.Entries) - 1
		}
		rc.out.Entries[idx].NarrativeMessage = narrative
		actor.RecordNarrative(narrative)
	}
	for i := range rc.out.Entries {
		rc.out.Entries[i].Sequence = i
	}
	return rc.out, nil
}

func ruleError(code xerrors.ErrorCode, format string, args ...interface{}) *xerrors.AppError {
	return xerrors.FromCode(code).WithDetail(format, args...)
}

func (rc *resolveContext) entry(actionType ActionType, side Side, actorName, summary string) {
	rc.out.Entries = append(rc.out.Entries, LogEntry{
		BattleID:      rc.battle.ID,
		ActorSide:     side,
		ActorName:     actorName,
		ActionType:    actionType,
		ResultSummary: summary,
		Timestamp:     rc.now(),
	})
}

func (rc *resolveContext) log(summary string) {
	rc.main = len(rc.out.Entries)
	rc.entry(rc.action.Type, rc.actor.Side, rc.actor.TrainerName, summary)
}

func (rc *resolveContext) tick(p *Participant, summary string) {
	rc.entry(ActionStatusTick, p.Side, p.TrainerName, summary)
}

func (rc *resolveContext) faint(owner *Participant, m *MonsterState, creditTrainerID string) {
	rc.out.Faints = append(rc.out.Faints, Faint{
		InstanceID:      m.InstanceID,
		MonsterID:       m.MonsterID,
		Name:            m.Name,
		Level:           m.Level,
		OwnerSide:       owner.Side,
		CreditTrainerID: creditTrainerID,
	})
	rc.tick(owner, fmt.Sprintf("%s fainted!", m.Name))
}

// activeOrError 行动方必须有一只能战斗的在场精灵
func (rc *resolveContext) activeOrError() (*MonsterState, error) {
	m := rc.actor.ActiveMonster()
	if m == nil {
		return nil, ruleError(xerrors.CodeNoActiveMonster, "%s has no monster on the field", rc.actor.TrainerName)
	}
	if !m.Available() {
		return nil, ruleError(xerrors.CodeMonsterFainted, "%s has fainted", m.Name)
	}
	return m, nil
}

// target 选择攻击目标: 指定训练师名或精灵名，否则取对方第一只在场的精灵
func (rc *resolveContext) target() (*Participant, *MonsterState, error) {
	opponents := rc.battle.SideParticipants(rc.actor.Side.Opposite())
	name := strings.TrimSpace(rc.action.TargetName)
	for _, p := range opponents {
		m := p.ActiveMonster()
		if m == nil || !m.Available() {
			continue
		}
		if name == "" || strings.EqualFold(p.TrainerName, name) || strings.EqualFold(m.Name, name) {
			return p, m, nil
		}
	}
	if name != "" {
		return nil, nil, ruleError(xerrors.CodeMonsterNotFound, "%s", name)
	}
	return nil, nil, ruleError(xerrors.CodeNoActiveMonster, "no opposing monster is on the field")
}

func resolveAttack(rc *resolveContext) error {
	attacker, err := rc.activeOrError()
	if err != nil {
		return err
	}

	var move *Move
	if idx, ok := attacker.FindMove(rc.action.MoveName); ok {
		move = &attacker.Moves[idx]
		if move.PP <= 0 {
			return ruleError(xerrors.CodeNoPPLeft, "%s", move.Name)
		}
	} else if strings.EqualFold(strings.TrimSpace(rc.action.MoveName), Struggle.Name) && attacker.OutOfPP() {
		struggle := Struggle
		move = &struggle
	} else {
		return ruleError(xerrors.CodeMoveNotFound, "%s does not know %s", attacker.Name, rc.action.MoveName)
	}

	defOwner, defender, err := rc.target()
	if err != nil {
		return err
	}

	if rc.startOfTurn(rc.actor) {
		rc.out.Skipped = true
		return nil
	}

	if move.MaxPP > 0 {
		move.PP--
	}
	used := *move

	if !chance(rc.rand, hitChance(attacker, used, rc.battle.Weather)) {
		rc.log(fmt.Sprintf("%s used %s, but it missed", attacker.Name, used.Name))
		return nil
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%s used %s!", attacker.Name, used.Name))

	if used.Category != CategoryStatus && used.Power > 0 {
		dmg := CalculateDamage(attacker, defender, used, rc.battle.Weather, rc.battle.Terrain, rc.rand)
		if dmg.Critical {
			parts = append(parts, "A critical hit!")
		}
		if label := EffectivenessLabel(dmg.Effectiveness); label != "" {
			parts = append(parts, label+".")
		}
		defender.SetHP(defender.CurrentHP - dmg.Damage)
		parts = append(parts, fmt.Sprintf("%s took %d damage (%d/%d HP).", defender.Name, dmg.Damage, defender.CurrentHP, defender.MaxHP))
		if dmg.Effectiveness == 0 {
			rc.log(strings.Join(parts, " "))
			return nil
		}
	}

	if used.StatChange.Stages != 0 {
		target := defender
		if used.StatChange.Self {
			target = attacker
		}
		if target.Available() {
			applied := target.Stages.Apply(used.StatChange.Stat, used.StatChange.Stages)
			parts = append(parts, describeStageChange(target.Name, used.StatChange.Stat, applied))
		}
	}

	if status, p := secondaryEffect(used); status != StatusNone && defender.Available() {
		if chance(rc.rand, p) && applyStatus(defender, status) {
			parts = append(parts, fmt.Sprintf("%s %s!", defender.Name, statusVerb(status)))
		} else if used.Category == CategoryStatus {
			parts = append(parts, "But it failed.")
		}
	}

	rc.log(strings.Join(parts, " "))
	if defender.Fainted() {
		rc.faint(defOwner, defender, rc.actor.TrainerID)
	}
	return nil
}

func describeStageChange(name string, stat Stat, applied int) string {
	label := strings.ReplaceAll(string(stat), "_", " ")
	switch {
	case applied >= 2:
		return fmt.Sprintf("%s's %s rose sharply!", name, label)
	case applied == 1:
		return fmt.Sprintf("%s's %s rose!", name, label)
	case applied == -1:
		return fmt.Sprintf("%s's %s fell!", name, label)
	case applied <= -2:
		return fmt.Sprintf("%s's %s harshly fell!", name, label)
	default:
		return fmt.Sprintf("%s's %s won't go any further!", name, label)
	}
}

func resolveUseItem(rc *resolveContext) error {
	item, ok := LookupItem(rc.action.ItemName)
	if !ok {
		return ruleError(xerrors.CodeItemNotFound, "%s", rc.action.ItemName)
	}
	if rc.action.ItemQuantity < 1 {
		return ruleError(xerrors.CodeInsufficientItems, "%s", item.Name)
	}
	if _, err := rc.activeOrError(); err != nil {
		return err
	}

	switch item.Kind {
	case ItemBall:
		return rc.useBall(item)
	default:
		return rc.useRestorative(item)
	}
}

func (rc *resolveContext) useBall(item Item) error {
	if rc.battle.Mode != ModeWild {
		return ruleError(xerrors.CodeItemNotUsable, "%s can only be thrown at wild monsters", item.Name)
	}
	if rc.action.CaptureSucceeded == nil {
		return xerrors.NewValidationError("capture", "capture roll missing")
	}
	wild := rc.battle.WildParticipant()
	if wild == nil {
		return ruleError(xerrors.CodeNoActiveMonster, "no wild monster to capture")
	}
	target := wild.ActiveMonster()
	if target == nil || !target.Available() {
		return ruleError(xerrors.CodeNoActiveMonster, "no wild monster to capture")
	}

	rc.startOfTurn(rc.actor)
	rc.out.ItemUsed = item.Name

	if *rc.action.CaptureSucceeded {
		target.Captured = true
		rc.out.Captured = true
		rc.log(fmt.Sprintf("%s threw a %s. Gotcha! %s was caught!", rc.actor.TrainerName, item.Name, target.Name))
		return nil
	}
	rc.log(fmt.Sprintf("%s threw a %s. Oh no! %s broke free!", rc.actor.TrainerName, item.Name, target.Name))
	return nil
}

func (rc *resolveContext) useRestorative(item Item) error {
	target := rc.actor.ActiveMonster()
	if name := strings.TrimSpace(rc.action.TargetName); name != "" {
		_, m := rc.actor.FindMonster(name)
		if m == nil {
			return ruleError(xerrors.CodeMonsterNotFound, "%s", name)
		}
		target = m
	}
	if target.Fainted() {
		return ruleError(xerrors.CodeMonsterFainted, "%s has fainted", target.Name)
	}

	if healAmount(item, target) <= 0 && !cures(item, target) {
		return ruleError(xerrors.CodeItemNotUsable, "%s would have no effect on %s", item.Name, target.Name)
	}

	rc.startOfTurn(rc.actor)
	if target.Fainted() {
		// 回合开始结算中倒下，道具仍然消耗
		rc.out.ItemUsed = item.Name
		rc.log(fmt.Sprintf("%s used a %s, but %s can no longer be helped", rc.actor.TrainerName, item.Name, target.Name))
		return nil
	}

	parts := []string{fmt.Sprintf("%s used a %s on %s.", rc.actor.TrainerName, item.Name, target.Name)}
	if heal := healAmount(item, target); heal > 0 {
		target.SetHP(target.CurrentHP + heal)
		parts = append(parts, fmt.Sprintf("Restored %d HP (%d/%d).", heal, target.CurrentHP, target.MaxHP))
	}
	if cures(item, target) {
		parts = append(parts, fmt.Sprintf("%s is no longer affected by %s.", target.Name, target.Status))
		target.Status, target.StatusTurns = StatusNone, 0
	}
	rc.out.ItemUsed = item.Name
	rc.log(strings.Join(parts, " "))
	return nil
}

func healAmount(item Item, target *MonsterState) int {
	if item.Kind != ItemHeal {
		return 0
	}
	missing := target.MaxHP - target.CurrentHP
	if item.HealAmount == FullHeal || item.HealAmount > missing {
		return missing
	}
	return item.HealAmount
}

func cures(item Item, target *MonsterState) bool {
	return target.HasStatus() && (item.CuresAll || item.Cures == target.Status)
}

// swapTarget 解析要上场的精灵: 优先按名称，其次按位置
func (rc *resolveContext) swapTarget(name string, slot int) (int, *MonsterState, error) {
	var idx = -1
	var m *MonsterState
	if strings.TrimSpace(name) != "" {
		idx, m = rc.actor.FindMonster(name)
		if m == nil {
			return -1, nil, ruleError(xerrors.CodeMonsterNotFound, "%s", name)
		}
	} else if slot >= 0 && slot < len(rc.actor.Monsters) {
		idx, m = slot, rc.actor.Monsters[slot]
	} else {
		return -1, nil, xerrors.NewValidationError("slot_index", fmt.Sprintf("slot %d is out of range", slot))
	}

	if idx == rc.actor.ActiveSlotIndex {
		return -1, nil, ruleError(xerrors.CodeMonsterActive, "%s", m.Name)
	}
	if !m.Available() {
		return -1, nil, ruleError(xerrors.CodeMonsterFainted, "%s cannot battle", m.Name)
	}
	return idx, m, nil
}

func (rc *resolveContext) swapIn(idx int, incoming *MonsterState) {
	outgoing := rc.actor.ActiveMonster()
	forced := outgoing == nil || !outgoing.Available()

	if outgoing != nil {
		outgoing.Stages = StatStages{}
	}
	rc.actor.ActiveSlotIndex = idx

	rc.out.ForcedReplacement = forced
	switch {
	case forced:
		rc.out.ConsumesTurn = false
	case rc.battle.Mode == ModePvP:
		rc.out.ConsumesTurn = true
	default:
		rc.out.ConsumesTurn = rc.cfg.WildSwapConsumesTurn
	}

	if outgoing != nil && outgoing.Available() {
		rc.log(fmt.Sprintf("%s withdrew %s and sent out %s (%d/%d HP)", rc.actor.TrainerName, outgoing.Name, incoming.Name, incoming.CurrentHP, incoming.MaxHP))
		return
	}
	rc.log(fmt.Sprintf("%s sent out %s (%d/%d HP)", rc.actor.TrainerName, incoming.Name, incoming.CurrentHP, incoming.MaxHP))
}

func resolveRelease(rc *resolveContext) error {
	idx, m, err := rc.swapTarget(rc.action.MonsterName, rc.action.SlotIndex)
	if err != nil {
		return err
	}
	rc.swapIn(idx, m)
	return nil
}

// resolveWithdraw 收回在场精灵，必须同时指定替换的队伍位置
func resolveWithdraw(rc *resolveContext) error {
	active := rc.actor.ActiveMonster()
	if active == nil {
		return ruleError(xerrors.CodeNoActiveMonster, "%s has no monster on the field", rc.actor.TrainerName)
	}
	if name := strings.TrimSpace(rc.action.MonsterName); name != "" && !strings.EqualFold(name, active.Name) {
		if _, m := rc.actor.FindMonster(name); m == nil {
			return ruleError(xerrors.CodeMonsterNotFound, "%s", name)
		}
		return xerrors.NewValidationError("monster_name", fmt.Sprintf("%s is not on the field", name))
	}
	if rc.action.SlotIndex == NoSlot {
		return xerrors.NewValidationError("slot_index", "a replacement slot is required to withdraw")
	}
	idx, m, err := rc.swapTarget("", rc.action.SlotIndex)
	if err != nil {
		return err
	}
	rc.swapIn(idx, m)
	return nil
}

// FleeChance 逃跑成功率: 等级差每级 ±5%，攻击性越高越难逃，限制在 [0.1, 0.95]
func FleeChance(playerLevel, wildLevel, aggression int) float64 {
	p := 0.5 + 0.05*float64(playerLevel-wildLevel) - float64(aggression)/100*0.2
	return clampFloat(p, 0.1, 0.95)
}

func resolveFlee(rc *resolveContext) error {
	if rc.battle.Mode != ModeWild {
		return ruleError(xerrors.CodeFleeNotAllowed, "trainer battles cannot be fled")
	}
	own, err := rc.activeOrError()
	if err != nil {
		return err
	}

	foe := fleeTarget(rc.battle.WildParticipant())
	if foe == nil {
		return ruleError(xerrors.CodeNoActiveMonster, "there is no wild monster to flee from")
	}
	p := FleeChance(own.Level, foe.Level, rc.battle.Aggression)

	if chance(rc.rand, p) {
		rc.out.Fled = true
		rc.actor.HasFled = true
		rc.log(fmt.Sprintf("%s got away safely!", rc.actor.TrainerName))
		return nil
	}
	rc.log(fmt.Sprintf("%s couldn't get away!", rc.actor.TrainerName))
	return nil
}

// fleeTarget 在场的野生精灵，已倒下或被捕获时取下一只可战斗的
func fleeTarget(wild *Participant) *MonsterState {
	if wild == nil {
		return nil
	}
	if m := wild.ActiveMonster(); m != nil && m.Available() {
		return m
	}
	if slot := wild.FirstAvailableSlot(); slot != NoSlot {
		return wild.Monsters[slot]
	}
	return nil
}
