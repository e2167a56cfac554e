package service

import (
	"context"

	"github.com/google/uuid"

	"monster-battle/internal/modules/battle/engine"
)

const (
	defaultLevelMin = 5
	defaultLevelMax = 25
	defaultAgroMin  = 10
	defaultAgroMax  = 60
	defaultGroupMin = 1
	defaultGroupMax = 3
	// AggressiveThreshold 攻击性达到该值的遭遇会被标记为主动攻击
	AggressiveThreshold = 75

	fallbackLevel = 10
	fallbackAgro  = 25
)

// Species 可遭遇的物种
type Species struct {
	Name   string
	Types  []engine.MonsterType
	Base   engine.Stats
	Weight int
}

// SpeciesPool 带权重的物种池
type SpeciesPool []Species

func (p SpeciesPool) totalWeight() int {
	total := 0
	for _, s := range p {
		if s.Weight > 0 {
			total += s.Weight
		}
	}
	return total
}

// AreaConfig 区域的遭遇配置，零值字段使用默认值
type AreaConfig struct {
	AreaID   string
	Pool     SpeciesPool
	LevelMin int
	LevelMax int
	AgroMin  int
	AgroMax  int
	// GroupMin/GroupMax 一次遭遇出现的野生精灵数量
	GroupMin int
	GroupMax int
	Weather  engine.Weather
	Terrain  engine.Terrain
}

func (a AreaConfig) withDefaults() AreaConfig {
	if a.LevelMin <= 0 {
		a.LevelMin = defaultLevelMin
	}
	if a.LevelMax < a.LevelMin {
		a.LevelMax = maxInt(defaultLevelMax, a.LevelMin)
	}
	if a.AgroMin <= 0 && a.AgroMax <= 0 {
		a.AgroMin, a.AgroMax = defaultAgroMin, defaultAgroMax
	}
	if a.AgroMax < a.AgroMin {
		a.AgroMax = a.AgroMin
	}
	if a.GroupMin <= 0 {
		a.GroupMin = defaultGroupMin
	}
	if a.GroupMax <= 0 {
		a.GroupMax = maxInt(defaultGroupMax, a.GroupMin)
	}
	if a.GroupMax < a.GroupMin {
		a.GroupMax = a.GroupMin
	}
	a.GroupMax = minInt(a.GroupMax, engine.MaxPartySize)
	a.GroupMin = minInt(a.GroupMin, a.GroupMax)
	a.LevelMax = minInt(a.LevelMax, engine.MaxLevel)
	a.AgroMax = minInt(a.AgroMax, 100)
	if a.Weather == "" {
		a.Weather = engine.WeatherClear
	}
	if a.Terrain == "" {
		a.Terrain = engine.TerrainNormal
	}
	return a
}

// EncounterDefinition 生成的野生遭遇，Monsters[0] 首先上场
type EncounterDefinition struct {
	Species    string
	Monsters   []*engine.MonsterState
	Aggression int
	Aggressive bool
	Weather    engine.Weather
	Terrain    engine.Terrain
}

// PikachuSpecies 物种池为空时的保底遭遇
var PikachuSpecies = Species{
	Name:   "Pikachu",
	Types:  []engine.MonsterType{engine.TypeElectric},
	Base:   engine.Stats{HP: 35, Attack: 55, Defense: 40, SpAttack: 50, SpDefense: 50, Speed: 90},
	Weight: 1,
}

// DefaultSpeciesPool 未配置区域时使用的物种池
var DefaultSpeciesPool = SpeciesPool{
	{Name: "Rattata", Types: []engine.MonsterType{engine.TypeNormal}, Base: engine.Stats{HP: 30, Attack: 56, Defense: 35, SpAttack: 25, SpDefense: 35, Speed: 72}, Weight: 30},
	{Name: "Pidgey", Types: []engine.MonsterType{engine.TypeNormal, engine.TypeFlying}, Base: engine.Stats{HP: 40, Attack: 45, Defense: 40, SpAttack: 35, SpDefense: 35, Speed: 56}, Weight: 25},
	{Name: "Caterpie", Types: []engine.MonsterType{engine.TypeBug}, Base: engine.Stats{HP: 45, Attack: 30, Defense: 35, SpAttack: 20, SpDefense: 20, Speed: 45}, Weight: 15},
	{Name: "Bulbasaur", Types: []engine.MonsterType{engine.TypeGrass, engine.TypePoison}, Base: engine.Stats{HP: 45, Attack: 49, Defense: 49, SpAttack: 65, SpDefense: 65, Speed: 45}, Weight: 8},
	{Name: "Charmander", Types: []engine.MonsterType{engine.TypeFire}, Base: engine.Stats{HP: 39, Attack: 52, Defense: 43, SpAttack: 60, SpDefense: 50, Speed: 65}, Weight: 8},
	{Name: "Squirtle", Types: []engine.MonsterType{engine.TypeWater}, Base: engine.Stats{HP: 44, Attack: 48, Defense: 65, SpAttack: 50, SpDefense: 64, Speed: 43}, Weight: 8},
	{Name: "Geodude", Types: []engine.MonsterType{engine.TypeRock, engine.TypeGround}, Base: engine.Stats{HP: 40, Attack: 80, Defense: 100, SpAttack: 30, SpDefense: 30, Speed: 20}, Weight: 10},
	PikachuSpecies,
}

// EncounterGenerator 按区域配置生成野生遭遇
type EncounterGenerator struct {
	rand  engine.RandSource
	newID func() string
}

// NewEncounterGenerator 创建遭遇生成器
func NewEncounterGenerator(r engine.RandSource) *EncounterGenerator {
	if r == nil {
		r = engine.DefaultRandSource()
	}
	return &EncounterGenerator{rand: r, newID: uuid.NewString}
}

// GenerateWildEncounter 按区域范围随机精灵数量与攻击性，每只精灵单独加权抽取物种和等级
// 物种池为空时只生成一只保底精灵
func (g *EncounterGenerator) GenerateWildEncounter(ctx context.Context, area AreaConfig) (*EncounterDefinition, error) {
	area = area.withDefaults()

	if area.Pool.totalWeight() <= 0 {
		return &EncounterDefinition{
			Species:    PikachuSpecies.Name,
			Monsters:   []*engine.MonsterState{g.buildMonster(PikachuSpecies, fallbackLevel)},
			Aggression: fallbackAgro,
			Aggressive: fallbackAgro >= AggressiveThreshold,
			Weather:    area.Weather,
			Terrain:    area.Terrain,
		}, nil
	}

	count := g.between(area.GroupMin, area.GroupMax)
	agro := g.between(area.AgroMin, area.AgroMax)
	monsters := make([]*engine.MonsterState, 0, count)
	for i := 0; i < count; i++ {
		species, _ := g.pick(area.Pool)
		monsters = append(monsters, g.buildMonster(species, g.between(area.LevelMin, area.LevelMax)))
	}

	return &EncounterDefinition{
		Species:    monsters[0].Species,
		Monsters:   monsters,
		Aggression: agro,
		Aggressive: agro >= AggressiveThreshold,
		Weather:    area.Weather,
		Terrain:    area.Terrain,
	}, nil
}

func (g *EncounterGenerator) pick(pool SpeciesPool) (Species, bool) {
	total := pool.totalWeight()
	if total <= 0 {
		return Species{}, false
	}
	roll := g.rand.IntN(total)
	for _, s := range pool {
		if s.Weight <= 0 {
			continue
		}
		if roll < s.Weight {
			return s, true
		}
		roll -= s.Weight
	}
	return pool[len(pool)-1], true
}

// between 闭区间 [lo, hi] 的均匀随机整数
func (g *EncounterGenerator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rand.IntN(hi-lo+1)
}

func (g *EncounterGenerator) buildMonster(s Species, level int) *engine.MonsterState {
	types := s.Types
	if len(types) > engine.MaxMonsterTypes {
		types = types[:engine.MaxMonsterTypes]
	}
	stats := ScaleStats(s.Base, level)
	return &engine.MonsterState{
		InstanceID: g.newID(),
		Name:       s.Name,
		Species:    s.Name,
		Level:      level,
		Types:      append([]engine.MonsterType(nil), types...),
		Stats:      stats,
		MaxHP:      stats.HP,
		CurrentHP:  stats.HP,
		Status:     engine.StatusNone,
		Moves:      engine.DefaultMoveset(types),
	}
}

// ScaleStats 由种族值和等级计算能力值
// stat = base*2*L/100 + 5, hp = base*2*L/100 + L + 10
func ScaleStats(base engine.Stats, level int) engine.Stats {
	scale := func(b int) int { return b*2*level/100 + 5 }
	return engine.Stats{
		HP:        base.HP*2*level/100 + level + 10,
		Attack:    scale(base.Attack),
		Defense:   scale(base.Defense),
		SpAttack:  scale(base.SpAttack),
		SpDefense: scale(base.SpDefense),
		Speed:     scale(base.Speed),
	}
}

// StaticAreaProvider 所有会话使用同一区域配置
type StaticAreaProvider struct {
	Area AreaConfig
}

// AreaForSession 返回固定的区域配置
func (p StaticAreaProvider) AreaForSession(ctx context.Context, sessionID string) (AreaConfig, error) {
	area := p.Area
	if len(area.Pool) == 0 {
		area.Pool = DefaultSpeciesPool
	}
	return area, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
