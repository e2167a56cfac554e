package engine

import (
	"strings"
)

// Mode 对战模式
type Mode string

const (
	ModeWild Mode = "wild"
	ModePvP  Mode = "pvp"
)

// Status 对战状态
type Status string

const (
	StatusOpen      Status = "open"
	StatusActive    Status = "active"
	StatusResolved  Status = "resolved"
	StatusFled      Status = "fled"
	StatusForfeited Status = "forfeited"
)

// IsTerminal 终态不再接受任何变更
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusFled || s == StatusForfeited
}

// Side 阵营
type Side string

const (
	SideNone Side = ""
	SideA    Side = "A"
	SideB    Side = "B"
)

// Opposite 返回对立阵营
func (s Side) Opposite() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

// ParseSide 解析阵营，大小写不敏感
func ParseSide(v string) (Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "A":
		return SideA, true
	case "B":
		return SideB, true
	}
	return SideNone, false
}

// Weather 天气
type Weather string

const (
	WeatherClear     Weather = "clear"
	WeatherRain      Weather = "rain"
	WeatherSunny     Weather = "sunny"
	WeatherSandstorm Weather = "sandstorm"
	WeatherHail      Weather = "hail"
	WeatherSnow      Weather = "snow"
	WeatherFog       Weather = "fog"
)

var allWeathers = []Weather{WeatherClear, WeatherRain, WeatherSunny, WeatherSandstorm, WeatherHail, WeatherSnow, WeatherFog}

// WeatherNames 所有天气取值
func WeatherNames() []string {
	names := make([]string, len(allWeathers))
	for i, w := range allWeathers {
		names[i] = string(w)
	}
	return names
}

// ParseWeather 解析天气
func ParseWeather(v string) (Weather, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, w := range allWeathers {
		if string(w) == v {
			return w, true
		}
	}
	return "", false
}

// Terrain 场地
type Terrain string

const (
	TerrainNormal   Terrain = "normal"
	TerrainElectric Terrain = "electric"
	TerrainGrassy   Terrain = "grassy"
	TerrainMisty    Terrain = "misty"
	TerrainPsychic  Terrain = "psychic"
)

var allTerrains = []Terrain{TerrainNormal, TerrainElectric, TerrainGrassy, TerrainMisty, TerrainPsychic}

// TerrainNames 所有场地取值
func TerrainNames() []string {
	names := make([]string, len(allTerrains))
	for i, t := range allTerrains {
		names[i] = string(t)
	}
	return names
}

// ParseTerrain 解析场地
func ParseTerrain(v string) (Terrain, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, t := range allTerrains {
		if string(t) == v {
			return t, true
		}
	}
	return "", false
}

// StatusCondition 异常状态，同一时间只能有一种
type StatusCondition string

const (
	StatusNone      StatusCondition = "none"
	StatusPoison    StatusCondition = "poison"
	StatusParalysis StatusCondition = "paralysis"
	StatusSleep     StatusCondition = "sleep"
	StatusBurn      StatusCondition = "burn"
	StatusFreeze    StatusCondition = "freeze"
)

// ParseStatusCondition 解析异常状态，空串视为 none
func ParseStatusCondition(v string) (StatusCondition, bool) {
	switch StatusCondition(strings.ToLower(strings.TrimSpace(v))) {
	case "", StatusNone:
		return StatusNone, true
	case StatusPoison:
		return StatusPoison, true
	case StatusParalysis:
		return StatusParalysis, true
	case StatusSleep:
		return StatusSleep, true
	case StatusBurn:
		return StatusBurn, true
	case StatusFreeze:
		return StatusFreeze, true
	}
	return StatusNone, false
}

// MoveCategory 招式分类
type MoveCategory string

const (
	CategoryPhysical MoveCategory = "physical"
	CategorySpecial  MoveCategory = "special"
	CategoryStatus   MoveCategory = "status"
)

// ActionType 动作类型
type ActionType string

const (
	ActionAttack   ActionType = "attack"
	ActionUseItem  ActionType = "use_item"
	ActionRelease  ActionType = "release"
	ActionWithdraw ActionType = "withdraw"
	ActionFlee     ActionType = "flee"

	// 以下类型只出现在日志中
	ActionStart      ActionType = "start"
	ActionJoin       ActionType = "join"
	ActionStatusTick ActionType = "status_tick"
	ActionSystem     ActionType = "system"
	ActionForfeit    ActionType = "forfeit"
	ActionResolve    ActionType = "resolve"
)

// Stat 可被能力等级修正的属性
type Stat string

const (
	StatAttack    Stat = "attack"
	StatDefense   Stat = "defense"
	StatSpAttack  Stat = "sp_attack"
	StatSpDefense Stat = "sp_defense"
	StatSpeed     Stat = "speed"
	StatAccuracy  Stat = "accuracy"
)

const (
	MinStage = -6
	MaxStage = 6
)

// StageMultiplier 能力等级倍率: +n -> (2+n)/2, -n -> 2/(2+n)
func StageMultiplier(stage int) float64 {
	stage = clampInt(stage, MinStage, MaxStage)
	if stage >= 0 {
		return float64(2+stage) / 2
	}
	return 2 / float64(2-stage)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
