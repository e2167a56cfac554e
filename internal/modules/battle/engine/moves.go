package engine

import "strings"

// Tackle 所有精灵都会的保底招式
var Tackle = Move{Name: "Tackle", Type: TypeNormal, Category: CategoryPhysical, Power: 40, Accuracy: 100, PP: 35, MaxPP: 35}

// Struggle PP 全部耗尽后才能使用，不消耗 PP
var Struggle = Move{Name: "Struggle", Type: TypeNormal, Category: CategoryPhysical, Power: 50, Accuracy: 0}

// signatureMoves 每种属性的代表招式
var signatureMoves = map[MonsterType]Move{
	TypeNormal:   {Name: "Quick Attack", Type: TypeNormal, Category: CategoryPhysical, Power: 40, Accuracy: 100, PP: 30, MaxPP: 30},
	TypeFire:     {Name: "Ember", Type: TypeFire, Category: CategorySpecial, Power: 40, Accuracy: 100, PP: 25, MaxPP: 25},
	TypeWater:    {Name: "Water Gun", Type: TypeWater, Category: CategorySpecial, Power: 40, Accuracy: 100, PP: 25, MaxPP: 25},
	TypeElectric: {Name: "Thunder Shock", Type: TypeElectric, Category: CategorySpecial, Power: 40, Accuracy: 100, PP: 30, MaxPP: 30},
	TypeGrass:    {Name: "Vine Whip", Type: TypeGrass, Category: CategoryPhysical, Power: 45, Accuracy: 100, PP: 25, MaxPP: 25},
	TypeIce:      {Name: "Ice Shard", Type: TypeIce, Category: CategoryPhysical, Power: 40, Accuracy: 100, PP: 30, MaxPP: 30},
	TypeFighting: {Name: "Karate Chop", Type: TypeFighting, Category: CategoryPhysical, Power: 50, Accuracy: 100, PP: 25, MaxPP: 25},
	TypePoison: {Name: "Poison Sting", Type: TypePoison, Category: CategoryPhysical, Power: 15, Accuracy: 100, PP: 35, MaxPP: 35,
		StatusEffect: StatusPoison, StatusChance: 0.3},
	TypeGround:  {Name: "Mud-Slap", Type: TypeGround, Category: CategorySpecial, Power: 20, Accuracy: 100, PP: 10, MaxPP: 10},
	TypeFlying:  {Name: "Gust", Type: TypeFlying, Category: CategorySpecial, Power: 40, Accuracy: 100, PP: 35, MaxPP: 35},
	TypePsychic: {Name: "Confusion", Type: TypePsychic, Category: CategorySpecial, Power: 50, Accuracy: 100, PP: 25, MaxPP: 25},
	TypeBug:     {Name: "Bug Bite", Type: TypeBug, Category: CategoryPhysical, Power: 60, Accuracy: 100, PP: 20, MaxPP: 20},
	TypeRock:    {Name: "Rock Throw", Type: TypeRock, Category: CategoryPhysical, Power: 50, Accuracy: 90, PP: 15, MaxPP: 15},
	TypeGhost:   {Name: "Lick", Type: TypeGhost, Category: CategoryPhysical, Power: 30, Accuracy: 100, PP: 30, MaxPP: 30},
	TypeDragon:  {Name: "Dragon Breath", Type: TypeDragon, Category: CategorySpecial, Power: 60, Accuracy: 100, PP: 20, MaxPP: 20},
	TypeDark:    {Name: "Bite", Type: TypeDark, Category: CategoryPhysical, Power: 60, Accuracy: 100, PP: 25, MaxPP: 25},
	TypeSteel:   {Name: "Metal Claw", Type: TypeSteel, Category: CategoryPhysical, Power: 50, Accuracy: 95, PP: 35, MaxPP: 35},
	TypeFairy:   {Name: "Fairy Wind", Type: TypeFairy, Category: CategorySpecial, Power: 40, Accuracy: 100, PP: 30, MaxPP: 30},
}

// supportMoves 常见的变化类招式
var supportMoves = []Move{
	{Name: "Growl", Type: TypeNormal, Category: CategoryStatus, Accuracy: 100, PP: 40, MaxPP: 40,
		StatChange: StatChange{Stat: StatAttack, Stages: -1}},
	{Name: "Tail Whip", Type: TypeNormal, Category: CategoryStatus, Accuracy: 100, PP: 30, MaxPP: 30,
		StatChange: StatChange{Stat: StatDefense, Stages: -1}},
	{Name: "Swords Dance", Type: TypeNormal, Category: CategoryStatus, PP: 20, MaxPP: 20,
		StatChange: StatChange{Stat: StatAttack, Stages: 2, Self: true}},
	{Name: "Thunder Wave", Type: TypeElectric, Category: CategoryStatus, Accuracy: 90, PP: 20, MaxPP: 20,
		StatusEffect: StatusParalysis, StatusChance: 1},
	{Name: "Will-O-Wisp", Type: TypeFire, Category: CategoryStatus, Accuracy: 85, PP: 15, MaxPP: 15,
		StatusEffect: StatusBurn, StatusChance: 1},
	{Name: "Sleep Powder", Type: TypeGrass, Category: CategoryStatus, Accuracy: 75, PP: 15, MaxPP: 15,
		StatusEffect: StatusSleep, StatusChance: 1},
	{Name: "Toxic", Type: TypePoison, Category: CategoryStatus, Accuracy: 90, PP: 10, MaxPP: 10,
		StatusEffect: StatusPoison, StatusChance: 1},
}

// SignatureMove 属性的代表招式
func SignatureMove(t MonsterType) (Move, bool) {
	m, ok := signatureMoves[t]
	return m, ok
}

// LookupMove 在内置招式表中按名称查找
func LookupMove(name string) (Move, bool) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, Tackle.Name) {
		return Tackle, true
	}
	for _, m := range signatureMoves {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	for _, m := range supportMoves {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Move{}, false
}

// MaxMoves 一只精灵最多携带的招式数
const MaxMoves = 4

// DefaultMoveset 按属性生成招式组: 每个属性一个代表招式，不足时补 Tackle
func DefaultMoveset(types []MonsterType) []Move {
	moves := make([]Move, 0, MaxMoves)
	seen := make(map[string]bool)
	for _, t := range types {
		if len(moves) >= MaxMoves {
			break
		}
		if m, ok := signatureMoves[t]; ok && !seen[m.Name] {
			moves = append(moves, m)
			seen[m.Name] = true
		}
	}
	if len(moves) < MaxMoves && !seen[Tackle.Name] {
		moves = append(moves, Tackle)
	}
	return moves
}
