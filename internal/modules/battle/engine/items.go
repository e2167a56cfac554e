package engine

import "strings"

// ItemKind 道具类别
type ItemKind int

const (
	ItemHeal ItemKind = iota + 1
	ItemCure
	ItemBall
)

// FullHeal 表示回满体力
const FullHeal = -1

// Item 对战中可使用的道具
type Item struct {
	Name string
	Kind ItemKind
	// HealAmount 回复量，FullHeal 表示回满
	HealAmount int
	// Cures 可解除的状态，空表示不解除；CuresAll 解除任意状态
	Cures    StatusCondition
	CuresAll bool
	// CatchRate 精灵球的基础捕获率
	CatchRate float64
}

var battleItems = []Item{
	{Name: "Potion", Kind: ItemHeal, HealAmount: 20},
	{Name: "Super Potion", Kind: ItemHeal, HealAmount: 50},
	{Name: "Hyper Potion", Kind: ItemHeal, HealAmount: 200},
	{Name: "Max Potion", Kind: ItemHeal, HealAmount: FullHeal},
	{Name: "Full Restore", Kind: ItemHeal, HealAmount: FullHeal, CuresAll: true},

	{Name: "Antidote", Kind: ItemCure, Cures: StatusPoison},
	{Name: "Burn Heal", Kind: ItemCure, Cures: StatusBurn},
	{Name: "Paralyze Heal", Kind: ItemCure, Cures: StatusParalysis},
	{Name: "Awakening", Kind: ItemCure, Cures: StatusSleep},
	{Name: "Ice Heal", Kind: ItemCure, Cures: StatusFreeze},
	{Name: "Full Heal", Kind: ItemCure, CuresAll: true},

	{Name: "Poke Ball", Kind: ItemBall, CatchRate: 0.5},
	{Name: "Great Ball", Kind: ItemBall, CatchRate: 0.65},
	{Name: "Ultra Ball", Kind: ItemBall, CatchRate: 0.8},
	{Name: "Master Ball", Kind: ItemBall, CatchRate: 1.0},
	{Name: "Premier Ball", Kind: ItemBall, CatchRate: 0.5},
	{Name: "Timer Ball", Kind: ItemBall, CatchRate: 0.6},
	{Name: "Repeat Ball", Kind: ItemBall, CatchRate: 0.7},
	{Name: "Net Ball", Kind: ItemBall, CatchRate: 0.6},
	{Name: "Dive Ball", Kind: ItemBall, CatchRate: 0.6},
}

// DefaultCatchRate 未登记的球类道具
const DefaultCatchRate = 0.5

func normalizeItemName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "é", "e")
	return strings.Join(strings.Fields(name), "")
}

// IsBall 名称中包含 ball 的道具都按精灵球处理
func IsBall(name string) bool {
	return strings.Contains(normalizeItemName(name), "ball")
}

// LookupItem 查找道具，大小写、空格不敏感
func LookupItem(name string) (Item, bool) {
	key := normalizeItemName(name)
	if key == "" {
		return Item{}, false
	}
	for _, it := range battleItems {
		if normalizeItemName(it.Name) == key {
			return it, true
		}
	}
	if IsBall(name) {
		return Item{Name: strings.TrimSpace(name), Kind: ItemBall, CatchRate: DefaultCatchRate}, true
	}
	return Item{}, false
}

// CanonicalItemName 道具的标准名称，未知道具原样返回
func CanonicalItemName(name string) string {
	if it, ok := LookupItem(name); ok {
		return it.Name
	}
	return strings.TrimSpace(name)
}
