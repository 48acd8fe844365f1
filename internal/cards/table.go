package cards

// table holds every card the battle game knows about, keyed by id.
// Costs are paid in sacrifice points.
var table = map[string]Definition{
	// Minions
	"goblin_scout":   {ID: "goblin_scout", Name: "Goblin Scout", Kind: KindMinion, Cost: 1, Attack: 1, HP: 2},
	"militia":        {ID: "militia", Name: "Militia", Kind: KindMinion, Cost: 1, Attack: 2, HP: 1},
	"stone_golem":    {ID: "stone_golem", Name: "Stone Golem", Kind: KindMinion, Cost: 3, Attack: 2, HP: 5},
	"swamp_raider":   {ID: "swamp_raider", Name: "Swamp Raider", Kind: KindMinion, Cost: 2, Attack: 3, HP: 2},
	"temple_guard":   {ID: "temple_guard", Name: "Temple Guard", Kind: KindMinion, Cost: 2, Attack: 1, HP: 4},
	"fire_drake":     {ID: "fire_drake", Name: "Fire Drake", Kind: KindMinion, Cost: 4, Attack: 4, HP: 3},
	"night_assassin": {ID: "night_assassin", Name: "Night Assassin", Kind: KindMinion, Cost: 3, Attack: 4, HP: 1, DirectAttack: true},
	"wind_rider":     {ID: "wind_rider", Name: "Wind Rider", Kind: KindMinion, Cost: 3, Attack: 3, HP: 2, DirectAttack: true},
	"ancient_treant": {ID: "ancient_treant", Name: "Ancient Treant", Kind: KindMinion, Cost: 5, Attack: 4, HP: 7},
	"bone_colossus":  {ID: "bone_colossus", Name: "Bone Colossus", Kind: KindMinion, Cost: 6, Attack: 6, HP: 6},
	"shield_bearer":  {ID: "shield_bearer", Name: "Shield Bearer", Kind: KindMinion, Cost: 1, Attack: 0, HP: 4},
	"arc_mage":       {ID: "arc_mage", Name: "Arc Mage", Kind: KindMinion, Cost: 4, Attack: 5, HP: 2},

	// Equipment (hero weapons, consumed per swing)
	"iron_sword":   {ID: "iron_sword", Name: "Iron Sword", Kind: KindEquip, Cost: 2, Attack: 2, UseCount: 2},
	"war_axe":      {ID: "war_axe", Name: "War Axe", Kind: KindEquip, Cost: 3, Attack: 3, UseCount: 2},
	"sun_lance":    {ID: "sun_lance", Name: "Sun Lance", Kind: KindEquip, Cost: 4, Attack: 4, UseCount: 3},
	"cursed_blade": {ID: "cursed_blade", Name: "Cursed Blade", Kind: KindEquip, Cost: 5, Attack: 5, UseCount: 1, DirectAttack: true},

	// Effects and traps (back-row cards)
	"healing_rain": {ID: "healing_rain", Name: "Healing Rain", Kind: KindEffect, Cost: 2},
	"mana_spring":  {ID: "mana_spring", Name: "Mana Spring", Kind: KindEffect, Cost: 1},
	"spike_pit":    {ID: "spike_pit", Name: "Spike Pit", Kind: KindTrap, Cost: 2},
	"mirror_ward":  {ID: "mirror_ward", Name: "Mirror Ward", Kind: KindTrap, Cost: 3},
}

// StarterDeck returns a fresh copy of the default 30-card deck used when a
// player joins without submitting a custom deck.
func StarterDeck() []string {
	base := []string{
		"goblin_scout", "goblin_scout", "militia", "militia",
		"shield_bearer", "shield_bearer", "temple_guard", "temple_guard",
		"swamp_raider", "swamp_raider", "stone_golem", "stone_golem",
		"night_assassin", "wind_rider", "fire_drake", "fire_drake",
		"arc_mage", "arc_mage", "ancient_treant", "bone_colossus",
		"iron_sword", "iron_sword", "war_axe", "sun_lance",
		"healing_rain", "healing_rain", "mana_spring", "mana_spring",
		"spike_pit", "mirror_ward",
	}
	return append([]string(nil), base...)
}
