package tactical

import "minewright.ai/internal/protocol"

// Base danger ratings by entity type, on a 0-10 scale before normalization.
// Unknown entity types rate 1.0.
var entityDangerRatings = map[string]float64{
	// High danger (5+).
	"warden":       10.0,
	"ender_dragon": 10.0,
	"wither":       10.0,
	"witch":        6.0,
	"vindicator":   5.0,
	"evoker":       5.0,
	"piglin_brute": 5.0,

	// Medium-high danger (3-4).
	"creeper":       4.0,
	"zombie_pigman": 4.0,
	"blaze":         3.5,
	"ghast":         3.5,
	"bogged":        3.0,

	// Medium danger (2).
	"skeleton":    2.5,
	"stray":       2.5,
	"spider":      2.0,
	"cave_spider": 2.5,
	"drowned":     2.0,
	"husk":        2.0,
	"phantom":     2.5,

	// Low-medium danger (1).
	"zombie":          1.5,
	"zombie_villager": 1.5,
	"slime":           1.0,
	"silverfish":      1.0,

	// Only dangerous if provoked.
	"enderman": 0.5,

	// Neutral.
	"piglin":   0.0,
	"villager": 0.0,
	"animal":   0.0,
}

const unknownEntityDanger = 1.0

type hazardousBlock struct {
	HazardType   string
	BaseSeverity float64
	Radius       float64
}

// Block types that hurt on contact or proximity.
var hazardousBlocks = map[string]hazardousBlock{
	"lava":             {HazardType: protocol.HazardLava, BaseSeverity: 1.0, Radius: 3},
	"fire":             {HazardType: protocol.HazardFire, BaseSeverity: 0.7, Radius: 2},
	"magma_block":      {HazardType: protocol.HazardFire, BaseSeverity: 0.5, Radius: 1},
	"campfire":         {HazardType: protocol.HazardFire, BaseSeverity: 0.3, Radius: 1},
	"sweet_berry_bush": {HazardType: protocol.HazardDamage, BaseSeverity: 0.2, Radius: 0},
	"wither_rose":      {HazardType: protocol.HazardDamage, BaseSeverity: 0.4, Radius: 0},
	"cactus":           {HazardType: protocol.HazardDamage, BaseSeverity: 0.3, Radius: 0},
}
