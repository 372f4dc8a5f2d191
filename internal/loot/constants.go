package loot

// Count bounds for a single generation request.
const (
	MinCount     = 1
	MaxCount     = 25
	DefaultCount = 3
)

// Tier bias exponents by loot source. The sampling weight of a pool entry is
// (tier+1)^bias, so a larger bias skews draws toward higher tiers.
const (
	TierBiasMob     = 0.9
	TierBiasChest   = 1.0
	TierBiasShop    = 1.0
	TierBiasCustom  = 1.0
	TierBiasBoss    = 1.2
	TierBiasDefault = 1.0
)

// MinWeight keeps every pool entry drawable even at tier 0 with a negative
// bias.
const MinWeight = 0.01

// TagMagic is appended to any instance that received an affix or bonus.
const TagMagic = "magic"

// PoolCacheSize bounds the LRU of filtered eligible pools. Filter
// combinations repeat heavily within a session (the DM reuses a handful of
// generator presets), so a small cache suffices.
const PoolCacheSize = 64
