package config

// GameConfig holds all loaded configuration tables. Tables are populated
// once at startup and treated as immutable afterwards, so any system can
// read them without synchronization.
type GameConfig struct {
	Sim       *SimConfig
	Animals   AnimalsConfig
	Abilities AbilitiesConfig
	Bosses    BossesConfig
}

// SimConfig is the root config for sim.json.
type SimConfig struct {
	World   WorldConfig   `json:"world"`
	Falling FallingConfig `json:"falling"`
	Wobble  WobbleConfig  `json:"wobble"`
	Session SessionConfig `json:"session"`
}

// WorldConfig describes the playfield geometry in world units.
// The simulation is world-unit only; the renderer owns the single
// world-to-screen scale factor.
type WorldConfig struct {
	HalfWidth      float64 `json:"halfWidth"`
	SpawnHeight    float64 `json:"spawnHeight"`
	FloorY         float64 `json:"floorY"`
	KillY          float64 `json:"killY"`
	CatchTolerance float64 `json:"catchTolerance"`
	UnitHeight     float64 `json:"unitHeight"` // vertical spacing per stack index
}

// FallingConfig tunes the falling-behavior steering terms.
type FallingConfig struct {
	BaseFallSpeed      float64 `json:"baseFallSpeed"`
	MaxSpeed           float64 `json:"maxSpeed"`
	SteerStrength      float64 `json:"steerStrength"`
	ZigzagAmplitude    float64 `json:"zigzagAmplitude"`
	ZigzagFrequency    float64 `json:"zigzagFrequency"`
	ZigzagDrift        float64 `json:"zigzagDrift"`
	DiveDelayMs        float64 `json:"diveDelayMs"`
	DiveAccel          float64 `json:"diveAccel"`
	FloaterSpeedFactor float64 `json:"floaterSpeedFactor"`
	FloaterDrift       float64 `json:"floaterDrift"`
	SwarmCohesion      float64 `json:"swarmCohesion"`
}

// WobbleConfig tunes the stack spring-damper model.
type WobbleConfig struct {
	Damping         float64 `json:"damping"`
	Springiness     float64 `json:"springiness"`
	DangerThreshold float64 `json:"dangerThreshold"`
	ToppleThreshold float64 `json:"toppleThreshold"`
	MaxOffset       float64 `json:"maxOffset"`
	MaxVelocity     float64 `json:"maxVelocity"`
	JitterMax       float64 `json:"jitterMax"`
	LandingImpact   float64 `json:"landingImpact"`
	ConfusedMs      float64 `json:"confusedMs"`
	ScatterSpeed    float64 `json:"scatterSpeed"`
}

// SessionConfig tunes the session layer.
type SessionConfig struct {
	StartLives    int     `json:"startLives"`
	MinBankSize   int     `json:"minBankSize"`
	ComboWindowMs float64 `json:"comboWindowMs"`
	WaveMs        float64 `json:"waveMs"`
	SpawnEveryMs  float64 `json:"spawnEveryMs"`
}

// AnimalsConfig is the root config for animals.json, keyed by subtype.
type AnimalsConfig map[string]VariantConfig

// VariantConfig is the data-driven description of one animal variant.
// Adding a variant means adding an entry here, not a new type.
type VariantConfig struct {
	Weight         float64       `json:"weight"` // 0..1, drives the banking weight bonus
	Scale          float64       `json:"scale"`
	Behavior       string        `json:"behavior"`
	FallSpeed      float64       `json:"fallSpeed"`
	StabilityBonus float64       `json:"stabilityBonus"`
	SizeCategory   string        `json:"sizeCategory"` // small | medium | large
	SpawnWeight    int           `json:"spawnWeight"`
	MinWave        int           `json:"minWave"`
	Physics        PhysicsConfig `json:"physics"`
}

// PhysicsConfig holds static per-variant physics constants.
type PhysicsConfig struct {
	Mass        float64 `json:"mass"`
	Restitution float64 `json:"restitution"`
	Friction    float64 `json:"friction"`
}

// AbilitiesConfig is the root config for abilities.json, keyed by ability id.
type AbilitiesConfig map[string]AbilityConfig

// AbilityConfig covers every ability variant; unused fields stay zero.
// Times are milliseconds in config; the consuming system converts to
// seconds where it arms the timer.
type AbilityConfig struct {
	CooldownMs float64 `json:"cooldownMs"`
	DurationMs float64 `json:"durationMs"`
	Charges    int     `json:"charges,omitempty"` // 0 means unlimited

	// magnet
	Projectiles     int     `json:"projectiles,omitempty"`
	ProjectileSpeed float64 `json:"projectileSpeed,omitempty"`
	CaptureRadius   float64 `json:"captureRadius,omitempty"`
	PullStrength    float64 `json:"pullStrength,omitempty"`
	PullMs          float64 `json:"pullMs,omitempty"`

	// attraction
	PassiveRadius   float64 `json:"passiveRadius,omitempty"`
	PassiveStrength float64 `json:"passiveStrength,omitempty"`
	ActiveRadius    float64 `json:"activeRadius,omitempty"`
	ActiveStrength  float64 `json:"activeStrength,omitempty"`
	LargeExemptMass float64 `json:"largeExemptMass,omitempty"`

	// slow / freeze
	Factor float64 `json:"factor,omitempty"`

	// stabilize
	SpringinessFactor float64 `json:"springinessFactor,omitempty"`
	DangerBonus       float64 `json:"dangerBonus,omitempty"`

	// boop
	Waves       int     `json:"waves,omitempty"`
	WaveDelayMs float64 `json:"waveDelayMs,omitempty"`
	WaveRadius  float64 `json:"waveRadius,omitempty"`
	WaveForce   float64 `json:"waveForce,omitempty"`
}

// BossesConfig is the root config for bosses.json, keyed by boss type.
type BossesConfig map[string]BossConfig

// BossConfig describes one boss type. Scale and fall-speed multiplier are
// fixed per type.
type BossConfig struct {
	Health          int     `json:"health"`
	Reward          int     `json:"reward"`
	Scale           float64 `json:"scale"`
	FallSpeedFactor float64 `json:"fallSpeedFactor"`
	PhaseIntervalMs float64 `json:"phaseIntervalMs,omitempty"`
	PhaseDurationMs float64 `json:"phaseDurationMs,omitempty"`
	DodgeStrength   float64 `json:"dodgeStrength,omitempty"`
	SpawnWeight     int     `json:"spawnWeight"`
	MinWave         int     `json:"minWave"`
}
