package systems

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/data"
	"github.com/lmcneill42/space-game/ecs"
	"github.com/lmcneill42/space-game/logger"
	"github.com/lmcneill42/space-game/spawners"
)

// Builder builds entities by config name. *spawners.Assembler implements
// it.
type Builder interface {
	Build(name string, opts ...spawners.BuildOption) (*ecs.Entity, error)
}

// WaveConfig describes the waves of enemies thrown at the player
type WaveConfig struct {
	EnemyTypes    []string // Configs each enemy is picked from
	MaxWaves      int      // Surviving this many waves wins the game
	SpawnDistance float64  // How far from the player enemies appear
	Team          string   // Team enemies are put on
	WaveMessage   string   // Text config shown while a wave prepares
	EndMessage    string   // Text config shown when the game ends
}

// DefaultWaveConfig returns the standard wave setup
func DefaultWaveConfig() WaveConfig {
	return WaveConfig{
		EnemyTypes:    []string{"enemies/destroyer.txt", "enemies/carrier.txt"},
		MaxWaves:      10,
		SpawnDistance: 500,
		Team:          "enemy",
		WaveMessage:   "messages/update_message.txt",
		EndMessage:    "messages/endgame_message.txt",
	}
}

// WaveConfigFrom reads a wave config, falling back to the defaults for
// anything res leaves out
func WaveConfigFrom(res *data.Resolved) (WaveConfig, error) {
	cfg := DefaultWaveConfig()
	if v, ok := res.Get("enemy_types"); ok {
		items, ok := v.AsSeq()
		if !ok || len(items) == 0 {
			return cfg, fmt.Errorf("waves %s: enemy_types: expected a non-empty list, got %s", res.Name, v)
		}
		cfg.EnemyTypes = make([]string, 0, len(items))
		for _, item := range items {
			name, ok := item.AsString()
			if !ok {
				return cfg, fmt.Errorf("waves %s: enemy_types: expected config names, got %s", res.Name, item)
			}
			cfg.EnemyTypes = append(cfg.EnemyTypes, name)
		}
	}
	if v, ok := res.Get("max_waves"); ok {
		n, ok := v.AsInt()
		if !ok || n < 1 {
			return cfg, fmt.Errorf("waves %s: max_waves: expected a positive integer, got %s", res.Name, v)
		}
		cfg.MaxWaves = int(n)
	}
	if v, ok := res.Get("spawn_distance"); ok {
		f, ok := v.AsFloat()
		if !ok {
			return cfg, fmt.Errorf("waves %s: spawn_distance: expected a number, got %s", res.Name, v)
		}
		cfg.SpawnDistance = f
	}
	for key, dst := range map[string]*string{
		"team":         &cfg.Team,
		"wave_message": &cfg.WaveMessage,
		"end_message":  &cfg.EndMessage,
	} {
		if v, ok := res.Get(key); ok {
			s, ok := v.AsString()
			if !ok {
				return cfg, fmt.Errorf("waves %s: %s: expected a string, got %s", res.Name, key, v)
			}
			*dst = s
		}
	}
	return cfg, nil
}

// WaveSpawnerSystem throws waves of enemies at the player, each one bigger
// than the last. Between waves a message is shown; the next wave arrives
// when it has gone.
type WaveSpawnerSystem struct {
	builder Builder
	cfg     WaveConfig
	log     logrus.FieldLogger
	rng     *rand.Rand

	wave       int
	spawned    []ecs.EntityID
	message    ecs.EntityID
	preparing  bool
	done       bool
	victory    bool
	onFinished func(victory bool)
}

// NewWaveSpawnerSystem creates a new wave spawner
func NewWaveSpawnerSystem(builder Builder, cfg WaveConfig) *WaveSpawnerSystem {
	return &WaveSpawnerSystem{
		builder: builder,
		cfg:     cfg,
		log:     logger.Get(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		wave:    1,
	}
}

// SetSeed allows setting a specific seed for reproducible waves
func (s *WaveSpawnerSystem) SetSeed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// SetFinishedHandler sets the callback run once when the player dies or
// wins
func (s *WaveSpawnerSystem) SetFinishedHandler(fn func(victory bool)) {
	s.onFinished = fn
}

// Wave returns the number of the next wave to spawn
func (s *WaveSpawnerSystem) Wave() int { return s.wave }

// Done reports whether the game has ended, and whether it was won
func (s *WaveSpawnerSystem) Done() (done, victory bool) { return s.done, s.victory }

// Update checks for the end of the game and spawns the next wave when the
// last one is wiped out
func (s *WaveSpawnerSystem) Update(world *ecs.World, dt float64) {
	if s.done {
		return
	}

	player := s.player(world)
	if player == nil {
		s.finish(false)
		return
	}

	if !s.waveIsDead(world) {
		return
	}
	if s.wave > s.cfg.MaxWaves {
		s.finish(true)
		return
	}
	if !s.preparing {
		s.prepare()
		return
	}
	if s.message != 0 && world.GetEntity(s.message) != nil {
		return
	}
	s.preparing = false
	s.message = 0
	s.spawnWave(world, player)
}

func (s *WaveSpawnerSystem) player(world *ecs.World) *ecs.Entity {
	players := world.GetEntitiesWithTag("player")
	if len(players) == 0 {
		return nil
	}
	return players[0]
}

func (s *WaveSpawnerSystem) waveIsDead(world *ecs.World) bool {
	alive := s.spawned[:0]
	for _, id := range s.spawned {
		if world.GetEntity(id) != nil {
			alive = append(alive, id)
		}
	}
	s.spawned = alive
	return len(s.spawned) == 0
}

func (s *WaveSpawnerSystem) prepare() {
	s.preparing = true
	msg, err := s.showMessage(s.cfg.WaveMessage, fmt.Sprintf("WAVE %d PREPARING", s.wave))
	if err != nil {
		s.log.WithError(err).Warn("Wave message failed to spawn")
		return
	}
	s.message = msg.ID
}

func (s *WaveSpawnerSystem) spawnWave(world *ecs.World, player *ecs.Entity) {
	var origin components.Vec2
	if body, ok := ecs.Get[*components.PhysicsComponent](player); ok {
		origin = body.Position
	}

	s.wave++
	count := s.wave - 1
	for i := 0; i < count; i++ {
		name := s.cfg.EnemyTypes[s.rng.Intn(len(s.cfg.EnemyTypes))]
		enemy, err := s.builder.Build(name, spawners.WithOverrides(teamOverride(s.cfg.Team)), spawners.WithTags("enemy"))
		if err != nil {
			s.log.WithError(err).WithField("config", name).Warn("Enemy failed to spawn")
			continue
		}
		if body, ok := ecs.Get[*components.PhysicsComponent](enemy); ok {
			rnd := s.rng.Float64()
			offset := components.Vec2{X: 1 - rnd*2, Y: 1 - (1-rnd)*2}
			body.Position = origin.Add(offset.Scale(s.cfg.SpawnDistance))
		}
		s.spawned = append(s.spawned, enemy.ID)
		world.EmitEvent(SpawnEvent{EntityID: enemy.ID, Config: name})
	}

	s.log.WithFields(logrus.Fields{
		"wave":    s.wave - 1,
		"enemies": len(s.spawned),
	}).Info("Wave spawned")
}

func (s *WaveSpawnerSystem) finish(victory bool) {
	s.done = true
	s.victory = victory
	text := "GAME OVER"
	if victory {
		text = "VICTORY"
	}
	if _, err := s.showMessage(s.cfg.EndMessage, text); err != nil {
		s.log.WithError(err).Warn("End message failed to spawn")
	}
	if s.onFinished != nil {
		s.onFinished(victory)
	}
}

func (s *WaveSpawnerSystem) showMessage(config, text string) (*ecs.Entity, error) {
	if config == "" {
		return nil, fmt.Errorf("no message config for %q", text)
	}
	return s.builder.Build(config, spawners.WithOverrides(textOverride(text)))
}

func textOverride(text string) *data.Mapping {
	return data.NewMapping(data.KV(data.KeyComponents, data.Map(data.NewMapping(
		data.KV("Text", data.Map(data.NewMapping(data.KV("text", data.String(text))))),
	))))
}
