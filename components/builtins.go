package components

import (
	"image/color"

	"github.com/lmcneill42/space-game/ecs"
)

// Qualified names older configs use for the built-in types.
var builtinAliases = map[string]string{
	"src.behaviours.Hitpoints":          "Hitpoints",
	"src.behaviours.Power":              "Power",
	"src.behaviours.Shields":            "Shields",
	"src.behaviours.Team":               "Team",
	"src.behaviours.Text":               "Text",
	"src.behaviours.AnimationComponent": "Animation",
	"src.behaviours.Thrusters":          "Thrusters",
	"src.behaviours.Tracking":           "Tracking",
	"src.behaviours.FollowsTracked":     "FollowsTracked",
	"src.behaviours.ShootsAtTracked":    "ShootsAtTracked",
	"src.behaviours.Weapon":             "Weapon",
	"src.behaviours.LaunchesFighters":   "LaunchesFighters",
	"src.behaviours.KillOnTimer":        "KillOnTimer",
	"src.behaviours.ExplodesOnDeath":    "ExplodesOnDeath",
	"src.behaviours.EndProgramOnDeath":  "EndProgramOnDeath",
	"src.behaviours.DamageOnContact":    "DamageOnContact",
	"src.behaviours.Turrets":            "Turrets",
	"src.behaviours.Turret":             "Turret",
	"src.physics.Physics":               "Physics",
	"src.physics.Body":                  "Physics",
	"Body":                              "Physics",
	"AnimationComponent":                "Animation",
}

// DefaultRegistry returns a registry holding every built-in component.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

// RegisterBuiltins adds the built-in components and their aliases to r.
func RegisterBuiltins(r *Registry) {
	r.Register("Hitpoints", Spec{
		ID:     Hitpoints,
		Schema: Schema{{Name: "hp", Kind: FieldNumber, Required: true}},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return NewHitpointsComponent(p.Float("hp", 0)), nil
		},
	})

	r.Register("Power", Spec{
		ID: Power,
		Schema: Schema{
			{Name: "capacity", Kind: FieldNumber, Required: true},
			{Name: "recharge_rate", Kind: FieldNumber, Required: true},
			{Name: "overload_time", Kind: FieldNumber},
		},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return NewPowerComponent(p.Float("capacity", 0), p.Float("recharge_rate", 0), p.Float("overload_time", 5)), nil
		},
	})

	r.Register("Shields", Spec{
		ID: Shields,
		Schema: Schema{
			{Name: "hp", Kind: FieldNumber, Required: true},
			{Name: "recharge_rate", Kind: FieldNumber, Required: true},
			{Name: "overload_time", Kind: FieldNumber},
		},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return NewShieldsComponent(p.Float("hp", 0), p.Float("recharge_rate", 0), p.Float("overload_time", 5)), nil
		},
	})

	r.Register("Physics", Spec{
		ID: Physics,
		Schema: Schema{
			{Name: "mass", Kind: FieldNumber},
			{Name: "size", Kind: FieldNumber},
			{Name: "is_collideable", Kind: FieldBool},
		},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			mass := p.Float("mass", 1)
			if mass <= 0 {
				return nil, invalid(p.Path("mass"), "must be positive, got %g", mass)
			}
			return NewPhysicsComponent(mass, p.Float("size", 5), p.Bool("is_collideable", true)), nil
		},
	})

	r.Register("Animation", Spec{
		ID: Animation,
		Schema: Schema{
			{Name: "anim_name", Kind: FieldString, Required: true},
			{Name: "kill_on_finish", Kind: FieldBool},
			{Name: "brightness", Kind: FieldNumber},
		},
		Factory: func(p Params, ctx BuildContext) (ecs.Component, error) {
			h, err := ctx.Animations().Animation(p.String("anim_name", ""))
			if err != nil {
				return nil, &ComponentConstructionError{Param: p.Path("anim_name"), Err: err}
			}
			return &AnimationComponent{
				Anim:         h,
				KillOnFinish: p.Bool("kill_on_finish", false),
				Brightness:   p.Float("brightness", 0),
			}, nil
		},
	})

	r.Register("Team", Spec{
		ID:     Team,
		Schema: Schema{{Name: "team", Kind: FieldString}},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return &TeamComponent{Team: p.String("team", "")}, nil
		},
	})

	r.Register("Text", Spec{
		ID: Text,
		Schema: Schema{
			{Name: "font_name", Kind: FieldString, Required: true},
			{Name: "text", Kind: FieldString},
			{Name: "font_size", Kind: FieldInt},
			{Name: "small_font_size", Kind: FieldInt},
			{Name: "font_colour", Kind: FieldMapping},
			{Name: "blink", Kind: FieldBool},
			{Name: "blink_period", Kind: FieldNumber},
		},
		Factory: newText,
	})

	r.Register("Thrusters", Spec{
		ID:     Thrusters,
		Schema: Schema{{Name: "thrusters", Kind: FieldSequence}},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return &ThrustersComponent{Thrusters: p.Seq("thrusters")}, nil
		},
	})

	r.Register("Tracking", Spec{
		ID:     Tracking,
		Schema: Schema{{Name: "track_type", Kind: FieldString}},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return &TrackingComponent{TrackType: p.String("track_type", "team")}, nil
		},
	})

	r.Register("FollowsTracked", Spec{
		ID: FollowsTracked,
		Schema: Schema{
			{Name: "follow_type", Kind: FieldString},
			{Name: "desired_distance_to_player", Kind: FieldNumber},
			{Name: "acceleration", Kind: FieldNumber},
		},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			followType := p.String("follow_type", "accelerate")
			if followType != "accelerate" && followType != "direct" {
				return nil, invalid(p.Path("follow_type"), "unknown follow type %q", followType)
			}
			return &FollowsTrackedComponent{
				FollowType:      followType,
				DesiredDistance: p.Float("desired_distance_to_player", 0),
				Acceleration:    p.Float("acceleration", 0),
			}, nil
		},
	})

	r.Register("ShootsAtTracked", Spec{
		ID: ShootsAtTracked,
		Schema: Schema{
			{Name: "fire_period", Kind: FieldNumber},
			{Name: "burst_period", Kind: FieldNumber},
		},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			s := &ShootsAtTrackedComponent{
				FireTimer:  NewTimer(p.Float("fire_period", 1)),
				BurstTimer: NewTimer(p.Float("burst_period", 1)),
			}
			// The first burst comes early
			s.FireTimer.AdvanceToFraction(0.8)
			return s, nil
		},
	})

	r.Register("Weapon", Spec{
		ID: Weapon,
		Schema: Schema{
			{Name: "type", Kind: FieldString},
			{Name: "bullet_config", Kind: FieldConfigRef},
			{Name: "shots_per_second", Kind: FieldNumber},
			{Name: "bullet_speed", Kind: FieldNumber},
			{Name: "spread", Kind: FieldNumber},
			{Name: "range", Kind: FieldNumber},
			{Name: "radius", Kind: FieldNumber},
			{Name: "damage", Kind: FieldNumber},
			{Name: "power_usage", Kind: FieldNumber},
		},
		Factory: newWeapon,
	})

	r.Register("LaunchesFighters", Spec{
		ID: LaunchesFighters,
		Schema: Schema{
			{Name: "fighter_config", Kind: FieldConfigRef, Required: true},
			{Name: "spawn_period", Kind: FieldNumber, Required: true},
			{Name: "num_fighters", Kind: FieldInt},
			{Name: "takeoff_speed", Kind: FieldNumber},
			{Name: "takeoff_spread", Kind: FieldNumber},
		},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return &LaunchesFightersComponent{
				FighterConfig: p.Config("fighter_config"),
				SpawnTimer:    NewTimer(p.Float("spawn_period", 0)),
				NumFighters:   p.Int("num_fighters", 1),
				TakeoffSpeed:  p.Float("takeoff_speed", 0),
				TakeoffSpread: p.Float("takeoff_spread", 0),
			}, nil
		},
	})

	r.Register("KillOnTimer", Spec{
		ID:     KillOnTimer,
		Schema: Schema{{Name: "lifetime", Kind: FieldNumber, Required: true}},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return &KillOnTimerComponent{Lifetime: NewTimer(p.Float("lifetime", 0))}, nil
		},
	})

	r.Register("ExplodesOnDeath", Spec{
		ID: ExplodesOnDeath,
		Schema: Schema{
			{Name: "explosion_config", Kind: FieldConfigRef, Required: true},
			{Name: "shake_factor", Kind: FieldNumber},
			{Name: "sound", Kind: FieldString},
		},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return &ExplodesOnDeathComponent{
				ExplosionConfig: p.Config("explosion_config"),
				ShakeFactor:     p.Float("shake_factor", 1),
				Sound:           p.String("sound", ""),
			}, nil
		},
	})

	r.Register("EndProgramOnDeath", Spec{
		ID: EndProgramOnDeath,
		Factory: func(Params, BuildContext) (ecs.Component, error) {
			return &EndProgramOnDeathComponent{}, nil
		},
	})

	r.Register("DamageOnContact", Spec{
		ID:     DamageOnContact,
		Schema: Schema{{Name: "damage", Kind: FieldNumber}},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return &DamageOnContactComponent{Damage: p.Float("damage", 0)}, nil
		},
	})

	r.Register("Turrets", Spec{
		ID: Turrets,
		Schema: Schema{{Name: "turrets", Kind: FieldList, Item: Schema{
			{Name: "position", Kind: FieldPosition, Required: true},
			{Name: "turret_config", Kind: FieldEntityRef, Required: true},
			{Name: "weapon_config", Kind: FieldEntityRef, Required: true, Owner: "turret_config"},
		}}},
		Factory: newTurrets,
	})

	r.Register("Turret", Spec{
		ID:     Turret,
		Schema: Schema{{Name: "position", Kind: FieldPosition}},
		Factory: func(p Params, _ BuildContext) (ecs.Component, error) {
			return &TurretComponent{Position: p.Position("position")}, nil
		},
	})

	for alias, name := range builtinAliases {
		r.Alias(alias, name)
	}
}

func newText(p Params, _ BuildContext) (ecs.Component, error) {
	colour := color.RGBA{255, 255, 255, 255}
	if m := p.Mapping("font_colour"); m != nil {
		for _, ch := range []struct {
			key string
			dst *uint8
		}{{"red", &colour.R}, {"green", &colour.G}, {"blue", &colour.B}} {
			v, ok := m.Get(ch.key)
			if !ok {
				continue
			}
			n, ok := v.AsInt()
			if !ok || n < 0 || n > 255 {
				return nil, invalid(p.Path("font_colour."+ch.key), "expected 0-255, got %s", v)
			}
			*ch.dst = uint8(n)
		}
	}

	blinkPeriod := p.Float("blink_period", 1)
	return &TextComponent{
		Text:          p.String("text", "Hello, world!"),
		FontName:      p.String("font_name", ""),
		FontSize:      p.Int("font_size", 32),
		SmallFontSize: p.Int("small_font_size", 14),
		FontColour:    colour,
		Blink:         p.Bool("blink", false),
		BlinkTimer:    NewTimer(blinkPeriod),
		Visible:       true,
	}, nil
}

func newWeapon(p Params, _ BuildContext) (ecs.Component, error) {
	weaponType := p.String("type", "projectile_thrower")
	switch weaponType {
	case "projectile_thrower":
		if !p.Has("bullet_config") {
			return nil, invalid(p.Path("bullet_config"), "required for %s weapons", weaponType)
		}
	case "beam":
	default:
		return nil, invalid(p.Path("type"), "unknown weapon type %q", weaponType)
	}

	shots := p.Float("shots_per_second", 1)
	w := &WeaponComponent{
		Type:           weaponType,
		BulletConfig:   p.Config("bullet_config"),
		ShotsPerSecond: shots,
		BulletSpeed:    p.Float("bullet_speed", 0),
		Spread:         p.Float("spread", 0),
		Range:          p.Float("range", 0),
		Radius:         p.Float("radius", 2),
		Damage:         p.Float("damage", 0),
		PowerUsage:     p.Float("power_usage", 0),
	}
	if shots > 0 {
		w.ShotTimer = NewTimer(1 / shots)
	}
	return w, nil
}

// newTurrets records each mount and marks its housing with a Turret
// component pointing at the carried weapon.
func newTurrets(p Params, _ BuildContext) (ecs.Component, error) {
	items := p.Items("turrets")
	t := &TurretsComponent{Mounts: make([]TurretMount, 0, len(items))}
	for _, item := range items {
		housing := item.Entity("turret_config")
		weapon := item.Entity("weapon_config")
		if housing == nil || weapon == nil {
			return nil, invalid(item.Path("turret_config"), "turret entities were not built")
		}
		pos := item.Position("position")
		if err := housing.AddComponent(&TurretComponent{Position: pos, Weapon: weapon.ID}); err != nil {
			return nil, &ComponentConstructionError{Param: item.Path("turret_config"), Err: err}
		}
		t.Mounts = append(t.Mounts, TurretMount{Position: pos, Turret: housing.ID, Weapon: weapon.ID})
	}
	return t, nil
}
