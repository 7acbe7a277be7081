package components

import (
	"github.com/lmcneill42/space-game/ecs"
)

// Define component IDs for our game
const (
	Hitpoints ecs.ComponentID = iota + 1
	Power
	Shields
	Physics
	Animation
	Team
	Text
	Thrusters
	Tracking
	FollowsTracked
	ShootsAtTracked
	Weapon
	LaunchesFighters
	KillOnTimer
	ExplodesOnDeath
	EndProgramOnDeath
	DamageOnContact
	Turrets
	Turret // Set on turret housings by the Turrets factory
)
