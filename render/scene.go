package render

import (
	"fmt"
	"strings"

	"github.com/lmcneill42/space-game/components"
	"github.com/lmcneill42/space-game/ecs"
)

// Describe summarises an entity on one line: its handle followed by team,
// hitpoints, shields and position when it has them.
func Describe(e *ecs.Entity) string {
	var b strings.Builder
	b.WriteString(e.String())
	if team, ok := ecs.Get[*components.TeamComponent](e); ok && team.Team != "" {
		fmt.Fprintf(&b, " [%s]", team.Team)
	}
	if hp, ok := ecs.Get[*components.HitpointsComponent](e); ok {
		fmt.Fprintf(&b, " hp=%.0f/%.0f", hp.HP, hp.MaxHP)
	}
	if shields, ok := ecs.Get[*components.ShieldsComponent](e); ok {
		fmt.Fprintf(&b, " shields=%.0f/%.0f", shields.HP, shields.MaxHP)
	}
	if body, ok := ecs.Get[*components.PhysicsComponent](e); ok {
		fmt.Fprintf(&b, " pos=(%.0f,%.0f)", body.Position.X, body.Position.Y)
	}
	return b.String()
}

// Scene describes every entity in the world, top-level entities first
// with the entities they own indented below them.
func Scene(world *ecs.World) []string {
	var lines []string
	var walk func(e *ecs.Entity, depth int)
	walk = func(e *ecs.Entity, depth int) {
		lines = append(lines, strings.Repeat("  ", depth)+Describe(e))
		for _, id := range e.Children {
			if child := world.GetEntity(id); child != nil {
				walk(child, depth+1)
			}
		}
	}

	for _, e := range world.GetAllEntities() {
		if e.Parent == 0 || world.GetEntity(e.Parent) == nil {
			walk(e, 0)
		}
	}
	return lines
}
