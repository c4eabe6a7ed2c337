// Package testutil provides test helpers: reference-simulation fixtures and a
// client for the bridge's file transport.
package testutil

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/simbridge/internal/game/engine"
	"github.com/cory-johannsen/simbridge/internal/game/world"
)

// ArenaScenario is a small exploration map used across package tests.
//
// Layout on elevation 0 (tile = row*200 + col):
//   - player 1 at 20100 carrying pistol 10 (right hand, 1 round), bullets 11,
//     stimpaks 12, jacket 13
//   - rat 100 at 20104 (hostile, 4 east of the player)
//   - locked door 102 at 20299 (adjacent, south-west)
//   - exit grid 103 at 20900 leading to NEXT.MAP tile 30000
//   - guard 104 at 19504 with a dialogue, behind wall 101 at 19502
//   - rope 105 at 20102
//   - terminal 106 at 20099 with an on_use script
//   - locker 107 at 20098 holding a flare 108
const ArenaScenario = `
scenario:
  name: arena
  map: ARENA.MAP
  start_mode: exploration
  character_points: 0
  world_x: 10
  world_y: 10
  tagged_skills: [0, 6, 9]
  player:
    id: 1
    name: Tester
    tile: 20100
    critter:
      hit_points: 20
      stats:
        perception: 5
        agility: 6
        endurance: 6
    inventory:
      - id: 10
        pid: 0x0000001
        name: Pistol
        description: A trusty sidearm.
        item_type: weapon
        equip: right
        weapon:
          damage: 1d4
          ap_cost: 4
          reload_ap: 2
          range: 10
          ammo: 1
          capacity: 6
          ammo_pid: 0x0000002
      - id: 11
        pid: 0x0000002
        name: Bullets
        item_description: Standard rounds.
        item_type: ammo
        quantity: 10
      - id: 12
        pid: 0x0000003
        name: Stimpak
        item_type: drug
        heal: 10
        quantity: 2
      - id: 13
        pid: 0x0000004
        name: Jacket
        item_type: armor
        armor_class: 5
  objects:
    - id: 100
      pid: 0x1000001
      name: Rat
      tile: 20104
      critter:
        hit_points: 10
        team: 1
        damage: 1d2
    - id: 101
      pid: 0x3000001
      name: Wall
      tile: 19502
    - id: 102
      pid: 0x2000001
      name: Door
      tile: 20299
      portal:
        locked: true
    - id: 103
      pid: 0x5000010
      name: Exit Grid
      tile: 20900
      flags: [flat, no_block]
      exit:
        map: NEXT.MAP
        tile: 30000
    - id: 104
      pid: 0x1000002
      name: Guard
      tile: 19504
      critter:
        hit_points: 30
      dialogue:
        start: hello
        nodes:
          - id: hello
            reply: "• Move along."
            options:
              - text: "• What is this place?"
                next: place
              - text: "• Goodbye."
          - id: place
            reply: "• The arena."
            options:
              - text: "• Bye."
    - id: 105
      pid: 0x0000005
      name: Rope
      tile: 20102
      item_type: misc
    - id: 106
      pid: 0x2000002
      name: Terminal
      tile: 20099
      script: |
        function on_use()
          engine.display("ACCESS DENIED.")
          return true
        end
    - id: 107
      pid: 0x2000003
      name: Locker
      tile: 20098
      inventory:
        - id: 108
          pid: 0x0000006
          name: Flare
          item_type: misc
  towns:
    - name: Alpha
      known: true
      x: 10
      y: 10
    - name: Beta
      x: 50
      y: 10
    - name: Gamma
      known: true
      x: 20
      y: 30
  messages:
    - Welcome to the arena.
`

// FixedSource is a dice source that always returns the same value, clamped
// to the requested range. The zero value makes every roll a 1.
type FixedSource struct {
	Value int
}

// Intn returns min(Value, n-1).
func (f FixedSource) Intn(n int) int {
	return min(f.Value, n-1)
}

// LoadScenario parses yamlText or fails the test.
func LoadScenario(t testing.TB, yamlText string) *world.Scenario {
	t.Helper()
	sc, err := world.LoadScenarioFromBytes([]byte(yamlText))
	if err != nil {
		t.Fatalf("loading scenario: %v", err)
	}
	return sc
}

// NewEngine builds an engine over sc whose dice always roll 1.
//
// Postcondition: The engine is closed when the test ends.
func NewEngine(t *testing.T, sc *world.Scenario, saves engine.SlotStore) *engine.Engine {
	t.Helper()
	e, err := engine.New(sc, engine.Options{
		Logger: zaptest.NewLogger(t),
		Saves:  saves,
		Source: FixedSource{},
	})
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

// NewArena builds an engine over ArenaScenario with optional edits applied
// before the engine starts.
func NewArena(t *testing.T, edits ...func(*world.Scenario)) *engine.Engine {
	t.Helper()
	sc := LoadScenario(t, ArenaScenario)
	for _, edit := range edits {
		edit(sc)
	}
	return NewEngine(t, sc, nil)
}
