package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/simbridge/internal/bridge/query"
	"github.com/cory-johannsen/simbridge/internal/game/engine"
	"github.com/cory-johannsen/simbridge/internal/game/world"
	"github.com/cory-johannsen/simbridge/internal/sim"
	"github.com/cory-johannsen/simbridge/internal/testutil"
)

// rowScenario places everything on row 100 so sight lines stay on that row.
// The player stands at column 100 (tile 20100).
const rowScenario = `
scenario:
  name: row
  map: ROW.MAP
  player:
    id: 1
    name: Scout
    tile: 20100
    critter:
      hit_points: 20
      stats:
        perception: 5
    inventory:
      - id: 20
        pid: 0x0000020
        name: Backpack
        item_type: container
        inventory:
          - id: 21
            pid: 0x0000021
            name: Map
            item_type: misc
  objects:
    - id: 2
      pid: 0x1000002
      name: Raider
      tile: 20103
      critter:
        hit_points: 10
        team: 1
    - id: 3
      pid: 0x1000003
      name: Dog
      tile: 20097
      critter:
        hit_points: 8
    - id: 5
      pid: 0x5000011
      name: Exit Grid
      tile: 20105
      flags: [flat, no_block]
    - id: 6
      pid: 0x2000001
      name: Door
      tile: 20095
      portal: {}
    - id: 7
      pid: 0x0000007
      name: Bag
      tile: 20101
      item_type: container
    - id: 8
      pid: 0x2000002
      name: Bed
      tile: 20102
    - id: 9
      pid: 0x2000003
      name: Wall Light
      tile: 20106
    - id: 10
      pid: 0x2000004
      name: Ladder
      tile: 20107
      scenery_type: ladder_up
    - id: 11
      pid: 0x0000011
      name: Stash
      tile: 20101
      flags: [hidden]
    - id: 12
      pid: 0x1000012
      name: Far Raider
      tile: 20120
      critter:
        hit_points: 10
        team: 1
    - id: 13
      pid: 0x0000013
      name: Behind Door
      tile: 20093
    - id: 14
      pid: 0x0000014
      name: Upstairs
      tile: 20100
      elevation: 1
    - id: 15
      pid: 0x2000005
      name: Crate
      tile: 20099
      inventory:
        - id: 16
          pid: 0x0000016
          name: Ammo Box
          item_type: container
          inventory:
            - id: 17
              pid: 0x0000017
              name: Note
    - id: 18
      pid: 0x0000018
      name: "Rope\nCoil"
      tile: 20104
    - id: 19
      pid: 0x5000012
      name: Exit Grid
      tile: 20098
      flags: [flat, no_block, hidden]
`

func newRow(t *testing.T, edits ...func(*world.Scenario)) *engine.Engine {
	t.Helper()
	sc := testutil.LoadScenario(t, rowScenario)
	for _, edit := range edits {
		edit(sc)
	}
	return testutil.NewEngine(t, sc, nil)
}

func ids(entries []query.Nearby) []int {
	out := make([]int, 0, len(entries))
	for _, n := range entries {
		out = append(out, n.Object.ID)
	}
	return out
}

func TestPerceptionRange(t *testing.T) {
	e := newRow(t)
	assert.Equal(t, 15, query.PerceptionRange(e))

	low := newRow(t, func(sc *world.Scenario) { sc.Player.Critter.Stats["perception"] = 1 })
	assert.Equal(t, 6, query.PerceptionRange(low))
}

func TestVisible_FiltersAndSorts(t *testing.T) {
	e := newRow(t)
	visible := query.Visible(e)

	// Raider 2 and Dog 3 tie at distance 3 and sort by id. Hidden stash 11,
	// far raider 12, the item behind the closed door 13 and the object on
	// another elevation 14 are all left out.
	assert.Equal(t, []int{7, 15, 8, 2, 3, 18, 5, 6, 9, 10}, ids(visible))

	assert.Equal(t, 1, visible[0].Distance)
	assert.Equal(t, sim.RotationE, visible[0].Direction)
	assert.Equal(t, "e", visible[0].DirectionLabel())
}

func TestVisible_HereForSharedTile(t *testing.T) {
	e := newRow(t)
	bag := query.FindWorldObject(e, 7)
	require.NoError(t, e.Teleport(bag, 20100, 0))

	visible := query.Visible(e)
	require.NotEmpty(t, visible)
	assert.Equal(t, 7, visible[0].Object.ID)
	assert.Equal(t, 0, visible[0].Distance)
	assert.Equal(t, "here", visible[0].DirectionLabel())
}

func TestClassify(t *testing.T) {
	e := newRow(t)
	cases := map[int]query.Category{
		2:  query.CategoryNPC,
		5:  query.CategoryExit,
		6:  query.CategoryDoor,
		7:  query.CategoryContainer,
		8:  query.CategoryScenery,
		9:  query.CategoryNone,
		10: query.CategoryScenery,
		15: query.CategoryContainer,
		18: query.CategoryItem,
	}
	for id, want := range cases {
		obj := query.FindWorldObject(e, id)
		require.NotNil(t, obj, "object %d", id)
		assert.Equal(t, want, query.Classify(e, obj), "object %d", id)
	}
}

func TestIsNotableScenery_ExcludeWins(t *testing.T) {
	e := newRow(t)
	bed := query.FindWorldObject(e, 8)

	bed.Name = "Computer Panel"
	assert.True(t, query.IsNotableScenery(e, bed))
	bed.Name = "Pipe Console"
	assert.False(t, query.IsNotableScenery(e, bed))
	bed.Name = "Rock"
	assert.False(t, query.IsNotableScenery(e, bed))
}

func TestCurrentMode(t *testing.T) {
	e := newRow(t)
	assert.Equal(t, query.ModeExploration, query.CurrentMode(e))

	e.QueueKey(sim.KeyLowercaseP)
	e.Tick()
	assert.Equal(t, query.ModePipboy, query.CurrentMode(e))

	menu := newRow(t, func(sc *world.Scenario) { sc.StartMode = world.StartMainMenu })
	assert.Equal(t, query.ModeMainMenu, query.CurrentMode(menu))

	chargen := newRow(t, func(sc *world.Scenario) { sc.StartMode = world.StartChargen })
	assert.Equal(t, query.ModeChargen, query.CurrentMode(chargen))

	worldmap := newRow(t, func(sc *world.Scenario) { sc.StartMode = world.StartWorldMap })
	assert.Equal(t, query.ModeWorldMap, query.CurrentMode(worldmap))
}

func TestFindInventoryObject_DescendsContainersOnly(t *testing.T) {
	e := newRow(t)

	mapItem := query.FindInventoryObject(e, e.Player(), 21)
	require.NotNil(t, mapItem)
	assert.Equal(t, "Map", mapItem.Name)

	crate := query.FindWorldObject(e, 15)
	assert.NotNil(t, query.FindInventoryObject(e, crate, 17))
	assert.Nil(t, query.FindInventoryObject(e, nil, 17))
	assert.Nil(t, query.FindInventoryObject(e, e.Player(), 999))
}

func TestFindAnyObject_WorldThenInventory(t *testing.T) {
	e := newRow(t)
	assert.Equal(t, "Raider", query.FindAnyObject(e, 2).Name)
	assert.Equal(t, "Backpack", query.FindAnyObject(e, 20).Name)
	assert.Nil(t, query.FindAnyObject(e, 16))
}

func TestNearestExitGrid(t *testing.T) {
	e := newRow(t)

	// The hidden grid 19 is closer than 5 and still counts.
	nearest := query.NearestExitGrid(e, query.DebugRange)
	require.NotNil(t, nearest)
	assert.Equal(t, 19, nearest.ID)

	assert.Nil(t, query.NearestExitGrid(e, 1))
}

func TestTypeLabel(t *testing.T) {
	e := newRow(t)
	assert.Equal(t, "door", query.TypeLabel(query.FindWorldObject(e, 6)))
	assert.Equal(t, "scenery", query.TypeLabel(query.FindWorldObject(e, 8)))
	assert.Equal(t, "critter", query.TypeLabel(query.FindWorldObject(e, 2)))
	assert.Equal(t, "misc", query.TypeLabel(query.FindWorldObject(e, 5)))
}

func TestPropertySortOrdersByDistanceThenID(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		entries := make([]query.Nearby, n)
		for i := range entries {
			entries[i] = query.Nearby{
				Object:   &sim.Object{ID: rapid.IntRange(1, 1000).Draw(rt, "id")},
				Distance: rapid.IntRange(0, 20).Draw(rt, "distance"),
			}
		}
		query.Sort(entries)
		for i := 1; i < len(entries); i++ {
			a, b := entries[i-1], entries[i]
			if a.Distance > b.Distance || (a.Distance == b.Distance && a.Object.ID > b.Object.ID) {
				rt.Fatalf("entries %d and %d out of order: %+v %+v", i-1, i, a, b)
			}
		}
	})
}

func TestPropertyPerceptionRangeFloor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pe := rapid.IntRange(1, 10).Draw(rt, "perception")
		sc := testutil.LoadScenario(t, rowScenario)
		sc.Player.Critter.Stats["perception"] = pe
		e, err := engine.New(sc, engine.Options{Logger: zap.NewNop(), Source: testutil.FixedSource{}})
		if err != nil {
			rt.Fatalf("engine: %v", err)
		}
		defer e.Close()
		if got := query.PerceptionRange(e); got != max(6, pe*3) {
			rt.Fatalf("perception %d: range %d", pe, got)
		}
	})
}
