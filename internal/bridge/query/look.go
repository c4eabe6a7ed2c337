package query

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// Look partitions what the avatar perceives into report sections.
type Look struct {
	NPCs       []Nearby
	Items      []Nearby
	Containers []Nearby
	Doors      []Nearby
	Exits      []Nearby
	Scenery    []Nearby
}

// Survey classifies every visible object.
//
// Postcondition: Each section is sorted; all sections are empty when there
// is no avatar.
func Survey(s Scene) Look {
	var look Look
	for _, n := range Visible(s) {
		switch Classify(s, n.Object) {
		case CategoryNPC:
			look.NPCs = append(look.NPCs, n)
		case CategoryExit:
			look.Exits = append(look.Exits, n)
		case CategoryDoor:
			look.Doors = append(look.Doors, n)
		case CategoryContainer:
			look.Containers = append(look.Containers, n)
		case CategoryItem:
			look.Items = append(look.Items, n)
		case CategoryScenery:
			look.Scenery = append(look.Scenery, n)
		}
	}
	return look
}

// LookReport renders Survey as six sections: NPCS, ITEMS, CONTAINERS,
// DOORS, EXITS and SCENERY.
func LookReport(s Scene) string {
	look := Survey(s)
	player := s.Player()
	var b strings.Builder

	b.WriteString("[NPCS]\n")
	fmt.Fprintf(&b, "count=%d\n", len(look.NPCs))
	for _, n := range look.NPCs {
		writeLookEntry(&b, n)
		fmt.Fprintf(&b, " hp=%d/%d hostile=%d\n",
			hitPoints(n.Object), s.StatLevel(n.Object, sim.StatMaxHitPoints), hostile(player, n.Object))
	}

	writeLookSection(&b, "ITEMS", look.Items, nil)
	writeLookSection(&b, "CONTAINERS", look.Containers, nil)
	writeLookSection(&b, "DOORS", look.Doors, func(obj *sim.Object) string {
		return " state=" + DoorState(obj)
	})
	writeLookSection(&b, "EXITS", look.Exits, func(obj *sim.Object) string {
		return fmt.Sprintf(" pid=0x%x", obj.PID)
	})
	writeLookSection(&b, "SCENERY", look.Scenery, nil)
	return b.String()
}

// DoorState is "locked", "open" or "closed".
func DoorState(obj *sim.Object) string {
	switch {
	case obj.Portal == nil:
		return "closed"
	case obj.Portal.Locked:
		return "locked"
	case obj.Portal.Open:
		return "open"
	default:
		return "closed"
	}
}

func writeLookSection(b *strings.Builder, title string, entries []Nearby, extra func(*sim.Object) string) {
	fmt.Fprintf(b, "\n[%s]\n", title)
	fmt.Fprintf(b, "count=%d\n", len(entries))
	for _, n := range entries {
		writeLookEntry(b, n)
		if extra != nil {
			b.WriteString(extra(n.Object))
		}
		b.WriteByte('\n')
	}
}

func writeLookEntry(b *strings.Builder, n Nearby) {
	obj := n.Object
	fmt.Fprintf(b, "[%d] name=%s distance=%d direction=%s tile=%d",
		obj.ID, textutil.Escape(obj.Name), n.Distance, n.DirectionLabel(), obj.Tile)
}
