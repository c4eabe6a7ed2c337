package query

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// DisplayLogLines is how many message-log lines the state report carries.
const DisplayLogLines = 8

// InventoryReport lists the avatar's inventory with equipped-slot tags.
func InventoryReport(w sim.World) string {
	var b strings.Builder
	writeInventory(&b, w.Player())
	return b.String()
}

func writeInventory(b *strings.Builder, player *sim.Object) {
	b.WriteString("[INVENTORY]\n")
	if player == nil {
		b.WriteString("count=0\n")
		return
	}
	fmt.Fprintf(b, "count=%d\n", len(player.Inventory))
	for _, entry := range player.Inventory {
		item := entry.Item
		fmt.Fprintf(b, "[%d] name=%s quantity=%d", item.ID, textutil.Escape(item.Name), entry.Quantity)
		if slots := equippedSlots(item); len(slots) > 0 {
			fmt.Fprintf(b, " equipped=%s", strings.Join(slots, ","))
		}
		b.WriteByte('\n')
	}
}

func equippedSlots(item *sim.Object) []string {
	var slots []string
	if item.Has(sim.FlagInLeftHand) {
		slots = append(slots, "left_hand")
	}
	if item.Has(sim.FlagInRightHand) {
		slots = append(slots, "right_hand")
	}
	if item.Has(sim.FlagWorn) {
		slots = append(slots, "armor")
	}
	return slots
}

// StateReport is the full situational dump: mode, avatar, equipment,
// inventory, surroundings, then dialogue, combat and world map sections when
// active, and the tail of the message log.
func StateReport(s Snapshot) string {
	var b strings.Builder
	player := s.Player()

	b.WriteString("[MODE]\n")
	fmt.Fprintf(&b, "mode=%s\n", CurrentMode(s))
	fmt.Fprintf(&b, "game_state=%d\n", s.GameState())
	fmt.Fprintf(&b, "map=%s\n", s.MapName())

	b.WriteString("\n[PLAYER]\n")
	if player == nil {
		b.WriteString("present=0\n")
	} else {
		writePlayer(&b, s, player)
	}

	b.WriteString("\n[EQUIPMENT]\n")
	if player == nil {
		b.WriteString("left_hand=none\nright_hand=none\narmor=none\n")
	} else {
		writeSlot(&b, "left_hand", s.LeftHand(player))
		writeSlot(&b, "right_hand", s.RightHand(player))
		writeSlot(&b, "armor", s.Worn(player))
	}

	b.WriteByte('\n')
	writeInventory(&b, player)

	b.WriteString("\n[SURROUNDINGS]\n")
	if player == nil {
		b.WriteString("count=0\n")
	} else {
		visible := Visible(s)
		fmt.Fprintf(&b, "range=%d\n", PerceptionRange(s))
		fmt.Fprintf(&b, "count=%d\n", len(visible))
		for _, n := range visible {
			writeSurrounding(&b, s, player, n)
		}
	}

	if s.DialogActive() {
		writeDialogue(&b, s)
	}
	if s.InCombat() {
		writeCombat(&b, s, player)
	}
	if s.WorldMapActive() {
		writeWorldMap(&b, s)
	}

	b.WriteString("\n[DISPLAY_LOG]\n")
	lines := s.LastMessages(DisplayLogLines)
	fmt.Fprintf(&b, "lines=%d\n", len(lines))
	for i, line := range lines {
		fmt.Fprintf(&b, "%d=%s\n", i+1, textutil.Escape(line))
	}
	return b.String()
}

func writePlayer(b *strings.Builder, s Snapshot, player *sim.Object) {
	maxHP := s.StatLevel(player, sim.StatMaxHitPoints)
	maxAP := s.StatLevel(player, sim.StatMaxActionPoints)
	ap := maxAP
	if s.InCombat() && player.Critter != nil {
		ap = player.Critter.ActionPoints
	}

	fmt.Fprintf(b, "name=%s\n", textutil.Escape(player.Name))
	fmt.Fprintf(b, "tile=%d\n", player.Tile)
	fmt.Fprintf(b, "elevation=%d\n", player.Elevation)
	fmt.Fprintf(b, "hp=%d/%d\n", hitPoints(player), maxHP)
	fmt.Fprintf(b, "ap=%d/%d\n", ap, maxAP)
	for _, stat := range []struct {
		key  string
		stat sim.Stat
	}{
		{"strength", sim.StatStrength},
		{"perception", sim.StatPerception},
		{"endurance", sim.StatEndurance},
		{"charisma", sim.StatCharisma},
		{"intelligence", sim.StatIntelligence},
		{"agility", sim.StatAgility},
		{"luck", sim.StatLuck},
		{"ac", sim.StatArmorClass},
	} {
		fmt.Fprintf(b, "%s=%d\n", stat.key, s.StatLevel(player, stat.stat))
	}
	fmt.Fprintf(b, "xp=%d\n", s.PCStat(sim.PCStatExperience))
	fmt.Fprintf(b, "level=%d\n", s.PCStat(sim.PCStatLevel))
}

func writeSlot(b *strings.Builder, key string, item *sim.Object) {
	if item == nil {
		fmt.Fprintf(b, "%s=none\n", key)
		return
	}
	fmt.Fprintf(b, "%s=[%d] %s\n", key, item.ID, textutil.Escape(item.Name))
}

// writeSurrounding renders one proximity entry; critters add vitals and
// hostility toward the avatar.
func writeSurrounding(b *strings.Builder, s sim.Stats, player *sim.Object, n Nearby) {
	obj := n.Object
	fmt.Fprintf(b, "[%d] name=%s type=%s distance=%d direction=%s",
		obj.ID, textutil.Escape(obj.Name), TypeLabel(obj), n.Distance, n.DirectionLabel())
	if obj.Type() == sim.TypeCritter {
		fmt.Fprintf(b, " hp=%d/%d hostile=%d", hitPoints(obj), s.StatLevel(obj, sim.StatMaxHitPoints), hostile(player, obj))
	}
	b.WriteByte('\n')
}

func writeDialogue(b *strings.Builder, s Snapshot) {
	b.WriteString("\n[DIALOGUE]\n")
	if target := s.DialogTarget(); target != nil {
		fmt.Fprintf(b, "npc=%s\n", textutil.Escape(target.Name))
		fmt.Fprintf(b, "npc_id=%d\n", target.ID)
	} else {
		b.WriteString("npc=none\n")
	}
	fmt.Fprintf(b, "reply=%s\n", textutil.Escape(textutil.StripDialogPrefix(s.ReplyText())))
	options := s.Options()
	fmt.Fprintf(b, "option_count=%d\n", len(options))
	for i, option := range options {
		fmt.Fprintf(b, "%d=%s\n", i+1, textutil.Escape(textutil.StripDialogPrefix(option)))
	}
}

func writeCombat(b *strings.Builder, s Snapshot, player *sim.Object) {
	b.WriteString("\n[COMBAT]\n")
	if turn := s.WhoseTurn(); turn != nil {
		fmt.Fprintf(b, "turn=[%d] %s\n", turn.ID, textutil.Escape(turn.Name))
	} else {
		b.WriteString("turn=none\n")
	}
	if player != nil && player.Critter != nil {
		fmt.Fprintf(b, "remaining_ap=%d\n", player.Critter.ActionPoints)
	}
	enemies := Enemies(s)
	fmt.Fprintf(b, "enemy_count=%d\n", len(enemies))
	for _, n := range enemies {
		obj := n.Object
		fmt.Fprintf(b, "[%d] name=%s hp=%d/%d distance=%d direction=%s\n",
			obj.ID, textutil.Escape(obj.Name), hitPoints(obj), s.StatLevel(obj, sim.StatMaxHitPoints),
			n.Distance, n.Direction)
	}
}

func writeWorldMap(b *strings.Builder, s Snapshot) {
	b.WriteString("\n[WORLDMAP]\n")
	x, y := s.WorldPosition()
	fmt.Fprintf(b, "position=%d,%d\n", x, y)
	known := s.KnownTowns()
	fmt.Fprintf(b, "known_count=%d\n", len(known))
	for _, town := range known {
		fmt.Fprintf(b, "[%d] %s\n", town, textutil.Escape(s.TownName(town)))
	}
}

func hitPoints(obj *sim.Object) int {
	if obj.Critter == nil {
		return 0
	}
	return obj.Critter.HitPoints
}

func hostile(player, obj *sim.Object) int {
	if player.Critter == nil || obj.Critter == nil || !obj.IsHostileTo(player) {
		return 0
	}
	return 1
}
