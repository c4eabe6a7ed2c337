package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/cory-johannsen/simbridge/internal/bridge/command"
	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// statHandler adjusts one primary statistic during character creation,
// spending a point to raise it or refunding one to lower it.
func (d *Dispatcher) statHandler(increase bool) handlerFunc {
	return func(_ context.Context, req command.ParseResult) Response {
		if len(req.Args) < 1 {
			return fail("usage=stat_inc <stat> or stat_dec <stat>")
		}
		if !d.sim.EditorCreationMode() {
			return fail("stat_changes_available_only_in_chargen")
		}
		player := d.sim.Player()
		if player == nil {
			return fail("player_unavailable")
		}
		stat, found := parseSpecialStat(req.Arg(0))
		if !found {
			return fail("invalid_special_stat")
		}

		if increase {
			if d.sim.CharacterPoints() <= 0 {
				return fail("no_character_points_remaining")
			}
			if err := d.sim.IncStat(player, stat); err != nil {
				return fail("stat_increase_failed")
			}
			d.sim.SetCharacterPoints(d.sim.CharacterPoints() - 1)
		} else {
			if err := d.sim.DecStat(player, stat); err != nil {
				return fail("stat_decrease_failed")
			}
			d.sim.SetCharacterPoints(d.sim.CharacterPoints() + 1)
		}
		d.sim.RecalcDerived(player)

		return ok(fmt.Sprintf("stat=%s\nvalue=%d\nremaining_points=%d",
			textutil.Escape(d.sim.StatName(stat)),
			d.sim.StatLevel(player, stat),
			d.sim.CharacterPoints(),
		))
	}
}

func (d *Dispatcher) handleTagSkill(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=tag_skill <skill_name>")
	}
	if !d.sim.EditorCreationMode() {
		return fail("tag_skill_available_only_in_chargen")
	}
	skill := parseSkill(d.sim, req.Rest(0))
	if skill < 0 {
		return fail("invalid_skill")
	}

	wasTagged := d.skillTagged(skill)
	if !wasTagged && d.sim.RemainingTagSkills() <= 0 {
		return fail("no_tag_skill_slots_remaining")
	}
	if err := d.sim.ToggleTagSkill(skill); err != nil {
		return fail("tag_skill_toggle_failed")
	}
	return ok(fmt.Sprintf("skill=%s\ntagged=%d\nremaining_tag_skills=%d",
		textutil.Escape(d.sim.SkillName(skill)),
		flag(!wasTagged),
		d.sim.RemainingTagSkills(),
	))
}

func (d *Dispatcher) handleTraitSelect(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=trait_select <trait_name_or_index>")
	}
	if !d.sim.EditorCreationMode() {
		return fail("trait_select_available_only_in_chargen")
	}
	trait := parseTrait(d.sim, req.Rest(0))
	if trait < 0 {
		return fail("invalid_trait")
	}

	wasSelected := d.traitSelected(trait)
	if !wasSelected && d.sim.RemainingTraits() <= 0 {
		return fail("no_trait_slots_remaining")
	}
	if err := d.sim.ToggleTrait(trait); err != nil {
		return fail("trait_toggle_failed")
	}
	return ok(fmt.Sprintf("trait=%s\nselected=%d\nremaining_traits=%d",
		textutil.Escape(d.sim.TraitName(trait)),
		flag(!wasSelected),
		d.sim.RemainingTraits(),
	))
}

// handleSetName types a name into the editor's name field: open the field,
// send at most NameEntryMaxLength printable characters, then confirm.
func (d *Dispatcher) handleSetName(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=set_name <name>")
	}
	name := req.Rest(0)
	if name == "" {
		return fail("empty_name")
	}

	d.sim.QueueKey(sim.KeyNameEntry)
	sent := 0
	for i := 0; i < len(name) && sent < sim.NameEntryMaxLength; i++ {
		ch := int(name[i])
		if ch >= sim.KeyFirstInputCharacter && ch <= sim.KeyLastInputCharacter {
			d.sim.QueueKey(ch)
			sent++
		}
	}
	d.sim.QueueKey(sim.KeyReturn)
	return ok(fmt.Sprintf("name_input_sent=1 chars=%d", sent))
}

// handleDone confirms the editor. During creation it refuses while points or
// tag slots remain or a statistic is out of range.
func (d *Dispatcher) handleDone(context.Context, command.ParseResult) Response {
	if d.sim.EditorActive() && d.sim.EditorCreationMode() {
		points := d.sim.CharacterPoints()
		tags := d.sim.RemainingTagSkills()
		invalid := d.sim.HasInvalidSpecialStats()
		if points > 0 || tags > 0 || invalid {
			var b strings.Builder
			b.WriteString("done_ready=0\n")
			fmt.Fprintf(&b, "remaining_character_points=%d\n", points)
			fmt.Fprintf(&b, "remaining_tag_skills=%d\n", tags)
			fmt.Fprintf(&b, "special_over_10=%d", flag(invalid))
			return fail(b.String())
		}
	}
	return d.queueKey(sim.KeyReturn)
}

func (d *Dispatcher) skillTagged(skill int) bool {
	for i := range sim.TaggedSkillSlots {
		if d.sim.TempTagSkill(i) == skill {
			return true
		}
	}
	return false
}

func (d *Dispatcher) traitSelected(trait int) bool {
	for i := range sim.TraitSlots {
		if d.sim.TempTrait(i) == trait {
			return true
		}
	}
	return false
}

// flag renders a boolean as 0 or 1.
func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
