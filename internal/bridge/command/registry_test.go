package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Len(t, r.Commands(), len(BuiltinCommands()))
}

func TestResolve_CanonicalName(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("goto")
	require.True(t, ok)
	assert.Equal(t, "goto", cmd.Name)
	assert.Equal(t, CategoryMovement, cmd.Category)
}

func TestResolve_Alias(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("inv")
	require.True(t, ok)
	assert.Equal(t, "inventory", cmd.Name)
}

func TestResolve_NotFound(t *testing.T) {
	r := DefaultRegistry()

	_, ok := r.Resolve("teleport")
	assert.False(t, ok)
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "look"}, {Name: "look"}})
	assert.Error(t, err)
}

func TestNewRegistry_AliasCollision(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "look", Aliases: []string{"l"}},
		{Name: "list", Aliases: []string{"l"}},
	})
	assert.Error(t, err)

	_, err = NewRegistry([]Command{
		{Name: "look", Aliases: []string{"state"}},
		{Name: "state"},
	})
	assert.Error(t, err)
}

func TestHelpText(t *testing.T) {
	help := DefaultRegistry().HelpText()
	lines := strings.Split(help, "\n")

	require.Len(t, lines, 14)
	assert.Equal(t, "Commands:", lines[0])
	assert.Equal(t, "state | look | help | debug_objects | debug_nearby", lines[1])
	assert.Equal(t, "key <code|name>", lines[3])
	assert.Equal(t, "attack <target_id> [body_part] | end_turn | reload | change_weapon | flee", lines[9])
	assert.Equal(t, "save <slot> | pipboy | character | automap | sneak", lines[13])
	assert.False(t, strings.HasSuffix(help, "\n"))
}

func TestPropertyEveryCommandResolves(t *testing.T) {
	r := DefaultRegistry()
	cmds := BuiltinCommands()
	rapid.Check(t, func(t *rapid.T) {
		cmd := rapid.SampledFrom(cmds).Draw(t, "cmd")
		got, ok := r.Resolve(cmd.Name)
		if !ok || got.Name != cmd.Name {
			t.Fatalf("command %q did not resolve to itself", cmd.Name)
		}
		if !strings.HasPrefix(got.Usage, got.Name) {
			t.Fatalf("usage %q does not start with %q", got.Usage, got.Name)
		}
	})
}
