package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/simbridge/internal/game/dice"
)

type fixedSource struct {
	values []int
	next   int
}

func (f *fixedSource) Intn(n int) int {
	v := f.values[f.next%len(f.values)] % n
	f.next++
	return v
}

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in    string
		count int
		sides int
		mod   int
	}{
		{"d20", 1, 20, 0},
		{"2d6", 2, 6, 0},
		{"2D6+3", 2, 6, 3},
		{"1d8-1", 1, 8, -1},
		{"4", 0, 0, 4},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.mod, e.Modifier)
			assert.Equal(t, tc.in, e.Raw)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "x", "0d6", "2d1", "2dx", "2d6+y"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, in)
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestRoll_UsesSource(t *testing.T) {
	res := dice.Roll(dice.MustParse("2d6+3"), &fixedSource{values: []int{3, 4}})
	assert.Equal(t, []int{4, 5}, res.Dice)
	assert.Equal(t, 12, res.Total())
	assert.Equal(t, "2d6+3 = [4 5] +3 = 12", res.String())
}

func TestRoller_Percent(t *testing.T) {
	r := dice.NewRoller(&fixedSource{values: []int{49}}, zaptest.NewLogger(t))
	assert.True(t, r.Percent(50))
	assert.False(t, r.Percent(49))
	assert.False(t, r.Percent(0))
}

func TestRoller_RollExpr_ParseError(t *testing.T) {
	r := dice.NewRoller(dice.NewCryptoSource(), zaptest.NewLogger(t))
	_, err := r.RollExpr("bad")
	assert.Error(t, err)
}

func TestCryptoSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
}

func TestPropertyRollWithinBounds(t *testing.T) {
	src := dice.NewSeededSource(7)
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 100).Draw(rt, "sides")
		mod := rapid.IntRange(-20, 20).Draw(rt, "mod")
		res := dice.Roll(dice.Expression{Raw: "x", Count: count, Sides: sides, Modifier: mod}, src)
		if len(res.Dice) != count {
			rt.Fatalf("rolled %d dice, want %d", len(res.Dice), count)
		}
		total := res.Total()
		if total < count+mod || total > count*sides+mod {
			rt.Fatalf("total %d outside [%d, %d]", total, count+mod, count*sides+mod)
		}
	})
}
