package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntent(t *testing.T) {
	testCases := []struct {
		name     string
		keys     KeySet
		side     PaddleSide
		expected int
	}{
		{"Left_None", KeySet{}, Left, 0},
		{"Left_Up", KeySet{KeyW: true}, Left, 1},
		{"Left_Down", KeySet{KeyS: true}, Left, -1},
		{"Left_Both", KeySet{KeyW: true, KeyS: true}, Left, 0},
		{"Left_IgnoresRightKeys", KeySet{KeyArrowUp: true}, Left, 0},
		{"Left_ReleasedKey", KeySet{KeyW: false}, Left, 0},

		{"Right_None", KeySet{}, Right, 0},
		{"Right_Up", KeySet{KeyArrowUp: true}, Right, 1},
		{"Right_Down", KeySet{KeyArrowDown: true}, Right, -1},
		{"Right_Both", KeySet{KeyArrowUp: true, KeyArrowDown: true}, Right, 0},
		{"Right_IgnoresLeftKeys", KeySet{KeyW: true, KeyS: true}, Right, 0},
		{"Right_MixedSides", KeySet{KeyW: true, KeyArrowDown: true}, Right, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Intent(tc.keys, tc.side))
		})
	}
}

func TestIntent_NilSource(t *testing.T) {
	assert.Equal(t, 0, Intent(nil, Left))
}

func TestDefaultBindings_AreDisjoint(t *testing.T) {
	seen := map[Key]bool{}
	for _, b := range DefaultBindings {
		for _, k := range []Key{b.Up, b.Down} {
			require.False(t, seen[k], "key %s is bound twice", k)
			seen[k] = true
		}
	}
}

func TestParseKey(t *testing.T) {
	for _, name := range []string{"KeyW", "KeyS", "ArrowUp", "ArrowDown"} {
		k, ok := ParseKey(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, string(k))
	}
	for _, name := range []string{"", "ArrowLeft", "keyw", "Space"} {
		_, ok := ParseKey(name)
		assert.False(t, ok, "%q should be rejected", name)
	}
}
