package game

// Key names a physical key, using the host engine's key code names.
type Key string

const (
	KeyW         Key = "KeyW"
	KeyS         Key = "KeyS"
	KeyArrowUp   Key = "ArrowUp"
	KeyArrowDown Key = "ArrowDown"
)

// ParseKey accepts the key names the paddles are bound to.
func ParseKey(name string) (Key, bool) {
	switch k := Key(name); k {
	case KeyW, KeyS, KeyArrowUp, KeyArrowDown:
		return k, true
	}
	return "", false
}

// KeySource answers whether a key is held during the current frame.
type KeySource interface {
	Pressed(Key) bool
}

// KeySet is a KeySource backed by a set of held keys.
type KeySet map[Key]bool

func (s KeySet) Pressed(k Key) bool { return s[k] }

// Binding is the up/down key pair owned by one paddle.
type Binding struct {
	Up   Key
	Down Key
}

// DefaultBindings gives each paddle a disjoint key pair.
var DefaultBindings = [2]Binding{
	Left:  {Up: KeyW, Down: KeyS},
	Right: {Up: KeyArrowUp, Down: KeyArrowDown},
}

// Intent maps held keys to a direction in {-1, 0, +1} for the paddle on side.
// Up and down held together cancel out.
func Intent(keys KeySource, side PaddleSide) int {
	return DefaultBindings[side].Intent(keys)
}

// Intent is the direction requested by the keys of this binding.
func (b Binding) Intent(keys KeySource) int {
	if keys == nil {
		return 0
	}
	intent := 0
	if keys.Pressed(b.Up) {
		intent++
	}
	if keys.Pressed(b.Down) {
		intent--
	}
	return intent
}
