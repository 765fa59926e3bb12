package vm

// Representable word range. The positive bound is smaller than the
// magnitude of the negative bound; the asymmetry is load-bearing because
// it decides where exactly overflow and underflow wrap.
const (
	MinWord = -0x8000
	MaxWord = 0x799F

	wordModulus = 0x10000
)

// Normalize wraps v into the machine's word range by repeatedly
// subtracting the modulus while v exceeds MaxWord, then repeatedly
// adding it while v is below MinWord. Values in the dead band between
// MaxWord and the modulus midpoint come back out unchanged; callers get
// exactly what the two passes produce, never an error.
func Normalize(v int) int {
	for v > MaxWord {
		v -= wordModulus
	}
	for v < MinWord {
		v += wordModulus
	}
	return v
}
