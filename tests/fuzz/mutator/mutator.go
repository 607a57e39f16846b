package mutator

import (
	"math/rand"
	"strings"
)

// SignatureMutator applies random mutations to signature strings, producing
// near-valid inputs that exercise the parser's error paths.
type SignatureMutator struct {
	rnd *rand.Rand
}

// NewSignatureMutator creates a new SignatureMutator with the given seed.
func NewSignatureMutator(seed int64) *SignatureMutator {
	return &SignatureMutator{rnd: rand.New(rand.NewSource(seed))}
}

// Mutate applies one random mutation to the signature string.
func (m *SignatureMutator) Mutate(sig string) string {
	switch m.rnd.Intn(8) {
	case 0:
		return m.duplicateParam(sig)
	case 1:
		return m.dropParam(sig)
	case 2:
		return m.injectRest(sig)
	case 3:
		return m.injectOptional(sig)
	case 4:
		return strings.Replace(sig, "|", ",", 1)
	case 5:
		return strings.Replace(sig, ",", "|", 1)
	case 6:
		return m.flipCase(sig)
	case 7:
		return m.injectNoise(sig)
	}
	return sig
}

// MutateN applies up to n stacked mutations.
func (m *SignatureMutator) MutateN(sig string, n int) string {
	for i := 0; i < 1+m.rnd.Intn(n); i++ {
		sig = m.Mutate(sig)
	}
	return sig
}

func (m *SignatureMutator) duplicateParam(sig string) string {
	parts := strings.Split(sig, ",")
	i := m.rnd.Intn(len(parts))
	out := make([]string, 0, len(parts)+1)
	out = append(out, parts[:i+1]...)
	out = append(out, parts[i:]...)
	return strings.Join(out, ",")
}

func (m *SignatureMutator) dropParam(sig string) string {
	parts := strings.Split(sig, ",")
	if len(parts) < 2 {
		return ""
	}
	i := m.rnd.Intn(len(parts))
	return strings.Join(append(parts[:i], parts[i+1:]...), ",")
}

func (m *SignatureMutator) injectRest(sig string) string {
	parts := strings.Split(sig, ",")
	i := m.rnd.Intn(len(parts))
	parts[i] = "..." + strings.TrimSpace(parts[i])
	return strings.Join(parts, ",")
}

func (m *SignatureMutator) injectOptional(sig string) string {
	parts := strings.Split(sig, ",")
	i := m.rnd.Intn(len(parts))
	parts[i] = strings.TrimSpace(parts[i]) + "?"
	return strings.Join(parts, ",")
}

func (m *SignatureMutator) flipCase(sig string) string {
	if sig == "" {
		return sig
	}
	i := m.rnd.Intn(len(sig))
	c := sig[i]
	switch {
	case c >= 'a' && c <= 'z':
		c = c - 'a' + 'A'
	case c >= 'A' && c <= 'Z':
		c = c - 'A' + 'a'
	default:
		return sig
	}
	return sig[:i] + string(c) + sig[i+1:]
}

var noise = []string{"|", ",", "...", "?", " ", "||", ",,", "nope"}

func (m *SignatureMutator) injectNoise(sig string) string {
	n := noise[m.rnd.Intn(len(noise))]
	if sig == "" {
		return n
	}
	i := m.rnd.Intn(len(sig) + 1)
	return sig[:i] + n + sig[i:]
}
