package responses

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/serenity-chat/server/internal/agent/model"
)

// Rand is the random source used to pick templates. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// NewRand returns a seeded source, or the global one when seed is zero.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		return globalRand{}
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Selection is the outcome of choosing a reply for one analysis.
type Selection struct {
	Response  string
	FollowUp  string
	Intensity model.Intensity
	// Repeated is set when every template was used recently and one had to be reused.
	Repeated bool
}

// Text joins response and follow-up with a single space.
func (s Selection) Text() string {
	return strings.TrimSpace(s.Response + " " + s.FollowUp)
}

// Selector picks templates while steering clear of recently issued ones.
// The random source is shared across conversations and guarded by a mutex.
type Selector struct {
	mu  sync.Mutex
	rng Rand
}

func NewSelector(rng Rand) *Selector {
	if rng == nil {
		rng = globalRand{}
	}
	return &Selector{rng: rng}
}

func (s *Selector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Select chooses a reply for the analysis and records it in cache.
func (s *Selector) Select(cache *Cache, analysis model.Analysis) Selection {
	intensity := analysis.Intensity()
	key := CacheKey{Category: analysis.Sentiment, Intensity: intensity}

	pool := Templates(analysis.Sentiment, intensity)
	fresh := make([]string, 0, len(pool))
	for _, candidate := range pool {
		if !cache.Contains(key, candidate) {
			fresh = append(fresh, candidate)
		}
	}

	sel := Selection{
		FollowUp:  FollowUp(analysis.Sentiment, intensity),
		Intensity: intensity,
	}
	if len(fresh) > 0 {
		sel.Response = fresh[s.intn(len(fresh))]
	} else {
		sel.Response = pool[s.intn(len(pool))]
		sel.Repeated = true
	}

	cache.Push(key, sel.Response)
	return sel
}

// Reply builds the public reply for an analysis and its selection.
func Reply(analysis model.Analysis, sel Selection) *model.Reply {
	return &model.Reply{
		Response:  sel.Text(),
		Sentiment: analysis.Sentiment,
		Strength:  analysis.Strength,
		FollowUp:  sel.FollowUp,
	}
}
