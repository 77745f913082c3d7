package encouragement

import (
	"math/rand/v2"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/serenity-chat/server/internal/agent/model"
	"github.com/serenity-chat/server/internal/metrics"
)

// Rand is the random source for line selection and the reply gate.
// *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// Encouragement is one generated line with the tone it was drawn from.
type Encouragement struct {
	Tone    Tone   `json:"tone"`
	Message string `json:"message"`
}

// Generator produces short encouraging lines for chat messages.
type Generator struct {
	cfg     model.EncouragementConfig
	metrics *metrics.Metrics

	mu  sync.Mutex
	rng Rand
}

func NewGenerator(cfg model.EncouragementConfig, rng Rand, mtr *metrics.Metrics) *Generator {
	if rng == nil {
		rng = globalRand{}
	}
	return &Generator{cfg: cfg, rng: rng, metrics: mtr}
}

// AnalyzeTone counts distinct triggers of each polarity in message.
// More negative triggers give supportive, more positive give positive,
// anything else motivational.
func AnalyzeTone(message string) Tone {
	lower := strings.ToLower(message)
	negative := countTriggers(lower, negativeTriggers)
	positive := countTriggers(lower, positiveTriggers)

	switch {
	case negative > positive:
		return ToneSupportive
	case positive > negative:
		return TonePositive
	default:
		return ToneMotivational
	}
}

func countTriggers(lower string, triggers []string) int {
	n := 0
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}

// Generate picks a random line for the tone of message.
func (g *Generator) Generate(message string) Encouragement {
	tone := AnalyzeTone(message)
	pool := encouragementTemplates[tone]

	g.mu.Lock()
	line := pool[g.rng.IntN(len(pool))]
	g.mu.Unlock()

	return Encouragement{Tone: tone, Message: line}
}

// ShouldReply gates encouragement: the message must be longer than
// MinLength characters and a random draw must fall under ReplyProbability.
func (g *Generator) ShouldReply(message string) bool {
	if utf8.RuneCountInString(message) <= g.cfg.MinLength {
		return false
	}
	g.mu.Lock()
	draw := g.rng.Float64()
	g.mu.Unlock()
	return draw < g.cfg.ReplyProbability
}

// Reply combines the gate and the generator. ok is false when the gate declined.
func (g *Generator) Reply(message string) (Encouragement, bool) {
	if !g.ShouldReply(message) {
		g.metrics.ObserveEncouragement(string(AnalyzeTone(message)), "skipped")
		return Encouragement{}, false
	}
	e := g.Generate(message)
	g.metrics.ObserveEncouragement(string(e.Tone), "sent")
	return e, true
}
