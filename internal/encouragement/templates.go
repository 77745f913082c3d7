package encouragement

// Tone selects which pool of encouraging lines to draw from.
type Tone string

const (
	ToneSupportive   Tone = "supportive"
	TonePositive     Tone = "positive"
	ToneMotivational Tone = "motivational"
)

var negativeTriggers = []string{
	"sad", "depressed", "tired", "stressed", "anxious",
	"overwhelmed", "difficult", "struggling", "hard", "pain",
}

var positiveTriggers = []string{
	"happy", "excited", "great", "awesome", "wonderful",
	"good", "progress", "achieved", "success", "proud",
}

var encouragementTemplates = map[Tone][]string{
	TonePositive: {
		"You're doing amazing! Keep pushing forward.",
		"Believe in yourself. You have the strength to overcome any challenge.",
		"Every small step is progress. Be proud of yourself!",
		"Your potential is limitless. Keep growing and learning.",
		"You're stronger than you think. You've got this!",
		"Challenges are just opportunities in disguise. Embrace them!",
		"Your hard work and dedication will pay off. Stay focused.",
		"You are capable of incredible things. Trust your journey.",
		"Setbacks are just setups for comebacks. Keep going!",
		"Your resilience is your superpower. Never forget that.",
	},
	ToneSupportive: {
		"I'm here to support you through thick and thin.",
		"You're not alone in this. I'm always here for you.",
		"It's okay to take breaks. Self-care is important.",
		"Your feelings are valid. Take time to process them.",
		"You're doing better than you think. Be kind to yourself.",
		"Every day is a new opportunity to grow and improve.",
		"Your mental health matters. Take care of yourself.",
		"Small progress is still progress. Celebrate your wins!",
		"You have an incredible support system. Lean on them.",
		"Your journey is unique. Don't compare yourself to others.",
	},
	ToneMotivational: {
		"Success is a journey, not a destination. Enjoy the ride!",
		"Your dreams are valid. Keep working towards them.",
		"Failure is just a stepping stone to success.",
		"You have the power to create the life you want.",
		"Consistency beats intensity. Keep showing up.",
		"Your attitude determines your direction.",
		"Dream big, work hard, stay focused.",
		"The only limit is the one you set for yourself.",
		"Your potential is waiting to be unleashed.",
		"Every expert was once a beginner. Keep learning.",
	},
}

// Templates returns a copy of the lines for tone.
func Templates(tone Tone) []string {
	return append([]string(nil), encouragementTemplates[tone]...)
}
