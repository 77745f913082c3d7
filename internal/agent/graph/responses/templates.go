package responses

import "github.com/serenity-chat/server/internal/agent/model"

// responseTemplates holds three canned replies for every category/intensity pair.
var responseTemplates = map[model.Category]map[model.Intensity][]string{
	model.CategoryDepression: {
		model.IntensityLow: {
			"I hear you're going through a challenging time. Your feelings are valid.",
			"Some days can feel really heavy. Would you like to talk about what's weighing on you?",
			"It's okay to not be okay. Small steps can make a big difference.",
		},
		model.IntensityMedium: {
			"Depression can feel like an overwhelming weight. Let's explore some gentle coping strategies.",
			"Your emotions are valid. Would you like to discuss ways to manage these feelings?",
			"Living with depression is challenging. What small act of self-care could help today?",
		},
		model.IntensityHigh: {
			"I sense you're experiencing deep emotional pain. Your struggle is real, and you're not alone.",
			"The weight of depression can be immense. Would you be open to discussing professional support options?",
			"Your resilience in facing these feelings is remarkable. How can we work through this together?",
		},
	},
	model.CategoryAnxiety: {
		model.IntensityLow: {
			"Anxiety can be unsettling. Let's take a deep breath together.",
			"Feeling anxious is tough. What's helping you stay grounded?",
			"Small moments of calm can make a big difference.",
		},
		model.IntensityMedium: {
			"Your anxiety is valid. Would you like to break down what's causing you stress?",
			"Anxiety often comes from uncertainty. Let's explore some strategies.",
			"Managing anxiety is a journey. What triggers have you noticed recently?",
		},
		model.IntensityHigh: {
			"Anxiety can feel overwhelming. I'm here to listen without judgment.",
			"These intense feelings are challenging. Would you be interested in learning advanced coping techniques?",
			"Your experience with anxiety is unique. How can we develop a personalized approach to managing it?",
		},
	},
	model.CategoryAnger: {
		model.IntensityLow: {
			"I notice you're feeling frustrated. It's okay to feel angry.",
			"What typically helps you process frustration?",
			"Let's explore some strategies to manage these feelings.",
		},
		model.IntensityMedium: {
			"Anger often signals that something important to you isn't being addressed. Would you like to explore the root of these feelings?",
			"Your anger is valid. Would you like to discuss ways to manage these feelings?",
			"Living with anger can be challenging. What small act of self-care could help today?",
		},
		model.IntensityHigh: {
			"Your anger is a powerful emotion that deserves careful attention. Let's work together to understand and process these intense feelings constructively.",
			"The weight of anger can be immense. Would you be open to discussing professional support options?",
			"Your resilience in facing these feelings is remarkable. How can we work through this together?",
		},
	},
	model.CategoryGrief: {
		model.IntensityLow: {
			"Grief is a deeply personal journey. There's no 'right' way to experience loss.",
			"How are you taking care of yourself today?",
			"Small moments of comfort can make a big difference.",
		},
		model.IntensityMedium: {
			"Losing someone or something important can be incredibly painful. Would you like to share more about your experience?",
			"Your emotions are valid. Would you like to discuss ways to manage these feelings?",
			"Living with grief is challenging. What small act of self-care could help today?",
		},
		model.IntensityHigh: {
			"The depth of your grief reflects the profound love and connection you've experienced. I'm here to provide a compassionate, supportive space as you navigate this challenging emotional terrain.",
			"Grief can feel overwhelming. Would you be open to discussing professional support options?",
			"Your resilience in facing these feelings is remarkable. How can we work through this together?",
		},
	},
	model.CategoryPositive: {
		model.IntensityLow: {
			"It's wonderful that you're experiencing positive emotions!",
			"What small victories are you celebrating?",
			"Small moments of joy can make a big difference.",
		},
		model.IntensityMedium: {
			"Celebrating good moments is important for mental wellness. What's contributing to your joy?",
			"Your positive emotions are valid. Would you like to discuss ways to maintain these feelings?",
			"Living with positivity is wonderful. What small act of self-care could help today?",
		},
		model.IntensityHigh: {
			"Your ability to find happiness and maintain resilience is truly admirable. Let's explore how you can continue nurturing these positive feelings.",
			"The weight of positivity can be immense. Would you be open to discussing professional support options?",
			"Your resilience in facing challenges is remarkable. How can we work through this together?",
		},
	},
	model.CategoryNeutral: {
		model.IntensityLow: {
			"I'm here to listen. What's on your mind today?",
			"Every conversation is an opportunity for reflection.",
			"Feel free to share whatever you're comfortable with.",
		},
		model.IntensityMedium: {
			"I'm interested in understanding your perspective.",
			"What would you like to explore today?",
			"Sometimes talking can provide clarity. What would you like to discuss?",
		},
		model.IntensityHigh: {
			"I'm creating a safe, non-judgmental space for you.",
			"Your thoughts and feelings are important. How can I support you?",
			"Let's dive deeper into what's meaningful to you right now.",
		},
	},
}

// followUpQuestions holds the single follow-up for every category/intensity pair.
var followUpQuestions = map[model.Category]map[model.Intensity]string{
	model.CategoryDepression: {
		model.IntensityLow:    "Would you like to share a bit more about what's been on your mind?",
		model.IntensityMedium: "How have these feelings been impacting your daily life?",
		model.IntensityHigh:   "What support systems do you currently have in place?",
	},
	model.CategoryAnxiety: {
		model.IntensityLow:    "What helps you feel a bit more calm when anxiety rises?",
		model.IntensityMedium: "Can you identify any specific triggers for your anxiety?",
		model.IntensityHigh:   "Have you considered professional strategies for managing these intense feelings?",
	},
	model.CategoryAnger: {
		model.IntensityLow:    "What typically helps you process and release frustration?",
		model.IntensityMedium: "Would you like to explore healthier ways of expressing these emotions?",
		model.IntensityHigh:   "How do these intense feelings affect your relationships and well-being?",
	},
	model.CategoryGrief: {
		model.IntensityLow:    "How are you taking care of yourself during this difficult time?",
		model.IntensityMedium: "Would you like to share a memory that brings you comfort?",
		model.IntensityHigh:   "What support do you need to navigate through this grief?",
	},
	model.CategoryPositive: {
		model.IntensityLow:    "What's bringing you joy today?",
		model.IntensityMedium: "How can you continue nurturing these positive feelings?",
		model.IntensityHigh:   "What personal strengths have helped you maintain this positive outlook?",
	},
	model.CategoryNeutral: {
		model.IntensityLow:    "Is there anything specific you'd like to discuss?",
		model.IntensityMedium: "What's been on your mind recently?",
		model.IntensityHigh:   "How can I best support you in this moment?",
	},
}

// Templates returns a copy of the replies for a category/intensity pair.
// Unknown categories use the neutral table.
func Templates(c model.Category, i model.Intensity) []string {
	byIntensity, ok := responseTemplates[c]
	if !ok {
		byIntensity = responseTemplates[model.CategoryNeutral]
	}
	return append([]string(nil), byIntensity[i]...)
}

// FollowUp returns the fixed follow-up question for a category/intensity pair.
func FollowUp(c model.Category, i model.Intensity) string {
	byIntensity, ok := followUpQuestions[c]
	if !ok {
		byIntensity = followUpQuestions[model.CategoryNeutral]
	}
	return byIntensity[i]
}
