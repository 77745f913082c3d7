package model

import (
	"fmt"
	"time"
)

// ================ Config ================
type ConversationConfig struct {
	TTL              string `envconfig:"CONVERSATION_TTL" default:"24h"`
	MaxTurns         int    `envconfig:"CONVERSATION_MAX_TURNS" default:"0"`
	MaxMessageLength int    `envconfig:"CONVERSATION_MAX_MESSAGE_LENGTH" default:"4000"`
}

// ParsedTTL returns the timeline TTL; zero disables expiry.
func (c ConversationConfig) ParsedTTL() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", c.TTL, err)
	}
	return ttl, nil
}

type ResponderConfig struct {
	// Seed makes template selection reproducible; 0 draws from the global source.
	Seed uint64 `envconfig:"RESPONDER_SEED" default:"0"`
}

type EncouragementConfig struct {
	ReplyProbability float64 `envconfig:"ENCOURAGEMENT_REPLY_PROBABILITY" default:"0.7"`
	MinLength        int     `envconfig:"ENCOURAGEMENT_MIN_LENGTH" default:"10"`
}
