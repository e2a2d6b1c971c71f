// Package model defines shared data structures.
package model

import "time"

// WordRecord is one entry of the word feed.
type WordRecord struct {
	Word       string `json:"word" validate:"required"`
	Phonetic   string `json:"phonetic,omitempty"`
	Definition string `json:"definition" validate:"required"`
	Example    string `json:"example,omitempty"`
}

// Config defines practice settings.
type Config struct {
	WordsFile    string
	Round        int
	Mute         bool
	NoSpeech     bool
	SoundsDir    string
	AdvanceDelay time.Duration
	MinElapsed   float64
	ShowMistype  bool
	ProxyInput   bool
	StartView    string
	FocusWeak    bool
	WeakTop      int
	WeakFactor   float64
	WeakWindow   int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Weakest     int
}

// RoundStats captures a finished drill round.
type RoundStats struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	WordsFile    string
	Words        int
	CorrectChars int
	RejectedKeys int
	DurationMs   int64
}

// CharStats stores per-character stats for a round.
type CharStats struct {
	Char     string
	Correct  int
	Rejected int
}

// CharAggregate aggregates character stats across rounds.
type CharAggregate struct {
	Char     string
	Correct  int
	Rejected int
}

// RoundAggregate summarizes a round for reporting.
type RoundAggregate struct {
	RoundID      string
	EndedAt      time.Time
	Words        int
	CorrectChars int
	RejectedKeys int
	DurationMs   int64
}
