package preprocess

import (
	"fmt"
	"strings"
	"time"
)

// Timings holds one cumulative duration per stage.
type Timings struct {
	Tokenize  time.Duration
	Lemmatize time.Duration
	MorphTag  time.Duration
	Tag       time.Duration
	Parse     time.Duration
}

// Get returns the duration recorded for stage.
func (t Timings) Get(stage Stage) time.Duration {
	switch stage {
	case StageTokenize:
		return t.Tokenize
	case StageLemmatize:
		return t.Lemmatize
	case StageMorphTag:
		return t.MorphTag
	case StageTag:
		return t.Tag
	case StageParse:
		return t.Parse
	}
	return 0
}

// Add increases the counter for stage by d. Negative durations are ignored
// so counters never decrease.
func (t *Timings) Add(stage Stage, d time.Duration) {
	if d < 0 {
		return
	}
	switch stage {
	case StageTokenize:
		t.Tokenize += d
	case StageLemmatize:
		t.Lemmatize += d
	case StageMorphTag:
		t.MorphTag += d
	case StageTag:
		t.Tag += d
	case StageParse:
		t.Parse += d
	}
}

// Total returns the sum over all stages.
func (t Timings) Total() time.Duration {
	return t.Tokenize + t.Lemmatize + t.MorphTag + t.Tag + t.Parse
}

// String renders the counters in milliseconds, e.g. "tokenize=3ms lemmatize=1ms ...".
func (t Timings) String() string {
	parts := make([]string, 0, len(Stages))
	for _, stage := range Stages {
		parts = append(parts, fmt.Sprintf("%s=%dms", stage, t.Get(stage).Milliseconds()))
	}
	return strings.Join(parts, " ")
}
