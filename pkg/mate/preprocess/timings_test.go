package preprocess

import (
	"testing"
	"time"
)

func TestTimingsAddIgnoresNegative(t *testing.T) {
	var tm Timings
	tm.Add(StageTag, 5*time.Millisecond)
	tm.Add(StageTag, -3*time.Millisecond)

	if tm.Tag != 5*time.Millisecond {
		t.Errorf("Tag = %v, want 5ms", tm.Tag)
	}
}

func TestTimingsTotal(t *testing.T) {
	tm := Timings{
		Tokenize:  time.Millisecond,
		Lemmatize: 2 * time.Millisecond,
		MorphTag:  3 * time.Millisecond,
		Tag:       4 * time.Millisecond,
		Parse:     5 * time.Millisecond,
	}
	if tm.Total() != 15*time.Millisecond {
		t.Errorf("Total = %v, want 15ms", tm.Total())
	}
}

func TestTimingsString(t *testing.T) {
	tm := Timings{Tokenize: 3 * time.Millisecond, Parse: 12 * time.Millisecond}

	want := "tokenize=3ms lemmatize=0ms mtag=0ms tag=0ms parse=12ms"
	if tm.String() != want {
		t.Errorf("String() = %q, want %q", tm.String(), want)
	}
}

func TestStageString(t *testing.T) {
	if Stage(99).String() != "unknown" {
		t.Error("Unknown stage should render as unknown")
	}
	if StageMorphTag.String() != "mtag" {
		t.Errorf("StageMorphTag = %q", StageMorphTag.String())
	}
}
