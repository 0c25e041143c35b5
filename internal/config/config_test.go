package config

import (
	"strings"
	"testing"
)

func TestDefaultProfileValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	source := []byte(`
[run]
population_size = 64
node_count = 7
seed = 99

[node]
size_mean = 0.8

[mutation]
rate = 0.1
`)
	profile, err := Parse(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if profile.Run.PopulationSize != 64 || profile.Run.NodeCount != 7 || profile.Run.Seed != 99 {
		t.Fatalf("run overrides not applied: %+v", profile.Run)
	}
	if profile.Node.SizeMean != 0.8 {
		t.Fatalf("node override not applied: size_mean=%g", profile.Node.SizeMean)
	}
	// Untouched keys keep their defaults.
	if profile.Run.Generations != 20 || profile.Muscle.StiffnessMean != 0.5 {
		t.Fatalf("defaults lost: %+v", profile)
	}
	fam := profile.Families()
	if fam.MutationRate != 0.1 || fam.NodeSize.Mean != 0.8 {
		t.Fatalf("families not derived from profile: %+v", fam)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"tiny population", "[run]\npopulation_size = 1\n"},
		{"zero window", "[run]\nevaluation_window = 0\n"},
		{"inverted range", "[node]\nsize_min = 2.0\nsize_max = 1.0\n"},
		{"unknown backend", "[storage]\nbackend = bolt\n"},
		{"mutation rate above one", "[mutation]\nrate = 1.5\n"},
	}
	for _, tc := range cases {
		if _, err := Parse([]byte(tc.source)); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestShareHelpers(t *testing.T) {
	profile := Default()
	profile.Run.ElitismCount = 0
	profile.Run.ElitismFraction = 0.25
	if share := profile.Elitism(); share.Count != 0 || share.Fraction != 0.25 {
		t.Fatalf("fractional elitism: %+v", share)
	}
	profile.Run.ElitismCount = 3
	if share := profile.Elitism(); share.Count != 3 {
		t.Fatalf("count elitism: %+v", share)
	}
	if share := profile.Tournament(); share.Count != profile.Run.TournamentCount {
		t.Fatalf("tournament share: %+v", share)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("does-not-exist.ini"); err == nil || !strings.Contains(err.Error(), "failed to load profile") {
		t.Fatalf("expected load failure, got %v", err)
	}
}
