package logging

import "testing"

func TestNewProgressSamplerDefaults(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"zero uses default", 0, 5},
		{"negative uses default", -1, 5},
		{"custom", 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSamplerNil(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "stage") {
		t.Error("nil sampler should always log")
	}
	s.Reset()
}

func TestProgressSamplerStageChange(t *testing.T) {
	s := NewProgressSampler(5)
	if !s.ShouldLog(-1, "Downloading") {
		t.Error("first stage should log")
	}
	if s.ShouldLog(-1, "Downloading") {
		t.Error("same stage with unknown percent should not log again")
	}
	if !s.ShouldLog(-1, "  Exporting video  ") {
		t.Error("new stage should log")
	}
	if s.lastStage != "Exporting video" {
		t.Errorf("lastStage = %q, want trimmed value", s.lastStage)
	}
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(5)
	steps := []struct {
		percent float64
		want    bool
	}{
		{0, true},
		{3, false},
		{5, true},
		{7, false},
		{10, true},
		{100, true},
		{105, false},
	}
	for _, step := range steps {
		if got := s.ShouldLog(step.percent, "Exporting video"); got != step.want {
			t.Fatalf("ShouldLog(%v) = %v, want %v", step.percent, got, step.want)
		}
	}
}

func TestProgressSamplerResetOnStageChangeAndReset(t *testing.T) {
	s := NewProgressSampler(5)
	s.ShouldLog(50, "Downloading")
	s.ShouldLog(0, "Exporting video")
	if !s.ShouldLog(10, "Exporting video") {
		t.Error("bucket should restart after stage change")
	}

	s.Reset()
	if s.lastStage != "" || s.lastBucket != -1 {
		t.Fatalf("unexpected state after reset: %+v", s)
	}
	if !s.ShouldLog(50, "Exporting video") {
		t.Error("should log after reset")
	}
}
