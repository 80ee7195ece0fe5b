package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsDueBoundary(t *testing.T) {
	target := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tolerance := 60 * time.Second

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"exactly on target", target, true},
		{"at upper bound", target.Add(60 * time.Second), true},
		{"just past upper bound", target.Add(60*time.Second + time.Millisecond), false},
		{"at lower bound", target.Add(-60 * time.Second), true},
		{"just before lower bound", target.Add(-60*time.Second - time.Millisecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(target, tt.now, tolerance))
		})
	}
}

func TestIsDueZeroTarget(t *testing.T) {
	assert.False(t, IsDue(time.Time{}, time.Now(), time.Hour))
}

func TestIsOverdue(t *testing.T) {
	target := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, IsOverdue(target, target))
	assert.False(t, IsOverdue(target, target.Add(-time.Second)))
	assert.True(t, IsOverdue(target, target.Add(time.Second)))
	assert.False(t, IsOverdue(time.Time{}, time.Now()))
}
