package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExercise_Grade(t *testing.T) {
	exercise := Exercise{Answer: []string{"buenos días", "Buenos dias"}}

	tests := []struct {
		answer string
		want   bool
	}{
		{"buenos días", true},
		{"  Buenos   Días ", true},
		{"buenos dias!", true},
		{"buenos", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, exercise.Grade(tt.answer))
		})
	}
}

func TestExercise_Grade_NoAcceptedAnswers(t *testing.T) {
	assert.False(t, Exercise{}.Grade("anything"))
}
