package progress

import (
	"fmt"
	"math/rand/v2"

	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/entities"
)

// Reason explains why an exercise was picked.
type Reason string

const (
	ReasonNew    Reason = "new"    // never attempted or skipped
	ReasonFailed Reason = "failed" // latest attempt was wrong or revealed
	ReasonReview Reason = "review" // latest attempt was correct
)

// Selection weights. New exercises are preferred, then failed ones.
const (
	WeightNew    = 4
	WeightFailed = 3
	WeightReview = 1
)

// Rand is the subset of *rand.Rand used for selection.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Next is the exercise chosen by NextExercise.
type Next struct {
	Exercise      content.Exercise `json:"exercise"`
	Reason        Reason           `json:"reason"`
	UnitCompleted bool             `json:"unit_completed"`
	Progress      Counters         `json:"progress"`
}

func classify(status *entities.AnswerStatus) (Reason, int) {
	switch {
	case status == nil || *status == entities.AnswerSkipped:
		return ReasonNew, WeightNew
	case status.Failed():
		return ReasonFailed, WeightFailed
	default:
		return ReasonReview, WeightReview
	}
}

// NextExercise picks the next exercise of a unit by weighted random choice.
// The exercise attempted most recently is not picked again while the unit has
// another one. A nil rng uses the global source.
func (r *Repository) NextExercise(userID, lang, moduleID, unitID string, exercises []content.Exercise, rng Rand) (*Next, error) {
	if len(exercises) == 0 {
		return nil, fmt.Errorf("%w: %s/%s/%s", ErrNoExercises, lang, moduleID, unitID)
	}
	if rng == nil {
		rng = globalRand{}
	}

	latest, err := r.LatestAttempts(userID, lang, Filter{ModuleID: moduleID, UnitID: unitID})
	if err != nil {
		return nil, err
	}

	var lastID uint
	lastExercise := ""
	for _, a := range latest {
		if a.ID > lastID {
			lastID, lastExercise = a.ID, a.ExerciseID
		}
	}

	type candidate struct {
		exercise content.Exercise
		reason   Reason
		weight   int
	}

	var progress Counters
	completed := true
	candidates := make([]candidate, 0, len(exercises))
	for _, e := range exercises {
		status := statusOf(latest, moduleID, unitID, e.ID)
		progress.count(status)
		if status == nil || *status != entities.AnswerCorrect {
			completed = false
		}
		if e.ID == lastExercise && len(exercises) > 1 {
			continue
		}
		reason, weight := classify(status)
		candidates = append(candidates, candidate{exercise: e, reason: reason, weight: weight})
	}
	progress.finish()

	total := 0
	for _, c := range candidates {
		total += c.weight
	}
	pick := rng.IntN(total)
	chosen := candidates[len(candidates)-1]
	for _, c := range candidates {
		if pick < c.weight {
			chosen = c
			break
		}
		pick -= c.weight
	}

	return &Next{
		Exercise:      chosen.exercise,
		Reason:        chosen.reason,
		UnitCompleted: completed,
		Progress:      progress,
	}, nil
}
