package progress

import (
	"sort"

	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/entities"
)

// Counters summarise the latest attempt of every exercise in a scope.
type Counters struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Correct   int     `json:"correct"`
	Wrong     int     `json:"wrong"`
	Skipped   int     `json:"skipped"`
	Percent   float64 `json:"percent"`
}

// count adds one exercise whose latest attempt has the given status. A nil
// status means the exercise has not been attempted.
func (c *Counters) count(status *entities.AnswerStatus) {
	c.Total++
	if status == nil {
		return
	}
	switch *status {
	case entities.AnswerCorrect:
		c.Correct++
	case entities.AnswerIncorrect, entities.AnswerRevealed:
		c.Wrong++
	case entities.AnswerSkipped:
		c.Skipped++
	}
	if status.Completed() {
		c.Completed++
	}
}

func (c *Counters) merge(o Counters) {
	c.Total += o.Total
	c.Completed += o.Completed
	c.Correct += o.Correct
	c.Wrong += o.Wrong
	c.Skipped += o.Skipped
}

func (c *Counters) finish() {
	if c.Total == 0 {
		c.Percent = 0
		return
	}
	c.Percent = float64(c.Completed) * 100 / float64(c.Total)
}

type UnitSummary struct {
	UnitID string `json:"unit_id"`
	Title  string `json:"title"`
	Counters
}

type ModuleSummary struct {
	ModuleID string        `json:"module_id"`
	Title    string        `json:"title"`
	Units    []UnitSummary `json:"units"`
	Counters
}

// Overview is the progress of a user across one language.
type Overview struct {
	Language string          `json:"language"`
	Modules  []ModuleSummary `json:"modules"`
	Counters
}

type TopicSummary struct {
	Topic string `json:"topic"`
	Counters
}

func statusOf(latest map[Key]entities.ExerciseAttempt, moduleID, unitID, exerciseID string) *entities.AnswerStatus {
	a, ok := latest[Key{ModuleID: moduleID, UnitID: unitID, ExerciseID: exerciseID}]
	if !ok {
		return nil
	}
	return &a.Status
}

// UnitProgress computes counters for one unit. Attempts of exercises that
// are no longer in exercises are ignored.
func (r *Repository) UnitProgress(userID, lang, moduleID, unitID string, exercises []content.Exercise) (Counters, error) {
	latest, err := r.LatestAttempts(userID, lang, Filter{ModuleID: moduleID, UnitID: unitID})
	if err != nil {
		return Counters{}, err
	}
	var c Counters
	for _, e := range exercises {
		c.count(statusOf(latest, moduleID, unitID, e.ID))
	}
	c.finish()
	return c, nil
}

// LanguageOverview computes counters per unit, per module and for the whole
// language.
func (r *Repository) LanguageOverview(userID, lang string, lib *content.Library) (*Overview, error) {
	metas, err := lib.Modules(lang)
	if err != nil {
		return nil, err
	}
	latest, err := r.LatestAttempts(userID, lang, Filter{})
	if err != nil {
		return nil, err
	}

	overview := &Overview{Language: lang, Modules: make([]ModuleSummary, 0, len(metas))}
	for _, meta := range metas {
		module, err := lib.Module(lang, meta.ID)
		if err != nil {
			return nil, err
		}
		ms := ModuleSummary{ModuleID: module.ID, Title: module.Title, Units: make([]UnitSummary, 0, len(module.Units))}
		for _, unit := range module.Units {
			us := UnitSummary{UnitID: unit.ID, Title: unit.Title}
			for _, e := range unit.Exercises {
				us.count(statusOf(latest, module.ID, unit.ID, e.ID))
			}
			us.finish()
			ms.merge(us.Counters)
			ms.Units = append(ms.Units, us)
		}
		ms.finish()
		overview.merge(ms.Counters)
		overview.Modules = append(overview.Modules, ms)
	}
	overview.finish()
	return overview, nil
}

// TopicProgress computes counters per exercise topic, sorted by topic.
// Exercises without a topic are left out.
func (r *Repository) TopicProgress(userID, lang string, lib *content.Library) ([]TopicSummary, error) {
	metas, err := lib.Modules(lang)
	if err != nil {
		return nil, err
	}
	latest, err := r.LatestAttempts(userID, lang, Filter{})
	if err != nil {
		return nil, err
	}

	byTopic := make(map[string]*Counters)
	for _, meta := range metas {
		module, err := lib.Module(lang, meta.ID)
		if err != nil {
			return nil, err
		}
		for _, unit := range module.Units {
			for _, e := range unit.Exercises {
				if e.Topic == "" {
					continue
				}
				c, ok := byTopic[e.Topic]
				if !ok {
					c = &Counters{}
					byTopic[e.Topic] = c
				}
				c.count(statusOf(latest, module.ID, unit.ID, e.ID))
			}
		}
	}

	topics := make([]TopicSummary, 0, len(byTopic))
	for topic, c := range byTopic {
		c.finish()
		topics = append(topics, TopicSummary{Topic: topic, Counters: *c})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Topic < topics[j].Topic })
	return topics, nil
}
