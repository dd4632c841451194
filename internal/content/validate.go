package content

import (
	"fmt"
	"regexp"
)

var languageCode = regexp.MustCompile(`^[a-z]{2,3}$`)

// Validate loads the tree at dir and reports authoring problems that do not
// prevent loading. A load failure is returned as the error.
func Validate(dir string) ([]string, error) {
	lib, err := Load(dir)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, code := range lib.Languages() {
		if !languageCode.MatchString(code) {
			warnings = append(warnings, fmt.Sprintf("%s: language directory is not a language code", code))
		}
		l := lib.languages[code]
		if len(l.modules) == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: no modules", code))
		}
		for _, m := range l.modules {
			if m.Title == "" {
				warnings = append(warnings, fmt.Sprintf("%s/%s: module has no title", code, m.ID))
			}
			if len(m.Units) == 0 {
				warnings = append(warnings, fmt.Sprintf("%s/%s: module has no units", code, m.ID))
			}
			for _, u := range m.Units {
				if len(u.Exercises) == 0 {
					warnings = append(warnings, fmt.Sprintf("%s/%s/%s: unit has no exercises", code, m.ID, u.ID))
				}
				for _, e := range u.Exercises {
					where := fmt.Sprintf("%s/%s/%s/%s", code, m.ID, u.ID, e.ID)
					if !e.Type.Valid() {
						warnings = append(warnings, fmt.Sprintf("%s: unknown exercise type %q", where, e.Type))
					}
					if len(e.Answer) == 0 {
						warnings = append(warnings, where+": exercise has no answer")
					}
					if e.Type == ExerciseMultipleChoice && len(e.Options) < 2 {
						warnings = append(warnings, where+": multiple choice exercise needs at least two options")
					}
				}
			}
		}
	}
	return warnings, nil
}

// IsLanguageCode reports whether code looks like an ISO 639 language code.
func IsLanguageCode(code string) bool {
	return languageCode.MatchString(code)
}
