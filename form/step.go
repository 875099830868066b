package form

import (
	"slices"
	"strings"
	"unicode/utf8"

	"FunnelBot/model"
)

// StepValidator decides whether a step's required fields are all answered.
type StepValidator func(answers model.Answers) bool

// StepValidatorFor derives the gate of a step from its definition.
func StepValidatorFor(step model.StepDefinition) StepValidator {
	required := slices.DeleteFunc(slices.Clone(step.Fields), func(f model.FieldDefinition) bool {
		return !f.Required
	})
	return func(answers model.Answers) bool {
		for _, f := range required {
			if !satisfied(f, answers) {
				return false
			}
		}
		return true
	}
}

func satisfied(f model.FieldDefinition, answers model.Answers) bool {
	v, ok := answers[f.Name]
	if !ok || v.Blank() {
		return false
	}
	if f.Type == model.FieldText && f.MinLength > 0 {
		return utf8.RuneCountInString(strings.TrimSpace(v.Text)) >= f.MinLength
	}
	return true
}

// StepData returns the step key and the answers that belong to it.
// Unknown steps yield an empty key and an empty map.
func StepData(p *model.Persona, answers model.Answers, step int) (string, model.Answers) {
	def, ok := p.Step(step)
	if !ok {
		return "", model.Answers{}
	}
	data := model.Answers{}
	for _, name := range def.FieldNames() {
		if v, ok := answers[name]; ok {
			data[name] = v
		}
	}
	return def.Key, data.Clone()
}
