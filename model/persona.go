package model

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// PersonaID names one registration audience
type PersonaID string

const (
	PersonaStudent             PersonaID = "student"
	PersonaFounder             PersonaID = "founder"
	PersonaMentor              PersonaID = "mentor"
	PersonaVendor              PersonaID = "vendor"
	PersonaWorkingProfessional PersonaID = "working_professional"
)

// FieldType selects the validator and the input widget used for a field.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldEmail       FieldType = "email"
	FieldPhone       FieldType = "phone"
	FieldURL         FieldType = "url"
	FieldYear        FieldType = "year"
	FieldNumber      FieldType = "number"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multiselect"
	FieldList        FieldType = "list"
	FieldBool        FieldType = "bool"
)

var knownFieldTypes = []FieldType{
	FieldText, FieldEmail, FieldPhone, FieldURL, FieldYear,
	FieldNumber, FieldSelect, FieldMultiSelect, FieldList, FieldBool,
}

// FieldDefinition describes one input of a step.
type FieldDefinition struct {
	Name      string    `yaml:"name"`
	Label     string    `yaml:"label"`
	Prompt    string    `yaml:"prompt"`
	Type      FieldType `yaml:"type"`
	Required  bool      `yaml:"required"`
	MinLength int       `yaml:"min_length"`
	MaxLength int       `yaml:"max_length"`
	Min       *int      `yaml:"min"`
	Max       *int      `yaml:"max"`
	Options   []string  `yaml:"options"`
	// Other is the option value that opens a free-text escape, e.g. "Other".
	Other string `yaml:"other"`
}

// Multi reports whether the field stores an ordered list.
func (f FieldDefinition) Multi() bool {
	return f.Type == FieldMultiSelect || f.Type == FieldList
}

// StepDefinition is one page of a persona's form.
type StepDefinition struct {
	Key    string            `yaml:"key"`
	Label  string            `yaml:"label"`
	Fields []FieldDefinition `yaml:"fields"`
}

// FieldNames returns the step's field names in display order.
func (s StepDefinition) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// RequiredFields returns the names of the fields that gate the step.
func (s StepDefinition) RequiredFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Persona is the static definition of one registration flow.
type Persona struct {
	ID               PersonaID        `yaml:"id"`
	Name             string           `yaml:"name"`
	Endpoint         string           `yaml:"endpoint"`
	ProgressEndpoint string           `yaml:"progress_endpoint"`
	CloseDelay       time.Duration    `yaml:"close_delay"`
	Steps            []StepDefinition `yaml:"steps"`
}

func (p *Persona) TotalSteps() int { return len(p.Steps) }

// Step returns the 1-indexed step definition.
func (p *Persona) Step(n int) (StepDefinition, bool) {
	if n < 1 || n > len(p.Steps) {
		return StepDefinition{}, false
	}
	return p.Steps[n-1], true
}

// Field looks a field up across all steps.
func (p *Persona) Field(name string) (FieldDefinition, bool) {
	for _, s := range p.Steps {
		for _, f := range s.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return FieldDefinition{}, false
}

// StepOf returns the 1-indexed step holding the field, or 0.
func (p *Persona) StepOf(name string) int {
	for i, s := range p.Steps {
		if slices.Contains(s.FieldNames(), name) {
			return i + 1
		}
	}
	return 0
}

func (p *Persona) validate() error {
	if p.ID == "" {
		return fmt.Errorf("persona without id")
	}
	if p.Endpoint == "" {
		return fmt.Errorf("persona %s: endpoint is required", p.ID)
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("persona %s: no steps", p.ID)
	}
	stepKeys := map[string]bool{}
	fields := map[string]bool{}
	for _, s := range p.Steps {
		if s.Key == "" || stepKeys[s.Key] {
			return fmt.Errorf("persona %s: missing or duplicate step key %q", p.ID, s.Key)
		}
		stepKeys[s.Key] = true
		for _, f := range s.Fields {
			if f.Name == "" || fields[f.Name] {
				return fmt.Errorf("persona %s: missing or duplicate field %q", p.ID, f.Name)
			}
			fields[f.Name] = true
			if !slices.Contains(knownFieldTypes, f.Type) {
				return fmt.Errorf("persona %s: field %s has unknown type %q", p.ID, f.Name, f.Type)
			}
			if f.Other != "" && !slices.Contains(f.Options, f.Other) {
				return fmt.Errorf("persona %s: field %s: other value %q is not an option", p.ID, f.Name, f.Other)
			}
		}
	}
	return nil
}

//go:embed personas.yaml
var personasYAML []byte

// Catalogue holds every persona, keyed by id.
type Catalogue struct {
	personas map[PersonaID]*Persona
	order    []PersonaID
}

// LoadCatalogue parses the embedded persona definitions.
func LoadCatalogue() (*Catalogue, error) {
	return ParseCatalogue(personasYAML)
}

// ParseCatalogue parses persona definitions from YAML.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var doc struct {
		Personas []*Persona `yaml:"personas"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing personas: %w", err)
	}
	c := &Catalogue{personas: map[PersonaID]*Persona{}}
	for _, p := range doc.Personas {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.personas[p.ID]; dup {
			return nil, fmt.Errorf("duplicate persona %s", p.ID)
		}
		c.personas[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c, nil
}

// Get returns the persona or ErrUnknownPersona.
func (c *Catalogue) Get(id PersonaID) (*Persona, error) {
	p, ok := c.personas[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPersona, id)
	}
	return p, nil
}

// All returns personas in catalogue order.
func (c *Catalogue) All() []*Persona {
	out := make([]*Persona, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.personas[id])
	}
	return out
}

// IDs returns the persona ids sorted alphabetically.
func (c *Catalogue) IDs() []string {
	ids := make([]string, 0, len(c.order))
	for _, id := range c.order {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	return ids
}
