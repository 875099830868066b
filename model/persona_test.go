package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogue(t *testing.T) {
	c, err := LoadCatalogue()
	require.NoError(t, err)

	assert.Equal(t, []string{"founder", "mentor", "student", "vendor", "working_professional"}, c.IDs())

	tests := []struct {
		id       PersonaID
		steps    int
		endpoint string
		delay    time.Duration
	}{
		{PersonaStudent, 4, "/api/students/", 3 * time.Second},
		{PersonaFounder, 4, "/api/founders/", 4 * time.Second},
		{PersonaMentor, 2, "/api/mentors/", 4 * time.Second},
		{PersonaVendor, 5, "/api/vendors/", 4 * time.Second},
		{PersonaWorkingProfessional, 4, "/api/working-professionals/", 4 * time.Second},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			p, err := c.Get(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.steps, p.TotalSteps())
			assert.Equal(t, tt.endpoint, p.Endpoint)
			assert.Equal(t, tt.delay, p.CloseDelay)
		})
	}
}

func TestCatalogueGetUnknown(t *testing.T) {
	c, err := LoadCatalogue()
	require.NoError(t, err)
	_, err = c.Get("astronaut")
	assert.ErrorIs(t, err, ErrUnknownPersona)
}

func TestPersonaLookups(t *testing.T) {
	c, err := LoadCatalogue()
	require.NoError(t, err)
	p, err := c.Get(PersonaFounder)
	require.NoError(t, err)

	step, ok := p.Step(3)
	require.True(t, ok)
	assert.Equal(t, "help_needed", step.Key)
	assert.Equal(t, []string{"help_needed"}, step.RequiredFields())

	_, ok = p.Step(0)
	assert.False(t, ok)
	_, ok = p.Step(5)
	assert.False(t, ok)

	f, ok := p.Field("help_needed")
	require.True(t, ok)
	assert.True(t, f.Multi())
	assert.Equal(t, "Others", f.Other)

	assert.Equal(t, 2, p.StepOf("elevator_pitch"))
	assert.Zero(t, p.StepOf("nope"))

	first, _ := p.Step(1)
	assert.Equal(t, []string{"name", "email", "phone", "city"}, first.RequiredFields())
}

func TestParseCatalogueErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "personas: [", "error parsing personas"},
		{"no endpoint", `
personas:
  - id: x
    steps: [{key: a, fields: [{name: f, type: text}]}]`, "endpoint is required"},
		{"duplicate field", `
personas:
  - id: x
    endpoint: /x
    steps:
      - {key: a, fields: [{name: f, type: text}]}
      - {key: b, fields: [{name: f, type: text}]}`, "duplicate field"},
		{"unknown type", `
personas:
  - id: x
    endpoint: /x
    steps: [{key: a, fields: [{name: f, type: colour}]}]`, "unknown type"},
		{"other not an option", `
personas:
  - id: x
    endpoint: /x
    steps: [{key: a, fields: [{name: f, type: select, options: [A], other: B}]}]`, "not an option"},
		{"duplicate persona", `
personas:
  - {id: x, endpoint: /x, steps: [{key: a, fields: [{name: f, type: text}]}]}
  - {id: x, endpoint: /y, steps: [{key: a, fields: [{name: f, type: text}]}]}`, "duplicate persona"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalogue([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestIdentityExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, Identity{}.Expired(now))
	assert.False(t, Identity{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Identity{ExpiresAt: now}.Expired(now))
}
