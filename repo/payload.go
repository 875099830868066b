package repo

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"FunnelBot/model"
)

var recordValidator = newRecordValidator()

// newRecordValidator reports fields by their json names so messages can be
// mapped back to form labels.
func newRecordValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BuildRecord coerces a flat answer record into the typed payload the
// persona's endpoint expects. The coercions follow the backend schema.
func BuildRecord(sub model.Submission) (model.Record, error) {
	if sub.Persona == nil {
		return nil, fmt.Errorf("submission without persona")
	}
	a := sub.Answers
	switch sub.Persona.ID {
	case model.PersonaStudent:
		year, _ := a.NumberOf("year")
		return model.StudentRecord{
			UserID:             sub.UserID,
			Name:               a.TextOf("name"),
			Email:              a.TextOf("email"),
			Phone:              phoneNumber(a.PhoneOf("phone")),
			College:            a.TextOf("college"),
			Year:               year,
			Course:             a.TextOf("course"),
			City:               a.TextOf("city"),
			CareerGoals:        a.ListOf("career_goals"),
			InterestArea:       a.ListOf("interest_area"),
			InterestLevel:      a.TextOf("interest_level"),
			ResumeURL:          nullable(a.TextOf("resume_url")),
			LinkedInURL:        nullable(a.TextOf("linkedin_url")),
			GitHubURL:          nullable(a.TextOf("github_url")),
			PortfolioURL:       nullable(a.TextOf("portfolio_url")),
			Availability:       a.TextOf("availability"),
			PaymentTerms:       a.TextOf("payment_terms"),
			LocationPreference: a.TextOf("location_preference"),
			ExtraText:          nullable(a.TextOf("extra_text")),
		}, nil
	case model.PersonaFounder:
		var phone *int64
		if digits := a.PhoneOf("phone"); digits != "" {
			n := phoneNumber(digits)
			phone = &n
		}
		return model.FounderRecord{
			UserID:        sub.UserID,
			Name:          a.TextOf("name"),
			Email:         a.TextOf("email"),
			Phone:         phone,
			City:          a.TextOf("city"),
			State:         a.TextOf("state"),
			LinkedIn:      a.TextOf("linkedin"),
			StartupStatus: a.TextOf("startup_status"),
			StartupName:   a.TextOf("startup_name"),
			StartupURL:    a.TextOf("startup_url"),
			Description:   a.TextOf("description"),
			ElevatorPitch: a.TextOf("elevator_pitch"),
			HelpNeeded:    a.ListOf("help_needed"),
			Category:      a.ListOf("category"),
		}, nil
	case model.PersonaMentor:
		return model.MentorRecord{
			UserID:                sub.UserID,
			Name:                  a.TextOf("name"),
			Email:                 a.TextOf("email"),
			Phone:                 a.PhoneOf("phone"),
			Organisation:          a.TextOf("organisation"),
			URL:                   a.TextOf("url"),
			LinkedIn:              a.TextOf("linkedin"),
			City:                  a.TextOf("city"),
			State:                 a.TextOf("state"),
			IncubatorType:         a.TextOf("incubator_type"),
			FocusAreas:            omitEmpty(a.ListOf("focus_areas")),
			PreferredStartupStage: omitEmpty(a.ListOf("preferred_startup_stage")),
		}, nil
	case model.PersonaVendor:
		years, _ := a.NumberOf("years_of_experience")
		minValue, _ := a.NumberOf("minimum_project_value")
		return model.VendorRecord{
			UserID:              sub.UserID,
			BusinessName:        a.TextOf("business_name"),
			URL:                 a.TextOf("url"),
			Category:            a.ListOf("category"),
			YearsOfExperience:   years,
			Locations:           a.ListOf("locations"),
			TeamSize:            a.TextOf("team_size"),
			Name:                a.TextOf("name"),
			Email:               a.TextOf("email"),
			Phone:               phoneNumber(a.PhoneOf("phone")),
			WorkHistory:         a.BoolOf("work_history"),
			NotableClients:      a.ListOf("notable_clients"),
			PastWorkLinks:       a.ListOf("past_work_links"),
			MinimumProjectValue: minValue,
			TAT:                 a.TextOf("tat"),
			WorkingModel:        a.TextOf("working_model"),
			Goals:               a.ListOf("goals"),
		}, nil
	case model.PersonaWorkingProfessional:
		years, _ := a.NumberOf("years_of_experience")
		return model.WorkingProfessionalRecord{
			UserID:              sub.UserID,
			Name:                a.TextOf("name"),
			Email:               a.TextOf("email"),
			Phone:               a.PhoneOf("phone"),
			City:                a.TextOf("city"),
			State:               a.TextOf("state"),
			YearsOfExperience:   years,
			Role:                a.TextOf("role"),
			Company:             a.TextOf("company"),
			LinkedIn:            a.TextOf("linkedin"),
			StartupInterest:     omitEmpty(a.ListOf("startup_interest")),
			StartupExposure:     omitEmpty(a.ListOf("startup_exposure")),
			FunctionalExpertise: omitEmpty(a.ListOf("functional_expertise")),
			IndustryKnowledge:   omitEmpty(a.ListOf("industry_knowledge")),
			ResumeURL:           a.TextOf("resume_url"),
			Availability:        a.TextOf("availability"),
			CompensationModel:   a.TextOf("compensation_model"),
			StagePreference:     omitEmpty(a.ListOf("stage_preference")),
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", model.ErrUnknownPersona, sub.Persona.ID)
}

// checkRecord runs the struct tags of a record and renders failures with the
// persona's field labels.
func checkRecord(p *model.Persona, rec model.Record) error {
	err := recordValidator.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fieldLabel(p, fe.Field()), fe.Tag()))
	}
	return &SubmissionError{
		Kind:    KindValidation,
		Message: "Validation errors: " + strings.Join(msgs, ", "),
	}
}

func phoneNumber(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func omitEmpty(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return list
}
