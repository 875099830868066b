package model

// Record is the typed backend payload of one persona.
type Record interface {
	PersonaID() PersonaID
}

type StudentRecord struct {
	UserID             string   `json:"user_id" validate:"required"`
	Name               string   `json:"name" validate:"required,min=2"`
	Email              string   `json:"email" validate:"required"`
	Phone              int64    `json:"phone" validate:"required"`
	College            string   `json:"college" validate:"required"`
	Year               int      `json:"year" validate:"gte=2020"`
	Course             string   `json:"course" validate:"required"`
	City               string   `json:"city" validate:"required"`
	CareerGoals        []string `json:"career_goals"`
	InterestArea       []string `json:"interest_area"`
	InterestLevel      string   `json:"interest_level"`
	ResumeURL          *string  `json:"resume_url"`
	LinkedInURL        *string  `json:"linkedin_url"`
	GitHubURL          *string  `json:"github_url"`
	PortfolioURL       *string  `json:"portfolio_url"`
	Availability       string   `json:"availability"`
	PaymentTerms       string   `json:"payment_terms"`
	LocationPreference string   `json:"location_preference"`
	ExtraText          *string  `json:"extra_text"`
}

func (StudentRecord) PersonaID() PersonaID { return PersonaStudent }

type FounderRecord struct {
	UserID        string   `json:"user_id" validate:"required"`
	Name          string   `json:"name" validate:"required,min=2"`
	Email         string   `json:"email" validate:"required"`
	Phone         *int64   `json:"phone"`
	City          string   `json:"city" validate:"required"`
	State         string   `json:"state"`
	LinkedIn      string   `json:"linkedin"`
	StartupStatus string   `json:"startup_status" validate:"required"`
	StartupName   string   `json:"startup_name"`
	StartupURL    string   `json:"startup_url"`
	Description   string   `json:"description" validate:"required"`
	ElevatorPitch string   `json:"elevator_pitch" validate:"max=300"`
	HelpNeeded    []string `json:"help_needed" validate:"min=1"`
	Category      []string `json:"category" validate:"min=1"`
}

func (FounderRecord) PersonaID() PersonaID { return PersonaFounder }

// MentorRecord omits empty values; the mentor endpoint treats absent and empty alike.
type MentorRecord struct {
	UserID                string   `json:"user_id" validate:"required"`
	Name                  string   `json:"name,omitempty" validate:"required,min=2"`
	Email                 string   `json:"email,omitempty" validate:"required"`
	Phone                 string   `json:"phone,omitempty" validate:"required,len=10,numeric"`
	Organisation          string   `json:"organisation,omitempty" validate:"required"`
	URL                   string   `json:"url,omitempty"`
	LinkedIn              string   `json:"linkedin,omitempty"`
	City                  string   `json:"city,omitempty" validate:"required"`
	State                 string   `json:"state,omitempty"`
	IncubatorType         string   `json:"incubator_type,omitempty" validate:"required"`
	FocusAreas            []string `json:"focus_areas,omitempty" validate:"min=1"`
	PreferredStartupStage []string `json:"preferred_startup_stage,omitempty" validate:"min=1"`
}

func (MentorRecord) PersonaID() PersonaID { return PersonaMentor }

type VendorRecord struct {
	UserID              string   `json:"user_id" validate:"required"`
	BusinessName        string   `json:"business_name" validate:"required,min=2"`
	URL                 string   `json:"url"`
	Category            []string `json:"category" validate:"min=1"`
	YearsOfExperience   int      `json:"years_of_experience" validate:"gte=0"`
	Locations           []string `json:"locations" validate:"min=1"`
	TeamSize            string   `json:"team_size" validate:"required"`
	Name                string   `json:"name" validate:"required,min=2"`
	Email               string   `json:"email" validate:"required"`
	Phone               int64    `json:"phone" validate:"required"`
	WorkHistory         bool     `json:"work_history"`
	NotableClients      []string `json:"notable_clients"`
	PastWorkLinks       []string `json:"past_work_links"`
	MinimumProjectValue int      `json:"minimum_project_value" validate:"gte=0"`
	TAT                 string   `json:"tat" validate:"required"`
	WorkingModel        string   `json:"working_model" validate:"required"`
	Goals               []string `json:"goals" validate:"min=1"`
}

func (VendorRecord) PersonaID() PersonaID { return PersonaVendor }

type WorkingProfessionalRecord struct {
	UserID              string   `json:"user_id" validate:"required"`
	Name                string   `json:"name,omitempty" validate:"required,min=2"`
	Email               string   `json:"email,omitempty" validate:"required"`
	Phone               string   `json:"phone,omitempty" validate:"required,len=10,numeric"`
	City                string   `json:"city,omitempty" validate:"required"`
	State               string   `json:"state,omitempty"`
	YearsOfExperience   int      `json:"years_of_experience" validate:"gte=0,lte=50"`
	Role                string   `json:"role,omitempty" validate:"required"`
	Company             string   `json:"company,omitempty" validate:"required"`
	LinkedIn            string   `json:"linkedin,omitempty"`
	StartupInterest     []string `json:"startup_interest,omitempty" validate:"min=1"`
	StartupExposure     []string `json:"startup_exposure,omitempty" validate:"min=1"`
	FunctionalExpertise []string `json:"functional_expertise,omitempty" validate:"min=1"`
	IndustryKnowledge   []string `json:"industry_knowledge,omitempty" validate:"min=1"`
	ResumeURL           string   `json:"resume_url,omitempty"`
	Availability        string   `json:"availability,omitempty" validate:"required"`
	CompensationModel   string   `json:"compensation_model,omitempty" validate:"required"`
	StagePreference     []string `json:"stage_preference,omitempty" validate:"min=1"`
}

func (WorkingProfessionalRecord) PersonaID() PersonaID { return PersonaWorkingProfessional }
