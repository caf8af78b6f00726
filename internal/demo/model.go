package demo

import "time"

const (
	StatusScheduled   = "scheduled"
	StatusConfirmed   = "confirmed"
	StatusRescheduled = "rescheduled"
	StatusCompleted   = "completed"
	StatusCanceled    = "canceled"
	StatusNoShow      = "no-show"

	TypePlatformOverview  = "platform-overview"
	TypeAIContentCreation = "ai-content-creation"
	TypeCampaignAuto      = "campaign-automation"
	TypeAnalytics         = "analytics-dashboard"
	TypeIntegrations      = "integrations"
	TypeCustom            = "custom"

	Duration30 = "30-min"
	Duration45 = "45-min"
	Duration60 = "60-min"

	SourceWebsite       = "website"
	SourceLandingPage   = "landing-page"
	SourceReferral      = "referral"
	SourceSalesOutreach = "sales-outreach"
	SourceOther         = "other"

	CommPrefEmail    = "email"
	CommPrefPhone    = "phone"
	CommPrefWhatsApp = "whatsapp"
	CommPrefAny      = "any"
)

var validStatuses = map[string]struct{}{
	StatusScheduled:   {},
	StatusConfirmed:   {},
	StatusRescheduled: {},
	StatusCompleted:   {},
	StatusCanceled:    {},
	StatusNoShow:      {},
}

var validTypes = map[string]struct{}{
	TypePlatformOverview:  {},
	TypeAIContentCreation: {},
	TypeCampaignAuto:      {},
	TypeAnalytics:         {},
	TypeIntegrations:      {},
	TypeCustom:            {},
}

var validDurations = map[string]struct{}{
	Duration30: {},
	Duration45: {},
	Duration60: {},
}

var validSources = map[string]struct{}{
	SourceWebsite:       {},
	SourceLandingPage:   {},
	SourceReferral:      {},
	SourceSalesOutreach: {},
	SourceOther:         {},
}

var validIndustries = map[string]struct{}{
	"ecommerce": {}, "saas": {}, "agency": {}, "education": {},
	"finance": {}, "healthcare": {}, "entertainment": {}, "real-estate": {},
	"manufacturing": {}, "retail": {}, "other": {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

func IsValidType(value string) bool {
	_, ok := validTypes[value]
	return ok
}

func IsValidDuration(value string) bool {
	_, ok := validDurations[value]
	return ok
}

func IsValidSource(value string) bool {
	_, ok := validSources[value]
	return ok
}

func IsValidIndustry(value string) bool {
	_, ok := validIndustries[value]
	return ok
}

type PersonalInfo struct {
	FirstName         string `bson:"firstName" json:"firstName"`
	LastName          string `bson:"lastName" json:"lastName"`
	JobTitle          string `bson:"jobTitle,omitempty" json:"jobTitle,omitempty"`
	Timezone          string `bson:"timezone,omitempty" json:"timezone,omitempty"`
	PreferredLanguage string `bson:"preferredLanguage" json:"preferredLanguage"`
}

type ContactInfo struct {
	Email                   string `bson:"email" json:"email"`
	Phone                   string `bson:"phone,omitempty" json:"phone,omitempty"`
	CommunicationPreference string `bson:"communicationPreference" json:"communicationPreference"`
}

type Requester struct {
	PersonalInfo PersonalInfo `bson:"personalInfo" json:"personalInfo"`
	ContactInfo  ContactInfo  `bson:"contactInfo" json:"contactInfo"`
}

type Company struct {
	Name              string `bson:"name" json:"name"`
	Website           string `bson:"website,omitempty" json:"website,omitempty"`
	Industry          string `bson:"industry,omitempty" json:"industry,omitempty"`
	Size              string `bson:"size,omitempty" json:"size,omitempty"`
	MarketingTeamSize string `bson:"marketingTeamSize,omitempty" json:"marketingTeamSize,omitempty"`
}

type Attendee struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Role  string `bson:"role,omitempty" json:"role,omitempty"`
}

type Details struct {
	PreferredDate       time.Time  `bson:"preferredDate" json:"preferredDate"`
	PreferredTime       string     `bson:"preferredTime" json:"preferredTime"`
	Duration            string     `bson:"duration" json:"duration"`
	DemoType            string     `bson:"demoType" json:"demoType"`
	CustomTopics        []string   `bson:"customTopics" json:"customTopics"`
	Attendees           []Attendee `bson:"attendees,omitempty" json:"attendees,omitempty"`
	SpecialRequirements string     `bson:"specialRequirements,omitempty" json:"specialRequirements,omitempty"`
}

type MarketingContext struct {
	CurrentChallenges []string `bson:"currentChallenges" json:"currentChallenges"`
	CurrentTools      []string `bson:"currentTools" json:"currentTools"`
	MonthlyAdBudget   string   `bson:"monthlyAdBudget,omitempty" json:"monthlyAdBudget,omitempty"`
	DesiredFeatures   []string `bson:"desiredFeatures" json:"desiredFeatures"`
}

type Status struct {
	Current             string `bson:"current" json:"current"`
	ConfirmationSent    bool   `bson:"confirmationSent" json:"confirmationSent"`
	ReminderSent        bool   `bson:"reminderSent" json:"reminderSent"`
	FollowUpRequired    bool   `bson:"followUpRequired" json:"followUpRequired"`
	AssignedTo          string `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CalendarEventID     string `bson:"calendarEventId,omitempty" json:"calendarEventId,omitempty"`
	VideoConferenceLink string `bson:"videoConferenceLink,omitempty" json:"videoConferenceLink,omitempty"`
}

type Note struct {
	Content   string    `bson:"content" json:"content"`
	Author    string    `bson:"author,omitempty" json:"author,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	// Read-side only, resolved from the staff directory.
	AuthorName string `bson:"-" json:"authorName,omitempty"`
}

type NextStep struct {
	Action    string    `bson:"action" json:"action"`
	DueDate   time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Completed bool      `bson:"completed" json:"completed"`
}

type FollowUp struct {
	Notes             []Note     `bson:"notes" json:"notes"`
	NextSteps         []NextStep `bson:"nextSteps" json:"nextSteps"`
	SatisfactionScore *int       `bson:"satisfactionScore,omitempty" json:"satisfactionScore,omitempty"`
}

type UTMParameters struct {
	Source   string `bson:"source,omitempty" json:"source,omitempty"`
	Medium   string `bson:"medium,omitempty" json:"medium,omitempty"`
	Campaign string `bson:"campaign,omitempty" json:"campaign,omitempty"`
	Content  string `bson:"content,omitempty" json:"content,omitempty"`
}

type Metadata struct {
	Source        string        `bson:"source" json:"source"`
	UTMParameters UTMParameters `bson:"utmParameters,omitempty" json:"utmParameters,omitempty"`
	IPAddress     string        `bson:"ipAddress,omitempty" json:"-"`
	UserAgent     string        `bson:"userAgent,omitempty" json:"-"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Record is one demo scheduling request, from intake to follow-up.
type Record struct {
	ID               string           `bson:"_id,omitempty" json:"id"`
	Requester        Requester        `bson:"requester" json:"requester"`
	Company          Company          `bson:"company" json:"company"`
	Details          Details          `bson:"demoDetails" json:"demoDetails"`
	MarketingContext MarketingContext `bson:"marketingContext" json:"marketingContext"`
	Status           Status           `bson:"status" json:"status"`
	FollowUp         FollowUp         `bson:"followUp" json:"followUp"`
	Metadata         Metadata         `bson:"metadata" json:"metadata"`

	// Read-side only, resolved from the staff directory. Never persisted.
	AssignedStaff *StaffSummary `bson:"-" json:"assignedStaff,omitempty"`
}

// StaffSummary is the lightweight projection of a staff user attached to
// list/detail responses in place of the raw assignedTo reference.
type StaffSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type AttendeeRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role"`
}

type CreateRequest struct {
	FirstName               string `json:"firstName" validate:"required"`
	LastName                string `json:"lastName" validate:"required"`
	JobTitle                string `json:"jobTitle"`
	Timezone                string `json:"timezone"`
	Email                   string `json:"email" validate:"required,email"`
	Phone                   string `json:"phone" validate:"omitempty,phone"`
	CommunicationPreference string `json:"communicationPreference" validate:"omitempty,oneof=email phone whatsapp any"`

	CompanyName       string `json:"companyName" validate:"required"`
	Website           string `json:"website"`
	Industry          string `json:"industry" validate:"omitempty,oneof=ecommerce saas agency education finance healthcare entertainment real-estate manufacturing retail other"`
	CompanySize       string `json:"companySize" validate:"omitempty,oneof=solopreneur 2-10 11-50 51-200 201-500 501-1000 1000+"`
	MarketingTeamSize string `json:"marketingTeamSize" validate:"omitempty,oneof=none 1-3 4-7 8-15 16+"`

	PreferredDate       string            `json:"preferredDate" validate:"required,date"`
	PreferredTime       string            `json:"preferredTime" validate:"required"`
	Duration            string            `json:"duration" validate:"omitempty,oneof=30-min 45-min 60-min"`
	DemoType            string            `json:"demoType" validate:"required,oneof=platform-overview ai-content-creation campaign-automation analytics-dashboard integrations custom"`
	CustomTopics        []string          `json:"customTopics"`
	Attendees           []AttendeeRequest `json:"attendees" validate:"omitempty,dive"`
	SpecialRequirements string            `json:"specialRequirements"`

	CurrentChallenges []string `json:"currentChallenges" validate:"omitempty,dive,oneof=content-creation team-bandwidth ad-performance lead-generation roi-measurement multi-channel personalization data-integration other"`
	CurrentTools      []string `json:"currentTools"`
	MonthlyAdBudget   string   `json:"monthlyAdBudget" validate:"omitempty,oneof=none <1k 1k-5k 5k-20k 20k-100k 100k+"`
	DesiredFeatures   []string `json:"desiredFeatures" validate:"omitempty,dive,oneof=ai-copywriting visual-content automation predictive-analytics multi-user api-access white-label custom-models other"`

	Source        string        `json:"source" validate:"omitempty,oneof=website landing-page referral sales-outreach other"`
	UTMParameters UTMParameters `json:"utmParameters"`
}

type StatusUpdateRequest struct {
	Status              string `json:"status" validate:"required,oneof=scheduled confirmed rescheduled completed canceled no-show"`
	AssignedTo          string `json:"assignedTo"`
	CalendarEventID     string `json:"calendarEventId"`
	VideoConferenceLink string `json:"videoConferenceLink"`
	Notes               string `json:"notes"`
}

type RescheduleRequest struct {
	PreferredDate string `json:"preferredDate" validate:"required,date"`
	PreferredTime string `json:"preferredTime" validate:"required"`
	Reason        string `json:"reason"`
}

type NoteRequest struct {
	Content string `json:"content" validate:"required"`
}

type ListFilter struct {
	Status   string
	Industry string
	DemoType string
	DateFrom time.Time
	DateTo   time.Time
}
