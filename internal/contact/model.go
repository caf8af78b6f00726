package contact

import "time"

const (
	StatusNew      = "new"
	StatusRead     = "read"
	StatusReplied  = "replied"
	StatusArchived = "archived"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var validStatuses = map[string]struct{}{
	StatusNew:      {},
	StatusRead:     {},
	StatusReplied:  {},
	StatusArchived: {},
}

var validPriorities = map[string]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
	PriorityUrgent: {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

func IsValidPriority(value string) bool {
	_, ok := validPriorities[value]
	return ok
}

type MessageMetadata struct {
	SpamScore int       `bson:"spamScore" json:"spamScore"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Message is one inbound enquiry from the public contact form.
type Message struct {
	ID          string          `bson:"_id,omitempty" json:"id"`
	FullName    string          `bson:"fullName" json:"fullName"`
	Email       string          `bson:"email" json:"email"`
	Company     string          `bson:"company,omitempty" json:"company,omitempty"`
	Phone       string          `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject     string          `bson:"subject,omitempty" json:"subject,omitempty"`
	Body        string          `bson:"message" json:"message"`
	ServiceType string          `bson:"serviceType" json:"serviceType"`
	Budget      string          `bson:"budget,omitempty" json:"budget,omitempty"`
	Timeline    string          `bson:"timeline,omitempty" json:"timeline,omitempty"`
	IPAddress   string          `bson:"ipAddress,omitempty" json:"-"`
	UserAgent   string          `bson:"userAgent,omitempty" json:"-"`
	Source      string          `bson:"source" json:"source"`
	Status      string          `bson:"status" json:"status"`
	Priority    string          `bson:"priority" json:"priority"`
	ReadAt      *time.Time      `bson:"readAt,omitempty" json:"readAt,omitempty"`
	RepliedAt   *time.Time      `bson:"repliedAt,omitempty" json:"repliedAt,omitempty"`
	Metadata    MessageMetadata `bson:"metadata" json:"metadata"`
}

type Address struct {
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country    string `bson:"country" json:"country"`
}

type ContactDetails struct {
	Email   string  `bson:"email" json:"email"`
	Phone   string  `bson:"phone" json:"phone"`
	Address Address `bson:"address" json:"address"`
}

type Operations struct {
	BusinessHours string `bson:"businessHours" json:"businessHours"`
	Timezone      string `bson:"timezone" json:"timezone"`
}

// Info is the agency contact card shown on the public site. A single
// active document per deployment.
type Info struct {
	ID             string         `bson:"_id,omitempty" json:"id"`
	ContactDetails ContactDetails `bson:"contactDetails" json:"contactDetails"`
	Operations     Operations     `bson:"operations" json:"operations"`
	IsActive       bool           `bson:"isActive" json:"isActive"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

type SubmitRequest struct {
	FullName    string `json:"fullName" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Company     string `json:"company" validate:"omitempty,max=100"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	Subject     string `json:"subject" validate:"omitempty,max=200"`
	Message     string `json:"message" validate:"required,min=5,max=2000"`
	ServiceType string `json:"serviceType" validate:"omitempty,oneof=general ai-strategy automation analytics personalization chatbots content other"`
	Budget      string `json:"budget" validate:"omitempty,oneof=under-10k 10k-25k 25k-50k 50k-100k 100k-plus undecided"`
	Timeline    string `json:"timeline" validate:"omitempty,oneof=asap 1-2-weeks 1-month 3-months flexible"`
}

type UpdateRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=new read replied archived"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

type ListFilter struct {
	Status      string
	Priority    string
	ServiceType string
	Search      string
}
