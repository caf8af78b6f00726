package user

import "time"

const (
	TypeClient = "client"
	TypeStaff  = "staff"
	TypeAdmin  = "admin"
)

type PersonalInfo struct {
	FirstName         string `bson:"firstName" json:"firstName"`
	LastName          string `bson:"lastName" json:"lastName"`
	DisplayName       string `bson:"displayName" json:"displayName"`
	Bio               string `bson:"bio,omitempty" json:"bio,omitempty"`
	UserType          string `bson:"userType" json:"userType"`
	Timezone          string `bson:"timezone,omitempty" json:"timezone,omitempty"`
	PreferredLanguage string `bson:"preferredLanguage" json:"preferredLanguage"`
}

type Auth struct {
	Email               string     `bson:"email" json:"email"`
	Phone               string     `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash        string     `bson:"password" json:"-"`
	EmailVerified       bool       `bson:"emailVerified" json:"emailVerified"`
	OTP                 string     `bson:"otp,omitempty" json:"-"`
	OTPExpiresAt        *time.Time `bson:"otpExpiresAt,omitempty" json:"-"`
	LastPasswordChange  *time.Time `bson:"lastPasswordChange,omitempty" json:"-"`
	FailedLoginAttempts int        `bson:"failedLoginAttempts" json:"-"`
}

type Business struct {
	CompanyName  string `bson:"companyName" json:"companyName"`
	Website      string `bson:"website,omitempty" json:"website,omitempty"`
	Industry     string `bson:"industry,omitempty" json:"industry,omitempty"`
	BusinessType string `bson:"businessType,omitempty" json:"businessType,omitempty"`
	CompanySize  string `bson:"companySize,omitempty" json:"companySize,omitempty"`
}

type MarketingProfile struct {
	Role            string   `bson:"role" json:"role"`
	ExperienceLevel string   `bson:"experienceLevel,omitempty" json:"experienceLevel,omitempty"`
	MonthlyAdBudget string   `bson:"monthlyAdBudget,omitempty" json:"monthlyAdBudget,omitempty"`
	MarketingGoals  []string `bson:"marketingGoals" json:"marketingGoals"`
	Challenges      []string `bson:"challenges" json:"challenges"`
}

type Credits struct {
	Available int `bson:"available" json:"available"`
	Used      int `bson:"used" json:"used"`
}

type Billing struct {
	Plan         string  `bson:"plan" json:"plan"`
	BillingCycle string  `bson:"billingCycle" json:"billingCycle"`
	Credits      Credits `bson:"credits" json:"credits"`
}

type Activity struct {
	LastLogin *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}

type Metadata struct {
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// User is a registered platform account. Staff accounts double as the
// assignable owners of demo requests.
type User struct {
	ID               string           `bson:"_id,omitempty" json:"id"`
	PersonalInfo     PersonalInfo     `bson:"personalInfo" json:"personalInfo"`
	Auth             Auth             `bson:"auth" json:"auth"`
	Business         Business         `bson:"business" json:"business"`
	MarketingProfile MarketingProfile `bson:"marketingProfile" json:"marketingProfile"`
	Billing          Billing          `bson:"billing" json:"billing"`
	Activity         Activity         `bson:"activity" json:"activity"`
	Metadata         Metadata         `bson:"metadata" json:"metadata"`
}

// Role is what goes into the access token. Admin user type wins over the
// marketing role.
func (u User) Role() string {
	if u.PersonalInfo.UserType == TypeAdmin {
		return TypeAdmin
	}
	if u.MarketingProfile.Role != "" {
		return u.MarketingProfile.Role
	}
	return TypeClient
}

func (u User) FullName() string {
	if u.PersonalInfo.DisplayName != "" {
		return u.PersonalInfo.DisplayName
	}
	return u.PersonalInfo.FirstName + " " + u.PersonalInfo.LastName
}

type RegisterRequest struct {
	FirstName       string   `json:"firstName" validate:"required,min=2,max=50"`
	LastName        string   `json:"lastName" validate:"required,min=2,max=50"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"omitempty,phone"`
	Password        string   `json:"password" validate:"required,password"`
	ConfirmPassword string   `json:"confirmPassword" validate:"required,eqfield=Password"`
	Timezone        string   `json:"timezone"`
	CompanyName     string   `json:"companyName" validate:"required,min=2,max=100"`
	Website         string   `json:"website" validate:"omitempty,url"`
	Industry        string   `json:"industry" validate:"required,oneof=ecommerce saas agency education finance healthcare entertainment real-estate manufacturing retail other"`
	BusinessType    string   `json:"businessType" validate:"required,oneof=b2b b2c both"`
	CompanySize     string   `json:"companySize" validate:"omitempty,oneof=solopreneur 2-10 11-50 51-200 201-500 501-1000 1000+"`
	Role            string   `json:"role" validate:"required,oneof=owner cmio marketing-director social-media-manager content-creator seo-specialist ppc-expert growth-hacker freelancer student other"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required,oneof=beginner intermediate advanced expert"`
	MonthlyAdBudget string   `json:"monthlyAdBudget" validate:"omitempty,oneof=none <1k 1k-5k 5k-20k 20k-100k 100k+"`
	MarketingGoals  []string `json:"marketingGoals" validate:"dive,oneof=brand-awareness lead-generation sales-conversion customer-retention community-building traffic-growth product-launch reputation-management"`
	Challenges      []string `json:"challenges" validate:"dive,oneof=budget-constraints measuring-roi team-bandwidth platform-changes audience-targeting content-creation ad-fatigue competition tech-integration"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,otp"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest carries the editable profile sections. Auth fields
// are deliberately absent, the email on file never changes here.
type ProfileUpdateRequest struct {
	PersonalInfo     *PersonalInfoUpdate     `json:"personalInfo" validate:"omitempty"`
	Business         *BusinessUpdate         `json:"business" validate:"omitempty"`
	MarketingProfile *MarketingProfileUpdate `json:"marketingProfile" validate:"omitempty"`
}

type PersonalInfoUpdate struct {
	FirstName         string `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName          string `json:"lastName" validate:"omitempty,min=2,max=50"`
	DisplayName       string `json:"displayName" validate:"omitempty,max=100"`
	Bio               string `json:"bio" validate:"omitempty,max=250"`
	Timezone          string `json:"timezone"`
	PreferredLanguage string `json:"preferredLanguage" validate:"omitempty,max=10"`
}

type BusinessUpdate struct {
	CompanyName  string `json:"companyName" validate:"omitempty,min=2,max=100"`
	Website      string `json:"website" validate:"omitempty,url"`
	Industry     string `json:"industry" validate:"omitempty,oneof=ecommerce saas agency education finance healthcare entertainment real-estate manufacturing retail other"`
	BusinessType string `json:"businessType" validate:"omitempty,oneof=b2b b2c both"`
	CompanySize  string `json:"companySize" validate:"omitempty,oneof=solopreneur 2-10 11-50 51-200 201-500 501-1000 1000+"`
}

type MarketingProfileUpdate struct {
	Role            string   `json:"role" validate:"omitempty,oneof=owner cmio marketing-director social-media-manager content-creator seo-specialist ppc-expert growth-hacker freelancer student other"`
	ExperienceLevel string   `json:"experienceLevel" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	MonthlyAdBudget string   `json:"monthlyAdBudget" validate:"omitempty,oneof=none <1k 1k-5k 5k-20k 20k-100k 100k+"`
	MarketingGoals  []string `json:"marketingGoals" validate:"omitempty,dive,oneof=brand-awareness lead-generation sales-conversion customer-retention community-building traffic-growth product-launch reputation-management"`
	Challenges      []string `json:"challenges" validate:"omitempty,dive,oneof=budget-constraints measuring-roi team-bandwidth platform-changes audience-targeting content-creation ad-fatigue competition tech-integration"`
}

type ListFilter struct {
	UserType string
	Search   string
}
