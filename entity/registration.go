package entity

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// DefaultSubscriptionDays is used when the wizard leaves the
// subscription duration blank.
const DefaultSubscriptionDays = 14

// RegistrationDraft accumulates form data across wizard steps. It lives
// inside the wizard session state and is destroyed together with it on
// submission or session expiry.
type RegistrationDraft struct {
	SchoolName      string `json:"school_name" bson:"school_name"`
	AdminName       string `json:"admin_name" bson:"admin_name"`
	Username        string `json:"username" bson:"username"`
	Email           string `json:"email" bson:"email"`
	Mobile          string `json:"mobile" bson:"mobile"`
	Channel         string `json:"channel" bson:"channel"`
	SMSSenderName   string `json:"sms_sender_name" bson:"sms_sender_name"`
	WASenderName    string `json:"wa_sender_name" bson:"wa_sender_name"`
	FromEmail       string `json:"from_email" bson:"from_email"`
	FromEmailName   string `json:"from_email_name" bson:"from_email_name"`
	EmailCredential string `json:"email_credential" bson:"email_credential"`
	OperatingHours  string `json:"operating_hours" bson:"operating_hours"`
	AcademicYear    string `json:"academic_year" bson:"academic_year"`

	AssignSubscription bool   `json:"assign_subscription" bson:"assign_subscription"`
	SubscriptionType   string `json:"subscription_type" bson:"subscription_type"`
	SubscriptionDays   int    `json:"subscription_days" bson:"subscription_days"`

	FastTrack bool `json:"fast_track" bson:"fast_track"`

	Address   Address  `json:"address" bson:"address"`
	Latitude  *float64 `json:"latitude" bson:"latitude"`
	Longitude *float64 `json:"longitude" bson:"longitude"`

	MobileVerified bool `json:"mobile_verified" bson:"mobile_verified"`
}

// Registration is the final payload assembled on the last wizard step
// and handed to the registration service.
type Registration struct {
	SchoolName      string  `json:"school_name"`
	AdminName       string  `json:"admin_name"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Mobile          string  `json:"mobile"`
	Channel         string  `json:"channel"`
	SMSSenderName   string  `json:"sms_sender_name"`
	WASenderName    string  `json:"wa_sender_name"`
	FromEmail       string  `json:"from_email"`
	FromEmailName   string  `json:"from_email_name"`
	EmailCredential string  `json:"email_credential"`
	OperatingHours  string  `json:"operating_hours"`
	AcademicYear    string  `json:"academic_year"`
	Address         Address `json:"address"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	MobileVerified  bool    `json:"mobile_verified"`

	AssignSubscription bool   `json:"assign_subscription"`
	SubscriptionType   string `json:"subscription_type"`
	SubscriptionDays   int    `json:"subscription_days"`
}

// Completion carries the data shown on the confirmation view after a
// successful submission.
type Completion struct {
	SchoolName string `json:"school_name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
}

// ToRegistration assembles the final payload from the accumulated draft.
// The effective verified flag is true unconditionally when fast-track was
// used, otherwise it is the OTP-verified flag; the caller decides which.
func (d *RegistrationDraft) ToRegistration(verified bool) *Registration {
	fromEmailName := d.FromEmailName
	if fromEmailName == "" {
		fromEmailName = d.SchoolName
	}
	days := d.SubscriptionDays
	if days <= 0 {
		days = DefaultSubscriptionDays
	}
	var lat, lng float64
	if d.Latitude != nil {
		lat = *d.Latitude
	}
	if d.Longitude != nil {
		lng = *d.Longitude
	}
	return &Registration{
		SchoolName:         d.SchoolName,
		AdminName:          d.AdminName,
		Username:           d.Username,
		Email:              d.Email,
		Mobile:             d.Mobile,
		Channel:            d.Channel,
		SMSSenderName:      d.SMSSenderName,
		WASenderName:       d.WASenderName,
		FromEmail:          d.FromEmail,
		FromEmailName:      fromEmailName,
		EmailCredential:    d.EmailCredential,
		OperatingHours:     d.OperatingHours,
		AcademicYear:       d.AcademicYear,
		Address:            d.Address,
		Latitude:           lat,
		Longitude:          lng,
		MobileVerified:     verified,
		AssignSubscription: d.AssignSubscription,
		SubscriptionType:   d.SubscriptionType,
		SubscriptionDays:   days,
	}
}
