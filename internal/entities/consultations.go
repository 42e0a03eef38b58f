package entities

type ConsultationStatus string

const (
	ConsultationStatusPending   ConsultationStatus = "pending"
	ConsultationStatusConfirmed ConsultationStatus = "confirmed"
	ConsultationStatusCompleted ConsultationStatus = "completed"
	ConsultationStatusCancelled ConsultationStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusRefund  PaymentStatus = "refunded"
)

// Consultation is a booking intent. Date and time are stored as the same
// "YYYY-MM-DD" and "HH:MM" strings the availability table uses.
type Consultation struct {
	Model
	ClientName    string             `gorm:"index;size:255;not null" json:"client_name"`
	ClientEmail   string             `gorm:"size:255" json:"client_email"`
	ClientPhone   string             `gorm:"size:32" json:"client_phone"`
	MemberID      *string            `gorm:"index;size:36" json:"member_id,omitempty"`
	Date          string             `gorm:"index;size:10" json:"date"`
	Time          string             `gorm:"size:5" json:"time"`
	Duration      int                `json:"duration"` // minutes
	Price         float64            `json:"price"`
	Status        ConsultationStatus `gorm:"index;size:20;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus      `gorm:"size:20;default:'pending'" json:"payment_status"`
	Notes         string             `gorm:"type:text" json:"notes,omitempty"`
}

func (Consultation) TableName() string {
	return "consultations"
}

// AvailabilitySlot is one bookable (date, time) pair.
type AvailabilitySlot struct {
	Model
	Date      string `gorm:"uniqueIndex:idx_availability_date_time;size:10;not null" json:"date"`
	Time      string `gorm:"uniqueIndex:idx_availability_date_time;size:5;not null" json:"time"`
	Available bool   `gorm:"index" json:"available"`
}

func (AvailabilitySlot) TableName() string {
	return "availability"
}

// Cult is a scheduled ritual open to the public.
type Cult struct {
	Model
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Date        string `gorm:"index;size:10" json:"date"`
	Time        string `gorm:"size:5" json:"time"`
	Location    string `gorm:"size:255" json:"location,omitempty"`
	Recurring   bool   `json:"recurring"`
	Active      bool   `json:"active"`
}

func (Cult) TableName() string {
	return "cults"
}
