package booking

import (
	"context"
	"encoding/json"
	"time"
)

// ContactFormValues is the contact half of the intake step: who is asking for
// the meeting, what they want to talk about, and which extra guests to invite.
type ContactFormValues struct {
	FullName    string   `json:"full_name" validate:"min=2"`
	Email       string   `json:"email" validate:"required,email"`
	PhoneNumber string   `json:"phone_number"`
	Company     string   `json:"company"`
	Demand      string   `json:"demand" validate:"min=2"`
	Field       string   `json:"field" validate:"required"`
	Guests      []string `json:"guests" validate:"dive,required,email"`
}

// Fields is the fixed set of business sectors offered by the intake form's
// sector select. Submit-time validation only requires a non-empty choice;
// membership is the select widget's concern.
var Fields = []string{
	"Dịch vụ",
	"Thương mại điện tử",
	"Giáo dục",
	"Tài chính - Ngân hàng",
	"Bất động sản",
	"Sản xuất",
	"Công nghệ thông tin",
	"Khác",
}

// SchedulingContext carries what the user picked before reaching the contact
// step. It is supplied by the caller and never mutated here.
type SchedulingContext struct {
	Date       time.Time
	SlotStart  string // restaurant-style wall clock, e.g. "09:00"
	SlotEnd    string
	TimeZone   string // IANA identifier, e.g. "Asia/Ho_Chi_Minh"
	DurationID string
}

// Request is the flattened payload sent to the remote scheduling service:
// pass-through parameters merged with scheduling metadata and the prefixed
// contact fields.
type Request map[string]string

// Booker is the remote scheduling service. The response body of a successful
// booking is opaque to the intake step and forwarded verbatim.
type Booker interface {
	Name() string
	Ping(ctx context.Context) error
	Book(ctx context.Context, req Request) (json.RawMessage, error)
}
