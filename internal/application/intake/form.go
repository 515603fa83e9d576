package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/example/meeting-intake/internal/domain/booking"
	"github.com/example/meeting-intake/internal/internaltypes"
)

// Form aggregates the contact field values, the guest list and the per-field
// errors for one intake session. It owns the values for the lifetime of the
// session; a failed submission leaves them untouched so the user can retry
// without re-typing.
type Form struct {
	mu sync.Mutex

	values booking.ContactFormValues
	guests booking.GuestList
	errs   map[string]string

	sctx        booking.SchedulingContext
	passThrough map[string]string

	coordinator *Coordinator
	onSuccess   func(json.RawMessage)
}

func NewForm(sctx booking.SchedulingContext, passThrough map[string]string, c *Coordinator) *Form {
	return &Form{
		errs:        map[string]string{},
		sctx:        sctx,
		passThrough: passThrough,
		coordinator: c,
	}
}

// OnSuccess registers an external callback invoked with the raw service
// response when a submission succeeds.
func (f *Form) OnSuccess(fn func(json.RawMessage)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSuccess = fn
}

// Disabled mirrors the coordinator's pending state: while a submission is in
// flight every input and action is refused.
func (f *Form) Disabled() bool { return f.coordinator.Pending() }

func (f *Form) Status() Status { return f.coordinator.Status() }

func (f *Form) FailureReason() string { return f.coordinator.FailureReason() }

// SetField stores a single field value and re-validates just that field.
func (f *Form) SetField(name, value string) error {
	if f.Disabled() {
		return internaltypes.ErrSubmissionPending
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case "full_name":
		f.values.FullName = value
	case "email":
		f.values.Email = value
	case "phone_number":
		f.values.PhoneNumber = value
	case "company":
		f.values.Company = value
	case "demand":
		f.values.Demand = value
	case "field":
		f.values.Field = value
	default:
		return fmt.Errorf("field %q: %w", name, internaltypes.ErrNotFound)
	}

	f.values.Guests = f.guests.Entries()
	if msg, ok := booking.ValidateField(f.values, name); ok {
		f.errs[name] = msg
	} else {
		delete(f.errs, name)
	}
	return nil
}

func (f *Form) ToggleGuests() error {
	if f.Disabled() {
		return internaltypes.ErrSubmissionPending
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guests.ToggleExpanded()
	return nil
}

func (f *Form) SetGuestInput(text string) error {
	if f.Disabled() {
		return internaltypes.ErrSubmissionPending
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guests.UpdateBuffer(text)
	return nil
}

// CommitGuestInput fires on an explicit delimiter keystroke or on blur; both
// arrive here as the same event.
func (f *Form) CommitGuestInput() error {
	if f.Disabled() {
		return internaltypes.ErrSubmissionPending
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guests.CommitBuffer()
	return nil
}

func (f *Form) RemoveGuest(email string) error {
	if f.Disabled() {
		return internaltypes.ErrSubmissionPending
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guests.Remove(email)
	return nil
}

// Submit runs full validation and, only if it passes, builds the payload and
// hands it to the coordinator. Field errors block the call entirely and are
// returned for inline rendering. The raw response is non-nil only on success.
func (f *Form) Submit(ctx context.Context) (json.RawMessage, map[string]string, error) {
	f.mu.Lock()
	f.values.Guests = f.guests.Entries()
	if errs := booking.Validate(f.values); len(errs) > 0 {
		f.errs = errs
		f.mu.Unlock()
		return nil, errs, nil
	}
	f.errs = map[string]string{}
	req, err := booking.BuildRequest(f.values, f.sctx, f.passThrough)
	if err != nil {
		f.mu.Unlock()
		return nil, nil, err
	}
	onSuccess := f.onSuccess
	f.mu.Unlock()

	var raw json.RawMessage
	err = f.coordinator.Submit(ctx, req, func(resp json.RawMessage) {
		raw = resp
		if onSuccess != nil {
			onSuccess(resp)
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return raw, nil, nil
}

// Snapshot is the read model handed to the interface layer.
type Snapshot struct {
	Values        booking.ContactFormValues `json:"values"`
	GuestBuffer   string                    `json:"guest_buffer"`
	GuestsOpen    bool                      `json:"guests_open"`
	FieldErrors   map[string]string         `json:"field_errors"`
	Status        Status                    `json:"status"`
	Disabled      bool                      `json:"disabled"`
	FailureReason string                    `json:"failure_reason,omitempty"`
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := f.values
	values.Guests = f.guests.Entries()
	errs := make(map[string]string, len(f.errs))
	for k, v := range f.errs {
		errs[k] = v
	}
	return Snapshot{
		Values:        values,
		GuestBuffer:   f.guests.Buffer(),
		GuestsOpen:    f.guests.Expanded(),
		FieldErrors:   errs,
		Status:        f.coordinator.Status(),
		Disabled:      f.coordinator.Pending(),
		FailureReason: f.coordinator.FailureReason(),
	}
}
