package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/1enzz/vtrstudio/internal/studio"
)

// Step identifies the active wizard state. Branch and terminal states are
// first-class values rather than sentinel step numbers.
type Step int

const (
	StepIdentify Step = iota
	StepVehicle
	StepService
	StepDate
	StepHour
	StepExisting
	StepConfirmed
	StepCancelled
)

// String returns a short label for the step.
func (s Step) String() string {
	switch s {
	case StepIdentify:
		return "identify"
	case StepVehicle:
		return "vehicle"
	case StepService:
		return "service"
	case StepDate:
		return "date"
	case StepHour:
		return "hour"
	case StepExisting:
		return "existing"
	case StepConfirmed:
		return "confirmed"
	case StepCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the step ends the wizard until a restart.
func (s Step) Terminal() bool {
	return s == StepConfirmed || s == StepCancelled
}

// State is the single mutable aggregate the wizard owns. The UI renders from
// snapshots of it and never mutates it directly.
type State struct {
	Step Step

	Name  string
	Phone string // digits only

	Vehicles        []string
	SelectedVehicle string

	Services        []string
	SelectedService string
	IsHourly        *bool // nil until fetched for the selected service

	Dates        []string
	SelectedDate string

	Hours        []string
	SelectedHour string

	Existing    *studio.Booking
	BypassCheck bool

	Error   string
	Loading bool
}

// Controller drives the booking wizard. Transition methods block for the
// duration of their network calls; the busy guard rejects a second transition
// while one is in flight, and every settled call is discarded when a restart
// has bumped the state version in the meantime.
type Controller struct {
	mu      sync.Mutex
	api     studio.BookingAPI
	st      State
	version uint64
}

// SizeClassDefault is sent with every booking request; the backend reassigns
// the real size class from its vehicle categories.
const SizeClassDefault = "Pequeno"

// NewController builds a Controller over the given booking API.
func NewController(api studio.BookingAPI) *Controller {
	return &Controller{api: api}
}

// Snapshot returns a copy of the current wizard state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.st
	st.Vehicles = cloneStrings(c.st.Vehicles)
	st.Services = cloneStrings(c.st.Services)
	st.Dates = cloneStrings(c.st.Dates)
	st.Hours = cloneStrings(c.st.Hours)
	if c.st.IsHourly != nil {
		hourly := *c.st.IsHourly
		st.IsHourly = &hourly
	}
	if c.st.Existing != nil {
		existing := *c.st.Existing
		st.Existing = &existing
	}
	return st
}

// SubmitCustomer validates the step-1 fields, runs the existing-booking check
// unless it is bypassed, and advances to the vehicle or branch state.
func (c *Controller) SubmitCustomer(ctx context.Context, name, phone string) {
	c.mu.Lock()
	if c.st.Loading {
		c.mu.Unlock()
		return
	}
	c.st.Error = ""
	name = strings.TrimSpace(name)
	phone = DigitsOnly(phone)
	if name == "" || phone == "" {
		c.st.Error = "Enter your name and phone number to continue."
		c.mu.Unlock()
		return
	}
	c.st.Name = name
	c.st.Phone = phone
	bypass := c.st.BypassCheck
	v := c.beginLocked()
	c.mu.Unlock()

	if !bypass {
		booking, err := c.api.CheckBooking(ctx, phone)
		if err != nil {
			c.settleErr(v, "check existing booking", err)
			return
		}
		if booking != nil {
			c.settle(v, func(st *State) {
				st.Existing = booking
				st.Step = StepExisting
			})
			return
		}
	}
	c.loadVehicles(ctx, v)
}

// SelectVehicle stores the chosen vehicle and loads its services. Changing
// the vehicle invalidates every later selection.
func (c *Controller) SelectVehicle(ctx context.Context, model string) {
	c.mu.Lock()
	if c.st.Loading {
		c.mu.Unlock()
		return
	}
	c.st.Error = ""
	if strings.TrimSpace(model) == "" {
		c.st.Error = "Select a vehicle to continue."
		c.mu.Unlock()
		return
	}
	if model != c.st.SelectedVehicle {
		c.st.SelectedService = ""
		c.st.IsHourly = nil
		c.invalidateAvailabilityLocked()
	}
	c.st.SelectedVehicle = model
	v := c.beginLocked()
	c.mu.Unlock()

	services, err := c.api.ServicesForVehicle(ctx, model)
	if err != nil {
		c.settleErr(v, "load services", err)
		return
	}
	c.settle(v, func(st *State) {
		st.Services = services
		st.Step = StepService
	})
}

// SelectService stores the chosen service, refreshes its granularity flag,
// and loads the available dates. Changing the service invalidates any date
// and hour picked for the previous one.
func (c *Controller) SelectService(ctx context.Context, serviceType string) {
	c.mu.Lock()
	if c.st.Loading {
		c.mu.Unlock()
		return
	}
	c.st.Error = ""
	if strings.TrimSpace(serviceType) == "" {
		c.st.Error = "Select a service to continue."
		c.mu.Unlock()
		return
	}
	if serviceType != c.st.SelectedService {
		c.invalidateAvailabilityLocked()
	}
	c.st.SelectedService = serviceType
	c.st.IsHourly = nil
	vehicle := c.st.SelectedVehicle
	v := c.beginLocked()
	c.mu.Unlock()

	// Granularity refreshes with every service change. A failure here is not
	// fatal: the flag stays undetermined and is fetched again at submit time.
	if hourly, err := c.api.ServiceIsHourly(ctx, serviceType); err == nil {
		c.update(v, func(st *State) {
			st.IsHourly = &hourly
		})
	}

	dates, err := c.api.AvailableDates(ctx, serviceType, vehicle)
	if err != nil {
		c.settleErr(v, "load available dates", err)
		return
	}
	c.settle(v, func(st *State) {
		st.Dates = dates
		st.Step = StepDate
	})
}

// SelectDate validates the chosen date against the fetched availability set.
// Hourly services continue to hour selection when slots exist; day-granular
// services submit the booking directly.
func (c *Controller) SelectDate(ctx context.Context, date string) {
	c.mu.Lock()
	if c.st.Loading {
		c.mu.Unlock()
		return
	}
	c.st.Error = ""
	if date == "" {
		c.st.Error = "Select a date to continue."
		c.mu.Unlock()
		return
	}
	if !contains(c.st.Dates, date) {
		c.st.Error = "That date is no longer available. Pick another one."
		c.mu.Unlock()
		return
	}
	c.st.SelectedDate = date
	c.st.SelectedHour = ""
	c.st.Hours = nil
	serviceType := c.st.SelectedService
	vehicle := c.st.SelectedVehicle
	hourly := c.st.IsHourly
	v := c.beginLocked()
	c.mu.Unlock()

	if hourly == nil {
		fetched, err := c.api.ServiceIsHourly(ctx, serviceType)
		if err != nil {
			c.settleErr(v, "check service granularity", err)
			return
		}
		hourly = &fetched
		c.update(v, func(st *State) {
			st.IsHourly = hourly
		})
	}

	if !*hourly {
		c.submitBooking(ctx, v, date)
		return
	}

	hours, err := c.api.AvailableHours(ctx, serviceType, vehicle, date)
	if err != nil {
		c.settleErr(v, "load available times", err)
		return
	}
	if len(hours) == 0 {
		// Non-fatal: stay on date selection so another date can be picked.
		c.settle(v, func(st *State) {
			st.Error = "No times are available on that date. Pick another one."
		})
		return
	}
	c.settle(v, func(st *State) {
		st.Hours = hours
		st.Step = StepHour
	})
}

// SelectHour validates the chosen slot and submits the booking with the full
// date+hour timestamp.
func (c *Controller) SelectHour(ctx context.Context, hour string) {
	c.mu.Lock()
	if c.st.Loading {
		c.mu.Unlock()
		return
	}
	c.st.Error = ""
	if hour == "" {
		c.st.Error = "Select a time to continue."
		c.mu.Unlock()
		return
	}
	if !contains(c.st.Hours, hour) {
		c.st.Error = "That time is no longer available. Pick another one."
		c.mu.Unlock()
		return
	}
	c.st.SelectedHour = hour
	date := c.st.SelectedDate
	v := c.beginLocked()
	c.mu.Unlock()

	timestamp, err := studio.ComposeTimestamp(date, hour)
	if err != nil {
		c.settleErr(v, "compose booking time", err)
		return
	}
	c.submitBooking(ctx, v, timestamp)
}

// ConfirmExisting confirms the booking found by the pre-check.
func (c *Controller) ConfirmExisting(ctx context.Context) {
	c.mu.Lock()
	if c.st.Loading || c.st.Existing == nil {
		c.mu.Unlock()
		return
	}
	c.st.Error = ""
	id := c.st.Existing.ID
	v := c.beginLocked()
	c.mu.Unlock()

	if err := c.api.ConfirmBooking(ctx, id); err != nil {
		c.settleErr(v, "confirm booking", err)
		return
	}
	c.settle(v, func(st *State) {
		st.Step = StepConfirmed
	})
}

// CancelExisting cancels the booking found by the pre-check.
func (c *Controller) CancelExisting(ctx context.Context) {
	c.mu.Lock()
	if c.st.Loading || c.st.Existing == nil {
		c.mu.Unlock()
		return
	}
	c.st.Error = ""
	id := c.st.Existing.ID
	v := c.beginLocked()
	c.mu.Unlock()

	if err := c.api.CancelBooking(ctx, id); err != nil {
		c.settleErr(v, "cancel booking", err)
		return
	}
	c.settle(v, func(st *State) {
		st.Existing = nil
		st.Step = StepCancelled
	})
}

// ReserveAnother suppresses the existing-booking check for the rest of the
// session and continues into vehicle selection.
func (c *Controller) ReserveAnother(ctx context.Context) {
	c.mu.Lock()
	if c.st.Loading {
		c.mu.Unlock()
		return
	}
	c.st.Error = ""
	c.st.BypassCheck = true
	v := c.beginLocked()
	c.mu.Unlock()

	c.loadVehicles(ctx, v)
}

// Back returns to the previous collecting step without clearing anything.
// The bypass flag keeps the existing-booking check suppressed when step 1 is
// resubmitted after a branch visit.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.Loading {
		return
	}
	c.st.Error = ""
	switch c.st.Step {
	case StepVehicle, StepExisting:
		c.st.Step = StepIdentify
	case StepService:
		c.st.Step = StepVehicle
	case StepDate:
		c.st.Step = StepService
	case StepHour:
		c.st.Step = StepDate
	}
}

// Restart resets every field to its initial value, including the bypass
// flag, and invalidates any call still in flight.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.st = State{}
}

// beginLocked marks a transition in flight and returns its version tag.
// Callers must hold the mutex.
func (c *Controller) beginLocked() uint64 {
	c.st.Loading = true
	c.version++
	return c.version
}

// settle finishes the transition tagged v and applies its result. Results
// from a stale session (a restart bumped the version) are discarded.
func (c *Controller) settle(v uint64, apply func(st *State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v != c.version {
		return
	}
	c.st.Loading = false
	apply(&c.st)
}

// update applies an intermediate result while the transition stays in
// flight. Same staleness rule as settle.
func (c *Controller) update(v uint64, apply func(st *State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v != c.version {
		return
	}
	apply(&c.st)
}

func (c *Controller) settleErr(v uint64, action string, err error) {
	c.settle(v, func(st *State) {
		st.Error = fmt.Sprintf("Could not %s: %v", action, err)
	})
}

func (c *Controller) loadVehicles(ctx context.Context, v uint64) {
	vehicles, err := c.api.Vehicles(ctx)
	if err != nil {
		c.settleErr(v, "load vehicles", err)
		return
	}
	c.settle(v, func(st *State) {
		st.Vehicles = vehicles
		st.Step = StepVehicle
	})
}

func (c *Controller) submitBooking(ctx context.Context, v uint64, date string) {
	c.mu.Lock()
	req := studio.BookingRequest{
		Name:  c.st.Name,
		Phone: c.st.Phone,
		Vehicle: studio.VehicleRef{
			Model:     c.st.SelectedVehicle,
			SizeClass: SizeClassDefault,
		},
		ServiceType: c.st.SelectedService,
		Date:        date,
	}
	c.mu.Unlock()

	if err := c.api.CreateBooking(ctx, req); err != nil {
		c.settleErr(v, "save booking", err)
		return
	}
	c.settle(v, func(st *State) {
		st.Step = StepConfirmed
	})
}

func (c *Controller) invalidateAvailabilityLocked() {
	c.st.Dates = nil
	c.st.SelectedDate = ""
	c.st.Hours = nil
	c.st.SelectedHour = ""
}

// DigitsOnly strips every non-digit rune from a phone number.
func DigitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	dup := make([]string, len(values))
	copy(dup, values)
	return dup
}
