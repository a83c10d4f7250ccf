// Package wizard implements the booking flow state machine.
//
// # Overview
//
// The wizard walks a customer through creating a booking: identify yourself,
// pick a vehicle, pick a service, pick a date, and, for hourly services, pick
// a time. Customers who already hold an active booking are diverted to a
// branch where they can confirm it, cancel it, or start a fresh reservation.
//
// # Architecture
//
// A single Controller owns all wizard state behind a mutex. The UI never
// mutates state directly; it calls a transition method (SubmitCustomer,
// SelectVehicle, SelectService, SelectDate, SelectHour, ...) and then reads
// an immutable Snapshot to render. Transitions block while they talk to the
// backend, so they are intended to run off the UI's event loop.
//
// # Staleness
//
// Each transition is tagged with a monotonically increasing version taken
// under the lock. When the network work finishes, the result is applied only
// if the version still matches; Restart bumps the version, so responses that
// arrive after a restart are discarded rather than resurrecting old state.
//
// # Steps
//
//	StepIdentify -> StepVehicle -> StepService -> StepDate -> StepHour -> StepConfirmed
//	                                                       \> StepConfirmed (fixed-slot services skip the hour step)
//	StepIdentify -> StepExisting (active booking found) -> StepConfirmed | StepCancelled
//
// StepConfirmed and StepCancelled are terminal; only Restart leaves them.
//
// # Error Handling
//
// Validation and request failures never advance the step. They set a
// human-readable message on the snapshot and leave the collected answers
// intact, so the customer can correct the input or retry.
package wizard
