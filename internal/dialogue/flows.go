package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/serenetouch/booking-assistant/internal/appointments"
	"github.com/serenetouch/booking-assistant/internal/booking"
	"github.com/serenetouch/booking-assistant/internal/catalog"
	"github.com/serenetouch/booking-assistant/internal/intent"
)

// handleBook books directly when the message carries a date/time, otherwise
// stores the requested service and asks for one. A stored pending service
// wins over whatever the completing message names.
func (e *Engine) handleBook(ctx context.Context, text string, res intent.Resolution, mem Memory) (TurnResult, error) {
	when, hasWhen := e.datetime.Extract(text)
	service := catalog.Match(text)

	if !hasWhen {
		mem.SetPendingService(service)
		response := fmt.Sprintf(
			"I'd be happy to book a %s for you! Please provide the date and time (e.g., 'December 10th at 2 PM' or 'tomorrow at 3:00 PM').",
			service,
		)
		return e.withResponse(res, response, mem, nil), nil
	}

	if pending := mem.PendingService(); pending != "" {
		service = pending
	}

	appt, err := e.repo.Create(ctx, mem.UserID(), service, when)
	if err != nil {
		return TurnResult{}, err
	}
	mem.ClearPendingService()
	e.metrics.ObserveAction("book", "ok")

	ref := booking.FormatReference(appt.ID)
	response := fmt.Sprintf("Great! Appointment %s booked successfully for %s on %s.", ref, service, when)
	action := &Action{Kind: "book", AppointmentID: appt.ID, Service: service, When: when}
	return e.withResponse(res, response, mem, action), nil
}

// handleReschedule walks the reschedule slot machine: complete an armed
// reschedule, disambiguate between multiple pending appointments, or move
// the only one.
func (e *Engine) handleReschedule(ctx context.Context, text string, res intent.Resolution, mem Memory) (TurnResult, error) {
	when, hasWhen := e.datetime.Extract(text)

	// An armed reschedule plus a datetime completes regardless of anything
	// else in the message.
	if id, ok := mem.PendingRescheduleID(); ok && hasWhen {
		found, err := e.repo.Reschedule(ctx, id, when)
		if err != nil {
			return TurnResult{}, err
		}
		mem.ClearPendingRescheduleID()
		ref := booking.FormatReference(id)
		if !found {
			e.metrics.ObserveAction("reschedule", "not_found")
			return e.withResponse(res, fmt.Sprintf("Appointment %s no longer exists.", ref), mem, nil), nil
		}
		e.metrics.ObserveAction("reschedule", "ok")
		response := fmt.Sprintf("Appointment %s rescheduled successfully to %s.", ref, when)
		action := &Action{Kind: "reschedule", AppointmentID: id, When: when}
		return e.withResponse(res, response, mem, action), nil
	}

	pending, err := e.pendingAppointments(ctx, mem.UserID())
	if err != nil {
		return TurnResult{}, err
	}

	switch {
	case len(pending) == 0:
		return e.withResponse(res, "No pending appointments found to reschedule.", mem, nil), nil

	case len(pending) == 1:
		id := pending[0].ID
		ref := booking.FormatReference(id)
		if hasWhen {
			if _, err := e.repo.Reschedule(ctx, id, when); err != nil {
				return TurnResult{}, err
			}
			e.metrics.ObserveAction("reschedule", "ok")
			response := fmt.Sprintf("Appointment %s rescheduled successfully to %s.", ref, when)
			action := &Action{Kind: "reschedule", AppointmentID: id, When: when}
			return e.withResponse(res, response, mem, action), nil
		}
		mem.SetPendingRescheduleID(id)
		response := fmt.Sprintf(
			"Please provide the new date and time for appointment %s (e.g., 'December 10th at 3 PM' or 'tomorrow at 2:00 PM').",
			ref,
		)
		return e.withResponse(res, response, mem, nil), nil
	}

	// Multiple pending appointments: we need a reference.
	refID, hasRef := booking.ExtractReference(text)
	awaiting := mem.AwaitingBookingID() == AwaitReschedule

	if !awaiting && !hasRef {
		mem.SetAwaitingBookingID(AwaitReschedule)
		response := fmt.Sprintf(
			"You have multiple pending appointments: %s. Please provide the booking ID you'd like to reschedule (e.g., BOOK-01-2025).",
			referenceList(pending),
		)
		return e.withResponse(res, response, mem, nil), nil
	}

	if !hasRef {
		// Still waiting; restate the options without touching memory.
		response := fmt.Sprintf(
			"You have multiple pending appointments: %s. Please provide the booking ID you'd like to reschedule.",
			referenceList(pending),
		)
		return e.withResponse(res, response, mem, nil), nil
	}

	if !containsID(pending, refID) {
		response := fmt.Sprintf(
			"Booking ID %s not found. Your pending appointments are: %s.",
			booking.FormatReference(refID), referenceList(pending),
		)
		return e.withResponse(res, response, mem, nil), nil
	}

	ref := booking.FormatReference(refID)
	if hasWhen {
		if _, err := e.repo.Reschedule(ctx, refID, when); err != nil {
			return TurnResult{}, err
		}
		mem.ClearAwaitingBookingID()
		e.metrics.ObserveAction("reschedule", "ok")
		response := fmt.Sprintf("Appointment %s rescheduled successfully to %s.", ref, when)
		action := &Action{Kind: "reschedule", AppointmentID: refID, When: when}
		return e.withResponse(res, response, mem, action), nil
	}

	mem.SetPendingRescheduleID(refID)
	mem.ClearAwaitingBookingID()
	response := fmt.Sprintf(
		"Please provide the new date and time for appointment %s (e.g., 'December 10th at 3 PM').",
		ref,
	)
	return e.withResponse(res, response, mem, nil), nil
}

// handleCancel mirrors the reschedule machine without the datetime slot.
func (e *Engine) handleCancel(ctx context.Context, text string, res intent.Resolution, mem Memory) (TurnResult, error) {
	pending, err := e.pendingAppointments(ctx, mem.UserID())
	if err != nil {
		return TurnResult{}, err
	}

	switch {
	case len(pending) == 0:
		return e.withResponse(res, "No pending appointments found to cancel.", mem, nil), nil

	case len(pending) == 1:
		id := pending[0].ID
		if _, err := e.repo.Cancel(ctx, id); err != nil {
			return TurnResult{}, err
		}
		e.metrics.ObserveAction("cancel", "ok")
		response := fmt.Sprintf("Appointment %s cancelled successfully.", booking.FormatReference(id))
		action := &Action{Kind: "cancel", AppointmentID: id}
		return e.withResponse(res, response, mem, action), nil
	}

	refID, hasRef := booking.ExtractReference(text)
	awaiting := mem.AwaitingBookingID() == AwaitCancel

	if !awaiting && !hasRef {
		mem.SetAwaitingBookingID(AwaitCancel)
		response := fmt.Sprintf(
			"You have multiple pending appointments: %s. Please provide the booking ID you'd like to cancel (e.g., BOOK-01-2025).",
			referenceList(pending),
		)
		return e.withResponse(res, response, mem, nil), nil
	}

	if !hasRef {
		response := fmt.Sprintf(
			"You have multiple pending appointments: %s. Please provide the booking ID you'd like to cancel (e.g., BOOK-01-2025).",
			referenceList(pending),
		)
		return e.withResponse(res, response, mem, nil), nil
	}

	if !containsID(pending, refID) {
		response := fmt.Sprintf(
			"Booking ID %s not found. Your pending appointments are: %s. Please provide a valid booking ID.",
			booking.FormatReference(refID), referenceList(pending),
		)
		return e.withResponse(res, response, mem, nil), nil
	}

	if _, err := e.repo.Cancel(ctx, refID); err != nil {
		return TurnResult{}, err
	}
	mem.ClearAwaitingBookingID()
	e.metrics.ObserveAction("cancel", "ok")
	response := fmt.Sprintf("Appointment %s cancelled successfully.", booking.FormatReference(refID))
	action := &Action{Kind: "cancel", AppointmentID: refID}
	return e.withResponse(res, response, mem, action), nil
}

// handleStatus summarizes the user's bookings, newest last.
func (e *Engine) handleStatus(ctx context.Context, res intent.Resolution, mem Memory) (TurnResult, error) {
	appts, err := e.repo.ListByUser(ctx, mem.UserID())
	if err != nil {
		return TurnResult{}, err
	}
	if len(appts) == 0 {
		return e.withResponse(res, "You have no bookings yet.", mem, nil), nil
	}

	latest := appts[len(appts)-1]
	response := fmt.Sprintf(
		"You have %d booking(s). Your most recent: %s - %s on %s (Status: %s)",
		len(appts), booking.FormatReference(latest.ID), latest.Service, latest.When, latest.Status,
	)
	return e.withResponse(res, response, mem, nil), nil
}

// handleConfirm serves the legacy confirm-driven reschedule slot, which
// always targets appointment 1. Only the legacy key is cleared.
func (e *Engine) handleConfirm(ctx context.Context, text string, res intent.Resolution, mem Memory) (TurnResult, error) {
	if mem.Pending() != "reschedule" {
		return e.result(res, mem, nil), nil
	}

	const legacyAppointmentID = 1
	response := "Sent reschedule information to pro, you will get notified once it's confirmed."
	var action *Action
	if when, ok := e.datetime.Extract(text); ok {
		if _, err := e.repo.Reschedule(ctx, legacyAppointmentID, when); err != nil {
			return TurnResult{}, err
		}
		e.metrics.ObserveAction("reschedule", "ok")
		action = &Action{Kind: "reschedule", AppointmentID: legacyAppointmentID, When: when}
	}
	mem.ClearPending()
	return e.withResponse(res, response, mem, action), nil
}

func (e *Engine) pendingAppointments(ctx context.Context, userID string) ([]appointments.Appointment, error) {
	appts, err := e.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var pending []appointments.Appointment
	for _, appt := range appts {
		if appt.Status == appointments.StatusPending {
			pending = append(pending, appt)
		}
	}
	return pending, nil
}

func containsID(appts []appointments.Appointment, id int64) bool {
	for _, appt := range appts {
		if appt.ID == id {
			return true
		}
	}
	return false
}

func referenceList(appts []appointments.Appointment) string {
	refs := make([]string, len(appts))
	for i, appt := range appts {
		refs[i] = booking.FormatReference(appt.ID)
	}
	return strings.Join(refs, ", ")
}
