package services

import (
	"context"
	"fmt"
	"time"

	"starlink_crm_backend/internal/models"
)

// ReminderCadenceDays is the renewal period counted from a client's signup.
const ReminderCadenceDays = 28

// DaysBetween returns the number of whole calendar days (UTC) from a to b.
func DaysBetween(a, b time.Time) int {
	return int(startOfDay(b).Sub(startOfDay(a)).Hours() / 24)
}

// IsReminderDue reports whether a client aged ageDays is on a renewal day.
// Age zero (signed up today) is never due.
func IsReminderDue(ageDays int) bool {
	return ageDays > 0 && ageDays%ReminderCadenceDays == 0
}

// FormatReminder renders the reminder line for a client.
func FormatReminder(client models.Client) string {
	return fmt.Sprintf("Reminder: Client %s's subscription is nearing renewal. Registered on %s",
		client.DisplayName(), client.CreatedAt.UTC().Format(time.DateOnly))
}

// Reminders recomputes the due reminders on every call. Nothing is persisted,
// so repeated calls on the same day return the same lines.
func (s *clientService) Reminders(ctx context.Context) ([]string, error) {
	today := startOfDay(s.now())

	candidates, err := s.clientRepo.SelectReminderCandidates(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder candidates: %w", err)
	}

	reminders := []string{}
	for _, client := range candidates {
		if IsReminderDue(DaysBetween(client.CreatedAt, today)) {
			reminders = append(reminders, FormatReminder(client))
		}
	}
	return reminders, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
