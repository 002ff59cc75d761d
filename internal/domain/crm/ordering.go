package crm

import (
	"sort"
	"time"
)

// SortReminders orders reminders in place for display:
//  1. overdue before not overdue (only when scope is pending)
//  2. priority descending, unknown priorities last
//  3. due date ascending
//
// The sort is stable, so fully tied reminders keep store order.
func SortReminders(reminders []CommunicationReminder, scope ReminderStatus, now time.Time) {
	sort.SliceStable(reminders, func(i, j int) bool {
		a, b := &reminders[i], &reminders[j]
		if ao, bo := a.IsOverdue(now, scope), b.IsOverdue(now, scope); ao != bo {
			return ao
		}
		if aw, bw := a.Priority.Weight(), b.Priority.Weight(); aw != bw {
			return aw > bw
		}
		return a.DueDate.Before(b.DueDate)
	})
}

// FilterByPriority keeps reminders with the given priority, preserving order.
// An empty priority keeps everything.
func FilterByPriority(reminders []CommunicationReminder, priority Priority) []CommunicationReminder {
	if priority == "" {
		return reminders
	}
	out := reminders[:0:0]
	for _, r := range reminders {
		if r.Priority == priority {
			out = append(out, r)
		}
	}
	return out
}
