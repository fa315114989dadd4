package reminder

import "github.com/stanstork/luxerent-api/internal/models"

// Classify decides which reminder, if any, fires for an invoice that is due in
// diffDays days (negative when the due date has passed).
//
// PRE_DUE requires a future due date exactly sendBeforeDays away; OVERDUE
// requires a past due date exactly sendAfterDays ago. The sign checks make the
// two mutually exclusive, a due date of today never fires, and negative
// targets never match.
func Classify(diffDays, sendBeforeDays, sendAfterDays int) (models.ReminderType, bool) {
	switch {
	case diffDays > 0 && diffDays == sendBeforeDays:
		return models.ReminderTypePreDue, true
	case diffDays < 0 && sendAfterDays > 0 && diffDays == -sendAfterDays:
		return models.ReminderTypeOverdue, true
	}
	return "", false
}
