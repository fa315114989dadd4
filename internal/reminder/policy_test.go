package reminder

import (
	"fmt"
	"testing"

	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		diff, before, after int
		want                models.ReminderType
		fires               bool
	}{
		// pre-due
		{3, 3, 1, models.ReminderTypePreDue, true},
		{1, 1, 1, models.ReminderTypePreDue, true},
		{4, 3, 1, "", false},
		{2, 3, 1, "", false},
		// overdue
		{-1, 3, 1, models.ReminderTypeOverdue, true},
		{-5, 3, 5, models.ReminderTypeOverdue, true},
		{-2, 3, 1, "", false},
		// sign guards
		{-3, 3, 0, "", false},
		{1, 0, 1, "", false},
		// due today never fires
		{0, 0, 0, "", false},
		{0, 3, 1, "", false},
		// same magnitude for both targets
		{2, 2, 2, models.ReminderTypePreDue, true},
		{-2, 2, 2, models.ReminderTypeOverdue, true},
		// negative targets never match
		{-3, -3, 1, "", false},
		{3, 3, -3, models.ReminderTypePreDue, true},
		{-3, 1, -3, "", false},
		{3, -3, -3, "", false},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("diff=%d/before=%d/after=%d", tt.diff, tt.before, tt.after)
		t.Run(name, func(t *testing.T) {
			got, ok := Classify(tt.diff, tt.before, tt.after)
			assert.Equal(t, tt.fires, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_NeverBothTypes(t *testing.T) {
	for diff := -10; diff <= 10; diff++ {
		for before := -2; before <= 10; before++ {
			for after := -2; after <= 10; after++ {
				kind, ok := Classify(diff, before, after)
				if !ok {
					continue
				}
				if diff > 0 {
					assert.Equal(t, models.ReminderTypePreDue, kind)
				} else {
					assert.Equal(t, models.ReminderTypeOverdue, kind)
					assert.Negative(t, diff)
				}
			}
		}
	}
}
