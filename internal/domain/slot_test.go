package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TTA-ReservationService/pkg/types"
)

func TestIsPermittedSlot(t *testing.T) {
	testCases := []struct {
		name     string
		start    types.TimeString
		expected bool
	}{
		{name: "first slot", start: "08:00", expected: true},
		{name: "middle slot", start: "12:00", expected: true},
		{name: "last slot", start: "17:00", expected: true},
		{name: "before opening", start: "07:00", expected: false},
		{name: "after last slot", start: "18:00", expected: false},
		{name: "between slots", start: "10:30", expected: false},
		{name: "empty", start: "", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsPermittedSlot(tc.start))
		})
	}
}

func TestSlotEnd(t *testing.T) {
	testCases := []struct {
		name     string
		start    types.TimeString
		expected types.TimeString
	}{
		{name: "morning slot", start: "08:00", expected: "09:00"},
		{name: "midday slot", start: "12:00", expected: "13:00"},
		{name: "last slot ends after closing", start: "17:00", expected: "18:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			end, err := SlotEnd(tc.start)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, end)
		})
	}
}

func TestSlotEnd_CoversAllPermittedSlots(t *testing.T) {
	// Для каждого разрешенного слота конец вычисляется без ошибки
	// и строго позже начала
	for _, slot := range PermittedSlots {
		end, err := SlotEnd(slot)
		require.NoError(t, err, "slot %s", slot)
		assert.True(t, end.IsAfter(slot), "slot %s must end after it starts", slot)
	}
}
