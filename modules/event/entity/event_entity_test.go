package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventStatusValid(t *testing.T) {
	assert.True(t, StatusBusy.Valid())
	assert.True(t, StatusSwappable.Valid())
	assert.True(t, StatusSwapPending.Valid())
	assert.False(t, EventStatus("FREE").Valid())
	assert.False(t, EventStatus("").Valid())
}

func TestCanOwnerTransition(t *testing.T) {
	tests := []struct {
		name string
		from EventStatus
		to   EventStatus
		want bool
	}{
		{"busy to swappable", StatusBusy, StatusSwappable, true},
		{"swappable to busy", StatusSwappable, StatusBusy, true},
		{"busy to busy", StatusBusy, StatusBusy, true},
		{"swappable to swappable", StatusSwappable, StatusSwappable, true},
		{"busy to swap_pending", StatusBusy, StatusSwapPending, false},
		{"swappable to swap_pending", StatusSwappable, StatusSwapPending, false},
		{"swap_pending to busy", StatusSwapPending, StatusBusy, false},
		{"swap_pending to swappable", StatusSwapPending, StatusSwappable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanOwnerTransition(tt.from, tt.to))
		})
	}
}
