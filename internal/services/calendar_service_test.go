package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop_backend/internal/models"
)

func strPtr(s string) *string { return &s }

func TestOrdersForTechnicianOnDay(t *testing.T) {
	day := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 14, 21, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)
	orders := []models.RepairOrder{
		{ID: "o1", AssignedTechnician: strPtr("t1"), ScheduledDate: &evening},
		{ID: "o2", AssignedTechnician: strPtr("t1"), ScheduledDate: &nextDay},
		{ID: "o3", AssignedTechnician: strPtr("t2"), ScheduledDate: &day},
		{ID: "o4"},
	}

	got := OrdersForTechnicianOnDay(orders, "t1", day, time.UTC)
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)

	unassigned := UnassignedOrders(orders)
	require.Len(t, unassigned, 1)
	assert.Equal(t, "o4", unassigned[0].ID)
}

func TestCalendar_AssignAndWeekGrid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex := env.addTechnician(t, "Alex")
	blair := env.addTechnician(t, "Blair")
	thursday := env.addOrder(t, "iPhone 12")
	monday := env.addOrder(t, "Pixel 7")
	loose := env.addOrder(t, "Galaxy S21")

	_, err := env.calendar.AssignOrder(ctx, thursday.ID, alex.ID, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = env.calendar.AssignOrder(ctx, monday.ID, blair.ID, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Sunday anchors belong to the week that started the previous Monday.
	week, err := env.calendar.GetWeek(ctx, time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), week.WeekStart)
	require.Len(t, week.Days, 7)
	require.Len(t, week.Schedules, 2)

	alexRow := week.Schedules[0]
	assert.Equal(t, alex.ID, alexRow.Technician.ID)
	require.Len(t, alexRow.Days[3].Orders, 1)
	assert.Equal(t, thursday.ID, alexRow.Days[3].Orders[0].ID)
	assert.Empty(t, alexRow.Days[0].Orders)

	blairRow := week.Schedules[1]
	require.Len(t, blairRow.Days[0].Orders, 1)
	assert.Equal(t, monday.ID, blairRow.Days[0].Orders[0].ID)

	require.Len(t, week.Unassigned, 1)
	assert.Equal(t, loose.ID, week.Unassigned[0].ID)

	onDay, err := env.calendar.GetOrdersForTechnicianAndDay(ctx, alex.ID, time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, onDay, 1)

	_, err = env.calendar.UnassignOrder(ctx, thursday.ID)
	require.NoError(t, err)
	pool, err := env.calendar.GetUnassignedOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, pool, 2)
}

func TestCalendar_TodayFollowsStoreClock(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), env.calendar.Today())
}
