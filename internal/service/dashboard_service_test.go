package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-attendance-api/internal/i18n"
	"github.com/noah-isme/academy-attendance-api/internal/models"
	"github.com/noah-isme/academy-attendance-api/internal/store"
	appErrors "github.com/noah-isme/academy-attendance-api/pkg/errors"
)

func TestDashboardServiceOverview(t *testing.T) {
	st := store.NewAttendanceStore()
	st.ReplaceAll(store.DemoAttendance())
	svc := NewDashboardService(st, store.DemoDirectory(), nil, nil)

	overview, err := svc.Overview(context.Background(), models.NewDate(2024, time.November, 19))
	require.NoError(t, err)
	require.Len(t, overview.Branches, 3)

	b1 := overview.Branches[0]
	assert.Equal(t, "b1", b1.BranchID)
	assert.Equal(t, 3, b1.TotalStudents)
	assert.Equal(t, 3, b1.PresentToday)
	assert.Equal(t, 2, b1.Coaches)
	assert.Equal(t, 2, b1.Batches)

	assert.Equal(t, 0, overview.Branches[2].PresentToday)
	assert.Equal(t, 6, overview.Overall.TotalStudents)
	assert.Equal(t, 5, overview.Overall.PresentToday)
	assert.Equal(t, 4, overview.Overall.Coaches)
	assert.Equal(t, 4, overview.Overall.Batches)
}

func TestDashboardServiceOverviewOtherDay(t *testing.T) {
	st := store.NewAttendanceStore()
	st.ReplaceAll(store.DemoAttendance())
	svc := NewDashboardService(st, store.DemoDirectory(), nil, nil)

	overview, err := svc.Overview(context.Background(), models.NewDate(2024, time.November, 20))
	require.NoError(t, err)
	assert.Equal(t, 0, overview.Overall.PresentToday)
	assert.Equal(t, 6, overview.Overall.TotalStudents)

	_, err = svc.Overview(context.Background(), models.Date{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestDashboardServiceOverallLabelIsLocalised(t *testing.T) {
	translator, err := i18n.New("en")
	require.NoError(t, err)
	st := store.NewAttendanceStore()
	svc := NewDashboardService(st, store.DemoDirectory(), translator, nil)
	day := models.NewDate(2024, time.November, 19)

	overview, err := svc.Overview(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, models.AllBranchesID, overview.Overall.BranchID)
	assert.Equal(t, "All Branches", overview.Overall.BranchName)

	overview, err = svc.Overview(i18n.WithLocale(context.Background(), "hi"), day)
	require.NoError(t, err)
	assert.Equal(t, "सभी शाखाएँ", overview.Overall.BranchName)
}
