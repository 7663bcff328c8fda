package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthportal/m/domain"
	"healthportal/m/internal/activity"
)

type fakeStore struct {
	counts   [4]int
	countErr error
	checks   []domain.SymptomCheck
	appts    []domain.AppointmentDetail
}

func (f *fakeStore) CountSymptomChecks(context.Context, uuid.UUID) (int, error) {
	return f.counts[0], nil
}
func (f *fakeStore) CountAppointments(context.Context, uuid.UUID) (int, error) {
	return f.counts[1], f.countErr
}
func (f *fakeStore) CountOrders(context.Context, uuid.UUID) (int, error) { return f.counts[2], nil }
func (f *fakeStore) CountHealthRecords(context.Context, uuid.UUID) (int, error) {
	return f.counts[3], nil
}
func (f *fakeStore) RecentSymptomChecks(context.Context, uuid.UUID, int) ([]domain.SymptomCheck, error) {
	return f.checks, nil
}
func (f *fakeStore) RecentAppointments(context.Context, uuid.UUID, int) ([]domain.AppointmentDetail, error) {
	return f.appts, nil
}

var sess = domain.Session{ID: uuid.New(), UserID: uuid.New()}

func TestStats(t *testing.T) {
	agg := activity.New(&fakeStore{counts: [4]int{1, 2, 0, 4}})

	stats, err := agg.Stats(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{SymptomChecks: 1, Appointments: 2, Orders: 0, HealthRecords: 4}, stats)
}

func TestStatsFailsWhole(t *testing.T) {
	boom := &domain.PersistenceError{Op: "count appointments", Err: errors.New("down")}
	agg := activity.New(&fakeStore{counts: [4]int{1, 2, 3, 4}, countErr: boom})

	stats, err := agg.Stats(context.Background(), sess)
	assert.True(t, domain.IsPersistence(err))
	assert.Equal(t, domain.Stats{}, stats)
}

func TestStatsRequiresSession(t *testing.T) {
	_, err := activity.New(&fakeStore{}).Stats(context.Background(), domain.Session{})
	assert.True(t, domain.IsValidation(err))
}

func at(minutes int) time.Time {
	return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func TestRecentActivityMergesNewestFirst(t *testing.T) {
	store := &fakeStore{
		checks: []domain.SymptomCheck{
			{Symptoms: domain.StringList{"cough", "fever", "fatigue", "chills"}, Severity: domain.SeverityLow, CreatedAt: at(50)},
			{Symptoms: domain.StringList{"headache"}, Severity: domain.SeverityLow, CreatedAt: at(30)},
			{Symptoms: domain.StringList{"rash"}, Severity: domain.SeverityMedium, CreatedAt: at(10)},
		},
		appts: []domain.AppointmentDetail{
			{Appointment: domain.Appointment{Status: domain.StatusScheduled, CreatedAt: at(40)}, Doctor: domain.Doctor{Name: "Dr. Aisha Rahman", Specialty: "Cardiology"}},
			{Appointment: domain.Appointment{Status: domain.StatusCancelled, CreatedAt: at(20)}, Doctor: domain.Doctor{Name: "Dr. Kenji Watanabe", Specialty: "Pediatrics"}},
			{Appointment: domain.Appointment{Status: domain.StatusCompleted, CreatedAt: at(5)}, Doctor: domain.Doctor{Name: "Dr. Maria Gonzalez", Specialty: "Neurology"}},
		},
	}

	items, err := activity.New(store).RecentActivity(context.Background(), sess, 5)
	require.NoError(t, err)
	require.Len(t, items, 5)

	var dates []time.Time
	for _, it := range items {
		dates = append(dates, it.Date)
	}
	assert.Equal(t, []time.Time{at(50), at(40), at(30), at(20), at(10)}, dates)

	assert.Equal(t, domain.ActivitySymptomCheck, items[0].Type)
	assert.Equal(t, "Symptom Analysis", items[0].Title)
	assert.Equal(t, "Analyzed symptoms: cough, fever, fatigue", items[0].Description)
	assert.Equal(t, domain.SeverityLow, items[0].Severity)

	assert.Equal(t, domain.ActivityAppointment, items[1].Type)
	assert.Equal(t, "Appointment with Dr. Aisha Rahman", items[1].Title)
	assert.Equal(t, "Cardiology", items[1].Description)
	assert.Equal(t, "scheduled", items[1].Status)
}

func TestRecentActivityDefaultLimit(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 3; i++ {
		store.checks = append(store.checks, domain.SymptomCheck{Symptoms: domain.StringList{"a"}, CreatedAt: at(i)})
		store.appts = append(store.appts, domain.AppointmentDetail{Appointment: domain.Appointment{CreatedAt: at(10 + i)}})
	}

	items, err := activity.New(store).RecentActivity(context.Background(), sess, 0)
	require.NoError(t, err)
	assert.Len(t, items, activity.DefaultLimit)
}

func TestRecentActivityEmpty(t *testing.T) {
	items, err := activity.New(&fakeStore{}).RecentActivity(context.Background(), sess, 5)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMergeTiesKeepSourceOrder(t *testing.T) {
	same := at(0)
	items := activity.Merge(
		[]domain.SymptomCheck{{Symptoms: domain.StringList{"x"}, CreatedAt: same}},
		[]domain.AppointmentDetail{{Appointment: domain.Appointment{CreatedAt: same}}},
		5,
	)
	require.Len(t, items, 2)
	assert.Equal(t, domain.ActivitySymptomCheck, items[0].Type)
	assert.Equal(t, domain.ActivityAppointment, items[1].Type)
}
