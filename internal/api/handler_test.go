package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"healthportal/m/domain"
	"healthportal/m/internal/activity"
	"healthportal/m/internal/appointment"
	"healthportal/m/internal/cart"
	"healthportal/m/internal/identity"
	"healthportal/m/internal/notify"
	"healthportal/m/internal/records"
	"healthportal/m/internal/store"
	"healthportal/m/internal/store/storetest"
	"healthportal/m/internal/symptom"
)

type testServer struct {
	*httptest.Server
	store    *store.Store
	notifier *MockNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := storetest.Seeded(t)
	ctrl := gomock.NewController(t)
	notifier := NewMockNotifier(ctrl)

	h := New(Services{
		Identity:  identity.New(s, "test_secret", time.Hour),
		Cart:      cart.New(s),
		Scheduler: appointment.New(s),
		Symptoms:  symptom.New(s, nil),
		Records:   records.New(s),
		Activity:  activity.New(s),
		Notifier:  notifier,
		Inbox:     notify.NewStoreNotifier(s),
	}, nil)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: s, notifier: notifier}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rdr = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (ts *testServer) register(t *testing.T, email string) string {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": "s3cret!", "full_name": "Test Patient",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[identity.Grant](t, resp).Token
}

// expectOutcome expects a single notification of the given type.
func (ts *testServer) expectOutcome(kind string) {
	ts.notifier.EXPECT().
		Notify(gomock.Any(), gomock.Any(), gomock.Cond(func(n any) bool {
			return n.(domain.Notification).Type == kind
		})).
		Times(1)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/cart/", "/appointments/", "/dashboard/stats", "/profile"} {
		resp := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
	resp := ts.do(t, http.MethodGet, "/cart/", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginAndLogout(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "login@example.com")

	resp := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "login@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "login@example.com", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decode[identity.Grant](t, resp).Token

	resp = ts.do(t, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "cart@example.com")
	metformin := storetest.Medicine(t, ts.store, "Metformin 500mg")
	para := storetest.Medicine(t, ts.store, "Paracetamol 500mg")

	ts.expectOutcome(domain.NotificationSuccess)
	resp := ts.do(t, http.MethodPost, "/cart/items", token, map[string]any{"medicine_id": metformin.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ts.expectOutcome(domain.NotificationSuccess)
	resp = ts.do(t, http.MethodPost, "/cart/items", token, map[string]any{"medicine_id": para.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[domain.CartItem](t, resp).Quantity)

	resp = ts.do(t, http.MethodGet, "/cart/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Items []domain.CartLine `json:"items"`
		Total string            `json:"total"`
	}](t, resp)
	assert.Len(t, body.Items, 2)
	assert.Equal(t, "23.48", body.Total)

	ts.expectOutcome(domain.NotificationError)
	resp = ts.do(t, http.MethodPost, "/cart/items", token, map[string]any{"medicine_id": para.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ts.expectOutcome(domain.NotificationSuccess)
	resp = ts.do(t, http.MethodPut, "/cart/items/"+para.ID.String(), token, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[setCartItemResponse](t, resp).Present)

	ts.expectOutcome(domain.NotificationError)
	resp = ts.do(t, http.MethodPut, "/cart/items/not-a-uuid", token, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ts.expectOutcome(domain.NotificationSuccess)
	resp = ts.do(t, http.MethodPost, "/cart/checkout", token, map[string]string{"shipping_address": "1 Main St"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[domain.Order](t, resp)
	assert.Equal(t, "19.98", order.TotalAmount.StringFixed(2))

	resp = ts.do(t, http.MethodGet, "/orders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]domain.Order](t, resp), 1)
}

func TestAppointmentFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "appt@example.com")
	doc := storetest.Doctor(t, ts.store, "Dr. Elena Petrova")
	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	ts.expectOutcome(domain.NotificationSuccess)
	resp := ts.do(t, http.MethodPost, "/appointments/", token, map[string]any{
		"doctor_id": doc.ID, "appointment_date": date, "appointment_time": "10:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	appt := decode[domain.Appointment](t, resp)

	ts.expectOutcome(domain.NotificationError)
	resp = ts.do(t, http.MethodPost, "/appointments/", token, map[string]any{
		"doctor_id": doc.ID, "appointment_date": date, "appointment_time": "12:30",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ts.expectOutcome(domain.NotificationSuccess)
	resp = ts.do(t, http.MethodPatch, "/appointments/"+appt.ID.String()+"/status", token, map[string]string{"status": "cancelled"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ts.expectOutcome(domain.NotificationError)
	resp = ts.do(t, http.MethodPatch, "/appointments/"+appt.ID.String()+"/status", token, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	other := ts.register(t, "other@example.com")
	ts.expectOutcome(domain.NotificationError)
	resp = ts.do(t, http.MethodPatch, "/appointments/"+appt.ID.String()+"/status", other, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/appointments/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]domain.AppointmentDetail](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusCancelled, list[0].Status)
	assert.Equal(t, "Dr. Elena Petrova", list[0].Doctor.Name)
}

func TestRejectedRequestsStillNotify(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "reject@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"malformed cart add", http.MethodPost, "/cart/items", []byte(`{"medicine_id":`)},
		{"unknown cart item field", http.MethodPost, "/cart/items", map[string]any{"sku": "x"}},
		{"bad medicine path", http.MethodPut, "/cart/items/42", map[string]int{"quantity": 1}},
		{"malformed checkout", http.MethodPost, "/cart/checkout", []byte(`not json`)},
		{"malformed profile", http.MethodPut, "/profile", []byte(`{`)},
		{"malformed booking", http.MethodPost, "/appointments/", []byte(`[]`)},
		{"bad appointment path", http.MethodPatch, "/appointments/nope/status", map[string]string{"status": "cancelled"}},
		{"malformed symptoms", http.MethodPost, "/symptom-checks/", []byte(`{"symptoms":"cough"}`)},
		{"malformed health record", http.MethodPost, "/health-records/", []byte(``)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.expectOutcome(domain.NotificationError)
			resp := ts.do(t, tt.method, tt.path, token, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSymptomsAndDashboard(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "dash@example.com")

	ts.expectOutcome(domain.NotificationSuccess)
	resp := ts.do(t, http.MethodPost, "/symptom-checks/", token, map[string]any{"symptoms": []string{"cough", "fever"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Common Cold", decode[analyzeResponse](t, resp).Classification.Condition)

	ts.expectOutcome(domain.NotificationError)
	resp = ts.do(t, http.MethodPost, "/symptom-checks/", token, map[string]any{"symptoms": []string{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ts.expectOutcome(domain.NotificationSuccess)
	resp = ts.do(t, http.MethodPost, "/health-records/", token, map[string]any{
		"record_type": "lab_result", "title": "CBC", "data": map[string]string{"test": "Hemoglobin", "value": "13.5"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ts.expectOutcome(domain.NotificationError)
	resp = ts.do(t, http.MethodPost, "/health-records/", token, map[string]any{
		"record_type": "lab_result", "title": "CBC", "data": map[string]string{"colour": "red"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.Stats{SymptomChecks: 1, HealthRecords: 1}, decode[domain.Stats](t, resp))

	resp = ts.do(t, http.MethodGet, "/dashboard/activity?limit=5", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]domain.ActivityItem](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, "Analyzed symptoms: cough, fever", items[0].Description)

	resp = ts.do(t, http.MethodGet, "/dashboard/activity?limit=lots", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/dashboard/report.pdf", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestCatalogIsPublic(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/medicines?query=allergy", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]domain.Medicine](t, resp), 2)

	resp = ts.do(t, http.MethodGet, "/slots", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, appointment.Slots(), decode[[]string](t, resp))

	resp = ts.do(t, http.MethodGet, "/doctors", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]domain.Doctor](t, resp), 5)
}
