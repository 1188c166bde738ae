package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrtingacer/Lending-tracker/internal/auth"
	"github.com/wrtingacer/Lending-tracker/internal/domain"
	"github.com/wrtingacer/Lending-tracker/internal/service"
)

type fakeDebtService struct {
	debts    map[uuid.UUID]*domain.Debt
	undoable *domain.Debt
}

func newFakeDebtService() *fakeDebtService {
	return &fakeDebtService{debts: make(map[uuid.UUID]*domain.Debt)}
}

func (f *fakeDebtService) CreateDebt(_ context.Context, userID uuid.UUID, input service.CreateDebtInput) (*domain.Debt, error) {
	if input.Person == "" {
		return nil, domain.ErrMissingPerson
	}
	debt := &domain.Debt{
		ID:      uuid.New(),
		UserID:  userID,
		Person:  input.Person,
		Mode:    input.Mode,
		Amount:  input.Amount,
		DueDate: input.DueDate,
	}
	f.debts[debt.ID] = debt
	return debt, nil
}

func (f *fakeDebtService) DeleteDebt(_ context.Context, userID, debtID uuid.UUID) error {
	d, ok := f.debts[debtID]
	if !ok || d.UserID != userID {
		return domain.ErrDebtNotFound
	}
	delete(f.debts, debtID)
	f.undoable = d
	return nil
}

func (f *fakeDebtService) UndoDelete(_ context.Context, userID uuid.UUID) (*domain.Debt, error) {
	if f.undoable == nil {
		return nil, domain.ErrNothingToUndo
	}
	d := f.undoable
	f.undoable = nil
	f.debts[d.ID] = d
	return d, nil
}

func (f *fakeDebtService) AddPayment(_ context.Context, userID, debtID uuid.UUID, input service.AddPaymentInput) (*domain.Payment, error) {
	d, ok := f.debts[debtID]
	if !ok {
		return nil, domain.ErrDebtNotFound
	}
	p := domain.Payment{ID: uuid.New(), DebtID: debtID, Amount: input.Amount, Date: input.Date}
	d.Payments = append(d.Payments, p)
	return &p, nil
}

func (f *fakeDebtService) DeletePayment(_ context.Context, userID, debtID, paymentID uuid.UUID) error {
	return domain.ErrPaymentNotFound
}

func (f *fakeDebtService) SetInstallmentPaid(_ context.Context, userID, debtID uuid.UUID, index int, paid bool) error {
	if _, ok := f.debts[debtID]; !ok {
		return domain.ErrDebtNotFound
	}
	return nil
}

func (f *fakeDebtService) Snapshot(_ context.Context, userID uuid.UUID) ([]domain.Debt, error) {
	var out []domain.Debt
	for _, d := range f.debts {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDebtService) GetDebt(_ context.Context, userID, debtID uuid.UUID) (*domain.Debt, error) {
	d, ok := f.debts[debtID]
	if !ok || d.UserID != userID {
		return nil, domain.ErrDebtNotFound
	}
	return d, nil
}

type staticRates struct{}

func (staticRates) Rates() map[string]float64 {
	return map[string]float64{"USD": 1, "KES": 155}
}

func authedRequest(method, target string, body string, userID uuid.UUID, pathValues map[string]string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r = r.WithContext(auth.ContextWithUserID(r.Context(), userID))
	r.SetPathValue("id", userID.String())
	for k, v := range pathValues {
		r.SetPathValue(k, v)
	}
	return r
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestDebtHandlerCreate(t *testing.T) {
	h := NewDebtHandler(newFakeDebtService(), staticRates{})
	userID := uuid.New()

	body := `{"person":"Alice","mode":"owed","amount":100,"due_date":"2026-12-01"}`
	w := httptest.NewRecorder()
	h.Create(w, authedRequest(http.MethodPost, "/api/v1/users/x/debts", body, userID, nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "Alice", data["person"])
	assert.Equal(t, "owed", data["mode"])
}

func TestDebtHandlerCreateValidation(t *testing.T) {
	h := NewDebtHandler(newFakeDebtService(), staticRates{})
	userID := uuid.New()

	body := `{"person":"","amount":-1,"due_date":"not-a-date"}`
	w := httptest.NewRecorder()
	h.Create(w, authedRequest(http.MethodPost, "/api/v1/users/x/debts", body, userID, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Len(t, resp.Error.Details, 3)
}

func TestDebtHandlerCreateRejectsOtherUsersPath(t *testing.T) {
	h := NewDebtHandler(newFakeDebtService(), staticRates{})

	r := authedRequest(http.MethodPost, "/api/v1/users/x/debts", `{}`, uuid.New(), nil)
	r.SetPathValue("id", uuid.New().String())

	w := httptest.NewRecorder()
	h.Create(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDebtHandlerDeleteAndUndo(t *testing.T) {
	svc := newFakeDebtService()
	h := NewDebtHandler(svc, staticRates{})
	userID := uuid.New()

	debt, err := svc.CreateDebt(context.Background(), userID, service.CreateDebtInput{
		Person: "Bob", Mode: domain.ModeOwe, Amount: 50, DueDate: "2026-12-01",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Delete(w, authedRequest(http.MethodDelete, "/x", "", userID,
		map[string]string{"debtID": debt.ID.String()}))
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, float64(5), data["undo_window_secs"])

	w = httptest.NewRecorder()
	h.Undo(w, authedRequest(http.MethodPost, "/x", "", userID, nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.Undo(w, authedRequest(http.MethodPost, "/x", "", userID, nil))
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "NOTHING_TO_UNDO", decodeResponse(t, w).Error.Code)
}

func TestDebtHandlerDeleteUnknownDebt(t *testing.T) {
	h := NewDebtHandler(newFakeDebtService(), staticRates{})

	w := httptest.NewRecorder()
	h.Delete(w, authedRequest(http.MethodDelete, "/x", "", uuid.New(),
		map[string]string{"debtID": uuid.New().String()}))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DEBT_NOT_FOUND", decodeResponse(t, w).Error.Code)
}

func TestDebtHandlerAddPayment(t *testing.T) {
	svc := newFakeDebtService()
	h := NewDebtHandler(svc, staticRates{})
	userID := uuid.New()

	debt, err := svc.CreateDebt(context.Background(), userID, service.CreateDebtInput{
		Person: "Bob", Mode: domain.ModeOwe, Amount: 50, DueDate: "2026-12-01",
	})
	require.NoError(t, err)

	body := `{"amount":20,"date":"2026-06-01"}`
	w := httptest.NewRecorder()
	h.AddPayment(w, authedRequest(http.MethodPost, "/x", body, userID,
		map[string]string{"debtID": debt.ID.String()}))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.AddPayment(w, authedRequest(http.MethodPost, "/x", `{"amount":0}`, userID,
		map[string]string{"debtID": debt.ID.String()}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDebtHandlerList(t *testing.T) {
	svc := newFakeDebtService()
	h := NewDebtHandler(svc, staticRates{})
	userID := uuid.New()

	for i, person := range []string{"Alice", "Bob"} {
		_, err := svc.CreateDebt(context.Background(), userID, service.CreateDebtInput{
			Person: person, Mode: domain.ModeOwe, Amount: float64(10 * (i + 1)),
			DueDate: "2026-12-01",
		})
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	h.List(w, authedRequest(http.MethodGet, "/x?mode=owe&q=ali", "", userID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, float64(1), data["count"])
	assert.Equal(t, "USD", data["currency"])

	summary := data["summary"].(map[string]any)
	assert.Equal(t, float64(30), summary["total_principal"])
}

func TestDebtHandlerListRejectsBadMode(t *testing.T) {
	h := NewDebtHandler(newFakeDebtService(), staticRates{})

	w := httptest.NewRecorder()
	h.List(w, authedRequest(http.MethodGet, "/x?mode=sideways", "", uuid.New(), nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDebtHandlerListConvertsCurrency(t *testing.T) {
	svc := newFakeDebtService()
	h := NewDebtHandler(svc, staticRates{})
	userID := uuid.New()

	_, err := svc.CreateDebt(context.Background(), userID, service.CreateDebtInput{
		Person: "Alice", Mode: domain.ModeOwe, Amount: 100, DueDate: "2026-12-01",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.List(w, authedRequest(http.MethodGet, "/x?currency=KES", "", userID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w).Data.(map[string]any)
	entries := data["entries"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.InDelta(t, 15500, entry["amount"].(float64), 1e-6)
	assert.Equal(t, "KES", entry["currency"])
}

func TestDebtHandlerExportCSV(t *testing.T) {
	svc := newFakeDebtService()
	h := NewDebtHandler(svc, staticRates{})
	userID := uuid.New()

	_, err := svc.CreateDebt(context.Background(), userID, service.CreateDebtInput{
		Person: "Alice", Mode: domain.ModeOwed, Amount: 100, DueDate: "2026-12-01",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Export(w, authedRequest(http.MethodGet, "/x", "", userID, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Person,Mode,Amount,Interest,Total,Repaid,Remaining,Due Date,Currency,Notes", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Alice,owed,100.00,"))
}

func TestDebtHandlerReminder(t *testing.T) {
	svc := newFakeDebtService()
	h := NewDebtHandler(svc, staticRates{})
	userID := uuid.New()

	debt, err := svc.CreateDebt(context.Background(), userID, service.CreateDebtInput{
		Person: "Alice", Mode: domain.ModeOwe, Amount: 100,
		DueDate: time.Now().UTC().AddDate(0, 0, 10).Format(time.DateOnly),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Reminder(w, authedRequest(http.MethodGet, "/x", "", userID,
		map[string]string{"debtID": debt.ID.String()}))
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w).Data.(map[string]any)
	message := data["message"].(string)
	assert.Contains(t, message, "Payment Reminder")
	assert.Contains(t, message, "Person: Alice")
}

func TestDebtHandlerSetInstallmentBadIndex(t *testing.T) {
	h := NewDebtHandler(newFakeDebtService(), staticRates{})

	w := httptest.NewRecorder()
	h.SetInstallment(w, authedRequest(http.MethodPut, "/x", `{"paid":true}`, uuid.New(),
		map[string]string{"debtID": uuid.New().String(), "index": "abc"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INSTALLMENT", decodeResponse(t, w).Error.Code)
}

func TestDebtHandlerRequiresAuthContext(t *testing.T) {
	h := NewDebtHandler(newFakeDebtService(), staticRates{})

	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.SetPathValue("id", uuid.New().String())

	w := httptest.NewRecorder()
	h.List(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
