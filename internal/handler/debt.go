package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
	"github.com/wrtingacer/Lending-tracker/internal/logging"
	"github.com/wrtingacer/Lending-tracker/internal/service"
)

type debtService interface {
	CreateDebt(ctx context.Context, userID uuid.UUID, input service.CreateDebtInput) (*domain.Debt, error)
	DeleteDebt(ctx context.Context, userID, debtID uuid.UUID) error
	UndoDelete(ctx context.Context, userID uuid.UUID) (*domain.Debt, error)
	AddPayment(ctx context.Context, userID, debtID uuid.UUID, input service.AddPaymentInput) (*domain.Payment, error)
	DeletePayment(ctx context.Context, userID, debtID, paymentID uuid.UUID) error
	SetInstallmentPaid(ctx context.Context, userID, debtID uuid.UUID, index int, paid bool) error
	Snapshot(ctx context.Context, userID uuid.UUID) ([]domain.Debt, error)
	GetDebt(ctx context.Context, userID, debtID uuid.UUID) (*domain.Debt, error)
}

type DebtHandler struct {
	debts debtService
	rates rateSource
}

func NewDebtHandler(debts debtService, rates rateSource) *DebtHandler {
	return &DebtHandler{debts: debts, rates: rates}
}

type createDebtRequest struct {
	Person           string  `json:"person"`
	Mode             string  `json:"mode"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	DueDate          string  `json:"due_date"`
	InterestRate     float64 `json:"interest_rate"`
	InterestType     string  `json:"interest_type"`
	Notes            string  `json:"notes"`
	InstallmentCount int     `json:"installment_count"`
	Frequency        string  `json:"installment_frequency"`
}

func (r createDebtRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Person == "" {
		errs = append(errs, FieldError{Field: "person", Message: "required"})
	}
	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if r.DueDate == "" {
		errs = append(errs, FieldError{Field: "due_date", Message: "required"})
	} else if _, err := time.Parse(time.DateOnly, r.DueDate); err != nil {
		errs = append(errs, FieldError{Field: "due_date", Message: "must be YYYY-MM-DD"})
	}
	if r.InterestRate < 0 {
		errs = append(errs, FieldError{Field: "interest_rate", Message: "must not be negative"})
	}
	if r.InstallmentCount < 0 {
		errs = append(errs, FieldError{Field: "installment_count", Message: "must not be negative"})
	}
	return errs
}

func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req createDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	mode := domain.Mode(req.Mode)
	if mode == "" {
		mode = domain.ModeOwe
	}

	debt, err := h.debts.CreateDebt(r.Context(), userID, service.CreateDebtInput{
		Person:           req.Person,
		Mode:             mode,
		Amount:           req.Amount,
		Currency:         req.Currency,
		DueDate:          req.DueDate,
		InterestRate:     req.InterestRate,
		InterestType:     domain.InterestType(req.InterestType),
		Notes:            req.Notes,
		InstallmentCount: req.InstallmentCount,
		Frequency:        domain.Frequency(req.Frequency),
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	currency := displayCurrency(req.Currency)
	RespondSuccess(w, http.StatusCreated, toDebtDTO(debt, h.rates.Rates(), currency, time.Now()))
}

func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	debtID, err := uuid.Parse(r.PathValue("debtID"))
	if err != nil {
		RespondAppError(w, ErrDebtNotFound, nil)
		return
	}

	if err := h.debts.DeleteDebt(r.Context(), userID, debtID); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"deleted":          debtID,
		"undo_window_secs": int(service.UndoWindow.Seconds()),
	})
}

func (h *DebtHandler) Undo(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	debt, err := h.debts.UndoDelete(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	currency := displayCurrency(r.URL.Query().Get("currency"))
	RespondSuccess(w, http.StatusCreated, toDebtDTO(debt, h.rates.Rates(), currency, time.Now()))
}

type addPaymentRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Notes  string  `json:"notes"`
}

func (r addPaymentRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if r.Date == "" {
		errs = append(errs, FieldError{Field: "date", Message: "required"})
	} else if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
		errs = append(errs, FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	return errs
}

func (h *DebtHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	debtID, err := uuid.Parse(r.PathValue("debtID"))
	if err != nil {
		RespondAppError(w, ErrDebtNotFound, nil)
		return
	}

	var req addPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	payment, err := h.debts.AddPayment(r.Context(), userID, debtID, service.AddPaymentInput{
		Amount: req.Amount,
		Date:   req.Date,
		Notes:  req.Notes,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, paymentDTO{
		ID:     payment.ID,
		Amount: payment.Amount,
		Date:   payment.Date,
		Notes:  payment.Notes,
	})
}

func (h *DebtHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	debtID, err := uuid.Parse(r.PathValue("debtID"))
	if err != nil {
		RespondAppError(w, ErrDebtNotFound, nil)
		return
	}
	paymentID, err := uuid.Parse(r.PathValue("paymentID"))
	if err != nil {
		RespondAppError(w, ErrPaymentNotFound, nil)
		return
	}

	if err := h.debts.DeletePayment(r.Context(), userID, debtID, paymentID); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]any{"deleted": paymentID})
}

type setInstallmentRequest struct {
	Paid bool `json:"paid"`
}

func (h *DebtHandler) SetInstallment(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	debtID, err := uuid.Parse(r.PathValue("debtID"))
	if err != nil {
		RespondAppError(w, ErrDebtNotFound, nil)
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		RespondAppError(w, ErrInvalidPlan, nil)
		return
	}

	var req setInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if err := h.debts.SetInstallmentPaid(r.Context(), userID, debtID, index, req.Paid); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]any{"index": index, "paid": req.Paid})
}

func (h *DebtHandler) Reminder(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	debtID, err := uuid.Parse(r.PathValue("debtID"))
	if err != nil {
		RespondAppError(w, ErrDebtNotFound, nil)
		return
	}

	debt, err := h.debts.GetDebt(r.Context(), userID, debtID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	currency := displayCurrency(r.URL.Query().Get("currency"))
	message := service.ReminderMessage(debt, h.rates.Rates(), currency, time.Now())

	RespondSuccess(w, http.StatusOK, map[string]string{"message": message})
}

// Alerts lists unsettled entries due within ?days= (default 3) or overdue.
func (h *DebtHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	days := 3
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "days", Message: "must be an integer"}})
			return
		}
		days = parsed
	}

	snapshot, err := h.debts.Snapshot(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to load snapshot", "error", err)
		RespondDomainError(w, err)
		return
	}

	currency := displayCurrency(r.URL.Query().Get("currency"))
	alerts := service.DueAlerts(snapshot, h.rates.Rates(), currency, days, time.Now())

	RespondSuccess(w, http.StatusOK, map[string]any{"alerts": alerts, "count": len(alerts)})
}
