// Package httpapi exposes the consumer-facing JSON surface. Only the
// operations listed here may be called by the portal's service layer;
// everything else stays behind the usecase packages.
package httpapi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ardhilabs/plotshare-backend/internal/domain"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/escrow"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/ledger"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/registry"
	"github.com/ardhilabs/plotshare-backend/internal/usecase/splitter"
)

// Server wires the usecase services to HTTP handlers
type Server struct {
	Registry    *registry.Service
	Ledger      *ledger.Service
	Splitter    *splitter.Service
	Coordinator *escrow.Service

	metrics *metrics
}

// NewServer creates a new HTTP API server instance
func NewServer(
	reg *registry.Service,
	led *ledger.Service,
	spl *splitter.Service,
	coordinator *escrow.Service,
) *Server {
	return &Server{
		Registry:    reg,
		Ledger:      led,
		Splitter:    spl,
		Coordinator: coordinator,
		metrics:     newMetrics(),
	}
}

// Handler returns the routed handler with auth, logging and metrics
// middleware applied. The metrics endpoint itself is unauthenticated.
func (s *Server) Handler(apiToken string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/properties", s.handleRegisterProperty)
	mux.HandleFunc("GET /v1/properties/{id}", s.handleGetProperty)
	mux.HandleFunc("POST /v1/properties/{id}/shares/purchase", s.handlePurchaseShares)
	mux.HandleFunc("POST /v1/properties/{id}/shares/sell", s.handleSellShares)
	mux.HandleFunc("GET /v1/properties/{id}/shares/balance", s.handleBalanceOf)
	mux.HandleFunc("GET /v1/properties/{id}/shares/supply", s.handleSupply)
	mux.HandleFunc("POST /v1/properties/{id}/payments/distribute", s.handleDistributePayment)
	mux.HandleFunc("POST /v1/escrows", s.handleCreateEscrow)
	mux.HandleFunc("GET /v1/escrows/{id}", s.handleGetEscrow)
	mux.HandleFunc("POST /v1/escrows/{id}/confirm", s.handleConfirmEscrow)
	mux.HandleFunc("POST /v1/escrows/{id}/cancel", s.handleCancelEscrow)
	mux.HandleFunc("GET /v1/properties/{id}/escrows/active", s.handleActiveEscrow)

	api := AuthMiddleware(apiToken, LoggingMiddleware(s.metrics.Middleware(mux)))

	root := http.NewServeMux()
	root.Handle("/metrics", s.metrics.Handler())
	root.Handle("/", api)
	return root
}

type stakeholderPayload struct {
	Address      string `json:"address"`
	PercentageBP int64  `json:"percentageBp"`
	Role         string `json:"role"`
}

type registerPropertyRequest struct {
	PropertyID   string               `json:"propertyId"`
	Location     string               `json:"location"`
	TotalValue   string               `json:"totalValue"`
	Owner        string               `json:"owner"`
	MetadataURI  string               `json:"metadataUri"`
	TotalShares  int64                `json:"totalShares"`
	SharePrice   string               `json:"sharePrice"`
	Stakeholders []stakeholderPayload `json:"stakeholders"`
}

func (s *Server) handleRegisterProperty(w http.ResponseWriter, r *http.Request) {
	var req registerPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	totalValue, err := parseAmount(req.TotalValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid totalValue: "+err.Error())
		return
	}
	sharePrice, err := parseAmount(req.SharePrice)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sharePrice: "+err.Error())
		return
	}

	input := escrow.RegisterPropertyInput{
		PropertyID:  req.PropertyID,
		Location:    req.Location,
		TotalValue:  totalValue,
		Owner:       domain.Address(req.Owner),
		MetadataURI: req.MetadataURI,
		TotalShares: req.TotalShares,
		SharePrice:  sharePrice,
	}
	for _, sh := range req.Stakeholders {
		input.StakeholderAddresses = append(input.StakeholderAddresses, domain.Address(sh.Address))
		input.StakeholderPercentagesBP = append(input.StakeholderPercentagesBP, sh.PercentageBP)
		input.StakeholderRoles = append(input.StakeholderRoles, sh.Role)
	}

	if err := s.Coordinator.RegisterProperty(r.Context(), input); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"propertyId": req.PropertyID})
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	property, err := s.Registry.GetPropertyInfo(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	pool, err := s.Ledger.GetPool(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	set, err := s.Splitter.GetStakeholders(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	stakeholders := make([]stakeholderPayload, 0, len(set.Stakeholders))
	for _, sh := range set.Stakeholders {
		stakeholders = append(stakeholders, stakeholderPayload{
			Address:      string(sh.Address),
			PercentageBP: sh.PercentageBP,
			Role:         sh.Role,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"propertyId":        property.ID,
		"location":          property.Location,
		"totalValue":        formatAmount(property.TotalValue),
		"currentOwner":      string(property.CurrentOwner),
		"metadataUri":       property.MetadataURI,
		"totalShares":       pool.TotalShares,
		"sharePrice":        formatAmount(pool.SharePrice),
		"circulatingSupply": pool.CirculatingSupply,
		"stakeholders":      stakeholders,
	})
}

type purchaseSharesRequest struct {
	Buyer    string `json:"buyer"`
	Quantity int64  `json:"quantity"`
	Payment  string `json:"payment"`
}

func (s *Server) handlePurchaseShares(w http.ResponseWriter, r *http.Request) {
	var req purchaseSharesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := parseAmount(req.Payment)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment: "+err.Error())
		return
	}

	result, err := s.Ledger.PurchaseShares(r.Context(), ledger.PurchaseSharesInput{
		PropertyID: r.PathValue("id"),
		Buyer:      domain.Address(req.Buyer),
		Quantity:   req.Quantity,
		Payment:    payment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"cost":    formatAmount(result.Cost),
		"change":  formatAmount(result.Change),
		"balance": result.Balance,
	})
}

type sellSharesRequest struct {
	Seller   string `json:"seller"`
	Quantity int64  `json:"quantity"`
}

func (s *Server) handleSellShares(w http.ResponseWriter, r *http.Request) {
	var req sellSharesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	refund, err := s.Ledger.SellShares(r.Context(), ledger.SellSharesInput{
		PropertyID: r.PathValue("id"),
		Seller:     domain.Address(req.Seller),
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"refund": formatAmount(refund)})
}

func (s *Server) handleBalanceOf(w http.ResponseWriter, r *http.Request) {
	holder := r.URL.Query().Get("holder")
	if holder == "" {
		writeError(w, http.StatusBadRequest, "holder query parameter is required")
		return
	}

	balance, err := s.Ledger.BalanceOf(r.Context(), r.PathValue("id"), domain.Address(holder))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"holder": holder, "balance": balance})
}

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	supply, err := s.Ledger.CirculatingSupply(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"circulatingSupply": supply})
}

type distributePaymentRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleDistributePayment(w http.ResponseWriter, r *http.Request) {
	var req distributePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}

	paid, err := s.Splitter.DistributePayment(r.Context(), r.PathValue("id"), amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	payouts := make(map[string]string, len(paid))
	for addr, cut := range paid {
		payouts[string(addr)] = formatAmount(cut)
	}
	writeJSON(w, http.StatusOK, map[string]any{"payouts": payouts})
}

type createEscrowRequest struct {
	PropertyID       string    `json:"propertyId"`
	Buyer            string    `json:"buyer"`
	SharesAmount     int64     `json:"sharesAmount"`
	Deadline         time.Time `json:"deadline"`
	PaymentReference string    `json:"paymentReference"`
}

func (s *Server) handleCreateEscrow(w http.ResponseWriter, r *http.Request) {
	var req createEscrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.Coordinator.CreateEscrow(r.Context(), escrow.CreateEscrowInput{
		PropertyID:       req.PropertyID,
		Buyer:            domain.Address(req.Buyer),
		SharesAmount:     req.SharesAmount,
		Deadline:         req.Deadline,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, escrowResponse(created))
}

func (s *Server) handleGetEscrow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid escrow id")
		return
	}

	got, err := s.Coordinator.GetEscrowInfo(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, escrowResponse(got))
}

func (s *Server) handleConfirmEscrow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid escrow id")
		return
	}

	completed, err := s.Coordinator.ConfirmPaymentAndComplete(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, escrowResponse(completed))
}

func (s *Server) handleCancelEscrow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid escrow id")
		return
	}

	cancelled, err := s.Coordinator.CancelExpiredEscrow(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, escrowResponse(cancelled))
}

func (s *Server) handleActiveEscrow(w http.ResponseWriter, r *http.Request) {
	active, err := s.Coordinator.HasActiveEscrow(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": active})
}

func escrowResponse(e *domain.Escrow) map[string]any {
	return map[string]any{
		"escrowId":         e.ID.String(),
		"propertyId":       e.PropertyID,
		"buyer":            string(e.Buyer),
		"sharesAmount":     e.SharesAmount,
		"deadline":         e.Deadline.Format(time.RFC3339),
		"paymentReference": e.PaymentReference,
		"isActive":         e.IsActive(),
		"isCompleted":      e.IsCompleted(),
	}
}

// parseAmount converts a decimal string to an int64 amount in the
// smallest currency unit. No implicit currency conversion happens
// here; fractional values are rejected.
func parseAmount(raw string) (int64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, errors.New("amount must be an integer in the smallest currency unit")
	}
	if d.Sign() < 0 {
		return 0, errors.New("amount must not be negative")
	}
	if d.Cmp(decimal.NewFromInt(math.MaxInt64)) > 0 {
		return 0, errors.New("amount out of range")
	}
	return d.IntPart(), nil
}

func formatAmount(amount int64) string {
	return decimal.NewFromInt(amount).String()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeDomainError maps the sentinel taxonomy to HTTP status codes.
// Callers always receive the specific error kind, never a generic
// catch-all, for the enumerated failure conditions.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateProperty),
		errors.Is(err, domain.ErrActiveEscrowExists),
		errors.Is(err, domain.ErrAlreadyTerminal),
		errors.Is(err, domain.ErrDeadlinePassed),
		errors.Is(err, domain.ErrNotYetExpired):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrLengthMismatch),
		errors.Is(err, domain.ErrPercentageSumInvalid),
		errors.Is(err, domain.ErrInvalidDeadline),
		errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientPayment),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrSupplySaturated),
		errors.Is(err, domain.ErrArithmeticOverflow),
		errors.Is(err, domain.ErrTransferRejected):
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, err.Error())
}
