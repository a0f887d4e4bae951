/*
handlers.go - HTTP API handlers for the bookkeeping backend

PURPOSE:
  Exposes the due-date and contribution engines plus the surrounding
  account, document, and messaging CRUD via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store:  SQLite persistence
  - Docs:   Object storage for document bytes
  - Tokens: JWT issue/verify
  - Log:    zap logger
  - Now:    Clock, injectable for deterministic tests

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (duedate.Compute, contribution.Compute, store)
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Missing/invalid credentials (issued by the auth middleware)
  - 403: Accessing another user's resources
  - 404: Resource not found
  - 409: Duplicate email on registration
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/razellllll/bookkeeping-backend/auth"
	"github.com/razellllll/bookkeeping-backend/contribution"
	"github.com/razellllll/bookkeeping-backend/docstore"
	"github.com/razellllll/bookkeeping-backend/duedate"
	"github.com/razellllll/bookkeeping-backend/store/sqlite"
)

// maxUploadBytes bounds document uploads (receipts and scanned forms).
const maxUploadBytes = 32 << 20 // 32 MiB

// presignTTL is how long a minted download URL stays valid.
const presignTTL = 15 * time.Minute

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Docs   docstore.Storage
	Tokens *auth.TokenIssuer
	Log    *zap.Logger

	// Now supplies the reference date for due-date computation. Tests
	// pin it; production uses duedate.Today.
	Now func() duedate.Date
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(store *sqlite.Store, docs docstore.Storage, tokens *auth.TokenIssuer, log *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Docs:   docs,
		Tokens: tokens,
		Log:    log,
		Now:    duedate.Today,
	}
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Register creates an account and returns a session token.
// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "Valid email is required", nil)
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters", nil)
		return
	}

	role := req.Role
	switch role {
	case "":
		role = sqlite.RoleClient
	case sqlite.RoleClient, sqlite.RoleBookkeeper:
	default:
		writeError(w, http.StatusBadRequest, "Unknown role", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password", err)
		return
	}

	user := sqlite.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := h.Store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, sqlite.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "Email already registered", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login verifies credentials and returns a session token.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.Store.GetUserByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		// Same response for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	h.respondWithToken(w, http.StatusOK, *user)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, user sqlite.User) {
	token, err := h.Tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}
	writeJSON(w, status, AuthResponse{
		Token: token,
		User:  UserDTO{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	})
}

// =============================================================================
// TAX PROFILE HANDLERS
// =============================================================================

// GetProfile returns the caller's tax profile, or an empty one if none has
// been saved yet.
// GET /api/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	record, err := h.Store.GetTaxProfile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get profile", err)
		return
	}
	if record == nil {
		writeJSON(w, http.StatusOK, ProfileDTO{MonthlyIncome: "0"})
		return
	}

	writeJSON(w, http.StatusOK, ProfileDTO{
		EmploymentStatus: record.EmploymentStatus,
		PhilHealthNumber: record.PhilHealthNumber,
		SSSNumber:        record.SSSNumber,
		PagIBIGNumber:    record.PagIBIGNumber,
		MonthlyIncome:    record.MonthlyIncome.String(),
		UpdatedAt:        record.UpdatedAt.Format(time.RFC3339),
	})
}

// UpdateProfile replaces the caller's tax profile.
// PUT /api/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// The engines tolerate any status string, but the API only accepts
	// the two the product knows about (or empty while onboarding).
	switch duedate.EmploymentStatus(req.EmploymentStatus) {
	case "", duedate.StatusEmployed, duedate.StatusSelfEmployed:
	default:
		writeError(w, http.StatusBadRequest, "employment_status must be \"employed\" or \"self-employed\"", nil)
		return
	}

	income := decimal.Zero
	if req.MonthlyIncome != "" {
		var err error
		income, err = decimal.NewFromString(req.MonthlyIncome)
		if err != nil || income.IsNegative() {
			writeError(w, http.StatusBadRequest, "monthly_income must be a non-negative number", err)
			return
		}
	}

	record := sqlite.TaxProfileRecord{
		UserID:           claims.UserID,
		EmploymentStatus: req.EmploymentStatus,
		PhilHealthNumber: strings.TrimSpace(req.PhilHealthNumber),
		SSSNumber:        strings.TrimSpace(req.SSSNumber),
		PagIBIGNumber:    strings.TrimSpace(req.PagIBIGNumber),
		MonthlyIncome:    income,
	}
	if err := h.Store.UpsertTaxProfile(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile", err)
		return
	}

	writeJSON(w, http.StatusOK, ProfileDTO{
		EmploymentStatus: record.EmploymentStatus,
		PhilHealthNumber: record.PhilHealthNumber,
		SSSNumber:        record.SSSNumber,
		PagIBIGNumber:    record.PagIBIGNumber,
		MonthlyIncome:    record.MonthlyIncome.String(),
	})
}

// =============================================================================
// DEADLINE & CONTRIBUTION HANDLERS
// =============================================================================

// GetDeadlines returns the caller's upcoming contribution due dates.
// A missing profile row means no due dates, not an error.
// GET /api/deadlines?asOf=YYYY-MM-DD
func (h *Handler) GetDeadlines(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	asOf := h.Now()
	if param := r.URL.Query().Get("asOf"); param != "" {
		parsed, err := duedate.ParseDate(param)
		if err != nil {
			writeError(w, http.StatusBadRequest, "asOf must be YYYY-MM-DD", err)
			return
		}
		asOf = parsed
	}

	record, err := h.Store.GetTaxProfile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get profile", err)
		return
	}

	var profile duedate.TaxProfile
	if record != nil {
		profile = record.Snapshot()
	}

	entries := duedate.Compute(profile, asOf)
	dtos := make([]DueDateDTO, len(entries))
	for i, e := range entries {
		dtos[i] = DueDateDTO{
			Agency:           string(e.Agency),
			Description:      e.Description,
			DueDate:          e.DueDate.String(),
			MembershipNumber: e.MembershipNumber,
		}
	}

	writeJSON(w, http.StatusOK, DueDatesResponse{AsOf: asOf.String(), DueDates: dtos})
}

// GetContributions returns the monthly remittance amounts implied by the
// caller's profile.
// GET /api/contributions
func (h *Handler) GetContributions(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	record, err := h.Store.GetTaxProfile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get profile", err)
		return
	}
	if record == nil {
		writeJSON(w, http.StatusOK, ContributionsResponse{
			MonthlyIncome: "0",
			Contributions: []ContributionDTO{},
		})
		return
	}

	breakdowns := contribution.Compute(record.Snapshot(), record.MonthlyIncome)
	dtos := make([]ContributionDTO, len(breakdowns))
	for i, b := range breakdowns {
		dtos[i] = ContributionDTO{
			Agency:        string(b.Agency),
			EmployeeShare: b.EmployeeShare.StringFixed(2),
			EmployerShare: b.EmployerShare.StringFixed(2),
			Total:         b.Total.StringFixed(2),
		}
	}

	writeJSON(w, http.StatusOK, ContributionsResponse{
		MonthlyIncome: record.MonthlyIncome.String(),
		Contributions: dtos,
	})
}

// =============================================================================
// DOCUMENT HANDLERS
// =============================================================================

// UploadDocument stores a multipart file in the object store and records
// its metadata.
// POST /api/documents  (multipart fields: file, category)
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc := sqlite.Document{
		ID:          uuid.NewString(),
		OwnerID:     claims.UserID,
		Filename:    header.Filename,
		ContentType: contentType,
		SizeBytes:   header.Size,
		StorageKey:  fmt.Sprintf("%s/%s", claims.UserID, uuid.NewString()),
		Category:    r.FormValue("category"),
		UploadedAt:  time.Now(),
	}

	if err := h.Docs.Put(r.Context(), doc.StorageKey, contentType, file); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store document", err)
		return
	}
	if err := h.Store.SaveDocument(r.Context(), doc); err != nil {
		// Don't leave an orphan blob behind a failed metadata insert.
		if delErr := h.Docs.Delete(r.Context(), doc.StorageKey); delErr != nil {
			h.Log.Warn("orphan blob after failed metadata insert",
				zap.String("key", doc.StorageKey), zap.Error(delErr))
		}
		writeError(w, http.StatusInternalServerError, "Failed to save document", err)
		return
	}

	writeJSON(w, http.StatusCreated, toDocumentDTO(doc))
}

// ListDocuments returns the caller's documents, newest first.
// GET /api/documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	docs, err := h.Store.ListDocumentsByOwner(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}

	dtos := make([]DocumentDTO, len(docs))
	for i, d := range docs {
		dtos[i] = toDocumentDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DownloadDocument redirects to a pre-signed URL when the backend supports
// it, otherwise streams the bytes directly.
// GET /api/documents/{id}/download
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.authorizeDocument(w, r)
	if !ok {
		return
	}

	url, err := h.Docs.PresignGet(r.Context(), doc.StorageKey, presignTTL)
	if err == nil {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}
	if !errors.Is(err, docstore.ErrPresignUnsupported) {
		writeError(w, http.StatusInternalServerError, "Failed to sign download URL", err)
		return
	}

	rc, err := h.Docs.Get(r.Context(), doc.StorageKey)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Document bytes missing from storage", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to read document", err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	if _, err := io.Copy(w, rc); err != nil {
		h.Log.Warn("document stream interrupted", zap.String("id", doc.ID), zap.Error(err))
	}
}

// DeleteDocument removes the blob and its metadata.
// DELETE /api/documents/{id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.authorizeDocument(w, r)
	if !ok {
		return
	}

	if err := h.Docs.Delete(r.Context(), doc.StorageKey); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete document bytes", err)
		return
	}
	if err := h.Store.DeleteDocument(r.Context(), doc.ID); err != nil && !errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to delete document", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// authorizeDocument loads the document and checks the caller may touch it:
// the owner always can, and bookkeepers can reach client documents.
func (h *Handler) authorizeDocument(w http.ResponseWriter, r *http.Request) (*sqlite.Document, bool) {
	claims := auth.ClaimsFromContext(r.Context())
	id := chi.URLParam(r, "id")

	doc, err := h.Store.GetDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Document not found", nil)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to get document", err)
		}
		return nil, false
	}

	if doc.OwnerID != claims.UserID && claims.Role != sqlite.RoleBookkeeper {
		writeError(w, http.StatusForbidden, "Not your document", nil)
		return nil, false
	}
	return doc, true
}

func toDocumentDTO(d sqlite.Document) DocumentDTO {
	return DocumentDTO{
		ID:          d.ID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Category:    d.Category,
		UploadedAt:  d.UploadedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

// SendMessage posts a message to another user.
// POST /api/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, "Message body is required", nil)
		return
	}
	if req.RecipientID == claims.UserID {
		writeError(w, http.StatusBadRequest, "Cannot message yourself", nil)
		return
	}
	if _, err := h.Store.GetUser(r.Context(), req.RecipientID); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recipient not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to look up recipient", err)
		return
	}

	msg := sqlite.Message{
		ID:          uuid.NewString(),
		SenderID:    claims.UserID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
		SentAt:      time.Now(),
	}
	if err := h.Store.SaveMessage(r.Context(), msg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save message", err)
		return
	}

	writeJSON(w, http.StatusCreated, toMessageDTO(msg))
}

// ListMessages returns the conversation between the caller and a peer.
// GET /api/messages?with={userID}
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	peer := r.URL.Query().Get("with")
	if peer == "" {
		writeError(w, http.StatusBadRequest, "Query parameter \"with\" is required", nil)
		return
	}

	msgs, err := h.Store.ListConversation(r.Context(), claims.UserID, peer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list messages", err)
		return
	}

	dtos := make([]MessageDTO, len(msgs))
	for i, m := range msgs {
		dtos[i] = toMessageDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// MarkMessageRead stamps the read receipt on a message addressed to the
// caller.
// POST /api/messages/{id}/read
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.Store.MarkMessageRead(r.Context(), id, claims.UserID, time.Now()); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Message not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to mark message read", err)
		return
	}

	msg, err := h.Store.GetMessage(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get message", err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageDTO(*msg))
}

func toMessageDTO(m sqlite.Message) MessageDTO {
	dto := MessageDTO{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		SentAt:      m.SentAt.Format(time.RFC3339),
	}
	if m.ReadAt != nil {
		readAt := m.ReadAt.Format(time.RFC3339)
		dto.ReadAt = &readAt
	}
	return dto
}

// =============================================================================
// DIRECTORY & HEALTH
// =============================================================================

// ListBookkeepers returns the bookkeeper directory for the message picker.
// GET /api/bookkeepers
func (h *Handler) ListBookkeepers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListBookkeepers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bookkeepers", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = UserDTO{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Health is the liveness probe.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
