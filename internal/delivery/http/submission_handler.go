package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/delivery/http/middleware"
	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/usecase"
)

// SubmissionHandler handles HTTP requests for running and submitting code.
type SubmissionHandler struct {
	runUC    *usecase.RunCodeUsecase
	submitUC *usecase.SubmitCodeUsecase
	getUC    *usecase.GetSubmissionUsecase
	listUC   *usecase.ListSubmissionsUsecase
	logger   *zap.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(
	runUC *usecase.RunCodeUsecase,
	submitUC *usecase.SubmitCodeUsecase,
	getUC *usecase.GetSubmissionUsecase,
	listUC *usecase.ListSubmissionsUsecase,
	logger *zap.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		runUC:    runUC,
		submitUC: submitUC,
		getUC:    getUC,
		listUC:   listUC,
		logger:   logger,
	}
}

// Run handles POST /submission/run/:problemId
func (h *SubmissionHandler) Run(c *gin.Context) {
	userID, problemID, req, ok := h.bindCode(c)
	if !ok {
		return
	}

	resp, err := h.runUC.Execute(c.Request.Context(), userID, problemID, req)
	if err != nil {
		writeError(c, h.logger, "Run failed", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Submit handles POST /submission/submit/:problemId
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, problemID, req, ok := h.bindCode(c)
	if !ok {
		return
	}

	resp, err := h.submitUC.Execute(c.Request.Context(), userID, problemID, req)
	if err != nil {
		writeError(c, h.logger, "Submit failed", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetByID handles GET /submission/:id
func (h *SubmissionHandler) GetByID(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "Get submission failed", domain.ErrSubmissionNotFound)
		return
	}

	sub, err := h.getUC.Execute(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, h.logger, "Get submission failed", err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ListForProblem handles GET /problem/submittedProblem/:problemId
func (h *SubmissionHandler) ListForProblem(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	problemID, err := uuid.Parse(c.Param("problemId"))
	if err != nil {
		writeError(c, h.logger, "List submissions failed", domain.ErrProblemNotFound)
		return
	}

	subs, err := h.listUC.Execute(c.Request.Context(), userID, problemID)
	if err != nil {
		writeError(c, h.logger, "List submissions failed", err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// bindCode resolves the caller, the problem id and the request body shared by
// run and submit. It writes the error response itself when ok is false.
func (h *SubmissionHandler) bindCode(c *gin.Context) (userID, problemID uuid.UUID, req *domain.CodeRequest, ok bool) {
	userID, found := callerID(c, h.logger)
	if !found {
		return uuid.Nil, uuid.Nil, nil, false
	}

	problemID, err := uuid.Parse(c.Param("problemId"))
	if err != nil {
		writeError(c, h.logger, "Invalid problem id", domain.ErrProblemNotFound)
		return uuid.Nil, uuid.Nil, nil, false
	}

	req = &domain.CodeRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, h.logger, "Request too large", domain.ErrPayloadTooLarge)
			return uuid.Nil, uuid.Nil, nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return uuid.Nil, uuid.Nil, nil, false
	}
	return userID, problemID, req, true
}

// callerID returns the authenticated user or writes a 401.
func callerID(c *gin.Context, logger *zap.Logger) (uuid.UUID, bool) {
	session, ok := middleware.Session(c)
	if !ok {
		writeError(c, logger, "Missing session", domain.ErrUnauthorized)
		return uuid.Nil, false
	}
	return session.UserID, true
}
