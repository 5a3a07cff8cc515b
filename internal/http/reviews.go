package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
	"github.com/nicolas-cahorel/P3-Mission/internal/review"
)

const maxRequestBody = 1 << 20 // 1 MiB

const streamHeartbeat = 25 * time.Second

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type reviewRequest struct {
	Author    string `json:"author" validate:"required"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
}

type reviewResponse struct {
	Author    string `json:"author"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
}

type reviewListResponse struct {
	Items   []reviewResponse `json:"items"`
	Count   int              `json:"count"`
	Version uint64           `json:"version"`
}

type statsResponse struct {
	TotalCount       int            `json:"totalCount"`
	HistogramPercent map[string]int `json:"histogramPercent"`
	Average          float64        `json:"average"`
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, toReviewListResponse(s.reviews.CurrentSnapshot()))
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AuthToken != "" && !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	candidate := domain.Review{
		Author:    req.Author,
		AvatarURL: req.AvatarURL,
		Content:   req.Content,
		Rating:    req.Rating,
	}
	result := s.reviews.TryAdmit(candidate)
	s.metrics.observeAdmission(result.Reason)
	if !result.Accepted() {
		s.respondError(w, http.StatusUnprocessableEntity, rejectionCode(result.Reason), rejectionMessage(result))
		return
	}

	w.Header().Set("Location", "/reviews")
	s.respondJSON(w, http.StatusCreated, toReviewResponse(candidate))
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := s.reviews.Stats()
	histogram := make(map[string]int, domain.StarBuckets)
	for i, pct := range stats.Percent {
		histogram[strconv.Itoa(i+1)] = pct
	}
	s.respondJSON(w, http.StatusOK, statsResponse{
		TotalCount:       stats.TotalCount,
		HistogramPercent: histogram,
		Average:          stats.Average,
	})
}

// handleStreamReviews pushes one "snapshot" event per published snapshot
// until the client goes away or the store is closed.
func (s *Server) handleStreamReviews(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut long-lived streams.
	_ = rc.SetWriteDeadline(time.Time{})

	sub := s.reviews.Subscribe()
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Warn("stream: flush unsupported", zap.Error(err))
		return
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case snap, ok := <-sub.C():
			if !ok {
				return
			}
			payload, err := json.Marshal(toReviewListResponse(snap))
			if err != nil {
				s.logger.Error("stream: encode snapshot", zap.Error(err))
				return
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snap.Version, payload); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func toReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		Author:    r.Author,
		AvatarURL: r.AvatarURL,
		Content:   r.Content,
		Rating:    r.Rating,
	}
}

func toReviewListResponse(snap review.Snapshot) reviewListResponse {
	items := make([]reviewResponse, 0, snap.Len())
	for i := 0; i < snap.Len(); i++ {
		items = append(items, toReviewResponse(snap.At(i)))
	}
	return reviewListResponse{
		Items:   items,
		Count:   snap.Len(),
		Version: snap.Version,
	}
}

func rejectionCode(reason review.Reason) string {
	switch reason {
	case review.ReasonDuplicateReview:
		return "DUPLICATE_REVIEW"
	case review.ReasonEmptyComment:
		return "EMPTY_COMMENT"
	case review.ReasonRatingOutOfRange:
		return "RATING_OUT_OF_RANGE"
	default:
		return "VALIDATION_ERROR"
	}
}

// rejectionMessage mirrors the wording shown to app users. An empty comment
// paired with a missing rating gets the combined message.
func rejectionMessage(result review.AdmissionResult) string {
	switch result.Reason {
	case review.ReasonDuplicateReview:
		return "You have already posted this review"
	case review.ReasonEmptyComment:
		if r := result.Candidate.Rating; r < review.MinRating || r > review.MaxRating {
			return "Please add a comment and a rating"
		}
		return "Please add a comment"
	case review.ReasonRatingOutOfRange:
		return fmt.Sprintf("Please add a rating between %d and %d", review.MinRating, review.MaxRating)
	default:
		return "Review rejected"
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Warn("failed to encode response", zap.Error(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", "Request body too large")
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

func (s *Server) respondValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, jsonFieldName(fe.Field()))
	}
	s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Code:    "VALIDATION_ERROR",
		Message: "Invalid value for field " + strings.Join(fields, ", "),
		Details: fields,
	})
}

// jsonFieldName maps a request struct field to its JSON name.
func jsonFieldName(field string) string {
	switch field {
	case "Author":
		return "author"
	case "AvatarURL":
		return "avatarUrl"
	case "Content":
		return "content"
	case "Rating":
		return "rating"
	default:
		return field
	}
}

func (s *Server) verifyBearer(header string) bool {
	if header == "" {
		return false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token == s.cfg.AuthToken
}
