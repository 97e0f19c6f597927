package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/patient-insight-engine/internal/domain"
)

// FlexibleValue accepts biomarker values as either JSON numbers or report
// strings like "190.98 mg/dL". String parsing is deferred to the evaluator
// so a bad value becomes a per-biomarker error, not a rejected request.
type FlexibleValue struct {
	Number *float64
	Raw    string
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *FlexibleValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		v.Number = &n
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Raw = s
		return nil
	}
	return fmt.Errorf("biomarker value must be a number or string, got %s", string(data))
}

// biomarkerInput is one inbound biomarker entry.
type biomarkerInput struct {
	Value FlexibleValue `json:"value"`
	Unit  string        `json:"unit"`
}

// demographicsInput carries inbound patient demographics. Both fields are
// optional; the evaluator degrades to sex-independent, open-bracket specs.
type demographicsInput struct {
	Age *int   `json:"age"`
	Sex string `json:"sex"`
}

// insightRequest is the inbound payload for all evaluation endpoints.
type insightRequest struct {
	Demographics demographicsInput         `json:"demographics"`
	Biomarkers   map[string]biomarkerInput `json:"biomarkers"`
	TextFields   map[string]string         `json:"text_fields"`
}

// toPatientRecord converts the wire shape into the core's record. Biomarker
// map order is irrelevant downstream (the evaluator sorts), but we keep the
// conversion deterministic anyway.
func (r *insightRequest) toPatientRecord() (domain.PatientRecord, error) {
	sex, err := domain.ParseSex(r.Sex())
	if err != nil {
		return domain.PatientRecord{}, domain.NewValidationError("demographics.sex", "must be \"male\" or \"female\"", r.Sex())
	}

	names := make([]string, 0, len(r.Biomarkers))
	for name := range r.Biomarkers {
		names = append(names, name)
	}
	sort.Strings(names)

	observations := make([]domain.BiomarkerObservation, 0, len(names))
	for _, name := range names {
		in := r.Biomarkers[name]
		observations = append(observations, domain.BiomarkerObservation{
			Name:  name,
			Value: in.Value.Number,
			Raw:   in.Value.Raw,
			Unit:  in.Unit,
		})
	}

	return domain.PatientRecord{
		Demographics: domain.Demographics{Age: r.Demographics.Age, Sex: sex},
		Biomarkers:   observations,
		TextFields:   r.TextFields,
	}, nil
}

func (r *insightRequest) Sex() string { return r.Demographics.Sex }

// bindPatient parses and converts the request body, writing the error
// response itself on failure.
func (s *Server) bindPatient(c *gin.Context) (domain.PatientRecord, bool) {
	var req insightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          fmt.Sprintf("invalid request body: %v", err),
			"correlation_id": c.GetString("correlation_id"),
		})
		return domain.PatientRecord{}, false
	}

	patient, err := req.toPatientRecord()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          err.Error(),
			"correlation_id": c.GetString("correlation_id"),
		})
		return domain.PatientRecord{}, false
	}
	return patient, true
}

// handleInsights produces both artifacts in one call.
func (s *Server) handleInsights(c *gin.Context) {
	patient, ok := s.bindPatient(c)
	if !ok {
		return
	}

	report, err := s.insights.GenerateInsights(c.Request.Context(), patient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":          err.Error(),
			"correlation_id": c.GetString("correlation_id"),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleBiomarkerEvaluation produces only the biomarker report.
func (s *Server) handleBiomarkerEvaluation(c *gin.Context) {
	patient, ok := s.bindPatient(c)
	if !ok {
		return
	}

	report := s.insights.Evaluator().Evaluate(c.Request.Context(), patient.Demographics, patient.Biomarkers)
	c.JSON(http.StatusOK, report)
}

// handleFocusAreaScoring produces only the focus-area weight mapping.
func (s *Server) handleFocusAreaScoring(c *gin.Context) {
	patient, ok := s.bindPatient(c)
	if !ok {
		return
	}

	report := s.insights.Scoring().ScoreAll(c.Request.Context(), patient.TextFields)
	c.JSON(http.StatusOK, report)
}
