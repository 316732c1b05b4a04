package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessAnalyzeScan   = "scan analyzed successfully"
	MessageSuccessGetScans      = "scans retrieved successfully"
	MessageSuccessGetScanDetail = "scan retrieved successfully"
	MessageSuccessGetStats      = "scan statistics retrieved successfully"
	MessageSuccessUploadScan    = "scan image uploaded successfully"
	MessageScanAlreadyComplete  = "scan already analyzed, pass forceRefresh to re-analyze"

	MessageFailedAnalyzeScan   = "failed to analyze scan"
	MessageFailedGetScans      = "failed to retrieve scans"
	MessageFailedGetScanDetail = "failed to retrieve scan"
	MessageFailedGetStats      = "failed to retrieve scan statistics"
	MessageFailedUploadScan    = "failed to upload scan image"

	ErrStoragePathRequired   = errors.New("storage path is required")
	ErrScanNotFound          = errors.New("scan not found")
	ErrImageRetrievalFailed  = errors.New("failed to retrieve scan image")
	ErrOCRFailed             = errors.New("text extraction failed")
	ErrEmptyOCRText          = errors.New("no text detected in scan image")
	ErrScanPersistenceFailed = errors.New("failed to persist scan result")
)

// Scan lifecycle statuses.
const (
	ScanStatusPending    = "pending"
	ScanStatusProcessing = "processing"
	ScanStatusComplete   = "complete"
	ScanStatusFailed     = "failed"
)

// Risk levels, ordered low to critical.
const (
	RiskLevelLow      = "low"
	RiskLevelMedium   = "medium"
	RiskLevelHigh     = "high"
	RiskLevelCritical = "critical"
)

type (
	// AnalyzeScanRequest is the raw analyze payload. Both camelCase and
	// snake_case spellings of storage path and scan id are accepted; the
	// normalizer resolves them into AnalyzeScanParams.
	AnalyzeScanRequest struct {
		StoragePath      string         `json:"storagePath"`
		StoragePathSnake string         `json:"storage_path"`
		Bucket           string         `json:"bucket"`
		ScanID           string         `json:"scanId"`
		ScanIDSnake      string         `json:"scan_id"`
		Hints            []string       `json:"hints"`
		Metadata         map[string]any `json:"metadata"`
		ForceRefresh     bool           `json:"forceRefresh"`
	}

	// AnalyzeScanParams is the normalized form of AnalyzeScanRequest.
	AnalyzeScanParams struct {
		StoragePath  string
		Bucket       string
		ScanID       string
		Hints        []string
		Metadata     map[string]any
		ForceRefresh bool
	}

	PaymentDetails struct {
		UPIID         *string           `json:"upi_id"`
		PayerName     *string           `json:"payer_name"`
		PayeeName     *string           `json:"payee_name"`
		Amount        *float64          `json:"amount"`
		Currency      *string           `json:"currency"`
		ReferenceID   *string           `json:"reference_id"`
		Note          *string           `json:"note"`
		RawMatches    []string          `json:"raw_matches"`
		Confidence    float64           `json:"confidence"`
		MatchedFields map[string]string `json:"matched_fields"`
	}

	RiskAssessment struct {
		Score            int      `json:"score"`
		FraudProbability float64  `json:"fraud_probability"`
		Level            string   `json:"level"`
		Flags            []string `json:"flags"`
	}

	// ClaudeAnalysis is the reasoning model's opinion on a scan. Fallback is
	// set when the model response could not be parsed and the analysis was
	// synthesized from the raw text instead.
	ClaudeAnalysis struct {
		Summary            string   `json:"summary"`
		RiskLevel          string   `json:"risk_level"`
		RiskScore          *int     `json:"risk_score"`
		FraudProbability   *float64 `json:"fraud_probability"`
		RiskFactors        []string `json:"risk_factors"`
		RecommendedActions []string `json:"recommended_actions"`
		Confidence         *float64 `json:"confidence,omitempty"`
		Fallback           bool     `json:"fallback,omitempty"`
	}

	ScanTimings struct {
		DownloadMs  int64 `json:"download_ms"`
		OCRMs       int64 `json:"ocr_ms"`
		ReasoningMs int64 `json:"reasoning_ms"`
		TotalMs     int64 `json:"total_ms"`
	}

	// ScanMetadata is the bundle persisted on the scan row once analysis
	// completes.
	ScanMetadata struct {
		OCRText        string          `json:"ocr_text"`
		PaymentDetails PaymentDetails  `json:"payment_details"`
		RiskAssessment RiskAssessment  `json:"risk_assessment"`
		ModelAnalysis  *ClaudeAnalysis `json:"model_analysis,omitempty"`
		Hints          []string        `json:"hints,omitempty"`
		Extra          map[string]any  `json:"extra,omitempty"`
		ImageBytes     int             `json:"image_bytes"`
		ForceRefresh   bool            `json:"force_refresh,omitempty"`
		Timings        ScanTimings     `json:"timings_ms"`
	}

	// ScanStats is the aggregate usage blob stored on the user profile.
	ScanStats struct {
		TotalScans           int       `json:"total_scans"`
		HighRiskScans        int       `json:"high_risk_scans"`
		LastScanID           string    `json:"last_scan_id,omitempty"`
		LastScanScore        int       `json:"last_scan_score"`
		LastFraudProbability float64   `json:"last_fraud_probability"`
		UpdatedAt            time.Time `json:"updated_at"`
	}

	AnalyzeScanResponse struct {
		ScanID           string          `json:"scan_id"`
		Status           string          `json:"status"`
		RiskScore        int             `json:"risk_score"`
		FraudProbability float64         `json:"fraud_probability"`
		RiskLevel        string          `json:"risk_level"`
		Flags            []string        `json:"flags"`
		PaymentDetails   PaymentDetails  `json:"payment_details"`
		OCRText          string          `json:"ocr_text"`
		ModelAnalysis    *ClaudeAnalysis `json:"model_analysis"`
		Stats            ScanStats       `json:"stats"`
		Alert            *AlertSummary   `json:"alert"`
		Timings          ScanTimings     `json:"timings_ms"`
		RequestID        string          `json:"request_id"`
	}

	// ScanShortCircuit is returned when a completed scan is re-requested
	// without forceRefresh.
	ScanShortCircuit struct {
		Message   string `json:"message"`
		ScanID    string `json:"scan_id"`
		RequestID string `json:"request_id"`
	}

	UploadScanImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	UploadScanImageResponse struct {
		Bucket      string `json:"bucket"`
		StoragePath string `json:"storage_path"`
		ImageURL    string `json:"image_url"`
	}

	ScanResponse struct {
		ID          string     `json:"id"`
		Bucket      string     `json:"bucket"`
		StoragePath string     `json:"storage_path"`
		Status      string     `json:"status"`
		Metadata    string     `json:"metadata,omitempty"`
		ProcessedAt *time.Time `json:"processed_at,omitempty"`
		CreatedAt   time.Time  `json:"created_at"`
	}
)
