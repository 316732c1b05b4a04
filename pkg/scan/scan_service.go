package scan

import (
	"PayGuard-Backend/domain"
	"PayGuard-Backend/entities"
	"PayGuard-Backend/internal/utils"
	"PayGuard-Backend/internal/utils/storage"
	"PayGuard-Backend/pkg/alert"
	"PayGuard-Backend/pkg/user"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ScanService interface {
		AnalyzeScan(ctx context.Context, req domain.AnalyzeScanRequest, userID string) (*domain.AnalyzeScanResponse, *domain.ScanShortCircuit, string, error)
		UploadScanImage(ctx context.Context, req domain.UploadScanImageRequest, userID string) (domain.UploadScanImageResponse, error)
		GetScans(ctx context.Context, userID string, page, limit int) ([]domain.ScanResponse, int64, error)
		GetScanByID(ctx context.Context, id string, userID string) (domain.ScanResponse, error)
		GetDashboardStats(ctx context.Context, userID string) (domain.ScanStats, error)
	}

	scanService struct {
		scanRepository ScanRepository
		userRepository user.UserRepository
		s3             storage.AwsS3
		ocr            OCRClient
		reasoning      ReasoningClient
		alertService   alert.AlertService
	}
)

func NewScanService(
	scanRepository ScanRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
	ocr OCRClient,
	reasoning ReasoningClient,
	alertService alert.AlertService,
) ScanService {
	return &scanService{
		scanRepository: scanRepository,
		userRepository: userRepository,
		s3:             s3,
		ocr:            ocr,
		reasoning:      reasoning,
		alertService:   alertService,
	}
}

// AnalyzeScan drives the full pipeline for one request: resolve or create the
// scan row, run retrieval/OCR/extraction/scoring/reasoning, persist the
// terminal state and raise the alert. The returned request id correlates log
// lines and error responses.
func (s *scanService) AnalyzeScan(ctx context.Context, req domain.AnalyzeScanRequest, userID string) (*domain.AnalyzeScanResponse, *domain.ScanShortCircuit, string, error) {
	requestID := uuid.New().String()

	params, err := NormalizeAnalyzeRequest(req)
	if err != nil {
		return nil, nil, requestID, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil, requestID, domain.ErrParseUUID
	}

	userRow, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, requestID, domain.ErrUserNotFound
		}
		return nil, nil, requestID, err
	}

	start := time.Now()

	scanRow, shortCircuit, incrementStats, err := s.resolveScanRow(ctx, params, userUUID, requestID)
	if err != nil {
		return nil, nil, requestID, err
	}
	if shortCircuit != nil {
		return nil, shortCircuit, requestID, nil
	}

	resp, err := s.runPipeline(ctx, scanRow, params, userRow, incrementStats, requestID, start)
	if err != nil {
		s.markScanFailed(scanRow)
		return nil, nil, requestID, err
	}
	return resp, nil, requestID, nil
}

// resolveScanRow applies the state machine's entry rules: new rows start in
// processing directly; re-requests of a complete scan short-circuit unless
// forceRefresh is set; any other retry transitions back to processing.
func (s *scanService) resolveScanRow(ctx context.Context, params domain.AnalyzeScanParams, userUUID uuid.UUID, requestID string) (*entities.Scan, *domain.ScanShortCircuit, bool, error) {
	if params.ScanID == "" {
		scanRow := &entities.Scan{
			ID:          uuid.New(),
			UserID:      userUUID,
			Bucket:      params.Bucket,
			StoragePath: params.StoragePath,
			Status:      domain.ScanStatusProcessing,
		}
		if err := s.scanRepository.CreateScan(ctx, scanRow); err != nil {
			return nil, nil, false, err
		}
		return scanRow, nil, true, nil
	}

	scanUUID, err := uuid.Parse(params.ScanID)
	if err != nil {
		return nil, nil, false, domain.ErrParseUUID
	}

	existing, err := s.scanRepository.GetScanByID(ctx, params.ScanID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, false, err
		}
		// Caller pre-allocated the id; create the row already processing.
		scanRow := &entities.Scan{
			ID:          scanUUID,
			UserID:      userUUID,
			Bucket:      params.Bucket,
			StoragePath: params.StoragePath,
			Status:      domain.ScanStatusProcessing,
		}
		if err := s.scanRepository.CreateScan(ctx, scanRow); err != nil {
			return nil, nil, false, err
		}
		return scanRow, nil, true, nil
	}

	if existing.UserID != userUUID {
		return nil, nil, false, domain.ErrUnauthorizedAccess
	}

	if existing.Status == domain.ScanStatusComplete && !params.ForceRefresh {
		return nil, &domain.ScanShortCircuit{
			Message:   domain.MessageScanAlreadyComplete,
			ScanID:    existing.ID.String(),
			RequestID: requestID,
		}, false, nil
	}

	incrementStats := existing.Status != domain.ScanStatusComplete

	existing.Status = domain.ScanStatusProcessing
	existing.ProcessedAt = nil
	existing.Bucket = params.Bucket
	existing.StoragePath = params.StoragePath
	if err := s.scanRepository.UpdateScan(ctx, existing); err != nil {
		return nil, nil, false, err
	}
	return existing, nil, incrementStats, nil
}

func (s *scanService) runPipeline(ctx context.Context, scanRow *entities.Scan, params domain.AnalyzeScanParams, userRow *entities.User, incrementStats bool, requestID string, start time.Time) (*domain.AnalyzeScanResponse, error) {
	var timings domain.ScanTimings

	downloadStart := time.Now()
	raw, err := s.s3.DownloadFile(ctx, scanRow.Bucket, scanRow.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageRetrievalFailed, err)
	}
	timings.DownloadMs = time.Since(downloadStart).Milliseconds()
	log.Printf("scan %s [%s]: downloaded %d bytes in %dms", scanRow.ID, requestID, len(raw), timings.DownloadMs)

	encoded := base64.StdEncoding.EncodeToString(raw)

	ocrStart := time.Now()
	ocrText, err := s.ocr.ExtractText(ctx, encoded, params.Hints)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailed, err)
	}
	timings.OCRMs = time.Since(ocrStart).Milliseconds()
	if strings.TrimSpace(ocrText) == "" {
		return nil, domain.ErrEmptyOCRText
	}

	details := ExtractPaymentDetails(ocrText)
	heuristic := ScoreHeuristics(details, ocrText)

	reasoningStart := time.Now()
	model := s.reasoning.Analyze(ctx, ocrText, details, heuristic.Score)
	timings.ReasoningMs = time.Since(reasoningStart).Milliseconds()

	final := BlendAssessments(heuristic, model)
	timings.TotalMs = time.Since(start).Milliseconds()

	metadata, err := json.Marshal(domain.ScanMetadata{
		OCRText:        ocrText,
		PaymentDetails: details,
		RiskAssessment: final,
		ModelAnalysis:  model,
		Hints:          params.Hints,
		Extra:          params.Metadata,
		ImageBytes:     len(raw),
		ForceRefresh:   params.ForceRefresh,
		Timings:        timings,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScanPersistenceFailed, err)
	}

	now := time.Now()
	scanRow.Status = domain.ScanStatusComplete
	scanRow.ProcessedAt = &now
	scanRow.Metadata = string(metadata)

	stats := ParseScanStats(userRow.ScanStats)
	var statsJSON *string
	if incrementStats {
		stats = ApplyScanOutcome(stats, ScanOutcome{
			ScanID:           scanRow.ID.String(),
			Score:            final.Score,
			FraudProbability: final.FraudProbability,
		})
		encodedStats, _ := json.Marshal(stats)
		blob := string(encodedStats)
		statsJSON = &blob
	}

	if err := s.scanRepository.SaveCompletedScan(ctx, scanRow, statsJSON); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScanPersistenceFailed, err)
	}

	var alertSummary *domain.AlertSummary
	summary, err := s.alertService.ProcessScanResult(ctx, scanRow, final, details, model, userRow, requestID)
	if err != nil {
		log.Printf("scan %s [%s]: alert upsert failed: %v", scanRow.ID, requestID, err)
	} else {
		alertSummary = summary
	}

	return &domain.AnalyzeScanResponse{
		ScanID:           scanRow.ID.String(),
		Status:           scanRow.Status,
		RiskScore:        final.Score,
		FraudProbability: final.FraudProbability,
		RiskLevel:        final.Level,
		Flags:            final.Flags,
		PaymentDetails:   details,
		OCRText:          ocrText,
		ModelAnalysis:    model,
		Stats:            stats,
		Alert:            alertSummary,
		Timings:          timings,
		RequestID:        requestID,
	}, nil
}

// markScanFailed is best-effort: a scan stuck in processing is preferable to
// masking the original pipeline error with a persistence error.
func (s *scanService) markScanFailed(scanRow *entities.Scan) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scanRow.Status = domain.ScanStatusFailed
	if err := s.scanRepository.UpdateScan(ctx, scanRow); err != nil {
		log.Printf("failed to mark scan %s as failed: %v", scanRow.ID, err)
	}
}

func (s *scanService) UploadScanImage(ctx context.Context, req domain.UploadScanImageRequest, userID string) (domain.UploadScanImageResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.UploadScanImageResponse{}, domain.ErrParseUUID
	}

	fileName := fmt.Sprintf("scan-%s", uuid.New().String())
	objectKey, err := s.s3.UploadFile(fileName, req.Image, "payment-screens", storage.AllowImage...)
	if err != nil {
		return domain.UploadScanImageResponse{}, err
	}

	return domain.UploadScanImageResponse{
		Bucket:      utils.GetConfig("AWS_S3_BUCKET"),
		StoragePath: objectKey,
		ImageURL:    s.s3.GetPublicLinkKey(objectKey),
	}, nil
}

func (s *scanService) GetScans(ctx context.Context, userID string, page, limit int) ([]domain.ScanResponse, int64, error) {
	scans, count, err := s.scanRepository.GetScans(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var response []domain.ScanResponse
	for _, item := range scans {
		response = append(response, domain.ScanResponse{
			ID:          item.ID.String(),
			Bucket:      item.Bucket,
			StoragePath: item.StoragePath,
			Status:      item.Status,
			Metadata:    item.Metadata,
			ProcessedAt: item.ProcessedAt,
			CreatedAt:   item.CreatedAt,
		})
	}

	return response, count, nil
}

func (s *scanService) GetScanByID(ctx context.Context, id string, userID string) (domain.ScanResponse, error) {
	scanRow, err := s.scanRepository.GetScanByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ScanResponse{}, domain.ErrScanNotFound
		}
		return domain.ScanResponse{}, err
	}

	if scanRow.UserID.String() != userID {
		return domain.ScanResponse{}, domain.ErrUnauthorizedAccess
	}

	return domain.ScanResponse{
		ID:          scanRow.ID.String(),
		Bucket:      scanRow.Bucket,
		StoragePath: scanRow.StoragePath,
		Status:      scanRow.Status,
		Metadata:    scanRow.Metadata,
		ProcessedAt: scanRow.ProcessedAt,
		CreatedAt:   scanRow.CreatedAt,
	}, nil
}

func (s *scanService) GetDashboardStats(ctx context.Context, userID string) (domain.ScanStats, error) {
	userRow, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ScanStats{}, domain.ErrUserNotFound
		}
		return domain.ScanStats{}, err
	}

	return ParseScanStats(userRow.ScanStats), nil
}
