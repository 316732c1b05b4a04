package scan

import (
	"PayGuard-Backend/domain"
	"PayGuard-Backend/internal/utils"
	"strings"
)

// NormalizeAnalyzeRequest coerces the loosely typed analyze payload into
// canonical params. Camel and snake case spellings are both honored, with the
// camelCase one winning when both are present.
func NormalizeAnalyzeRequest(req domain.AnalyzeScanRequest) (domain.AnalyzeScanParams, error) {
	storagePath := strings.TrimSpace(req.StoragePath)
	if storagePath == "" {
		storagePath = strings.TrimSpace(req.StoragePathSnake)
	}
	if storagePath == "" {
		return domain.AnalyzeScanParams{}, domain.ErrStoragePathRequired
	}

	scanID := strings.TrimSpace(req.ScanID)
	if scanID == "" {
		scanID = strings.TrimSpace(req.ScanIDSnake)
	}

	bucket := strings.TrimSpace(req.Bucket)
	if bucket == "" {
		bucket = utils.GetConfig("SCAN_BUCKET")
	}

	var hints []string
	for _, h := range req.Hints {
		h = strings.TrimSpace(h)
		if h != "" {
			hints = append(hints, h)
		}
	}

	return domain.AnalyzeScanParams{
		StoragePath:  storagePath,
		Bucket:       bucket,
		ScanID:       scanID,
		Hints:        hints,
		Metadata:     req.Metadata,
		ForceRefresh: req.ForceRefresh,
	}, nil
}
