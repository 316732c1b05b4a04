package scan

import (
	"PayGuard-Backend/domain"
	"regexp"
	"strconv"
	"strings"
)

// Confidence weights per successfully matched field, capped at 1.0.
const (
	weightUPIID     = 0.4
	weightAmount    = 0.2
	weightReference = 0.2
	weightPayee     = 0.1
	weightPayer     = 0.1
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	upiLabelledRe = regexp.MustCompile(`(?i)\b(?:upi(?:\s*id)?|vpa|virtual\s+payment\s+address)\b[:\s\-]*([a-zA-Z0-9][a-zA-Z0-9._\-]*@[a-zA-Z][a-zA-Z]+)`)
	upiBareRe     = regexp.MustCompile(`\b([a-zA-Z0-9][a-zA-Z0-9._\-]*@[a-zA-Z][a-zA-Z]+)\b`)
	amountRe      = regexp.MustCompile(`(?i)(?:\b(?:amount|amt|paid|payment|total|rs|inr)\b|₹)[.:\s]*(?:\b(?:rs|inr)\b|₹)?[.:\s]*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	referenceRe   = regexp.MustCompile(`(?i)\b(?:transaction\s+(?:id|no)|txn\s*(?:id|no)?|ref(?:erence)?\s*(?:id|no)?|order\s+id|utr)\b[.:\s#\-]*([a-zA-Z0-9]{6,})`)
	noteRe        = regexp.MustCompile(`(?i)\b(?:note|remarks?|message)\b[:\s\-]+(.{1,80})`)
	currencyRe    = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\binr\b|\brupees?\b)`)
	nameCleanRe   = regexp.MustCompile(`[^a-zA-Z.\s]`)
	nameCaptureRe = `[:\s\-]*([A-Z][a-zA-Z.]*(?:\s+[A-Z][a-zA-Z.]*){0,3})`
)

// Label synonyms tried in order; the first match wins for each role.
var (
	payerNameRes = compileNameRes([]string{"paid by", "debited from", "payer", "sender", "from"})
	payeeNameRes = compileNameRes([]string{"paid to", "credited to", "payee", "receiver", "beneficiary", "to"})
)

func compileNameRes(labels []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(labels))
	for _, label := range labels {
		pattern := `(?i)\b` + strings.ReplaceAll(label, " ", `\s+`) + `\b` + nameCaptureRe
		res = append(res, regexp.MustCompile(pattern))
	}
	return res
}

// ExtractPaymentDetails parses structured payment fields out of raw OCR text.
// Every field is independent and best-effort; nothing here errors.
func ExtractPaymentDetails(text string) domain.PaymentDetails {
	normalized := whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")

	details := domain.PaymentDetails{
		MatchedFields: map[string]string{},
	}
	var rawMatches []string

	if m := upiLabelledRe.FindStringSubmatch(normalized); m != nil {
		id := m[1]
		details.UPIID = &id
		details.MatchedFields["upi_id"] = m[0]
		rawMatches = append(rawMatches, m[0])
	} else if m := upiBareRe.FindStringSubmatch(normalized); m != nil {
		id := m[1]
		details.UPIID = &id
		details.MatchedFields["upi_id"] = m[0]
		rawMatches = append(rawMatches, m[0])
	}

	if m := amountRe.FindStringSubmatch(normalized); m != nil {
		cleaned := strings.ReplaceAll(m[1], ",", "")
		if amount, err := strconv.ParseFloat(cleaned, 64); err == nil {
			details.Amount = &amount
			details.MatchedFields["amount"] = m[0]
			rawMatches = append(rawMatches, m[0])
		}
	}

	if m := referenceRe.FindStringSubmatch(normalized); m != nil {
		ref := m[1]
		details.ReferenceID = &ref
		details.MatchedFields["reference_id"] = m[0]
		rawMatches = append(rawMatches, m[0])
	}

	if name, raw := extractName(normalized, payerNameRes); name != "" {
		details.PayerName = &name
		details.MatchedFields["payer_name"] = raw
		rawMatches = append(rawMatches, raw)
	}
	if name, raw := extractName(normalized, payeeNameRes); name != "" {
		details.PayeeName = &name
		details.MatchedFields["payee_name"] = raw
		rawMatches = append(rawMatches, raw)
	}

	if m := noteRe.FindStringSubmatch(normalized); m != nil {
		note := strings.TrimSpace(m[1])
		if note != "" {
			details.Note = &note
			details.MatchedFields["note"] = m[0]
			rawMatches = append(rawMatches, m[0])
		}
	}

	if currencyRe.MatchString(normalized) {
		currency := "INR"
		details.Currency = &currency
	}

	details.RawMatches = dedupeStrings(rawMatches)
	details.Confidence = extractionConfidence(details)
	return details
}

func extractName(text string, res []*regexp.Regexp) (string, string) {
	for _, re := range res {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := nameCleanRe.ReplaceAllString(m[1], "")
		name = strings.TrimSpace(whitespaceRe.ReplaceAllString(name, " "))
		if name != "" {
			return name, m[0]
		}
	}
	return "", ""
}

func extractionConfidence(details domain.PaymentDetails) float64 {
	confidence := 0.0
	if details.UPIID != nil {
		confidence += weightUPIID
	}
	if details.Amount != nil {
		confidence += weightAmount
	}
	if details.ReferenceID != nil {
		confidence += weightReference
	}
	if details.PayeeName != nil {
		confidence += weightPayee
	}
	if details.PayerName != nil {
		confidence += weightPayer
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func dedupeStrings(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
