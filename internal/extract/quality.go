package extract

// QualityVerdict is the quality evaluator's output: a numeric score kept
// for audit plus the boolean degraded signal that gates fallback.
type QualityVerdict struct {
	Score      float64 `json:"score"`
	Degraded   bool    `json:"degraded"`
	TextLength int     `json:"text_length"`
	Threshold  float64 `json:"threshold"`
}

// Weighting between raw text volume and match yield when both signals are
// available.
const (
	volumeWeight = 0.6
	yieldWeight  = 0.4
)

// EvaluateQuality computes a scalar quality signal from the extracted text
// volume and, when known, the ratio of required fields that matched. The
// degraded verdict compares raw text length against the vendor's OCR quality
// threshold; a zero threshold disables the volume gate.
func EvaluateQuality(textLength, matchedFields, requiredFields int, threshold float64) QualityVerdict {
	verdict := QualityVerdict{TextLength: textLength, Threshold: threshold}

	volume := 1.0
	if threshold > 0 {
		volume = float64(textLength) / threshold
		if volume > 1 {
			volume = 1
		}
		verdict.Degraded = float64(textLength) < threshold
	} else if textLength == 0 {
		volume = 0
	}

	if requiredFields > 0 {
		yield := float64(matchedFields) / float64(requiredFields)
		verdict.Score = volumeWeight*volume + yieldWeight*yield
	} else {
		verdict.Score = volume
	}
	return verdict
}
