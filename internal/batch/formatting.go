package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/certex/internal/extract"
)

// formatBatchResults formats batch results in the specified format.
func formatBatchResults(documents []DocumentResult, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(documents)
	case "csv":
		return formatCSV(documents)
	default: // text
		return formatText(documents)
	}
}

type jsonRecord struct {
	Page              int               `json:"page"`
	ExtractionQuality string            `json:"extraction_quality"`
	Confidence        float64           `json:"confidence,omitempty"`
	Fields            map[string]string `json:"fields"`
}

type jsonDocument struct {
	File    string           `json:"file"`
	Vendor  string           `json:"vendor,omitempty"`
	Error   string           `json:"error,omitempty"`
	Records []jsonRecord     `json:"records,omitempty"`
	Summary *extract.Summary `json:"summary,omitempty"`
}

// formatJSON formats results as JSON.
func formatJSON(documents []DocumentResult) (string, error) {
	out := struct {
		Documents []jsonDocument `json:"documents"`
	}{Documents: make([]jsonDocument, 0, len(documents))}

	for i := range documents {
		dr := &documents[i]
		jd := jsonDocument{File: dr.Source, Vendor: dr.VendorID}
		if dr.Err != nil {
			jd.Error = dr.Err.Error()
		}
		if dr.Result != nil {
			jd.Summary = &dr.Result.Summary
			for _, rec := range dr.Result.Records {
				jd.Records = append(jd.Records, jsonRecord{
					Page:              rec.PageNumber,
					ExtractionQuality: string(rec.Quality),
					Confidence:        rec.Confidence,
					Fields:            rec.Fields,
				})
			}
		}
		out.Documents = append(out.Documents, jd)
	}

	bts, err := json.MarshalIndent(out, "", "  ")
	return string(bts), err
}

// formatCSV formats results as CSV. Field columns are the sorted union of
// all field keys across all records so rows from different vendors align.
func formatCSV(documents []DocumentResult) (string, error) {
	keys := fieldKeys(documents)

	header := append([]string{"file", "vendor", "record_index", "page", "extraction_quality", "confidence"}, keys...)
	csvData := [][]string{header}

	for i := range documents {
		dr := &documents[i]
		if dr.Result == nil || len(dr.Result.Records) == 0 {
			// Keep failed and empty documents visible in the output.
			row := []string{dr.Source, dr.VendorID, "0", "0", "", "0"}
			for range keys {
				row = append(row, "")
			}
			csvData = append(csvData, row)
			continue
		}
		for j, rec := range dr.Result.Records {
			row := []string{
				dr.Source,
				dr.VendorID,
				strconv.Itoa(j),
				strconv.Itoa(rec.PageNumber),
				string(rec.Quality),
				fmt.Sprintf("%.3f", rec.Confidence),
			}
			for _, key := range keys {
				row = append(row, rec.Fields[key])
			}
			csvData = append(csvData, row)
		}
	}

	var output strings.Builder
	writer := csv.NewWriter(&output)
	for _, row := range csvData {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), nil
}

// formatText formats results as human-readable plain text.
func formatText(documents []DocumentResult) (string, error) {
	var output strings.Builder
	for i := range documents {
		dr := &documents[i]
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("# %s\n", dr.Source))
		if dr.VendorID != "" {
			output.WriteString(fmt.Sprintf("vendor: %s\n", dr.VendorID))
		}
		if dr.Err != nil {
			output.WriteString(fmt.Sprintf("error: %v\n", dr.Err))
		}
		if dr.Result == nil {
			continue
		}
		for j, rec := range dr.Result.Records {
			output.WriteString(fmt.Sprintf("record %d (page %d, %s):\n", j, rec.PageNumber, rec.Quality))
			for _, key := range sortedRecordKeys(rec.Fields) {
				output.WriteString(fmt.Sprintf("  %s: %s\n", key, rec.Fields[key]))
			}
		}
	}
	return output.String(), nil
}

func fieldKeys(documents []DocumentResult) []string {
	seen := make(map[string]bool)
	for i := range documents {
		if documents[i].Result == nil {
			continue
		}
		for _, rec := range documents[i].Result.Records {
			for key := range rec.Fields {
				seen[key] = true
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedRecordKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
