package upload

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"AgencyPulseSaas/api"
	"AgencyPulseSaas/api/constants"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shakinm/xlsReader/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	expenseSheetPrefix        = "expensesheets/"
	expenseSheetDefaultRegion = "us-east-1"
)

type expenseRow struct {
	Date        time.Time
	Amount      float64
	Category    string
	Description string
}

// UploadExpenseSheetHandler ingests an expense sheet (.xlsx, legacy .xls or
// CSV) for the caller's organization. Expected columns: Date, Amount,
// Category, Description (header row required, order free). Parsed rows are
// inserted under one batch id; the original file is archived to S3 when a
// bucket is configured.
func UploadExpenseSheetHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, constants.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}
		orgID := api.GetOrgIDFromCtx(r.Context())
		userID := api.GetUserIDFromCtx(r.Context())
		if orgID == "" {
			http.Error(w, constants.ErrNoOrganization, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, constants.ErrMissingFile, http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
			return
		}

		rows, fileExt, err := extractRows(data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		parsed, skipped := parseExpenseRows(rows)
		if len(parsed) == 0 {
			http.Error(w, "no parsable expense rows found", http.StatusBadRequest)
			return
		}

		batchID := uuid.NewString()
		if err := insertExpenses(r.Context(), pool, orgID, userID, batchID, parsed); err != nil {
			http.Error(w, fmt.Sprintf("insert expenses: %v", err), http.StatusInternalServerError)
			return
		}

		var archiveURL string
		if bucket := expenseSheetBucket(); bucket != "" {
			hash := fmt.Sprintf("%x", sha256.Sum256(data))
			key := fmt.Sprintf("%s%s/%s%s", expenseSheetPrefix, orgID, hash, fileExt)
			archiveURL, err = archiveToS3(r.Context(), bucket, key, data)
			if err != nil {
				// Archival failure is not worth failing the whole ingest over.
				log.Printf("[ExpenseUpload] S3 archive failed for %s: %v", header.Filename, err)
				archiveURL = ""
			}
		}

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"batch_id":             batchID,
			"inserted":             len(parsed),
			"skipped":              skipped,
			"archive_url":          archiveURL,
		})
	}
}

// extractRows turns the uploaded bytes into a string grid. xlsx first, then
// legacy xls, then CSV — same fallback order the bank-statement world uses.
func extractRows(data []byte) ([][]string, string, error) {
	xl, xlErr := excelize.OpenReader(bytes.NewReader(data))
	if xlErr == nil {
		defer xl.Close()
		sheetName := xl.GetSheetName(0)
		rows, err := xl.GetRows(sheetName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to get rows: %w", err)
		}
		if len(rows) < 2 {
			return nil, "", fmt.Errorf("sheet must have at least one data row")
		}
		return rows, ".xlsx", nil
	}

	// Legacy xls needs a temp file path
	tmp, tmpErr := os.CreateTemp("", "expensesheet-*.xls")
	if tmpErr == nil {
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(data); err == nil {
			tmp.Close()
			if book, err := xls.OpenFile(tmp.Name()); err == nil {
				if sheet, err := book.GetSheet(0); err == nil {
					var rows [][]string
					for _, xlsRow := range sheet.GetRows() {
						var vals []string
						for _, col := range xlsRow.GetCols() {
							vals = append(vals, col.GetString())
						}
						rows = append(rows, vals)
					}
					if len(rows) >= 2 {
						return rows, ".xls", nil
					}
				}
			}
		} else {
			tmp.Close()
		}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil || len(rows) < 2 {
		return nil, "", fmt.Errorf("unsupported file: expected xlsx, xls or csv with a header and data rows")
	}
	return rows, ".csv", nil
}

// parseExpenseRows maps the grid onto expense rows using the header line.
// Rows missing a usable date are skipped; unusable amounts degrade to 0.
func parseExpenseRows(rows [][]string) ([]expenseRow, int) {
	cols := headerIndex(rows[0])
	var out []expenseRow
	skipped := 0
	for _, row := range rows[1:] {
		if allEmptyRow(row) {
			continue
		}
		date := parseSheetDate(cell(row, cols["date"]))
		if date.IsZero() {
			skipped++
			continue
		}
		out = append(out, expenseRow{
			Date:        date,
			Amount:      parseAmount(cell(row, cols["amount"])),
			Category:    strings.TrimSpace(cell(row, cols["category"])),
			Description: strings.TrimSpace(cell(row, cols["description"])),
		})
	}
	return out, skipped
}

func headerIndex(header []string) map[string]int {
	cols := map[string]int{"date": -1, "amount": -1, "category": -1, "description": -1}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(key, "date"):
			cols["date"] = i
		case strings.Contains(key, "amount") || strings.Contains(key, "total"):
			cols["amount"] = i
		case strings.Contains(key, "category") || strings.Contains(key, "type"):
			cols["category"] = i
		case strings.Contains(key, "desc") || strings.Contains(key, "note") || strings.Contains(key, "remark"):
			cols["description"] = i
		}
	}
	return cols
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func allEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseAmount parses a sheet cell into a non-negative amount: or 0, never an
// error — a bad cell must not sink the rest of the sheet.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

var sheetDateLayouts = []string{
	constants.DateFormat, // 2006-01-02
	"02/01/2006", "2/1/2006",
	"01/02/2006", "1/2/2006",
	constants.DateFormatAlt, // 02-01-2006
	"02-Jan-2006", "02-Jan-06",
	"2006/01/02",
}

// parseSheetDate tries the usual layouts, then an Excel serial number
// (days since 1899-12-30, with Excel's fake 1900-02-29 accounted for).
func parseSheetDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return time.Time{}
	}
	serial := d.InexactFloat64()
	if serial <= 0 || serial > 200000 {
		return time.Time{}
	}
	days := int(serial)
	if days > 59 { // skip the nonexistent 1900-02-29
		days--
	}
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	frac := serial - float64(int(serial))
	return base.AddDate(0, 0, days).Add(time.Duration(frac * float64(24*time.Hour)))
}

func insertExpenses(ctx context.Context, pool *pgxpool.Pool, orgID, userID, batchID string, rows []expenseRow) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = "uncategorized"
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO expenses (expense_id, org_id, amount, expense_date, category, description, status, upload_batch_id, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, 'recorded', $7, $8, now())`,
			uuid.NewString(), orgID, row.Amount, row.Date, category, row.Description, batchID, userID)
		if err != nil {
			return fmt.Errorf("insert row: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func expenseSheetBucket() string {
	return strings.TrimSpace(os.Getenv("EXPENSE_SHEET_S3_BUCKET"))
}

func expenseSheetRegion() string {
	if r := strings.TrimSpace(os.Getenv("EXPENSE_SHEET_S3_REGION")); r != "" {
		return r
	}
	return expenseSheetDefaultRegion
}

func archiveToS3(ctx context.Context, bucket, key string, body []byte) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(expenseSheetRegion()))
	if err != nil {
		return "", fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(detectContentType(body)),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3 (bucket %s, key %s): %w", bucket, key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, expenseSheetRegion(), key), nil
}

func detectContentType(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	if len(data) > 512 {
		return http.DetectContentType(data[:512])
	}
	return http.DetectContentType(data)
}
