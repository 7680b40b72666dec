package providers

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "esgmap/internal/errors"
	"esgmap/internal/files"
	"esgmap/internal/match"
	"esgmap/pkg/contracts/domain"
)

// MSCIFilePattern matches the yearly ratings workbooks MSCI delivers.
const MSCIFilePattern = "ESG Ratings Timeseries*.xlsx"

var filenameYear = regexp.MustCompile(`(19|20)\d{2}`)

// msciDateFormats are tried in order when a workbook carries a date column
// instead of a plain year.
var msciDateFormats = []string{"20060102", "2006-01-02", "01/02/2006"}

// MSCI reads MSCI ESG ratings workbooks. The input path may be a single
// workbook or a directory of them; directories are expanded through the
// delivery filename pattern.
type MSCI struct {
	logger *slog.Logger
}

// NewMSCI creates the MSCI adapter.
func NewMSCI(logger *slog.Logger) *MSCI {
	if logger == nil {
		logger = slog.Default()
	}
	return &MSCI{logger: logger}
}

// Name returns the provider's registry name.
func (p *MSCI) Name() string { return "msci" }

// Strategies returns the identifier joins in priority order.
func (p *MSCI) Strategies() []match.Strategy {
	return []match.Strategy{match.CUSIP6Strategy(), match.ISINCUSIP6Strategy()}
}

// Load reads every workbook and normalizes the issuer rows. A workbook that
// cannot be opened or carries no issuer columns is skipped with a warning;
// finding no usable workbook at all is fatal.
func (p *MSCI) Load(ctx context.Context, path string) ([]domain.ProviderRecord, error) {
	paths, err := p.inputFiles(path)
	if err != nil {
		return nil, err
	}

	var records []domain.ProviderRecord
	loadedFiles := 0
	for _, file := range paths {
		fileRecords, err := p.loadWorkbook(file)
		if err != nil {
			p.logger.WarnContext(ctx, "skipping msci workbook",
				slog.String("path", file),
				slog.String("error", err.Error()))
			continue
		}
		records = append(records, fileRecords...)
		loadedFiles++
	}

	if loadedFiles == 0 {
		return nil, apperrors.NewStorageError("no usable msci workbook under "+path, nil)
	}

	p.logger.InfoContext(ctx, "msci data loaded",
		slog.String("path", path),
		slog.Int("files", loadedFiles),
		slog.Int("records", len(records)))

	return records, nil
}

func (p *MSCI) inputFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot stat msci input "+path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	found, err := files.NewDiscovery(path).FindByPattern(".", MSCIFilePattern)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperrors.NewStorageError("no files matching "+MSCIFilePattern+" in "+path, nil)
	}

	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.Path
	}
	return paths, nil
}

func (p *MSCI) loadWorkbook(path string) ([]domain.ProviderRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot open workbook", err)
	}
	defer f.Close()

	// Find the sheet that carries the issuer table; deliveries sometimes
	// prepend cover sheets.
	var rows [][]string
	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil || len(sheetRows) < 2 {
			continue
		}
		header := strings.ToUpper(strings.Join(sheetRows[0], " "))
		if strings.Contains(header, "ISSUERID") {
			rows = sheetRows
			break
		}
	}
	if rows == nil {
		return nil, apperrors.NewParsingError("no issuer sheet in workbook", nil)
	}

	cols := make(headerIndex, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	fallbackYear := yearFromFilename(path)

	var records []domain.ProviderRecord
	for _, row := range rows[1:] {
		id := domain.NormalizeIdentifier(cols.value(row, "issuerid"))
		year := rowYear(cols, row, fallbackYear)
		if id == "" || year <= 0 {
			continue
		}

		rec := domain.ProviderRecord{
			ProviderEntityID: id,
			Year:             year,
			CompanyName:      strings.TrimSpace(cols.value(row, "issuer_name")),
			Ticker:           domain.NormalizeIdentifier(cols.value(row, "issuer_ticker")),
			CUSIP:            domain.NormalizeIdentifier(cols.value(row, "issuer_cusip")),
			ISIN:             domain.NormalizeIdentifier(cols.value(row, "issuer_isin")),
			SEDOL:            domain.NormalizeIdentifier(cols.value(row, "issuer_sedol")),
		}
		rec.CUSIP6 = cusipPrefix(rec.CUSIP)
		rec.ISINCUSIP6 = domain.ExtractCUSIP6FromISIN(rec.ISIN)
		rec.ValidFrom, rec.ValidTo = domain.YearWindow(year)

		records = append(records, rec)
	}

	return records, nil
}

// rowYear resolves the reporting year for one row: a YEAR column first, then
// the known date columns, then the year embedded in the filename.
func rowYear(cols headerIndex, row []string, fallback int) int {
	if raw := strings.TrimSpace(cols.value(row, "year")); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			return year
		}
	}

	for _, name := range []string{"as_of_date", "as of date", "asof_date", "date", "period"} {
		raw := strings.TrimSpace(cols.value(row, name))
		if raw == "" {
			continue
		}
		for _, format := range msciDateFormats {
			if parsed, err := time.Parse(format, raw); err == nil {
				return parsed.Year()
			}
		}
	}

	return fallback
}

func yearFromFilename(path string) int {
	match := filenameYear.FindString(path)
	if match == "" {
		return 0
	}
	year, _ := strconv.Atoi(match)
	return year
}
