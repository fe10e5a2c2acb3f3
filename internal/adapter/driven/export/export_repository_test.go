package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func newTestRepo() *ExportRepositoryImpl {
	return &ExportRepositoryImpl{now: func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) }}
}

func testSeries(t *testing.T, id int, pairs ...string) entity.TimeSeries {
	t.Helper()
	s := entity.EmptySeries(id)
	for _, p := range pairs {
		d, v, _ := strings.Cut(p, "=")
		date, err := civil.ParseDate(d)
		if err != nil {
			t.Fatalf("ParseDate(%q) error = %v", d, err)
		}
		obs := entity.Observation{Date: date}
		if v != "null" {
			obs.Value = decimal.NewNullDecimal(decimal.RequireFromString(v))
		}
		s.Observations = append(s.Observations, obs)
	}
	return s
}

func pairs(s entity.TimeSeries) []string {
	out := make([]string, 0, s.Len())
	for _, obs := range s.Observations {
		v := "null"
		if obs.Value.Valid {
			v = obs.Value.Decimal.String()
		}
		out = append(out, obs.Date.String()+"="+v)
	}
	return out
}

func testData(t *testing.T) []entity.IndicatorSeries {
	return []entity.IndicatorSeries{
		{
			Indicator: entity.Indicator{ID: 1, Name: "Reservas Internacionales", Unit: "USD millones", File: "reservas"},
			Series:    testSeries(t, 1, "2024-05-01=28000", "2024-05-02=28150.5", "2024-05-03=null", "2024-05-06=28300"),
		},
		{
			Indicator: entity.Indicator{ID: 12, Name: "Tasa Plazo Fijo", Unit: "% TNA", File: "tasa_plazo_fijo"},
			Series:    testSeries(t, 12, "2024-05-01=40.25", "2024-05-02=39.5"),
		},
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	repo := newTestRepo()
	dir := t.TempDir()
	series := testSeries(t, 5, "2024-01-01=3", "2024-01-02=5.123456789012345678", "2024-01-03=null", "2024-01-04=-0.5")

	path, err := repo.ExportSeriesToCSV(series, "tipo_cambio_referencia", dir)
	if err != nil {
		t.Fatalf("ExportSeriesToCSV() error = %v", err)
	}
	if filepath.Base(path) != "tipo_cambio_referencia.csv" {
		t.Errorf("file name = %s, want tipo_cambio_referencia.csv", filepath.Base(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	wantRaw := "fecha,valor\n2024-01-01,3\n2024-01-02,5.123456789012345678\n2024-01-03,\n2024-01-04,-0.5\n"
	if string(raw) != wantRaw {
		t.Errorf("CSV content = %q, want %q", raw, wantRaw)
	}

	back, err := repo.ReadSeriesCSV(path, 5)
	if err != nil {
		t.Fatalf("ReadSeriesCSV() error = %v", err)
	}
	if diff := cmp.Diff(pairs(series), pairs(back)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if back.VariableID != 5 {
		t.Errorf("VariableID = %d, want 5", back.VariableID)
	}
}

func TestCSV_EmptySeries(t *testing.T) {
	repo := newTestRepo()
	path, err := repo.ExportSeriesToCSV(entity.EmptySeries(1), "empty", t.TempDir())
	if err != nil {
		t.Fatalf("ExportSeriesToCSV() error = %v", err)
	}
	back, err := repo.ReadSeriesCSV(path, 1)
	if err != nil {
		t.Fatalf("ReadSeriesCSV() error = %v", err)
	}
	if !back.IsEmpty() {
		t.Errorf("ReadSeriesCSV() len = %d, want 0", back.Len())
	}
}

func TestReadSeriesCSV_Invalid(t *testing.T) {
	repo := newTestRepo()
	tests := map[string]string{
		"bad header": "date,value\n2024-01-01,1\n",
		"bad date":   "fecha,valor\n01/01/2024,1\n",
		"bad value":  "fecha,valor\n2024-01-01,abc\n",
		"extra cols": "fecha,valor\n2024-01-01,1,2\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "x.csv")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := repo.ReadSeriesCSV(path, 1); err == nil {
				t.Error("ReadSeriesCSV() error = nil, want error")
			}
		})
	}
}

func TestGenerateFilename_Timestamp(t *testing.T) {
	repo := newTestRepo()
	repo.timestamp = true
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := repo.generateFilename("bcra", dir, "json")
	if err != nil {
		t.Fatalf("generateFilename() error = %v", err)
	}
	if filepath.Base(path) != "bcra_20240601_120000.json" {
		t.Errorf("generateFilename() = %s", filepath.Base(path))
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}

	if _, err := repo.generateFilename("", dir, "json"); err == nil {
		t.Error("generateFilename() with empty base error = nil, want error")
	}
}

func TestExportReportInput(t *testing.T) {
	repo := newTestRepo()
	latest := 28300.0
	v1 := 28000.0
	report := entity.Report{
		GeneratedAt: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		Order:       []int{1},
		Series: map[int]entity.ReportSeries{
			1: {ID: 1, Name: "Reservas", Unit: "USD millones", Dates: []string{"2024-05-01", "2024-05-02"}, Values: []*float64{&v1, nil}, Latest: &latest},
		},
	}

	path, err := repo.ExportReportInput(report, "report", t.TempDir())
	if err != nil {
		t.Fatalf("ExportReportInput() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Series map[string]struct {
			Name   string     `json:"name"`
			Dates  []string   `json:"dates"`
			Values []*float64 `json:"values"`
			Latest *float64   `json:"latest"`
		} `json:"series"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	got, ok := decoded.Series["1"]
	if !ok {
		t.Fatalf("series \"1\" missing in %s", raw)
	}
	if got.Name != "Reservas" || len(got.Dates) != 2 || got.Values[1] != nil || got.Latest == nil || *got.Latest != latest {
		t.Errorf("decoded report series = %+v", got)
	}
}

func TestExportToJSON_KeepsDecimalPrecision(t *testing.T) {
	repo := newTestRepo()
	data := []entity.IndicatorSeries{{
		Indicator: entity.Indicator{ID: 4, Name: "TC", File: "tc"},
		Series:    testSeries(t, 4, "2024-01-01=912.123456789123456789", "2024-01-02=null"),
	}}

	path, err := repo.ExportToJSON(data, "series", t.TempDir())
	if err != nil {
		t.Fatalf("ExportToJSON() error = %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), `"valor": 912.123456789123456789`) {
		t.Errorf("JSON export lost precision:\n%s", raw)
	}
	if !strings.Contains(string(raw), `"valor": null`) {
		t.Errorf("JSON export missing null value:\n%s", raw)
	}
}

func TestExportToXLSX(t *testing.T) {
	repo := newTestRepo()
	path, err := repo.ExportToXLSX(testData(t), "bcra", t.TempDir())
	if err != nil {
		t.Fatalf("ExportToXLSX() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{"Resumen", "reservas", "tasa_plazo_fijo"}, f.GetSheetList()); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}

	rows, err := f.GetRows("reservas")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5 (header + 4)", len(rows))
	}
	if rows[0][0] != "fecha" || rows[1][0] != "2024-05-01" || rows[1][1] != "28000" {
		t.Errorf("unexpected rows: %v", rows[:2])
	}
	if len(rows[3]) != 1 {
		t.Errorf("null value row = %v, want only the date", rows[3])
	}

	summary, err := f.GetRows("Resumen")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(summary) != 3 || summary[2][1] != "Tasa Plazo Fijo" {
		t.Errorf("unexpected summary: %v", summary)
	}
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{"resumen": true}
	long := entity.Indicator{ID: 7, File: "a_really_long_indicator_file_name_over_limit"}

	first := uniqueSheetName(sheetName(long), used)
	second := uniqueSheetName(sheetName(long), used)
	if len([]rune(first)) > maxSheetNameRunes || len([]rune(second)) > maxSheetNameRunes {
		t.Errorf("sheet names too long: %q, %q", first, second)
	}
	if first == second {
		t.Errorf("duplicate sheet name %q", first)
	}
	if got := sheetName(entity.Indicator{ID: 3, File: "a/b:c"}); got != "a_b_c" {
		t.Errorf("sheetName() = %q, want a_b_c", got)
	}
	if got := uniqueSheetName("Resumen", used); got != "Resumen_2" {
		t.Errorf("uniqueSheetName() = %q, want Resumen_2", got)
	}
}

func TestExportToSQLite_Upserts(t *testing.T) {
	repo := newTestRepo()
	dir := t.TempDir()
	data := testData(t)

	path, err := repo.ExportToSQLite(context.Background(), data, "bcra", dir)
	if err != nil {
		t.Fatalf("ExportToSQLite() error = %v", err)
	}

	data[1].Series = testSeries(t, 12, "2024-05-02=41", "2024-05-03=42")
	if _, err := repo.ExportToSQLite(context.Background(), data, "bcra", dir); err != nil {
		t.Fatalf("second ExportToSQLite() error = %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM observations WHERE variable_id = 12`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("observations for variable 12 = %d, want 3", count)
	}

	var valor string
	if err := db.QueryRow(`SELECT valor FROM observations WHERE variable_id = 12 AND fecha = '2024-05-02'`).Scan(&valor); err != nil {
		t.Fatal(err)
	}
	if valor != "41" {
		t.Errorf("upserted valor = %s, want 41", valor)
	}

	var nullValor sql.NullString
	if err := db.QueryRow(`SELECT valor FROM observations WHERE variable_id = 1 AND fecha = '2024-05-03'`).Scan(&nullValor); err != nil {
		t.Fatal(err)
	}
	if nullValor.Valid {
		t.Errorf("absent value stored as %q, want NULL", nullValor.String)
	}
}

func TestExportToPDF(t *testing.T) {
	repo := newTestRepo()
	window := entity.QueryWindow{From: civil.Date{Year: 2024, Month: time.May, Day: 1}, To: civil.Date{Year: 2024, Month: time.June, Day: 1}}

	path, err := repo.ExportToPDF(testData(t), window, "bcra", t.TempDir())
	if err != nil {
		t.Fatalf("ExportToPDF() error = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "%PDF-") {
		t.Errorf("output is not a PDF")
	}
}

func TestComputeStats(t *testing.T) {
	st := computeStats(testSeries(t, 1, "2024-01-01=10", "2024-01-02=null", "2024-01-03=5", "2024-01-04=12"))
	if st.count != 4 || st.nulls != 1 {
		t.Errorf("count, nulls = %d, %d, want 4, 1", st.count, st.nulls)
	}
	if st.min.String() != "5" || st.max.String() != "12" {
		t.Errorf("min, max = %s, %s, want 5, 12", st.min, st.max)
	}
	pct, ok := st.change()
	if !ok || pct.StringFixed(2) != "20.00" {
		t.Errorf("change() = %s, %v, want 20.00", pct, ok)
	}
}

func TestPdfTitle_TruncatesRunes(t *testing.T) {
	short := "Tasa de política monetaria"
	if got := pdfTitle(short); got != short {
		t.Errorf("pdfTitle(%q) = %q", short, got)
	}

	long := strings.Repeat("a", 76) + strings.Repeat("ñ", 10)
	got := pdfTitle(long)
	if !utf8.ValidString(got) {
		t.Errorf("pdfTitle() returned invalid UTF-8: %q", got)
	}
	want := strings.Repeat("a", 76) + "ñ..."
	if got != want {
		t.Errorf("pdfTitle() = %q, want %q", got, want)
	}
}
