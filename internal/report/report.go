package report

import (
	"fmt"
	"io"
	"os"

	"github.com/jeffnemesis/gcam-core/internal/domain"
	"github.com/jeffnemesis/gcam-core/internal/region"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Row is one sector-period observation in the results CSV. Values are
// decimal-rounded so repeated runs of the same scenario produce byte-identical
// output.
type Row struct {
	RunID    string `csv:"run_id"`
	Scenario string `csv:"scenario"`
	Region   string `csv:"region"`
	Sector   string `csv:"sector"`
	Period   int    `csv:"period"`
	Year     int    `csv:"year"`
	Unit     string `csv:"unit"`
	Price    string `csv:"price"`
	Output   string `csv:"output"`
	Input    string `csv:"input"`
	CO2      string `csv:"co2_emissions"`
}

const roundPlaces = 6

func round(v float64) string {
	return decimal.NewFromFloat(v).Round(roundPlaces).String()
}

// BuildRows flattens solved model state into CSV rows, one per sector-period.
// It only reads the public accessors; nothing here recomputes model state.
func BuildRows(scenarioName string, runID uuid.UUID, regions []*region.Region, modeltime *domain.Modeltime) []*Row {
	var rows []*Row
	for _, r := range regions {
		for _, sec := range r.Sectors() {
			for period := 0; period < modeltime.MaxPeriods(); period++ {
				rows = append(rows, &Row{
					RunID:    runID.String(),
					Scenario: scenarioName,
					Region:   r.Name(),
					Sector:   sec.Name(),
					Period:   period,
					Year:     modeltime.PeriodToYear(period),
					Unit:     sec.Unit(),
					Price:    round(sec.SectorPrice(period)),
					Output:   round(sec.Output(period)),
					Input:    round(sec.ConsByFuel(period, domain.TotalFuelKey)),
					CO2:      round(sec.EmissionMap(period)["CO2"]),
				})
			}
		}
	}
	return rows
}

// WriteCSV marshals the rows to the writer.
func WriteCSV(w io.Writer, rows []*Row) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write results csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the rows to the named file.
func WriteCSVFile(path string, rows []*Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, rows)
}
