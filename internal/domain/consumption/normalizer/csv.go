package normalizer

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
)

type csvRow struct {
	Date     string `csv:"data"`
	Weekday  string `csv:"dia_semana"`
	Period   string `csv:"periodo"`
	Volume   string `csv:"volume_m3"`
	Amount   string `csv:"valor"`
	UnitCost string `csv:"custo_m3"`
}

// WriteCSV writes the table with one header line and one line per row.
func (t CleanTable) WriteCSV(w io.Writer) error {
	rows := make([]*csvRow, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = &csvRow{
			Date:     r.Date.Format(time.DateOnly),
			Weekday:  r.Weekday.String(),
			Period:   r.Period.String(),
			Volume:   r.Volume.String(),
			Amount:   r.Amount.StringFixed(2),
			UnitCost: r.UnitCost().StringFixed(4),
		}
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
