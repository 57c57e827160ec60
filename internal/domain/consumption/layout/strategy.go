// Package layout turns a workbook sheet into a RawTable whose columns carry
// the semantic field names Data, Volume_M3 and Valor.
package layout

import (
	"context"
	"fmt"

	"github.com/FACorreiaa/smart-water-tracker/internal/domain/consumption/workbook"
)

// Strategy names.
const (
	KindFixedRegion  = "region"
	KindHeaderSearch = "header"
)

// Strategy locates the consumption table inside a workbook.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, wb *workbook.Workbook) (*workbook.RawTable, error)
}

// Config selects and parameterises a strategy.
type Config struct {
	Kind      string
	Sheet     string
	HeaderRow int // header search only; negative means auto-detect
	ScanRows  int // header search only; rows inspected when auto-detecting
	Aliases   []FieldAlias
}

// New builds the strategy described by cfg.
func New(cfg Config) (Strategy, error) {
	sheet := cfg.Sheet
	if sheet == "" {
		sheet = DashboardSheet
	}

	switch cfg.Kind {
	case KindFixedRegion:
		return NewFixedRegion(DailyRegion(sheet)), nil
	case KindHeaderSearch, "":
		aliases := cfg.Aliases
		if len(aliases) == 0 {
			aliases = DefaultAliases()
		}
		hs := NewHeaderSearch(sheet, cfg.HeaderRow, aliases)
		if cfg.ScanRows > 0 {
			hs.ScanRows = cfg.ScanRows
		}
		return hs, nil
	default:
		return nil, fmt.Errorf("unknown layout strategy %q", cfg.Kind)
	}
}
