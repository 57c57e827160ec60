package layout

// DashboardSheet is the sheet name used by the dashboard exports.
const DashboardSheet = "Dados Dashboard"

// Region names of the dashboard preset.
const (
	RegionMonthly        = "monthly"
	RegionSupplierVolume = "supplier_volume"
	RegionSupplierValue  = "supplier_value"
	RegionWeekday        = "weekday"
	RegionDaily          = "daily"
)

// Column labels used by the non-daily dashboard regions.
const (
	FieldMonth    = "Mes"
	FieldSupplier = "Fornecedor"
	FieldWeekday  = "Dia_Semana"
)

// DailyRegion is the day-by-day table at Q4:S506 of the dashboard sheet.
func DailyRegion(sheet string) Region {
	return Region{
		Name:        RegionDaily,
		Sheet:       sheet,
		HeaderRow:   3,
		RowCount:    502,
		Columns:     "Q:S",
		ColumnNames: []string{FieldDate, FieldVolume, FieldAmount},
	}
}

// DashboardRegions returns every table laid out on the dashboard sheet.
func DashboardRegions(sheet string) RegionSet {
	return RegionSet{
		{
			Name:        RegionMonthly,
			Sheet:       sheet,
			HeaderRow:   3,
			RowCount:    14,
			Columns:     "A:C",
			ColumnNames: []string{FieldMonth, FieldVolume, FieldAmount},
		},
		{
			Name:        RegionSupplierVolume,
			Sheet:       sheet,
			HeaderRow:   21,
			RowCount:    4,
			Columns:     "A:B",
			ColumnNames: []string{FieldSupplier, FieldVolume},
		},
		{
			Name:        RegionSupplierValue,
			Sheet:       sheet,
			HeaderRow:   21,
			RowCount:    4,
			Columns:     "G:H",
			ColumnNames: []string{FieldSupplier, FieldAmount},
		},
		{
			Name:        RegionWeekday,
			Sheet:       sheet,
			HeaderRow:   3,
			RowCount:    9,
			Columns:     "G:I",
			ColumnNames: []string{FieldWeekday, FieldVolume, FieldAmount},
		},
		DailyRegion(sheet),
	}
}
