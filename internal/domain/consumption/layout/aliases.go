package layout

// Semantic field names every strategy must produce.
const (
	FieldDate   = "Data"
	FieldVolume = "Volume_M3"
	FieldAmount = "Valor"
)

// FieldAlias lists the header texts accepted for one semantic field,
// in priority order.
type FieldAlias struct {
	Field    string
	Aliases  []string
	Optional bool
}

// DefaultAliases returns the header vocabulary seen in the dashboard exports.
// Pivot exports label the date column "Rótulos de Linha" and prefix the
// measures with the aggregation ("Soma de", "Média de"). Sums are preferred
// over means when a sheet carries both.
func DefaultAliases() []FieldAlias {
	return []FieldAlias{
		{
			Field: FieldDate,
			Aliases: []string{
				"Rótulos de Linha",
				"Data",
				"Dia",
				"Data Leitura",
				"Date",
			},
		},
		{
			Field: FieldVolume,
			Aliases: []string{
				"Soma de Qtd.m³ (Potável)",
				"Média de Qtd.m³ (Potável)",
				"Soma de Qtd.m³",
				"Média de Qtd.m³",
				"Qtd.m³ (Potável)",
				"Qtd.m³",
				"Volume m³",
				"Volume_M3",
				"Volume",
				"Consumo m³",
			},
		},
		{
			Field: FieldAmount,
			Aliases: []string{
				"Soma de Valor2",
				"Média de Valor2",
				"Soma de Valor",
				"Média de Valor",
				"Valor2",
				"Valor",
				"Valor (R$)",
				"Custo",
			},
		},
	}
}

// RequiredFields returns the non-optional field names of aliases, in order.
func RequiredFields(aliases []FieldAlias) []string {
	fields := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if !a.Optional {
			fields = append(fields, a.Field)
		}
	}
	return fields
}
