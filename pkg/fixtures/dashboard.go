package fixtures

import (
	"time"

	"github.com/shopspring/decimal"
)

const dashboardSheet = "Dados Dashboard"

var (
	monthNames   = [...]string{"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho", "Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"}
	weekdayNames = [...]string{"Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira", "Sábado", "Domingo"}
)

// Limits of the dashboard's pivot areas.
const (
	maxDailyRows = 502
	maxMonths    = 12
	numSuppliers = 3
)

// DashboardWorkbook renders readings as the "Dados Dashboard" sheet: the
// monthly pivot at A4, the weekday pivot at G4, the daily table at Q4 and
// the supplier tables at A22 and G22.
func DashboardWorkbook(g *Generator, readings []Reading) ([]byte, error) {
	if len(readings) > maxDailyRows {
		readings = readings[:maxDailyRows]
	}

	daily := append([][]any{{"Rótulos de Linha", "Média de Qtd.m³ (Potável)", "Média de Valor2"}}, DailyRows(readings)...)

	sheet := Sheet{
		Name: dashboardSheet,
		Blocks: []Block{
			{Origin: "A4", Rows: monthlyRows(readings)},
			{Origin: "G4", Rows: weekdayRows(readings)},
			{Origin: "Q4", Rows: daily},
		},
	}
	volumes, values := supplierRows(g, readings)
	sheet.Blocks = append(sheet.Blocks,
		Block{Origin: "A22", Rows: volumes},
		Block{Origin: "G22", Rows: values},
	)

	return WorkbookBytes(sheet)
}

type total struct {
	volume decimal.Decimal
	amount decimal.Decimal
	days   int64
}

func (t *total) add(r Reading) {
	t.volume = t.volume.Add(r.Volume)
	t.amount = t.amount.Add(r.Amount)
	t.days++
}

func monthlyRows(readings []Reading) [][]any {
	rows := [][]any{{"Rótulos de Linha", "Soma de Qtd.m³ (Potável)", "Soma de Valor2"}}

	var order []time.Month
	sums := make(map[time.Month]*total)
	var grand total
	for _, r := range readings {
		m := r.Date.Month()
		if _, ok := sums[m]; !ok {
			if len(order) == maxMonths {
				continue
			}
			order = append(order, m)
			sums[m] = &total{}
		}
		sums[m].add(r)
		grand.add(r)
	}

	for _, m := range order {
		t := sums[m]
		rows = append(rows, []any{monthNames[m-1], DecimalComma(t.volume, 1), DecimalComma(t.amount, 2)})
	}
	return append(rows, []any{"Total Geral", DecimalComma(grand.volume, 1), DecimalComma(grand.amount, 2)})
}

func weekdayRows(readings []Reading) [][]any {
	rows := [][]any{{"Rótulos de Linha", "Média de Qtd.m³ (Potável)", "Média de Valor2"}}

	var days [7]total
	var grand total
	for _, r := range readings {
		days[(int(r.Date.Weekday())+6)%7].add(r)
		grand.add(r)
	}

	for i, t := range days {
		if t.days == 0 {
			continue
		}
		n := decimal.NewFromInt(t.days)
		rows = append(rows, []any{weekdayNames[i], DecimalComma(t.volume.Div(n), 2), DecimalComma(t.amount.Div(n), 2)})
	}
	if grand.days > 0 {
		n := decimal.NewFromInt(grand.days)
		rows = append(rows, []any{"Total Geral", DecimalComma(grand.volume.Div(n), 2), DecimalComma(grand.amount.Div(n), 2)})
	}
	return rows
}

// supplierRows splits the totals across generated suppliers.
func supplierRows(g *Generator, readings []Reading) ([][]any, [][]any) {
	var grand total
	for _, r := range readings {
		grand.add(r)
	}

	names := g.Suppliers(numSuppliers)
	shares := []decimal.Decimal{
		decimal.RequireFromString("0.6"),
		decimal.RequireFromString("0.3"),
		decimal.RequireFromString("0.1"),
	}

	volumes := [][]any{{"Fornecedor", "Soma de Qtd.m³ (Potável)"}}
	values := [][]any{{"Fornecedor", "Soma de Valor2"}}
	for i, name := range names {
		volumes = append(volumes, []any{name, DecimalComma(grand.volume.Mul(shares[i]), 1)})
		values = append(values, []any{name, DecimalComma(grand.amount.Mul(shares[i]), 2)})
	}
	volumes = append(volumes, []any{"Total Geral", DecimalComma(grand.volume, 1)})
	values = append(values, []any{"Total Geral", DecimalComma(grand.amount, 2)})
	return volumes, values
}
