package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Média de Qtd.m³ (Potável)", "MEDIADEQTDM3(POTAVEL)"},
		{"MÉDIA DE QTD.M³ (POTÁVEL)", "MEDIADEQTDM3(POTAVEL)"},
		{"  Rótulos de Linha ", "ROTULOSDELINHA"},
		{"Soma de Valor2", "SOMADEVALOR2"},
		{"Preço\tUnitário", "PRECOUNITARIO"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeader(tt.in))
		})
	}
}
