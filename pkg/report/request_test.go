package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDataOmitsAbsentOptionalFields(t *testing.T) {
	data := Request{
		Title:      "Relatório de Vendas",
		ClientName: "Posto Quality",
	}.BuildData()

	// Named fields are always present, even when empty.
	assert.Equal(t, "Relatório de Vendas", data["reportTitle"])
	assert.Equal(t, "", data["reportSubtitle"])
	assert.Equal(t, "Posto Quality", data["clientName"])

	// Optional attachments must be missing keys, not empty values: the
	// templates branch on key presence.
	assert.NotContains(t, data, "summaryCards")
	assert.NotContains(t, data, "tableTitle")
	assert.NotContains(t, data, "tableHeaders")
	assert.NotContains(t, data, "tableData")
	assert.NotContains(t, data, "sections")
}

func TestBuildDataDefaultsGeneratedDate(t *testing.T) {
	data := Request{Title: "x"}.BuildData()
	assert.NotEmpty(t, data["generatedDate"])

	data = Request{Title: "x", GeneratedDate: "20/01/2026 08:30:00"}.BuildData()
	assert.Equal(t, "20/01/2026 08:30:00", data["generatedDate"])
}

func TestBuildDataFlattensTable(t *testing.T) {
	data := Request{
		Title: "Abastecimentos",
		SummaryCards: []SummaryCard{
			{Title: "Total", Value: "1.247"},
		},
		Table: &Table{
			Title:   "Últimos Abastecimentos",
			Headers: []string{"Data", "Produto", "Total"},
			Rows:    [][]string{{"20/01/2026", "Etanol", "R$ 171,60"}},
		},
	}.BuildData()

	assert.Equal(t, "Últimos Abastecimentos", data["tableTitle"])
	assert.Equal(t, []string{"Data", "Produto", "Total"}, data["tableHeaders"])
	assert.Equal(t, [][]string{{"20/01/2026", "Etanol", "R$ 171,60"}}, data["tableData"])
	assert.Len(t, data["summaryCards"], 1)
}

func TestBuildDataNestsSections(t *testing.T) {
	data := Request{
		Title: "Relatório Executivo",
		Sections: []Section{
			{
				Title: "Vendas",
				Cards: []SummaryCard{{Title: "Receita", Value: "R$ 287.450,00"}},
				Table: &Table{Headers: []string{"Data"}, Rows: [][]string{{"20/01"}}},
			},
			{Title: "Estoque"},
		},
	}.BuildData()

	sections, ok := data["sections"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, sections, 2)

	assert.Equal(t, "Vendas", sections[0]["sectionTitle"])
	assert.Len(t, sections[0]["summaryCards"], 1)
	assert.Equal(t, []string{"Data"}, sections[0]["tableHeaders"])

	assert.Equal(t, "Estoque", sections[1]["sectionTitle"])
	assert.NotContains(t, sections[1], "summaryCards")
	assert.NotContains(t, sections[1], "tableHeaders")
}
