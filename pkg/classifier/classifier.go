// Package classifier routes report requests to a JSReport template using
// keyword scoring. Classification is pure string matching: no external
// calls, no state, it always returns a category.
package classifier

import (
	"fmt"
	"sort"
	"strings"
)

// Category identifies one of the fixed report template families.
type Category string

const (
	Financial Category = "financial"
	FuelSales Category = "fuel-sales"
	Inventory Category = "inventory"
	Customers Category = "customers"
	Analytics Category = "analytics"
	Executive Category = "executive"
	Generic   Category = "generic"
)

// sectionsBonus is added to the executive score when the request carries
// nested report sections. It is large enough to dominate any realistic
// keyword count, so multi-section requests always render with the
// executive template.
const sectionsBonus = 10

// categoryOrder is the scan order for scoring. Ties resolve to the
// earliest category in this list. That tie-break is arbitrary but fixed;
// callers rely on it being reproducible.
var categoryOrder = []Category{
	Financial,
	FuelSales,
	Inventory,
	Customers,
	Analytics,
	Executive,
}

// spec holds the JSReport template name and trigger keywords for one
// category. Keywords are matched case-insensitively as substrings, but
// accents are significant ("análise" does not match "analise").
type spec struct {
	Template string
	Keywords []string
}

// categorySpecs is the single source of truth for the category table.
// Both Classify and the tool descriptions read from it. Generic has no
// entry here: it is the fallback when nothing scores and renders with
// the configured default template.
var categorySpecs = map[Category]spec{
	Financial: {
		Template: "wp-financial-report",
		Keywords: []string{"financeiro", "receber", "pagar", "contas", "faturamento", "fluxo de caixa", "boleto"},
	},
	FuelSales: {
		Template: "wp-fuel-sales-report",
		Keywords: []string{"abastecimento", "combustível", "vendas", "gasolina", "etanol", "diesel", "litros", "bomba"},
	},
	Inventory: {
		Template: "wp-inventory-report",
		Keywords: []string{"estoque", "inventário", "produto", "tanque", "mercadoria"},
	},
	Customers: {
		Template: "wp-customers-report",
		Keywords: []string{"cliente", "fidelidade", "cadastro", "convênio"},
	},
	Analytics: {
		Template: "wp-analytics-report",
		Keywords: []string{"análise", "desempenho", "indicador", "comparativo", "tendência"},
	},
	Executive: {
		Template: "wp-executive-report",
		Keywords: []string{"executivo", "gerencial", "consolidado", "diretoria"},
	},
}

// Classify picks the template category for a report request from its
// title, declared type and subtitle. Each category scores one point per
// distinct keyword found as a substring of the lowercased concatenated
// text; a keyword occurring twice still counts once. Requests with
// nested sections get a fixed bonus on the executive category. When
// every category scores zero the generic fallback is returned.
func Classify(title, reportType, subtitle string, hasSections bool) Category {
	searchText := strings.ToLower(title + " " + reportType + " " + subtitle)

	best := Generic
	bestScore := 0
	for _, cat := range categoryOrder {
		score := 0
		for _, kw := range categorySpecs[cat].Keywords {
			if strings.Contains(searchText, kw) {
				score++
			}
		}
		if cat == Executive && hasSections {
			score += sectionsBonus
		}
		// Strictly greater keeps the first category reaching the
		// maximum when scores tie.
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}
	return best
}

// Template returns the JSReport template name for a category. Generic
// has no fixed template; callers substitute the configured default.
func (c Category) Template() string {
	return categorySpecs[c].Template
}

// Keywords returns the trigger keyword list for a category, or nil for
// generic.
func (c Category) Keywords() []string {
	return categorySpecs[c].Keywords
}

// Describe renders the category table as human-readable lines for tool
// descriptions, in the fixed scan order.
func Describe() string {
	var b strings.Builder
	for _, cat := range categoryOrder {
		s := categorySpecs[cat]
		kws := append([]string(nil), s.Keywords...)
		sort.Strings(kws)
		fmt.Fprintf(&b, "- %s (%s): %s\n", cat, s.Template, strings.Join(kws, ", "))
	}
	b.WriteString("- generic: default template, used when no keywords match\n")
	return b.String()
}
