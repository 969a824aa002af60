package report

import "time"

// SummaryCard is one headline metric shown at the top of a report.
type SummaryCard struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Table is a pass-through tabular payload. Rows are not validated against
// the header count; the template renders whatever it receives.
type Table struct {
	Title   string     `json:"title,omitempty"`
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

// Section is one nested block of a multi-section report, with its own
// cards and table.
type Section struct {
	Title string        `json:"title,omitempty"`
	Cards []SummaryCard `json:"summary_cards,omitempty"`
	Table *Table        `json:"table,omitempty"`
}

// Request carries the fields of one report-generation call. It is built
// per call and discarded after rendering.
type Request struct {
	Title         string
	Subtitle      string
	ClientName    string
	Period        string
	ReportType    string
	GeneratedDate string

	SummaryCards []SummaryCard
	Table        *Table
	Sections     []Section
}

// generatedDateLayout is the DD/MM/YYYY HH:MM:SS format the templates
// display.
const generatedDateLayout = "02/01/2006 15:04:05"

// BuildData produces the JSReport data payload. Optional keys are omitted
// entirely when empty because the templates branch on key presence, not
// on value. GeneratedDate defaults to the current time.
func (r Request) BuildData() map[string]interface{} {
	generated := r.GeneratedDate
	if generated == "" {
		generated = time.Now().Format(generatedDateLayout)
	}

	data := map[string]interface{}{
		"reportTitle":    r.Title,
		"reportSubtitle": r.Subtitle,
		"clientName":     r.ClientName,
		"period":         r.Period,
		"reportType":     r.ReportType,
		"generatedDate":  generated,
	}

	if len(r.SummaryCards) > 0 {
		data["summaryCards"] = r.SummaryCards
	}
	addTable(data, r.Table)
	if len(r.Sections) > 0 {
		sections := make([]map[string]interface{}, 0, len(r.Sections))
		for _, s := range r.Sections {
			sections = append(sections, s.buildData())
		}
		data["sections"] = sections
	}
	return data
}

func (s Section) buildData() map[string]interface{} {
	data := map[string]interface{}{}
	if s.Title != "" {
		data["sectionTitle"] = s.Title
	}
	if len(s.Cards) > 0 {
		data["summaryCards"] = s.Cards
	}
	addTable(data, s.Table)
	return data
}

// addTable flattens a table into the tableTitle/tableHeaders/tableData
// keys the templates expect, each present only when non-empty.
func addTable(data map[string]interface{}, t *Table) {
	if t == nil {
		return
	}
	if t.Title != "" {
		data["tableTitle"] = t.Title
	}
	if len(t.Headers) > 0 {
		data["tableHeaders"] = t.Headers
	}
	if len(t.Rows) > 0 {
		data["tableData"] = t.Rows
	}
}
