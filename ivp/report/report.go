// Package report renders batch-solve summaries as HTML tables, adapted
// from the teacher's util/table.go: the document skeleton and
// striped-row styling carry over, but the row-class logic is rewritten
// to understand this domain's rows — a row whose last column is a
// non-SUCCESS ErrorCode (rather than every other row, as in the
// teacher's plain zebra-stripe) renders in a distinct "fail" style, so a
// batch run with a handful of failed IVPs is visually obvious without
// reading every status cell.
package report

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"os"

	"github.com/rollingthunder/batchivp/ivp"
	"github.com/rollingthunder/batchivp/ivp/batch"
)

// Table is one named HTML table: a title, column headers, row headers,
// and one or more named data sets sharing that header layout (e.g. "nsteps"
// and "evaluations" side by side for the same batch run).
type Table struct {
	Title                  string
	ColHeaders, RowHeaders []string
	Data                   map[string][][]string
}

// BatchSummary builds a Table summarizing one batch run's per-IVP
// statistics: one row per IVP, columns for steps/rejected/evaluations/
// final-time/status.
func BatchSummary(title string, results []batch.Result) Table {
	cols := []string{"steps", "rejected", "evaluations", "t_final", "status"}
	rows := make([]string, len(results))
	data := make([][]string, len(results))

	for i, r := range results {
		rows[i] = fmt.Sprintf("ivp %d", i)
		status := "ok"
		if r.Err != nil {
			status = r.Stats.Code.String()
		}
		data[i] = []string{
			fmt.Sprintf("%d", r.Stats.NSteps),
			fmt.Sprintf("%d", r.Stats.Rejected),
			fmt.Sprintf("%d", r.Stats.Evaluations),
			fmt.Sprintf("%.10g", r.Stats.CurrentTime),
			status,
		}
	}

	return Table{
		Title:      title,
		ColHeaders: cols,
		RowHeaders: rows,
		Data:       map[string][][]string{"per-ivp": data},
	}
}

// MethodComparison builds a Table comparing several integrators' run
// statistics on the same set of problems, one row per problem and one
// data set per integrator name, mirroring the teacher's benchmark-grid
// table shape.
func MethodComparison(title string, problemNames []string, perMethod map[string][]ivp.Statistics) Table {
	cols := []string{"nsteps", "rejected", "evaluations", "code"}
	data := make(map[string][][]string, len(perMethod))
	for method, stats := range perMethod {
		rows := make([][]string, len(stats))
		for i, s := range stats {
			rows[i] = []string{
				fmt.Sprintf("%d", s.NSteps),
				fmt.Sprintf("%d", s.Rejected),
				fmt.Sprintf("%d", s.Evaluations),
				s.Code.String(),
			}
		}
		data[method] = rows
	}
	return Table{Title: title, ColHeaders: cols, RowHeaders: problemNames, Data: data}
}

// WriteFile renders tables as an HTML document at filePath.
func WriteFile(tables []Table, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		log.Println("opening file:", err)
		return err
	}
	defer file.Close()
	return writeHTML(tables, file)
}

func sanityCheck(table *Table) error {
	if table == nil {
		return errors.New("nil data table")
	}
	cols := len(table.ColHeaders)
	rows := len(table.RowHeaders)
	for _, dataSet := range table.Data {
		if actualRows := len(dataSet); actualRows != rows {
			return fmt.Errorf("inconsistent row counts: %v headers, %v rows", rows, actualRows)
		}
		for _, row := range dataSet {
			if len(row) != cols {
				return errors.New("inconsistent col counts")
			}
		}
	}
	return nil
}

// rowClass picks the CSS class for one table row: "fail" if its last
// column (status/code, by BatchSummary's and MethodComparison's
// convention) is anything other than "ok" or ivp.SUCCESS.String(),
// otherwise the teacher's plain even/odd "alt" stripe.
func rowClass(index int, row []string) string {
	if len(row) > 0 {
		last := row[len(row)-1]
		if last != "ok" && last != ivp.SUCCESS.String() {
			return "fail"
		}
	}
	if index%2 == 1 {
		return "alt"
	}
	return ""
}

func writeHTML(tables []Table, output io.Writer) error {
	for t := range tables {
		if err := sanityCheck(&tables[t]); err != nil {
			return err
		}
	}

	const document = `
<!DOCTYPE html>
<html>
<head>
    <style type="text/css">
        .results
        {
            font-family:"Trebuchet MS", Arial, Helvetica, sans-serif;
            width:100%;
            border-collapse:collapse;
        }
        .results td, .results th
        {
            font-size:1em;
            border:1px solid #98bf21;
            padding:3px 7px 2px 7px;
        }
        .results th
        {
            font-size:1.1em;
            text-align:left;
            padding-top:5px;
            padding-bottom:4px;
            background-color:#A7C942;
            color:#ffffff;
        }
        .results tr.alt td
        {
            color:#000000;
            background-color:#EAF2D3;
        }
        .results tr.fail td
        {
            color:#000000;
            background-color:#F2D3D3;
        }
        caption {
            text-align: left;
        }
    </style>
</head>
<body>
{{range $table := .}}
	<h2>{{.Title}}</h2>
	{{range $dataTitle, $data := $table.Data}}
	<table class="results">
	  <caption>{{$table.Title}} - {{$dataTitle}}</caption>
	  <tr>
	  	<th></th>
		{{range $table.ColHeaders}}<th>{{.}}</th>{{end}}
	  </tr>
	  {{range $index, $element := $data}}
	  <tr class="{{rowclass $index $element}}">
		<th>{{index $table.RowHeaders $index}}</th>
		{{range $element}}<td>{{.}}</td>{{end}}
	  </tr>
	  {{end}}
	</table>
	{{end}}
{{end}}
</body>
</html>
`
	funcMap := template.FuncMap{
		"rowclass": rowClass,
	}
	tDocument := template.Must(template.New("document").Funcs(funcMap).Parse(document))

	err := tDocument.Execute(output, tables)
	if err != nil {
		log.Println("executing template:", err)
	}
	return err
}
