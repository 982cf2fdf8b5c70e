package report

import (
	"bytes"
	"testing"

	"github.com/rollingthunder/batchivp/ivp"
	"github.com/rollingthunder/batchivp/ivp/batch"
	"github.com/stretchr/testify/assert"
)

func TestBatchSummaryShape(t *testing.T) {
	results := []batch.Result{
		{Stats: ivp.Statistics{NSteps: 10, Rejected: 1, Evaluations: 60, CurrentTime: 20}},
		{Stats: ivp.Statistics{NSteps: 12, Rejected: 0, Evaluations: 72, CurrentTime: 20}},
	}
	table := BatchSummary("test run", results)

	assert.Equal(t, "test run", table.Title)
	assert.Len(t, table.RowHeaders, 2)
	assert.Len(t, table.Data["per-ivp"], 2)
	assert.Len(t, table.Data["per-ivp"][0], len(table.ColHeaders))
}

func TestWriteHTMLRoundTrip(t *testing.T) {
	results := []batch.Result{{Stats: ivp.Statistics{NSteps: 5, CurrentTime: 1}}}
	table := BatchSummary("rt", results)

	var buf bytes.Buffer
	err := writeHTML([]Table{table}, &buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "rt")
	assert.Contains(t, buf.String(), "<table")
}

func TestRowClassFlagsFailure(t *testing.T) {
	assert.Equal(t, "", rowClass(0, []string{"1", "ok"}))
	assert.Equal(t, "alt", rowClass(1, []string{"1", "ok"}))
	assert.Equal(t, "fail", rowClass(0, []string{"1", "TDIST_TOO_SMALL"}))
	assert.Equal(t, "fail", rowClass(1, []string{"1", "TDIST_TOO_SMALL"}))
}

func TestWriteHTMLMarksFailedIVPRow(t *testing.T) {
	results := []batch.Result{
		{Stats: ivp.Statistics{NSteps: 5, CurrentTime: 1}},
		{Stats: ivp.Statistics{Code: ivp.TDIST_TOO_SMALL}, Err: &ivp.CodeError{Code: ivp.TDIST_TOO_SMALL, IVP: 1}},
	}
	table := BatchSummary("mixed", results)

	var buf bytes.Buffer
	err := writeHTML([]Table{table}, &buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `class="fail"`)
}

func TestSanityCheckRejectsMismatch(t *testing.T) {
	bad := Table{
		Title:      "bad",
		ColHeaders: []string{"a", "b"},
		RowHeaders: []string{"r1"},
		Data:       map[string][][]string{"x": {{"1", "2", "3"}}},
	}
	err := sanityCheck(&bad)
	assert.Error(t, err)
}
