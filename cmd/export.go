package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-extract/internal/model"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a completed run to an XLSX workbook",
	Long:  "Writes the run's extracted state to a workbook: a summary sheet of scalar fields plus one sheet per entity list.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "export")
		}
		if run.State == nil {
			return eris.Errorf("run %s has no extracted state (status %s)", run.ID, run.Status)
		}

		f, err := buildWorkbook(run)
		if err != nil {
			return err
		}
		if err := f.Save(exportOut); err != nil {
			return eris.Wrapf(err, "save workbook %s", exportOut)
		}

		zap.L().Info("exported run",
			zap.String("run_id", run.ID),
			zap.String("path", exportOut),
		)
		return nil
	},
}

func buildWorkbook(run *model.Run) (*xlsx.File, error) {
	f := xlsx.NewFile()
	state := run.State

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return nil, eris.Wrap(err, "add summary sheet")
	}
	for _, kv := range [][2]string{
		{"document_id", state.DocumentID},
		{"document_type", string(state.DocumentType)},
		{"document_title", state.DocumentTitle},
		{"issue_date", state.IssueDate},
		{"client_organization", state.ClientOrganization},
		{"client_industry", state.ClientIndustry},
		{"project_scope", state.ProjectScope},
		{"contract_term", state.ContractTerm},
		{"submission_method", state.SubmissionMethod},
		{"pricing_structure", state.PricingStructure},
	} {
		row := summary.AddRow()
		row.AddCell().SetString(kv[0])
		row.AddCell().SetString(kv[1])
	}

	if err := addListSheet(f, "Deadlines", []string{"date", "kind"}, len(state.Deadlines), func(row *xlsx.Row, i int) {
		row.AddCell().SetString(state.Deadlines[i].Date)
		row.AddCell().SetString(state.Deadlines[i].Kind)
	}); err != nil {
		return nil, err
	}

	if err := addListSheet(f, "Contacts", []string{"name", "title", "email", "phone"}, len(state.Contacts), func(row *xlsx.Row, i int) {
		c := state.Contacts[i]
		row.AddCell().SetString(c.Name)
		row.AddCell().SetString(c.Title)
		row.AddCell().SetString(c.Email)
		row.AddCell().SetString(c.Phone)
	}); err != nil {
		return nil, err
	}

	if err := addListSheet(f, "Evaluation Criteria", []string{"criterion"}, len(state.EvaluationCriteria), func(row *xlsx.Row, i int) {
		row.AddCell().SetString(state.EvaluationCriteria[i].Criterion)
	}); err != nil {
		return nil, err
	}

	for _, list := range []struct {
		name   string
		values []string
	}{
		{"Requirements", state.Requirements},
		{"Keywords", state.Keywords},
		{"Compliance Standards", state.ComplianceStandards},
	} {
		if err := addListSheet(f, list.name, []string{"value"}, len(list.values), func(row *xlsx.Row, i int) {
			row.AddCell().SetString(list.values[i])
		}); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func addListSheet(f *xlsx.File, name string, headers []string, n int, fill func(row *xlsx.Row, i int)) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "add sheet %s", name)
	}
	header := sheet.AddRow()
	for _, h := range headers {
		header.AddCell().SetString(h)
	}
	for i := 0; i < n; i++ {
		fill(sheet.AddRow(), i)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "rfp-export.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
