package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apierrors "github.com/David1r20/painel-educacional/internal/errors"
	"github.com/David1r20/painel-educacional/internal/exporter"
)

func newExtractCmd() *cobra.Command {
	var (
		outDir    string
		semicolon bool
		noBOM     bool
	)

	cmd := &cobra.Command{
		Use:   "extract <gradebook|directory>",
		Short: "Write the student summary and panel CSV files",
		Long: `Extract a gradebook and write two files next to each other:

  <name>-students.csv  one row per student with scores and risk category
  <name>-panel.csv     one row per (student, session)

Given a directory, every .xlsx and .csv file directly inside it is
extracted. The first failure stops the run. Files that differ only in
extension (turma.xlsx and turma.csv) are rejected before anything is
written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := newToolkit(cmd)
			if err != nil {
				return err
			}

			inputs := []string{args[0]}
			if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
				inputs, err = tk.files.FindGradebooks(args[0])
				if err != nil {
					return apierrors.NewStorageError("failed to list gradebooks", err).WithContext("path", args[0])
				}
				if len(inputs) == 0 {
					return apierrors.NewAppValidationError(fmt.Sprintf("no gradebooks found in %s", args[0]))
				}
			}

			stems, err := outputStems(inputs)
			if err != nil {
				return err
			}

			if err := tk.files.ValidateOutputDirectory(outDir); err != nil {
				return apierrors.NewStorageError("invalid output directory", err).WithContext("path", outDir)
			}

			w := exporter.NewCSVWriter().WithLogger(tk.logger)
			if semicolon {
				w = w.WithComma(';')
			}

			for i, input := range inputs {
				ds, err := tk.extract(cmd.Context(), input)
				if err != nil {
					return err
				}

				stem := stems[i]
				studentsPath := filepath.Join(outDir, stem+"-students.csv")
				panelPath := filepath.Join(outDir, stem+"-panel.csv")

				headers, records := exporter.Students(ds.Students)
				if err := w.WriteFile(studentsPath, exporter.WriteOptions{Headers: headers, Records: records, BOMPrefix: !noBOM}); err != nil {
					return apierrors.NewStorageError("failed to write student summary", err).WithContext("path", studentsPath)
				}

				headers, records = exporter.Panel(ds.Panel)
				if err := w.WriteFile(panelPath, exporter.WriteOptions{Headers: headers, Records: records, BOMPrefix: !noBOM}); err != nil {
					return apierrors.NewStorageError("failed to write panel", err).WithContext("path", panelPath)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d students)\n%s (%d rows)\n",
					studentsPath, len(ds.Students), panelPath, len(ds.Panel))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&semicolon, "semicolon", false, "separate fields with ';' for Excel in pt-BR locales")
	cmd.Flags().BoolVar(&noBOM, "no-bom", false, "omit the UTF-8 byte order mark")
	return cmd
}

// outputStems names the output files of each input after its base name
// without extension. Two inputs with the same stem, such as turma.xlsx
// and turma.csv, would overwrite each other and are rejected.
func outputStems(inputs []string) ([]string, error) {
	stems := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, input := range inputs {
		base := filepath.Base(input)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if prev, ok := seen[strings.ToLower(stem)]; ok {
			return nil, apierrors.NewAppValidationError(
				fmt.Sprintf("%s and %s would both write %s-*.csv", prev, base, stem)).
				WithContext("stem", stem)
		}
		seen[strings.ToLower(stem)] = base
		stems[i] = stem
	}
	return stems, nil
}
