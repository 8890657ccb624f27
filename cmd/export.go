package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/chat-widget/internal"
	"github.com/iksnae/chat-widget/internal/export"
	"github.com/spf13/cobra"
)

var (
	format string
	output string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the conversation to a file",
	Long: `Export the stored conversation to one of several formats (jsonl, md, yaml, json).

Without --output the export is written to stdout. When --output names a
directory, the file is created inside it as chat_<identity>.<ext>.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		st, store, err := openSession()
		if err != nil {
			return err
		}
		defer closeStorage(st)

		transcript := store.Transcript()

		if output == "" {
			if err := exporter.Export(transcript, cmd.OutOrStdout()); err != nil {
				return &internal.ExportError{Format: format, Path: "stdout", Err: err}
			}
			return nil
		}

		path := exportPath(output, transcript.Identity, exporter.Extension())
		if err := writeExport(exporter, transcript, path); err != nil {
			return &internal.ExportError{Format: format, Path: path, Err: err}
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Exported %d message(s) to %s", len(transcript.Messages), path))
		return nil
	},
}

// exportPath resolves --output to a file path
func exportPath(out, identity, ext string) string {
	if strings.HasSuffix(out, string(os.PathSeparator)) {
		return filepath.Join(out, fmt.Sprintf("chat_%s.%s", identity, ext))
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, fmt.Sprintf("chat_%s.%s", identity, ext))
	}
	return out
}

func writeExport(exporter export.Exporter, transcript *internal.Transcript, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := exporter.Export(transcript, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory (default stdout)")
}
