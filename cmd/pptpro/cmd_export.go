package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/M00N7682/pptpro/internal/api"
)

var (
	exportIncludeEmpty bool
	exportDir          string
	exportPreviewOnly  bool
)

var exportCmd = &cobra.Command{
	Use:   "export [project-id]",
	Short: "Render a project to .pptx",
	Long: `Renders the project's deck to a .pptx file in the download directory.

By default only slides with content are included and the export is refused
while no slide is ready; --include-empty renders every slide regardless.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := guard.Require("export"); err != nil {
		return err
	}
	ctx, stop := cmdContext()
	defer stop()
	projectID := args[0]

	preview, err := client.PreviewDeck(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to fetch preview: %s", api.ErrorDetail(err))
	}

	s := preview.Summary
	fmt.Printf("%s: %d slides (%d content), %d ready, %.0f%% complete\n",
		preview.Project.Title, s.TotalSlides, s.ContentSlides, s.ReadySlides, s.CompletionRate)
	for _, slide := range preview.Slides {
		marker := " "
		if slide.HasContent {
			marker = "*"
		}
		fmt.Printf("%s %2d. [%-14s] %-14s %s\n",
			marker, slide.Order, slide.TemplateType, slide.Status, slide.HeadMessage)
	}

	if exportPreviewOnly {
		return nil
	}
	if !exportIncludeEmpty && s.ReadySlides == 0 {
		return fmt.Errorf("no slides are ready; finish some content or pass --include-empty")
	}

	dir := exportDir
	if dir == "" {
		dir = cfg.State.DownloadDir
	}
	if dir == "" {
		dir = "."
	}
	path, err := client.DownloadDeck(ctx, projectID, preview.Project.Title, dir, exportIncludeEmpty)
	if err != nil {
		return fmt.Errorf("export failed: %s", api.ErrorDetail(err))
	}
	fmt.Println("Saved", path)
	return nil
}

func init() {
	exportCmd.Flags().BoolVar(&exportIncludeEmpty, "include-empty", false, "Include slides without content")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "Output directory (default: configured download dir)")
	exportCmd.Flags().BoolVar(&exportPreviewOnly, "preview", false, "Show readiness only, do not render")
}
