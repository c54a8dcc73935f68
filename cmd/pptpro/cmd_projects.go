package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/M00N7682/pptpro/internal/api"
	"github.com/M00N7682/pptpro/internal/deck"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage presentation projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := guard.Require("projects list"); err != nil {
			return err
		}
		ctx, stop := cmdContext()
		defer stop()
		projects, err := client.ListProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list projects: %s", api.ErrorDetail(err))
		}
		if len(projects) == 0 {
			fmt.Println("No projects yet. Run 'pptpro' to start one.")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%s  %s\n", p.ID, p.Title)
		}
		return nil
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show a project and its slides",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := guard.Require("projects show"); err != nil {
			return err
		}
		ctx, stop := cmdContext()
		defer stop()
		project, err := client.GetProject(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch project: %s", api.ErrorDetail(err))
		}
		slides, err := client.SlidesForProject(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch slides: %s", api.ErrorDetail(err))
		}

		fmt.Printf("%s\n", project.Title)
		if project.Topic != "" {
			fmt.Printf("Topic: %s\n", project.Topic)
		}
		fmt.Println()
		for _, s := range slides {
			summary := s.DecodedContent().Summary()
			if summary == "" {
				summary = "(no content)"
			}
			fmt.Printf("%2d. [%-14s] %-12s %s\n", s.Order, s.TemplateType, s.Status, s.HeadMessage)
			fmt.Printf("    %s\n", summary)
		}
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete [project-id]",
	Short: "Delete a project and all its slides",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := guard.Require("projects delete"); err != nil {
			return err
		}
		ctx, stop := cmdContext()
		defer stop()
		if err := client.DeleteProject(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete project: %s", api.ErrorDetail(err))
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Content generation helpers",
}

var contentBatchCmd = &cobra.Command{
	Use:   "batch [project-id]",
	Short: "Generate content for every slide of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := guard.Require("content batch"); err != nil {
			return err
		}
		ctx, stop := cmdContext()
		defer stop()
		result, err := client.BatchGenerate(ctx, args[0])
		if err != nil {
			return fmt.Errorf("batch generation failed: %s", api.ErrorDetail(err))
		}
		for _, r := range result.Results {
			if r.Error != "" {
				fmt.Printf("%2d. failed: %s\n", r.Order, r.Error)
				continue
			}
			fmt.Printf("%2d. %s\n", r.Order, r.Status)
		}
		return nil
	},
}

var templatesShowFields bool

// templatesCmd would be redundant with the wizard's template step, but the
// catalogue is handy for scripting. The backend's catalogue is preferred;
// the built-in one covers an unreachable backend.
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available slide templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := cmdContext()
		defer stop()
		remote, err := client.StorylineTemplates(ctx)
		for _, t := range deck.KnownTemplates() {
			meta, _ := deck.MetaFor(t)
			name, description := meta.Name, meta.Description
			if err == nil {
				if r, ok := remote[t]; ok {
					name, description = r.Name, r.Description
				}
			}
			fmt.Printf("%-14s %s · %s\n", t, name, description)
			fmt.Printf("%-14s best for: %s\n", "", meta.BestFor)
			if templatesShowFields {
				for _, f := range templateFields(ctx, t) {
					req := ""
					if f.Required {
						req = " (required)"
					}
					fmt.Printf("%-14s   %s: %s%s\n", "", f.Name, f.Type, req)
				}
			}
		}
		return nil
	},
}

// templateFields prefers the backend's field schema and falls back to the
// built-in catalogue.
func templateFields(ctx context.Context, t deck.TemplateType) []deck.FieldSpec {
	if resp, err := client.TemplateFields(ctx, t); err == nil && len(resp.Fields) > 0 {
		return resp.Fields
	}
	return deck.FieldsFor(t)
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesShowFields, "fields", false, "Show the editable fields of each template")
}
