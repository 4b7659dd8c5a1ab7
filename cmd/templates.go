package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yisrose35/daily-camp-schedular-sub006/config"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/template"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/logger"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/store"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage day templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available day templates",
	RunE:  runTemplatesList,
}

var templatesValidateCmd = &cobra.Command{
	Use:   "validate [name]",
	Short: "Parse a template and report its divisions",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesValidate,
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesValidateCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ts, err := store.NewFileTemplateStore(cfg.Store.TemplateDir)
	if err != nil {
		return err
	}
	names, err := ts.ListTemplates()
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, n := range names {
		cmd.Println(n)
	}
	return nil
}

func runTemplatesValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ts, err := store.NewFileTemplateStore(cfg.Store.TemplateDir)
	if err != nil {
		return err
	}
	raw, err := ts.LoadTemplate(args[0])
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("template %q not found", args[0])
	}

	parser := template.NewParser(logger.New("templates-command"))
	parser.FlexRatio = cfg.Scheduling.FlexRatio
	parsed := parser.Parse(raw)

	divisions := make([]string, 0, len(parsed))
	for d := range parsed {
		divisions = append(divisions, d)
	}
	sort.Strings(divisions)
	for _, d := range divisions {
		p := parsed[d]
		wall := "none"
		if p.HasWall {
			wall = fmt.Sprintf("%d", p.WallTime)
		}
		cmd.Printf("%s: %d activities, %d fixed, wall %s\n", d, len(p.ActivityQueue), len(p.FixedBlocks), wall)
	}
	return nil
}
