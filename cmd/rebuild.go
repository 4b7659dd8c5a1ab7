package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yisrose35/daily-camp-schedular-sub006/app"
	"github.com/yisrose35/daily-camp-schedular-sub006/config"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/clock"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/rebuild"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/logger"
)

var (
	rebuildAt       string
	rebuildTemplate string
	rebuildRestore  bool
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the day onto a template from a transition time",
	RunE:  runRebuild,
}

func init() {
	rebuildCmd.Flags().StringVar(&rebuildAt, "at", "", "transition time, e.g. 10:35am")
	rebuildCmd.Flags().StringVar(&rebuildTemplate, "template", "", "target day template")
	rebuildCmd.Flags().BoolVar(&rebuildRestore, "restore", false, "restore resource values captured by the previous rebuild")
	if err := rebuildCmd.MarkFlagRequired("at"); err != nil {
		panic(err)
	}
	if err := rebuildCmd.MarkFlagRequired("template"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	minute, ok := clock.ParseClockString(rebuildAt)
	if !ok {
		return fmt.Errorf("invalid transition time %q", rebuildAt)
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	logg := logger.New("rebuild-command")
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	req := rebuild.Request{TransitionMinute: minute, Template: rebuildTemplate}
	if rebuildRestore {
		req.Direction = rebuild.Reverse
	}
	res, err := svc.Rebuild(ctx, req)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("rebuild failed: %s", res.Error)
	}
	printSummary(cmd, res)
	return nil
}

func printSummary(cmd *cobra.Command, res rebuild.Result) {
	cmd.Printf("run %s: rebuilt onto %q from %s\n", res.RunID, res.Summary.Template, clock.MinutesToClockLabel(res.Summary.EffectiveTransition))
	divisions := make([]string, 0, len(res.Summary.Divisions))
	for d := range res.Summary.Divisions {
		divisions = append(divisions, d)
	}
	sort.Strings(divisions)
	for _, d := range divisions {
		s := res.Summary.Divisions[d]
		if s.Skipped != "" {
			cmd.Printf("  %s: skipped (%s)\n", d, s.Skipped)
			continue
		}
		cmd.Printf("  %s: preserved %d, stacked %d, dropped %d, wall %s\n",
			d, s.Preserved, s.Stacked, s.Dropped, clock.MinutesToClockLabel(s.WallTime))
	}
}
