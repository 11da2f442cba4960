package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/EthanGF7/SkillsTracker/internal/server"
	"github.com/EthanGF7/SkillsTracker/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		a, err := openApp(cmd, reg)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := a.Config.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		srv := server.New(cfg, server.Deps{
			Generator:  a.Generator,
			History:    a.History,
			Skills:     a.Skills,
			Describer:  a.Describer,
			LTI:        a.LTI,
			Provider:   a.Provider,
			Registry:   reg,
			Version:    version.Current(),
			LLMEnabled: a.LLMEnabled(),
		})

		log.Printf("skillstracker %s, data dir %s, model %s", version.Current(), a.Config.DataDir, a.Provider.ModelID())
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		log.Println("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides PORT and SKILLSTRACKER_ADDR)")
}
