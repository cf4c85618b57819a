/*
 * Copyright 2025 Hostpulse Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/hostpulse/hostpulse/pkg/alert"
	"github.com/hostpulse/hostpulse/pkg/collector"
	"github.com/hostpulse/hostpulse/pkg/config"
	"github.com/hostpulse/hostpulse/pkg/lifecycle"
	"github.com/hostpulse/hostpulse/pkg/logger"
	"github.com/hostpulse/hostpulse/pkg/probe"
	"github.com/hostpulse/hostpulse/pkg/probe/gpu"
	"github.com/hostpulse/hostpulse/pkg/probe/sysmon"
	"github.com/hostpulse/hostpulse/pkg/snapshot"
	"github.com/hostpulse/hostpulse/pkg/view"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/hostpulse/hostpulsed.json", "Path to daemon config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg collector.Config

	cfgLoader := config.NewConfig(nil)
	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	daemonLogger, err := lifecycle.CreateComponentLogger("hostpulsed", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	registry := probe.NewRegistry(daemonLogger)
	defer registry.Shutdown(context.Background())

	// Every probe registers; ones whose driver or counters are unavailable
	// come back disabled and the daemon keeps running with the rest.
	registry.Register(ctx, gpu.ProbeName, gpu.NewFactory())
	registry.Register(ctx, sysmon.CPUProbeName, sysmon.NewCPUFactory())
	registry.Register(ctx, sysmon.MemoryProbeName, sysmon.NewMemoryFactory())

	store := snapshot.NewStore()
	coll := collector.New(registry, store, &cfg, nil, daemonLogger)
	evaluator := alert.NewEvaluator(cfg.Thresholds)

	runner := collector.NewRunner(coll, time.Duration(cfg.Interval), nil, daemonLogger)
	runner.OnCycle = func(results map[string]error) {
		logCycle(daemonLogger, store, evaluator, results)
	}

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start collection loop: %w", err)
	}

	<-ctx.Done()
	daemonLogger.Info().Msg("Shutdown signal received")

	return runner.Stop(context.Background())
}

// logCycle reports each probe's latest snapshot as a rendered view with
// alert decorations applied, plus any collection failures.
func logCycle(log logger.Logger, store *snapshot.Store, evaluator *alert.Evaluator, results map[string]error) {
	for key, err := range results {
		if err != nil {
			log.Warn().Str("probe", key).Err(err).Msg("Probe collect failed")
			continue
		}

		snap, ok := store.Read(key)
		if !ok {
			continue
		}

		vm := view.Build(snap, evaluator.Decorate(snap))
		log.Debug().
			Str("probe", key).
			Str("layout", string(vm.Layout)).
			Str("title", vm.Title).
			Interface("rows", vm.Rows).
			Msg("Cycle complete")
	}
}
