// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"

	"github.com/AleutianAI/PeopleRegistry/pkg/config"
	"github.com/spf13/cobra"
)

// rootFlags holds the command-line overrides.
type rootFlags struct {
	configPath string
	port       string
	logLevel   string
	store      string
	seed       string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Run the people registry web server",
		Long: `Serves a single page for registering people (name, sex, age,
condition and a note) with add, edit and delete. Records live in memory
and are lost on restart.

Configuration is layered: built-in defaults, then --config (YAML), then
environment variables, then the flags below.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	bindFlags(cmd, flags)
	return cmd
}

func bindFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVarP(&flags.port, "port", "p", "", "Port to listen on (default 5000)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.store, "store", "", "Record store backend: memory or badger")
	cmd.Flags().StringVar(&flags.seed, "seed", "", "YAML file with the initial records")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Run gin in debug mode")
}

// loadConfig merges the config file and environment, then applies only
// the flags the user actually set.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("port") {
		cfg.Port = flags.port
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if fs.Changed("store") {
		cfg.StoreBackend = flags.store
	}
	if fs.Changed("seed") {
		cfg.SeedFile = flags.seed
	}
	if fs.Changed("debug") {
		cfg.Debug = flags.debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}
