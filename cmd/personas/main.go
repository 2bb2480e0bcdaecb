// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the personas CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the personas CLI.
var rootCmd = &cobra.Command{
	Use:   "personas",
	Short: "Aggregate, search, and curate person records from three sources",
	Long: `personas loads person records from a remote JSON feed, a remote XML feed,
and a local key-value store, searches them by name, surname, address, or
disability, and accumulates every search's matches into a durable result
list that can be edited or pruned.

Each search appends to the accumulated results; nothing is replaced.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./personas.yaml or ~/.config/personas/config.yaml)")
	pf.String("base-url", "", "origin serving /data/personas.json and /data/personas.xml")
	pf.String("storage", "", "storage driver: sqlite, redis, memory")
	pf.String("db", "", "SQLite database file")
	pf.String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("sources.base_url", pf.Lookup("base-url"))
	_ = viper.BindPFlag("storage.driver", pf.Lookup("storage"))
	_ = viper.BindPFlag("storage.path", pf.Lookup("db"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every config key so env overrides apply to all of them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("sources.base_url", "http://localhost:3000")
	v.SetDefault("sources.json_path", "/data/personas.json")
	v.SetDefault("sources.xml_path", "/data/personas.xml")
	v.SetDefault("sources.timeout", 30*time.Second)
	v.SetDefault("sources.user_agent", "personas/"+version)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "personas.db")
	v.SetDefault("storage.redis_addrs", []string{})
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.secrets_dir", "secrets")
	v.SetDefault("storage.personas_key", "personas")
	v.SetDefault("storage.results_key", "resultadosBusqueda")

	v.SetDefault("log.env", "dev")
	v.SetDefault("log.level", "info")

	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.data_dir", "data")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("personas")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "personas"))
		}
	}

	viper.SetEnvPrefix("PERSONAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
