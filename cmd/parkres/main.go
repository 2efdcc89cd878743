package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/harunoki/parkres/internal/webapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagListenAddr        = "listen-addr"
	flagDatabaseURL       = "database-url"
	flagAllowedOrigins    = "allowed-origins"
	flagSessionSigningKey = "session-signing-key"
	flagSessionIssuer     = "session-issuer"
	flagSessionCookieName = "session-cookie-name"
	flagSessionTTL        = "session-ttl"
	flagAdminUsername     = "admin-username"
	flagAdminPassword     = "admin-password"
	envPrefix             = "PARKRES"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "parkres: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := webapi.Config{}
	cmd := &cobra.Command{
		Use:           "parkres",
		Short:         "Municipal park reservation HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return webapi.Run(ctx, cfg)
		},
	}

	cmd.Flags().String(flagListenAddr, "", "HTTP listen address")
	cmd.Flags().String(flagDatabaseURL, "", "database connection string (sqlite path or postgres URL)")
	cmd.Flags().String(flagAllowedOrigins, "", "comma-separated list of allowed CORS origins")
	cmd.Flags().String(flagSessionSigningKey, "", "session token signing key (required)")
	cmd.Flags().String(flagSessionIssuer, "", "session token issuer")
	cmd.Flags().String(flagSessionCookieName, "", "session cookie name")
	cmd.Flags().Duration(flagSessionTTL, 0, "session lifetime (e.g. 12h)")
	cmd.Flags().String(flagAdminUsername, "", "seed admin username")
	cmd.Flags().String(flagAdminPassword, "", "seed admin password")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *webapi.Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flagNames := []string{
		flagListenAddr,
		flagDatabaseURL,
		flagAllowedOrigins,
		flagSessionSigningKey,
		flagSessionIssuer,
		flagSessionCookieName,
		flagSessionTTL,
		flagAdminUsername,
		flagAdminPassword,
	}
	for _, flagName := range flagNames {
		if err := v.BindPFlag(flagName, cmd.Flags().Lookup(flagName)); err != nil {
			return err
		}
	}

	if !v.IsSet(flagSessionSigningKey) {
		return fmt.Errorf("%s is required", flagSessionSigningKey)
	}

	cfg.ListenAddr = strings.TrimSpace(v.GetString(flagListenAddr))
	cfg.DatabaseURL = strings.TrimSpace(v.GetString(flagDatabaseURL))
	cfg.AllowedOrigins = webapi.ParseAllowedOrigins(v.GetString(flagAllowedOrigins))
	cfg.SessionSigningKey = v.GetString(flagSessionSigningKey)
	cfg.SessionIssuer = strings.TrimSpace(v.GetString(flagSessionIssuer))
	cfg.SessionCookieName = strings.TrimSpace(v.GetString(flagSessionCookieName))
	cfg.SessionTTL = v.GetDuration(flagSessionTTL)
	cfg.AdminUsername = strings.TrimSpace(v.GetString(flagAdminUsername))
	cfg.AdminPassword = v.GetString(flagAdminPassword)

	return cfg.Validate()
}
