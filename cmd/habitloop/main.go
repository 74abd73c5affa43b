package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/habitloop/habitloop/internal/profile"
	"github.com/habitloop/habitloop/server"
	"github.com/habitloop/habitloop/store"
	"github.com/habitloop/habitloop/store/db"
)

const version = "0.1.0"

var instanceProfile *profile.Profile

var rootCmd = &cobra.Command{
	Use:   "habitloop",
	Short: "Habit progression and insights engine",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		secret := viper.GetString("secret")
		if secret == "" {
			secret = uuid.NewString()
			slog.Warn("no HABITLOOP_SECRET set, using a random secret; access tokens will not survive restarts")
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance, secret)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			slog.Info("received signal, shutting down", "signal", sig.String())
			s.Shutdown(ctx)
			cancel()
		}()

		return s.Start(ctx)
	},
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)
	viper.SetDefault("timezone", "UTC")

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("timezone", "UTC", "IANA timezone for calendar-day arithmetic")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("habitloop")
	viper.AutomaticEnv()

	cobra.OnInitialize(func() {
		instanceProfile = &profile.Profile{
			Mode:          viper.GetString("mode"),
			Addr:          viper.GetString("addr"),
			Port:          viper.GetInt("port"),
			Data:          viper.GetString("data"),
			Driver:        viper.GetString("driver"),
			DSN:           viper.GetString("dsn"),
			Timezone:      viper.GetString("timezone"),
			XPAwardEasy:   viper.GetInt("xp_award_easy"),
			XPAwardMedium: viper.GetInt("xp_award_medium"),
			XPAwardHard:   viper.GetInt("xp_award_hard"),
			StreakBuckets: viper.GetIntSlice("streak_buckets"),
			Version:       version,
		}
		if err := instanceProfile.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
			os.Exit(1)
		}
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
