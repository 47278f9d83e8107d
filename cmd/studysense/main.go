package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/studysense/studysense/internal/profile"
	"github.com/studysense/studysense/server"
	"github.com/studysense/studysense/store"
	"github.com/studysense/studysense/store/db"
)

const greetingBanner = `
studysense - AI study planning for students
`

var rootCmd = &cobra.Command{
	Use:   "studysense",
	Short: "An AI-assisted study planner service",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		instanceProfile := &profile.Profile{
			Mode:      viper.GetString("mode"),
			Addr:      viper.GetString("addr"),
			Port:      viper.GetInt("port"),
			Data:      viper.GetString("data"),
			Driver:    viper.GetString("driver"),
			DSN:       viper.GetString("dsn"),
			Timezone:  viper.GetString("timezone"),
			JWTSecret: viper.GetString("jwt-secret"),
			Version:   "0.1.0",
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return err
		}

		logLevel := slog.LevelInfo
		if instanceProfile.IsDev() {
			logLevel = slog.LevelDebug
		}
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
		slog.SetDefault(logger)

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance, logger)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
			s.Shutdown(ctx)
			cancel()
		}()

		fmt.Print(greetingBanner)
		logger.Info("server started",
			slog.String("mode", instanceProfile.Mode),
			slog.String("addr", instanceProfile.Addr),
			slog.Int("port", instanceProfile.Port),
			slog.String("driver", instanceProfile.Driver))

		if err := s.Start(ctx); err != nil && err != http.ErrServerClosed {
			return err
		}

		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("timezone", "Asia/Ho_Chi_Minh", "IANA timezone for study-slot planning")
	rootCmd.PersistentFlags().String("jwt-secret", "", "secret used to validate session tokens")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("studysense")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
