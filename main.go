// @title Design Sense Test API
// @version 1.0
// @description 视觉设计能力测评的评分与提交记录服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"design_sense_backend/internal/app"
	"design_sense_backend/internal/config"
	"design_sense_backend/internal/util"
	"design_sense_backend/pkg/database"
	"design_sense_backend/pkg/logger"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	Version   = "1.0.0"
	BuildTime = "dev"
	appName   = "design-sense"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Design sense test scoring service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configDir, false)
		},
	}
	cmd.PersistentFlags().StringVarP(&configDir, "config", "c", "configs", "配置文件目录 (config.yaml / .env)")

	cmd.AddCommand(serveCmd(&configDir), migrateCmd(&configDir), tokenCmd(&configDir))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func serveCmd(configDir *string) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configDir, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	return cmd
}

func serve(configDir string, migrate bool) error {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ForceMigrate = migrate

	application, err := app.NewApp(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run()
}

func migrateCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.InitLogger(cfg)
			defer logger.Log.Sync()

			db, err := database.InitDB(&cfg.Database)
			if err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Log.Info("数据库迁移完成", zap.String("database", cfg.Database.DBName))
			return nil
		},
	}
}

func tokenCmd(configDir *string) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("jwt.secret is not configured")
			}
			if ttl <= 0 {
				ttl = cfg.JWT.ExpireTime
			}

			token, err := util.GenerateJWT(subject, role, cfg.JWT.Secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "操作员标识（如邮箱）")
	cmd.Flags().StringVar(&role, "role", util.RoleOperator, "角色 (operator|admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "有效期，默认使用 jwt.expire_hours")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
