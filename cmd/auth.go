package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/anoixa/picture-vault/api/core"
	"github.com/anoixa/picture-vault/config"
	"github.com/anoixa/picture-vault/database"
	"github.com/anoixa/picture-vault/database/models"
	"github.com/anoixa/picture-vault/database/repo/accounts"
	authSvc "github.com/anoixa/picture-vault/internal/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Start the authentication service",
	Run: func(cmd *cobra.Command, args []string) {
		RunAuthServer()
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}

// RunAuthServer 启动认证服务
// 认证服务持有签名私钥，是唯一能签发令牌的进程。
func RunAuthServer() {
	config.InitConfig()
	cfg := config.Get()

	privateKey, err := config.LoadPrivateKey(cfg.TokenPrivateKeyPath)
	if err != nil {
		log.Fatalf("Failed to load signing key: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrate(db, &models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	accountsRepo := accounts.NewRepository(db)
	accountService := authSvc.NewAccountService(accountsRepo)
	tokenService, err := authSvc.NewIssuer(privateKey, cfg.TokenLifetime)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	router := core.NewAuthRouter(&core.AuthRouterDependencies{
		Config:   cfg,
		DB:       db,
		Accounts: accountService,
		Tokens:   tokenService,
	})

	server := core.NewServer(cfg, router)
	runUntilSignal(server, "auth", func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}, 5*time.Second)
}
