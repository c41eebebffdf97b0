package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/anoixa/picture-vault/api/core"
	"github.com/anoixa/picture-vault/cache"
	"github.com/anoixa/picture-vault/config"
	"github.com/anoixa/picture-vault/database"
	"github.com/anoixa/picture-vault/database/models"
	"github.com/anoixa/picture-vault/database/repo/images"
	authSvc "github.com/anoixa/picture-vault/internal/auth"
	imageSvc "github.com/anoixa/picture-vault/internal/image"
	"github.com/anoixa/picture-vault/remotestore"
)

// resourceCmd represents the resource command
var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Start the image resource service",
	Run: func(cmd *cobra.Command, args []string) {
		RunResourceServer()
	},
}

func init() {
	rootCmd.AddCommand(resourceCmd)
}

// RunResourceServer 启动资源服务
// 资源服务只持有验签公钥，自己无法签发令牌。
func RunResourceServer() {
	config.InitConfig()
	cfg := config.Get()

	publicKey, err := config.LoadPublicKey(cfg.TokenPublicKeyPath)
	if err != nil {
		log.Fatalf("Failed to load verification key: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrate(db, &models.Image{}); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	remote, err := remotestore.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize remote store: %v", err)
	}
	log.Printf("Remote store provider: %s", remote.Name())

	cacheProvider, err := cache.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}

	tokenService, err := authSvc.NewVerifier(publicKey)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	imagesRepo := images.NewRepository(db)
	syncService := imageSvc.NewSyncService(imagesRepo, remote, cacheProvider, time.Duration(cfg.CacheTTL)*time.Second)

	router := core.NewResourceRouter(&core.ResourceRouterDependencies{
		Config: cfg,
		DB:     db,
		Sync:   syncService,
		Tokens: tokenService,
		Cache:  cacheProvider,
		Remote: remote,
	})

	server := core.NewServer(cfg, router)
	runUntilSignal(server, "resource", func() {
		if cacheProvider != nil {
			if err := cacheProvider.Close(); err != nil {
				log.Printf("Error closing cache: %v", err)
			}
		}
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}, 5*time.Second)
}
