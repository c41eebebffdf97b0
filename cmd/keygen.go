package cmd

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var keygenOutputDir string

// keygenCmd represents the keygen command
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an RSA key pair for token signing",
	Run: func(cmd *cobra.Command, args []string) {
		RunKeygen(keygenOutputDir)
	},
}

func init() {
	keygenCmd.Flags().StringVarP(&keygenOutputDir, "output", "o", ".", "output directory for the key pair")
	rootCmd.AddCommand(keygenCmd)
}

// RunKeygen 生成 RSA 密钥对并写入 PEM 文件
// 私钥给认证服务，公钥分发给资源服务。
func RunKeygen(outputDir string) {
	if err := os.MkdirAll(outputDir, 0o700); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatalf("Failed to generate key pair: %v", err)
	}

	privatePath := filepath.Join(outputDir, "token_private.pem")
	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})
	if err := os.WriteFile(privatePath, privatePEM, 0o600); err != nil {
		log.Fatalf("Failed to write private key: %v", err)
	}

	publicBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		log.Fatalf("Failed to encode public key: %v", err)
	}
	publicPath := filepath.Join(outputDir, "token_public.pem")
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicBytes,
	})
	if err := os.WriteFile(publicPath, publicPEM, 0o644); err != nil {
		log.Fatalf("Failed to write public key: %v", err)
	}

	log.Printf("Wrote %s and %s", privatePath, publicPath)
}
