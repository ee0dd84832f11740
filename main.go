package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"taskmaster-server/config"
	"taskmaster-server/database"
	"taskmaster-server/utilities"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis de ambiente")
	}

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("erro ao carregar configuração: %w", err)
	}

	if err := utilities.InitLogger(cfg.Env); err != nil {
		return fmt.Errorf("erro ao inicializar logger: %w", err)
	}
	defer utilities.Sync()

	// A conexão é concluída antes de qualquer rota ficar acessível.
	store, err := database.Connect(context.Background(), cfg)
	if err != nil {
		utilities.LogError(err, "Erro ao conectar ao banco de dados")
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			utilities.LogError(err, "Erro ao fechar conexão com o banco de dados")
		}
	}()

	if err := LoadRoutes(store, cfg); err != nil {
		utilities.LogError(err, "Erro no servidor HTTP")
		return err
	}
	utilities.LogInfo("Servidor encerrado")
	return nil
}
