package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"taskmaster-server/config"
	"taskmaster-server/handlers"
	"taskmaster-server/utilities"
)

// NewRouter registra as rotas de tarefas usando o armazenamento recebido.
func NewRouter(store handlers.TaskStore) *mux.Router {
	h := handlers.NewTaskHandler(store)

	r := mux.NewRouter()
	r.Use(handlers.LoggingMiddleware)
	r.Use(handlers.RecoveryMiddleware)

	r.HandleFunc("/", h.HomeHandler).Methods("GET")

	// --- Rotas de Tarefas ---
	r.HandleFunc("/tasks", h.ListTasksHandler).Methods("GET")
	r.HandleFunc("/tasks/archive", h.ListArchivedTasksHandler).Methods("GET")
	r.HandleFunc("/task/{id}", h.GetTaskHandler).Methods("GET")
	r.HandleFunc("/tasks", h.CreateTaskHandler).Methods("POST")
	r.HandleFunc("/tasks/{id}", h.DeleteTaskHandler).Methods("DELETE")
	r.HandleFunc("/tasks/{id}", h.UpdateTaskHandler).Methods("PATCH")

	return r
}

// NewHandler aplica CORS sobre o roteador.
func NewHandler(r *mux.Router, allowedOrigins []string) http.Handler {
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	origins := gorillahandlers.AllowedOrigins(allowedOrigins)
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", allowedOrigins)

	return gorillahandlers.CORS(headers, methods, origins)(r)
}

// LoadRoutes sobe o servidor na porta fixa e bloqueia até receber SIGINT/SIGTERM.
func LoadRoutes(store handlers.TaskStore, cfg *config.Config) error {
	server := &http.Server{
		Addr:    net.JoinHostPort("", config.Port),
		Handler: NewHandler(NewRouter(store), cfg.CORSAllowedOrigins),
	}

	errCh := make(chan error, 1)
	go func() {
		utilities.LogInfo("Taskmaster is listening on port %s", config.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-quit:
		utilities.LogInfo("Sinal %s recebido, encerrando servidor", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

