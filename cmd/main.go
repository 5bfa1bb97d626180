package main

import (
	"net/http"

	"github.com/NorteEngenharia/api-prestador/internal/anexo"
	"github.com/NorteEngenharia/api-prestador/internal/auth"
	"github.com/NorteEngenharia/api-prestador/internal/comentario"
	"github.com/NorteEngenharia/api-prestador/internal/config"
	"github.com/NorteEngenharia/api-prestador/internal/documentoseguranca"
	"github.com/NorteEngenharia/api-prestador/internal/entrega"
	"github.com/NorteEngenharia/api-prestador/internal/logger"
	"github.com/NorteEngenharia/api-prestador/internal/notificacao"
	"github.com/NorteEngenharia/api-prestador/internal/projeto"
	"github.com/NorteEngenharia/api-prestador/internal/usuario"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Carregar()
	if err != nil {
		panic(err)
	}

	log := logger.Novo(cfg.App.LogLevel)

	auth.Configurar(cfg.JWT.Secret, cfg.JWT.TTL)

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao conectar no banco")
	}

	// AutoMigrate para todos os modelos
	if err := db.AutoMigrate(
		&usuario.Usuario{},
		&projeto.Projeto{},
		&entrega.Entrega{},
		&comentario.Comentario{},
		&anexo.Anexo{},
		&documentoseguranca.DocumentoSeguranca{},
		&notificacao.Notificacao{},
	); err != nil {
		log.Fatal().Err(err).Msg("erro no AutoMigrate")
	}

	// Fan-out de notificações compartilhado pelas mutações
	fanout := notificacao.NewFanout(db, usuario.NewRepository(), log)
	maquina := entrega.MaquinaEstados{ExigirAnexoParaRevisao: cfg.Politica.ExigirAnexoRevisao}

	// Handlers
	entregaRepo := entrega.NewRepository()
	usuarioHandler := usuario.NewHandler(db, log)
	projetoHandler := projeto.NewHandler(db, entregaRepo, log)
	entregaHandler := entrega.NewHandler(db, fanout, maquina, log)
	comentarioHandler := comentario.NewHandler(db, entregaRepo, fanout, log)
	anexoHandler := anexo.NewHandler(db, entregaRepo, log)
	documentoHandler := documentoseguranca.NewHandler(db, log)
	notificacaoHandler := notificacao.NewHandler(db, log)

	// Router
	r := mux.NewRouter()

	// Rotas públicas (gate de sessão)
	r.HandleFunc("/registrar", usuarioHandler.Registrar).Methods("POST")
	r.HandleFunc("/login", usuarioHandler.Login).Methods("POST")

	// Rotas autenticadas
	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareAutenticacao)

	// Rotas restritas a administradores
	admin := api.NewRoute().Subrouter()
	admin.Use(auth.RequireAdmin)

	api.HandleFunc("/me", usuarioHandler.Me).Methods("GET")
	api.HandleFunc("/me", usuarioHandler.AtualizarPerfil).Methods("PUT")

	// Rotas de usuários
	api.HandleFunc("/usuarios", usuarioHandler.Listar).Methods("GET")
	admin.HandleFunc("/usuarios/{id}/aprovar", usuarioHandler.Aprovar).Methods("PUT")
	admin.HandleFunc("/usuarios/{id}/rejeitar", usuarioHandler.Rejeitar).Methods("PUT")
	admin.HandleFunc("/usuarios/{id}/resetar-senha", usuarioHandler.ResetarSenha).Methods("PUT")
	admin.HandleFunc("/usuarios/{id}", usuarioHandler.Deletar).Methods("DELETE")

	// Rotas de projetos
	admin.HandleFunc("/projetos", projetoHandler.Criar).Methods("POST")
	api.HandleFunc("/projetos", projetoHandler.Listar).Methods("GET")
	api.HandleFunc("/projetos/{id}", projetoHandler.BuscarPorID).Methods("GET")
	admin.HandleFunc("/projetos/{id}", projetoHandler.Atualizar).Methods("PUT")
	admin.HandleFunc("/projetos/{id}", projetoHandler.Deletar).Methods("DELETE")

	// Rotas de entregas
	admin.HandleFunc("/entregas", entregaHandler.Criar).Methods("POST")
	api.HandleFunc("/entregas", entregaHandler.Listar).Methods("GET")
	api.HandleFunc("/entregas/{id}", entregaHandler.BuscarPorID).Methods("GET")
	admin.HandleFunc("/entregas/{id}", entregaHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/entregas/{id}/status", entregaHandler.AtualizarStatus).Methods("PUT")
	admin.HandleFunc("/entregas/{id}", entregaHandler.Deletar).Methods("DELETE")

	// Rotas de comentários e anexos
	api.HandleFunc("/entregas/{id}/comentarios", comentarioHandler.Criar).Methods("POST")
	api.HandleFunc("/entregas/{id}/comentarios", comentarioHandler.ListarPorEntrega).Methods("GET")
	api.HandleFunc("/entregas/{id}/anexos", anexoHandler.Criar).Methods("POST")
	api.HandleFunc("/entregas/{id}/anexos", anexoHandler.ListarPorEntrega).Methods("GET")
	api.HandleFunc("/anexos/{id}", anexoHandler.Remover).Methods("DELETE")

	// Rotas de documentos de segurança
	api.HandleFunc("/documentos-seguranca", documentoHandler.Criar).Methods("POST")
	api.HandleFunc("/documentos-seguranca", documentoHandler.Listar).Methods("GET")
	api.HandleFunc("/documentos-seguranca/{id}", documentoHandler.Remover).Methods("DELETE")

	// Rotas de notificações
	api.HandleFunc("/notificacoes", notificacaoHandler.Listar).Methods("GET")
	api.HandleFunc("/notificacoes/{id}/lida", notificacaoHandler.MarcarLida).Methods("PUT")

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(r)

	log.Info().Str("porta", cfg.App.Porta).Msg("servidor rodando")
	if err := http.ListenAndServe(":"+cfg.App.Porta, handler); err != nil {
		log.Fatal().Err(err).Msg("servidor encerrado")
	}
}
