package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"resume-match-go/internal/api/handler"
	"resume-match-go/internal/api/router"
	"resume-match-go/internal/chatbot"
	"resume-match-go/internal/config"
	"resume-match-go/internal/embedding"
	"resume-match-go/internal/llm"
	appCoreLogger "resume-match-go/internal/logger"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/salary"
	"resume-match-go/internal/scoring"
	"resume-match-go/internal/storage"
	"resume-match-go/internal/tracing"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "配置文件路径")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	initLogger(&cfg.Logger)
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitProvider(ctx, &cfg.Tracing)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			glog.Warnf("关闭链路追踪失败: %v", err)
		}
	}()

	storageManager, err := storage.NewStorage(cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	chatModel, err := llm.BuildChatModel(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化聊天模型失败: %v", err)
	}
	glog.Infof("聊天模型初始化成功: %s/%s", cfg.LLM.Provider, cfg.LLM.Model)

	var embedder embedding.TextEmbedder
	embedder, err = embedding.NewOpenAICompatEmbedder(cfg.Embedding)
	if err != nil {
		glog.Fatalf("初始化Embedder失败: %v", err)
	}
	if qpm, ok := cfg.ModelQPMLimits[cfg.Embedding.Model]; ok && qpm > 0 {
		embedder = embedding.NewRateLimitedEmbedder(embedder, qpm)
		glog.Infof("Embedder限流已启用: %d QPM", qpm)
	}
	glog.Infof("Embedder初始化成功: %s", cfg.Embedding.Model)

	pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx,
		parser.WithEinoLogger(log.New(os.Stderr, "[EinoPDF] ", log.LstdFlags)))
	if err != nil {
		glog.Fatalf("创建PDF提取器失败: %v", err)
	}

	var extractorLogger *log.Logger
	if cfg.Logger.Level == "debug" {
		extractorLogger = log.New(os.Stderr, "[FieldExtractor] ", log.LstdFlags|log.Lshortfile)
	} else {
		extractorLogger = log.New(io.Discard, "", 0)
	}
	fieldExtractor := parser.NewFieldExtractor(chatModel, parser.WithFieldExtractorLogger(extractorLogger))

	var similarityOptions []scoring.SimilarityServiceOption
	if storageManager.Redis != nil {
		similarityOptions = append(similarityOptions, scoring.WithVectorCache(storageManager.Redis))
	}
	similarityService := scoring.NewSimilarityService(embedder, similarityOptions...)
	acceptanceService := scoring.NewAcceptanceService(embedder)

	salaryEstimator, err := salary.NewEstimatorFromFile(cfg.Salary.ArtifactPath, embedder)
	if err != nil {
		glog.Fatalf("加载薪资模型失败: %v", err)
	}
	glog.Infof("薪资模型加载成功: %s", cfg.Salary.ArtifactPath)

	handlers := &router.Handlers{
		Analyze:   handler.NewAnalyzeHandler(pdfExtractor, fieldExtractor, storageManager),
		Match:     handler.NewMatchHandler(similarityService, acceptanceService),
		Salary:    handler.NewSalaryHandler(salaryEstimator),
		Embedding: handler.NewEmbeddingHandler(embedder),
		Chat:      buildChatHandler(cfg, chatModel, storageManager),
	}

	serverOptions := []hertzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	}

	var h *server.Hertz
	if cfg.Tracing.Enabled {
		tracer, tracerCfg := hertztracing.NewServerTracer()
		h = server.New(append(serverOptions, tracer)...)
		h.Use(hertztracing.ServerMiddleware(tracerCfg))
	} else {
		h = server.New(serverOptions...)
	}

	router.RegisterRoutes(h, handlers)
	glog.Infof("HTTP服务器启动中, 监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号, 正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// buildChatHandler 聊天功能按配置可选, FAQ文件缺失时禁用聊天路由
func buildChatHandler(cfg *config.Config, chatModel llm.ChatModel, storageManager *storage.Storage) *handler.ChatHandler {
	faq, err := chatbot.LoadFAQ(cfg.Chatbot.FAQPath)
	if err != nil {
		glog.Warnf("加载FAQ失败, 聊天接口不可用: %v", err)
		return nil
	}

	botOptions := []chatbot.BotOption{chatbot.WithPersona(cfg.Chatbot.Persona)}
	if storageManager.Redis != nil {
		memory, err := chatbot.NewRedisChatMemory(storageManager.Redis.Client)
		if err != nil {
			glog.Warnf("初始化Redis会话存储失败, 聊天将不带历史: %v", err)
		} else {
			botOptions = append(botOptions, chatbot.WithChatMemory(memory))
		}
	}

	return handler.NewChatHandler(chatbot.NewBot(faq, chatModel, botOptions...))
}

func initLogger(cfg *config.LoggerConfig) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		TimeFormat:   cfg.TimeFormat,
		ReportCaller: cfg.ReportCaller,
	})

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
	glog.SetLevel(hertzLogLevel(level))
}

func hertzLogLevel(level zerolog.Level) glog.Level {
	switch level {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return glog.LevelDebug
	case zerolog.WarnLevel:
		return glog.LevelWarn
	case zerolog.ErrorLevel:
		return glog.LevelError
	default:
		return glog.LevelInfo
	}
}
