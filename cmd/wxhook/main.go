package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-wxhook/internal/client"
	"go-wxhook/internal/handler"
	"go-wxhook/internal/infra"
	"go-wxhook/internal/logger"
	"go-wxhook/internal/model"
	"go-wxhook/internal/protocol"
	"go-wxhook/internal/push"
	"go-wxhook/internal/repository"
	"go-wxhook/internal/service"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径，默认读取工作目录下的 config.yaml")
	flag.Parse()

	cfg, err := infra.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	lg, err := logger.Init(cfg.Log.Level)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Error("服务异常退出", zap.Error(err))
		os.Exit(1)
	}
	lg.Info("服务已关闭")
}

func run(ctx context.Context, cfg infra.Config, lg *zap.Logger) error {
	// 构建可选依赖，不可达时降级为未启用
	redisClient := infra.NewRedisClient(cfg.Redis)
	if err := infra.PingRedis(ctx, redisClient); err != nil {
		lg.Warn("Redis 未就绪，禁用 Redis 相关功能", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	ids := newIDGenerator(cfg, redisClient, lg)
	host, err := client.New(cfg.Host.BaseURL(),
		client.WithIDGenerator(ids),
		client.WithTimeout(cfg.Client.Timeout),
		client.WithLogger(lg),
	)
	if err != nil {
		return err
	}

	var store service.RosterStore
	if cfg.MySQL.Enable {
		db, err := repository.NewDB(cfg.MySQL, lg)
		if err != nil {
			lg.Warn("MySQL 未就绪，通讯录同步只查询不落库", zap.Error(err))
		} else {
			repo := repository.NewRosterRepository(db)
			if err := repo.AutoMigrate(); err != nil {
				return err
			}
			store = repo
		}
	}

	var cache service.NicknameCache
	if redisClient != nil {
		cache = service.NewRedisNicknameCache(redisClient, cfg.Redis.NickPrefix, cfg.Redis.NickTTL)
	}
	roster := service.NewRosterService(host, store, cache, lg)
	replier := service.NewReplyService(host, roster, lg)

	var sink service.MessageSink
	if cfg.RabbitMQ.Enable {
		mqCh, closeMQ, err := openRabbit(cfg.RabbitMQ)
		if err != nil {
			lg.Warn("RabbitMQ 未就绪，推送消息不转发", zap.Error(err))
		} else {
			defer closeMQ()
			sink = service.NewEventPublisher(mqCh, cfg.RabbitMQ.Exchange)
			if cfg.RabbitMQ.Queue != "" {
				consumer := service.NewEventConsumer(mqCh, cfg.RabbitMQ.Queue, logMessage(lg), lg)
				if err := consumer.Start(ctx); err != nil {
					return err
				}
			}
		}
	}

	var httpServer *http.Server
	if cfg.HTTP.Enable {
		api := handler.NewAPIHandler(host, roster, lg).WithReplier(replier)
		httpServer = &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: handler.NewRouter(api),
		}
		go func() {
			lg.Info("HTTP 服务启动", zap.String("addr", cfg.HTTP.Addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lg.Error("HTTP 服务启动失败", zap.Error(err))
			}
		}()
	}

	stream, err := push.Dial(ctx, cfg.Host.PushURL(),
		push.WithReadLimit(cfg.Client.ReadLimit),
		push.WithLogger(lg),
	)
	if err != nil {
		shutdown(httpServer, lg)
		return err
	}
	defer stream.Close()
	lg.Info("推送通道已连接", zap.String("url", cfg.Host.PushURL()))

	dispatcher := service.NewDispatcher(stream, lg).
		OnText(func(ctx context.Context, msg model.TextMessage, id model.Identity) {
			lg.Debug("收到文字消息",
				zap.Bool("group", id.IsGroup),
				zap.String("room_id", id.RoomID),
				zap.String("from", id.OriginatorID),
				zap.String("content", msg.Content),
			)
		}).
		OnPicture(func(ctx context.Context, msg model.PictureMessage) {
			lg.Debug("收到图片消息", zap.String("sender", msg.Sender), zap.String("detail", msg.Content.Detail))
		}).
		OnHeartBeat(func(ctx context.Context, msg model.HeartBeat) {
			lg.Debug("心跳", zap.String("time", msg.Time))
		})
	if sink != nil {
		dispatcher.WithSink(sink)
	}

	err = dispatcher.Run(ctx)
	shutdown(httpServer, lg)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newIDGenerator(cfg infra.Config, rdb *redis.Client, lg *zap.Logger) protocol.IDGenerator {
	switch cfg.Client.IDGenerator {
	case "uuid":
		return protocol.UUIDGenerator{}
	case "timestamp":
		return protocol.TimestampIDGenerator{}
	case "redis":
		if rdb != nil {
			return service.NewRedisIDGenerator(rdb, cfg.Redis.IDKey, "")
		}
		lg.Warn("Redis 不可用，改用计数器生成请求 ID")
	}
	return protocol.NewCounterIDGenerator()
}

// openRabbit 建立连接、channel 并声明拓扑。
func openRabbit(cfg infra.RabbitMQConfig) (*amqp.Channel, func(), error) {
	conn, err := infra.NewRabbitMQ(cfg)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	if err := infra.PrepareRabbitTopology(ch, cfg); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, func() {
		_ = ch.Close()
		_ = conn.Close()
	}, nil
}

// logMessage 是队列消费端的默认处理：记录消息与会话身份。
func logMessage(lg *zap.Logger) service.MessageHandler {
	return func(ctx context.Context, msg model.DomainMessage) error {
		if text, ok := msg.(model.TextMessage); ok {
			id := model.ResolveIdentity(text)
			lg.Info("队列消息",
				zap.String("kind", msg.MessageKind()),
				zap.Bool("group", id.IsGroup),
				zap.String("from", id.OriginatorID),
				zap.String("content", text.Content),
			)
			return nil
		}
		lg.Info("队列消息", zap.String("kind", msg.MessageKind()))
		return nil
	}
}

func shutdown(srv *http.Server, lg *zap.Logger) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Warn("HTTP 服务关闭异常", zap.Error(err))
	}
}
