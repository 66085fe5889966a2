package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/eventspark/api"
	"github.com/Domenick1991/eventspark/config"
	"github.com/Domenick1991/eventspark/internal/bootstrap"
	"github.com/Domenick1991/eventspark/internal/cache"
	"github.com/Domenick1991/eventspark/internal/client"
	"github.com/Domenick1991/eventspark/internal/dashboard"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/kafka"
	"github.com/Domenick1991/eventspark/internal/notify"
	"github.com/Domenick1991/eventspark/internal/session"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/spf13/pflag"
)

// mountable is what every role dashboard exposes to the process.
type mountable interface {
	Mount(ctx context.Context) error
	Unmount() error
	Invalidate() error
}

func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	cfgPath := pflag.String("config", defaultPath, "path to the YAML config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens := session.NewFileStore(cfg.Session.TokenFile)
	claims := loadClaims(tokens)

	feed := notify.NewFeed(cfg.Notifications.History)
	deps := dashboard.Deps{
		API:      client.New(cfg.API.BaseURL, tokens, client.WithTimeout(cfg.API.Timeout())),
		Notifier: feed,
		Claims:   claims,
		Interval: cfg.Refresh.Interval(),
	}

	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("WARNING: redis unavailable, running without snapshot cache: %v", err)
		} else {
			deps.Cache = redisCache
		}
	}

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.Printf("WARNING: kafka unavailable, audit records will be dropped: %v", err)
		}
		deps.Audit = kafka.NewAudit(producer, cfg.Kafka.AuditTopic, kafka.WithRetries(cfg.Kafka.PublishRetries))
	}

	handlers := bootstrap.Handlers{Notifications: api.NewNotificationHandler(feed)}
	var dash mountable
	switch claims.Role {
	case domain.RoleAdmin:
		admin := dashboard.NewAdmin(deps)
		handlers.Admin = api.NewAdminHandler(admin, admin.Moderation(), admin.Roles())
		dash = admin
	case domain.RoleOrganizer:
		organizer := dashboard.NewOrganizer(deps)
		handlers.Organizer = api.NewOrganizerHandler(organizer)
		dash = organizer
	default:
		user := dashboard.NewUser(deps)
		handlers.User = api.NewUserHandler(user, user.Cancellation())
		dash = user
	}

	if err := dash.Mount(ctx); err != nil {
		log.Fatalf("mount dashboard: %v", err)
	}
	defer func() {
		if err := dash.Unmount(); err != nil {
			log.Printf("WARNING: unmount dashboard: %v", err)
		}
	}()

	if cfg.Kafka.Enabled() {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.InvalidationTopic)
		defer consumer.Close()
		go consumeInvalidations(ctx, consumer, dash)
	}

	log.Printf("dashboard mounted for role %q against %s", roleName(claims.Role), cfg.API.BaseURL)
	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func loadClaims(tokens *session.FileStore) session.Claims {
	token, err := tokens.Token()
	if err != nil {
		log.Printf("WARNING: read session token: %v", err)
		return session.Claims{}
	}
	if token == "" {
		return session.Claims{}
	}
	claims, err := session.ParseClaims(token)
	if err != nil {
		log.Printf("WARNING: parse session token: %v", err)
		return session.Claims{}
	}
	if claims.Expired(time.Now()) {
		log.Printf("WARNING: session token expired at %s", claims.ExpiresAt.Format(time.RFC3339))
	}
	return claims
}

func consumeInvalidations(ctx context.Context, consumer *kafka.Consumer, dash mountable) {
	err := consumer.Consume(ctx, func(ctx context.Context, msg kafkago.Message) error {
		inv, err := kafka.DecodeInvalidation(msg)
		if err != nil {
			log.Printf("WARNING: skip invalidation at offset %d: %v", msg.Offset, err)
			return nil
		}
		if err := dash.Invalidate(); err != nil {
			log.Printf("WARNING: invalidate %s: %v", inv.Collection, err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("invalidation consumer stopped: %v", err)
	}
}

func roleName(r domain.Role) string {
	if r == "" {
		return string(domain.RoleUser)
	}
	return string(r)
}
