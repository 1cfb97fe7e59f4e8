package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infrarepo "app/internal/infra/repository"
	"app/internal/logger"
	"app/internal/metrics"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .envは無ければ無いで良い（本番は環境変数直指定）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Service{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.Appointment{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	// repositories
	userRepo := infrarepo.NewUserGormRepository(gormDB)
	categoryRepo := infrarepo.NewCategoryGormRepository(gormDB)
	productRepo := infrarepo.NewProductGormRepository(gormDB)
	serviceRepo := infrarepo.NewServiceGormRepository(gormDB)
	cartItemRepo := infrarepo.NewCartItemGormRepository(gormDB)
	paymentRepo := infrarepo.NewPaymentGormRepository(gormDB)
	appointmentRepo := infrarepo.NewAppointmentGormRepository(gormDB)
	inventoryRepo := infrarepo.NewInventoryGormRepository(gormDB)
	auditRepo := infrarepo.NewAuditLogGormRepository(gormDB)
	txManager := infrarepo.NewTxManagerGorm(gormDB)

	clock := realClock{}
	issuer := &jwtIssuer{secret: cfg.JWTSecret, ttl: cfg.JWTExpiresIn}
	pricing := usecase.Pricing{TaxRate: cfg.TaxRate, ShippingFee: cfg.ShippingFee}

	// usecases
	authUC := usecase.NewAuthUsecase(
		userRepo,
		usecase.NewBcryptPasswordHasher(12),
		usecase.NewBcryptPasswordVerifier(),
		issuer,
		clock,
	)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, inventoryRepo, auditRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	serviceUC := usecase.NewServiceUsecase(serviceRepo)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderNumbers{}, clock, pricing)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)
	paymentUC := usecase.NewPaymentUsecase(txManager, paymentRepo, paymentRefs{}, clock)
	appointmentUC := usecase.NewAppointmentUsecase(appointmentRepo, serviceRepo, auditRepo, clock)

	// handlers
	handlers := server.Handlers{
		Health:      handler.NewHealthHandler(gormDB),
		Auth:        handler.NewAuthHandler(authUC),
		Product:     handler.NewProductHandler(productUC),
		Category:    handler.NewCategoryHandler(categoryUC),
		Service:     handler.NewServiceHandler(serviceUC),
		Cart:        handler.NewCartHandler(cartUC),
		Order:       handler.NewOrderHandler(orderUC, adminOrderUC),
		Payment:     handler.NewPaymentHandler(paymentUC),
		Appointment: handler.NewAppointmentHandler(appointmentUC),
	}

	e := server.New(cfg, log, metrics.NewHTTPMetrics(), handlers)

	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("server", zap.Error(err))
		}
	}()

	// SIGINT/SIGTERMで止める
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := server.Shutdown(context.Background(), e, 10*time.Second); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// HS256のアクセストークン発行。claimsは sub/role/iat/exp。
type jwtIssuer struct {
	secret string
	ttl    time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", userID),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(i.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// PET-<yyyymmddHHMMSS>-<乱数hex>。衝突はDBのunique制約で弾かれる。
type orderNumbers struct{}

func (orderNumbers) NewOrderNumber(now time.Time) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// 乱数が取れない環境では時刻のみで生成する
		return fmt.Sprintf("PET-%s", now.Format("20060102150405.000000"))
	}
	return fmt.Sprintf("PET-%s-%s", now.Format("20060102150405"), strings.ToUpper(hex.EncodeToString(b)))
}

// PAY-<uuid>
type paymentRefs struct{}

func (paymentRefs) NewReferenceNumber() string {
	return "PAY-" + uuid.NewString()
}
