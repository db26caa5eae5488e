// Package bootstrap arma los casos de uso sobre el almacenamiento elegido en la configuración.
// Lo comparten la API HTTP y la CLI.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pintureria-api/internal/application/auth"
	"github.com/jhoicas/pintureria-api/internal/application/billing"
	"github.com/jhoicas/pintureria-api/internal/application/inventory"
	"github.com/jhoicas/pintureria-api/internal/application/ledger"
	"github.com/jhoicas/pintureria-api/internal/application/payments"
	"github.com/jhoicas/pintureria-api/internal/application/ports"
	"github.com/jhoicas/pintureria-api/internal/application/sales"
	"github.com/jhoicas/pintureria-api/internal/application/usecase"
	"github.com/jhoicas/pintureria-api/internal/domain/repository"
	"github.com/jhoicas/pintureria-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pintureria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pintureria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pintureria-api/internal/interfaces/http"
	"github.com/jhoicas/pintureria-api/pkg/config"
	"github.com/jhoicas/pintureria-api/pkg/jwt"
	"github.com/jhoicas/pintureria-api/pkg/logger"
	"github.com/jhoicas/pintureria-api/pkg/money"
)

// Storage es el adaptador de persistencia ya abierto.
type Storage struct {
	TxRunner ports.TxRunner
	Repos    repository.TxRepos
	Numbers  repository.InvoiceNumberGenerator
	Users    repository.UserRepository
	Pool     *pgxpool.Pool // nil con el driver memory
	close    func()
}

// Close libera las conexiones del almacenamiento.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewMemoryStorage construye un almacenamiento en memoria.
func NewMemoryStorage() *Storage {
	store := memory.New()
	return &Storage{TxRunner: store, Repos: store.Repos(), Numbers: store, Users: store.Users()}
}

// OpenStorage abre el almacenamiento configurado. Con postgres y DB_AUTO_MIGRATE
// aplica las migraciones pendientes antes de devolver.
func OpenStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return NewMemoryStorage(), nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.NewMigrator(pool, log).Up(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
	}
	return &Storage{
		TxRunner: postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, log),
		Repos:    postgres.NewRepos(pool),
		Numbers:  postgres.NewInvoiceNumberSequence(pool),
		Users:    postgres.NewUserRepository(pool),
		Pool:     pool,
		close:    pool.Close,
	}, nil
}

// Services casos de uso de la aplicación.
type Services struct {
	Auth           *auth.AuthUseCase
	Users          *usecase.UserUseCase
	Products       *usecase.ProductUseCase
	Customers      *usecase.CustomerUseCase
	Stock          *inventory.StockLedger
	Replenishment  *inventory.ReplenishmentUseCase
	CustomerLedger *ledger.CustomerLedger
	Settlement     *sales.SettlementEngine
	Payments       *payments.Recorder
	Invoices       *billing.InvoiceUseCase
	Tokens         *jwt.Signer

	overdueAfter time.Duration
}

// NewServices construye los casos de uso sobre st.
func NewServices(st *Storage, cfg *config.Config, log *logger.Logger) *Services {
	r := st.Repos
	stock := inventory.NewStockLedger(st.TxRunner, r.Products, r.Lots, r.Movements)
	customerLedger := ledger.NewCustomerLedger(st.TxRunner, r.Customers, r.Ledger)
	engine := sales.NewSettlementEngine(
		st.TxRunner, stock, customerLedger, st.Numbers, r.Sales, r.Invoices,
		sales.Config{
			CancelRestock:     cfg.Sales.CancelRestock,
			CancelRestoreDebt: cfg.Sales.CancelRestoreDebt,
		},
		log,
	)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.StoreName, money.Default())
	tokens := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)

	return &Services{
		Auth:           auth.NewAuthUseCase(st.Users, tokens),
		Users:          usecase.NewUserUseCase(st.Users),
		Products:       usecase.NewProductUseCase(r.Products),
		Customers:      usecase.NewCustomerUseCase(st.TxRunner, r.Customers, customerLedger),
		Stock:          stock,
		Replenishment:  inventory.NewReplenishmentUseCase(r.Products, r.Lots),
		CustomerLedger: customerLedger,
		Settlement:     engine,
		Payments:       payments.NewRecorder(st.TxRunner, customerLedger, r.Payments, log),
		Invoices:       billing.NewInvoiceUseCase(r.Invoices, pdfGenerator),
		Tokens:         tokens,
		overdueAfter:   time.Duration(cfg.Sales.OverdueAfterDays) * 24 * time.Hour,
	}
}

// OverdueAfter antigüedad a partir de la cual una venta a crédito se marca vencida.
func (s *Services) OverdueAfter() time.Duration { return s.overdueAfter }

// RouterDeps prepara las dependencias del router HTTP.
func (s *Services) RouterDeps() httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		AuthUC:         s.Auth,
		UserUC:         s.Users,
		ProductUC:      s.Products,
		CustomerUC:     s.Customers,
		StockLedger:    s.Stock,
		Replenishment:  s.Replenishment,
		CustomerLedger: s.CustomerLedger,
		Settlement:     s.Settlement,
		Payments:       s.Payments,
		Invoices:       s.Invoices,
		Tokens:         s.Tokens,
	}
}
