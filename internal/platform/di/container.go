// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	httpin "shopcart/internal/adapters/in/http"
	sqlrepo "shopcart/internal/adapters/out/db"
	filesrc "shopcart/internal/adapters/out/file"
	fsrepo "shopcart/internal/adapters/out/firestore"
	gcssrc "shopcart/internal/adapters/out/gcs"
	"shopcart/internal/adapters/out/memory"
	usecase "shopcart/internal/application/usecase"
	productdom "shopcart/internal/domain/product"
	"shopcart/internal/infra/config"
	"shopcart/internal/infra/database"
	firestoreinfra "shopcart/internal/infra/firestore"
	"shopcart/internal/infra/metrics"
	"shopcart/internal/infra/secret"
)

// Container は main.go から使う依存オブジェクトの束。
// main.go を極限まで薄くするために、配線はすべてここで行う。
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	ProductRepo     productdom.RepositoryPort
	CartStore       *memory.CartStoreMem
	ShoppingUC      *usecase.ShoppingService
	CatalogImporter *usecase.CatalogImporter

	Router http.Handler

	// 下層リソース（Close で閉じる）
	db *database.DB
	fs *firestoreinfra.ClientWrapper

	gcsOnce sync.Once
	gcs     *storage.Client
	gcsErr  error
}

// NewContainer は DI コンテナを初期化して返す。
//   - cfg の STORE_BACKEND に応じて Product リポジトリを選ぶ
//   - カートキャッシュ・Usecase・Router をつなぐ
func NewContainer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Container{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.New(),
	}

	// ------------------------------------------------------------
	// 1. Product store
	// ------------------------------------------------------------
	repo, err := c.buildProductRepo(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.ProductRepo = repo

	// ------------------------------------------------------------
	// 2. Cart cache + usecases
	// ------------------------------------------------------------
	c.CartStore = memory.NewCartStoreMem(cfg.CartTTL, log.Named("cart_store"))
	c.ShoppingUC = usecase.NewShoppingService(
		c.ProductRepo,
		c.CartStore,
		usecase.WithLogger(log.Named("shopping")),
		usecase.WithRecorder(c.Metrics),
	)
	c.CatalogImporter = usecase.NewCatalogImporter(c.ProductRepo, log.Named("catalog"))

	// ------------------------------------------------------------
	// 3. HTTP
	// ------------------------------------------------------------
	c.Router = httpin.NewRouter(httpin.RouterDeps{
		ShoppingUC:     c.ShoppingUC,
		Logger:         log.Named("http"),
		Metrics:        c.Metrics,
		MetricsHandler: c.Metrics.Handler(),
		CORSOrigins:    cfg.CORSAllowedOrigins,
	})

	log.Info("[di] container ready", zap.String("backend", cfg.StoreBackend))
	return c, nil
}

func (c *Container) buildProductRepo(ctx context.Context) (productdom.RepositoryPort, error) {
	cfg := c.Config

	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memory.NewProductRepositoryMem(), nil

	case config.BackendPostgres:
		dsn, err := resolveDatabaseURL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c.openSQL(ctx, database.DriverPostgres, dsn, sqlrepo.DialectPostgres)

	case config.BackendSQLite:
		return c.openSQL(ctx, database.DriverSQLite, cfg.SQLitePath, sqlrepo.DialectSQLite)

	case config.BackendFirestore:
		fs, err := firestoreinfra.NewClient(ctx, cfg.GetFirestoreProjectID(), cfg.FirestoreCredentialsFile, c.Logger)
		if err != nil {
			return nil, err
		}
		c.fs = fs
		return fsrepo.NewProductRepositoryFS(fs.Client), nil

	default:
		return nil, fmt.Errorf("di: unknown store backend %q", cfg.StoreBackend)
	}
}

func (c *Container) openSQL(ctx context.Context, driver, dsn string, d sqlrepo.Dialect) (productdom.RepositoryPort, error) {
	conn, err := database.NewConnection(ctx, driver, dsn, c.Logger)
	if err != nil {
		return nil, err
	}
	c.db = conn

	if err := sqlrepo.EnsureSchema(ctx, conn.Client, d); err != nil {
		return nil, err
	}
	return sqlrepo.NewProductRepositorySQL(conn.Client, d), nil
}

// resolveDatabaseURL prefers DATABASE_URL_SECRET (Secret Manager) over DATABASE_URL.
func resolveDatabaseURL(ctx context.Context, cfg *config.Config) (string, error) {
	name := strings.TrimSpace(cfg.DatabaseURLSecret)
	if name == "" {
		return cfg.DatabaseURL, nil
	}

	r, err := secret.NewResolver(ctx)
	if err != nil {
		return "", err
	}
	defer r.Close()

	return r.Resolve(ctx, name)
}

// CatalogSource returns a source for uri: gs://bucket/object or a local path.
func (c *Container) CatalogSource(ctx context.Context, uri string) (usecase.CatalogSource, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, errors.New("di: catalog uri is empty")
	}
	if !gcssrc.IsGSURI(uri) {
		return filesrc.NewCatalogSourceFile(uri), nil
	}

	c.gcsOnce.Do(func() {
		c.gcs, c.gcsErr = storage.NewClient(ctx)
	})
	if c.gcsErr != nil {
		return nil, fmt.Errorf("di: gcs client: %w", c.gcsErr)
	}
	return gcssrc.NewCatalogSourceGCS(c.gcs, uri)
}

// SeedCatalog imports uri through CatalogImporter.
func (c *Container) SeedCatalog(ctx context.Context, uri string) (int, error) {
	src, err := c.CatalogSource(ctx, uri)
	if err != nil {
		return 0, err
	}
	return c.CatalogImporter.Import(ctx, src)
}

// Close は終了時に呼んで安全にリソースを閉じる。
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	if c.fs != nil {
		errs = append(errs, c.fs.Close())
	}
	if c.gcs != nil {
		errs = append(errs, c.gcs.Close())
	}
	return errors.Join(errs...)
}
