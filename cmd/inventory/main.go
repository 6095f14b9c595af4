package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"inventory/internal/database"
	"inventory/internal/handler"
	"inventory/internal/repository"
	"inventory/internal/service"
	"inventory/internal/websocket"
	"inventory/pkg/config"
	"inventory/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const usage = `Usage: inventory <command> [flags]

Commands:
  init            create the store schema (idempotent)
  add-product     register a product code
  add-warehouse   register a warehouse code
  update-product  change a product's name, unit, minimum or description
  stock-in        receive goods into a warehouse
  stock-out       issue goods from a warehouse
  check-stock     show stock for a product (one warehouse or all)
  list-stock      show every pair currently holding stock
  products        list the product catalog
  warehouses      list warehouses
  low-stock       list products below their minimum quantity
  transactions    show movement history
  summary         show store-wide counters
  serve           run the HTTP API and websocket feed

The store location comes from INVENTORY_DB (default inventory.db).`

// Exit codes: 0 success (including duplicate adds, which are soft failures),
// 1 validation failure or bad usage, 2 store unavailable.
const (
	exitOK         = 0
	exitFailed     = 1
	exitStoreError = 2
)

type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *gorm.DB
	catalog service.CatalogService
	ledger  service.LedgerService
	reports service.ReportService
	hub     *websocket.Hub
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return exitFailed
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		return exitFailed
	}
	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	db, err := database.Open(cfg.DB.DSN)
	if err != nil {
		fmt.Fprintln(os.Stderr, "store unavailable:", err)
		return exitStoreError
	}
	if err := database.Migrate(db); err != nil {
		fmt.Fprintln(os.Stderr, "store unavailable:", err)
		return exitStoreError
	}

	a := newApp(cfg, log, db)
	if err := a.dispatch(args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitFailed
	}
	return exitOK
}

func newApp(cfg *config.Config, log *logger.Logger, db *gorm.DB) *app {
	productRepo := repository.NewProductRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	stockRepo := repository.NewStockRepository(db)
	stockTxRepo := repository.NewStockTxRepository(db)
	txManager := repository.NewTransactionManager(db)
	hub := websocket.NewHub()

	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		catalog: service.NewCatalogService(productRepo, warehouseRepo, log),
		ledger:  service.NewLedgerService(productRepo, warehouseRepo, stockRepo, stockTxRepo, txManager, hub, log),
		reports: service.NewReportService(productRepo, warehouseRepo, stockRepo, stockTxRepo),
		hub:     hub,
	}
}

func (a *app) dispatch(verb string, args []string) error {
	ctx := context.Background()
	switch verb {
	case "init":
		// Open already migrated; nothing left to do.
		fmt.Println("store initialized:", a.cfg.DB.DSN)
		return nil
	case "add-product":
		return a.addProduct(ctx, args)
	case "add-warehouse":
		return a.addWarehouse(ctx, args)
	case "update-product":
		return a.updateProduct(ctx, args)
	case "stock-in":
		return a.stockIn(ctx, args)
	case "stock-out":
		return a.stockOut(ctx, args)
	case "check-stock":
		return a.checkStock(ctx, args)
	case "list-stock":
		return a.listStock(ctx)
	case "products":
		return a.listProducts(ctx)
	case "warehouses":
		return a.listWarehouses(ctx)
	case "low-stock":
		return a.lowStock(ctx)
	case "transactions":
		return a.transactions(ctx, args)
	case "summary":
		return a.summary(ctx)
	case "serve":
		return a.serve(args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", verb)
	}
}

func (a *app) addProduct(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-product", flag.ContinueOnError)
	code := fs.String("code", "", "product code (required)")
	name := fs.String("name", "", "product name (required)")
	unit := fs.String("unit", "", "unit of measure, e.g. pcs (required)")
	min := fs.Int("min", 0, "minimum quantity before a low-stock alert")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *code == "" || *name == "" || *unit == "" {
		return errors.New("add-product requires -code, -name and -unit")
	}

	created, err := a.catalog.AddProduct(ctx, service.CreateProductRequest{
		Code: *code, Name: *name, Unit: *unit, MinQuantity: *min, Description: *desc,
	})
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("product %s already exists, nothing changed\n", *code)
		return nil
	}
	fmt.Printf("product %s added\n", *code)
	return nil
}

func (a *app) addWarehouse(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-warehouse", flag.ContinueOnError)
	code := fs.String("code", "", "warehouse code (required)")
	name := fs.String("name", "", "warehouse name (required)")
	location := fs.String("location", "", "location")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *code == "" || *name == "" {
		return errors.New("add-warehouse requires -code and -name")
	}

	created, err := a.catalog.AddWarehouse(ctx, service.CreateWarehouseRequest{
		Code: *code, Name: *name, Location: *location, Description: *desc,
	})
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("warehouse %s already exists, nothing changed\n", *code)
		return nil
	}
	fmt.Printf("warehouse %s added\n", *code)
	return nil
}

func (a *app) updateProduct(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-product", flag.ContinueOnError)
	code := fs.String("code", "", "product code (required)")
	name := fs.String("name", "", "new name")
	unit := fs.String("unit", "", "new unit")
	min := fs.Int("min", 0, "new minimum quantity")
	desc := fs.String("desc", "", "new description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *code == "" {
		return errors.New("update-product requires -code")
	}

	// Only flags the caller actually set become updates.
	req := service.UpdateProductRequest{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			req.Name = name
		case "unit":
			req.Unit = unit
		case "min":
			req.MinQuantity = min
		case "desc":
			req.Description = desc
		}
	})

	if err := a.catalog.UpdateProduct(ctx, *code, req); err != nil {
		return err
	}
	fmt.Printf("product %s updated\n", *code)
	return nil
}

func (a *app) stockIn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stock-in", flag.ContinueOnError)
	product := fs.String("product", "", "product code (required)")
	warehouse := fs.String("warehouse", "", "warehouse code (required)")
	quantity := fs.Int("quantity", 0, "units received (required, > 0)")
	batch := fs.String("batch", "", "batch number")
	ref := fs.String("ref", "", "order or document reference")
	operator := fs.String("operator", "", "operator name")
	notes := fs.String("notes", "", "free-text notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *product == "" || *warehouse == "" {
		return errors.New("stock-in requires -product and -warehouse")
	}

	entry, err := a.ledger.StockIn(ctx, service.StockInRequest{
		ProductCode:   *product,
		WarehouseCode: *warehouse,
		Quantity:      *quantity,
		BatchNo:       *batch,
		Reference:     *ref,
		Operator:      *operator,
		Notes:         *notes,
	})
	if err != nil {
		return err
	}
	fmt.Printf("stock in: %d x %s -> %s (transaction #%d)\n", entry.Quantity, entry.ProductCode, entry.WarehouseCode, entry.ID)
	return nil
}

func (a *app) stockOut(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stock-out", flag.ContinueOnError)
	product := fs.String("product", "", "product code (required)")
	warehouse := fs.String("warehouse", "", "warehouse code (required)")
	quantity := fs.Int("quantity", 0, "units issued (required, > 0)")
	ref := fs.String("ref", "", "order or document reference")
	operator := fs.String("operator", "", "operator name")
	notes := fs.String("notes", "", "free-text notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *product == "" || *warehouse == "" {
		return errors.New("stock-out requires -product and -warehouse")
	}

	entry, err := a.ledger.StockOut(ctx, service.StockOutRequest{
		ProductCode:   *product,
		WarehouseCode: *warehouse,
		Quantity:      *quantity,
		Reference:     *ref,
		Operator:      *operator,
		Notes:         *notes,
	})
	if err != nil {
		return err
	}
	fmt.Printf("stock out: %d x %s <- %s (transaction #%d)\n", entry.Quantity, entry.ProductCode, entry.WarehouseCode, entry.ID)
	return nil
}

func (a *app) checkStock(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check-stock", flag.ContinueOnError)
	product := fs.String("product", "", "product code (required)")
	warehouse := fs.String("warehouse", "", "warehouse code (all warehouses when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *product == "" {
		return errors.New("check-stock requires -product")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if *warehouse != "" {
		view, err := a.reports.GetStock(ctx, *product, *warehouse)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d %s\n", view.ProductCode, view.ProductName, view.WarehouseCode, view.Quantity, view.Unit)
		return nil
	}

	views, err := a.reports.GetStockByProduct(ctx, *product)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Fprintf(w, "%s\tno stock\n", *product)
		return nil
	}
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d %s\n", v.ProductCode, v.ProductName, v.WarehouseCode, v.Quantity, v.Unit)
	}
	return nil
}

func (a *app) listStock(ctx context.Context) error {
	views, err := a.reports.GetAllStock(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "PRODUCT\tNAME\tWAREHOUSE\tQUANTITY")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d %s\n", v.ProductCode, v.ProductName, v.WarehouseCode, v.Quantity, v.Unit)
	}
	return nil
}

func (a *app) listProducts(ctx context.Context) error {
	products, err := a.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "CODE\tNAME\tUNIT\tMIN")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.Code, p.Name, p.Unit, p.MinQuantity)
	}
	return nil
}

func (a *app) listWarehouses(ctx context.Context) error {
	warehouses, err := a.catalog.ListWarehouses(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "CODE\tNAME\tLOCATION")
	for _, wh := range warehouses {
		fmt.Fprintf(w, "%s\t%s\t%s\n", wh.Code, wh.Name, wh.Location)
	}
	return nil
}

func (a *app) lowStock(ctx context.Context) error {
	items, err := a.reports.GetLowStockProducts(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no products below minimum quantity")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "CODE\tNAME\tTOTAL\tMIN\tDEFICIT")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", item.ProductCode, item.ProductName, item.TotalQuantity, item.MinQuantity, item.Deficit)
	}
	return nil
}

func (a *app) transactions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("transactions", flag.ContinueOnError)
	product := fs.String("product", "", "filter by product code")
	warehouse := fs.String("warehouse", "", "filter by warehouse code")
	txType := fs.String("type", "", "filter by type: IN or OUT")
	limit := fs.Int("limit", 50, "max rows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	views, err := a.reports.GetTransactions(ctx, repository.TransactionFilter{
		ProductCode:     *product,
		WarehouseCode:   *warehouse,
		TransactionType: *txType,
		Limit:           *limit,
	})
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "ID\tTIME\tTYPE\tPRODUCT\tWAREHOUSE\tQTY\tREF\tOPERATOR")
	for _, v := range views {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			v.ID, v.CreatedAt.Format("2006-01-02 15:04:05"), v.TransactionType,
			v.ProductCode, v.WarehouseCode, v.Quantity, v.Reference, v.Operator)
	}
	return nil
}

func (a *app) summary(ctx context.Context) error {
	s, err := a.reports.GetStockSummary(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "products\t%d\n", s.TotalProducts)
	fmt.Fprintf(w, "warehouses\t%d\n", s.TotalWarehouses)
	fmt.Fprintf(w, "stock items\t%d\n", s.TotalStockItems)
	fmt.Fprintf(w, "low stock\t%d\n", s.LowStockCount)
	fmt.Fprintf(w, "transactions\t%d\n", s.TotalTransactions)
	return nil
}

func (a *app) serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", a.cfg.HTTP.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	go a.hub.Run()

	if a.cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(a.hub, c)
	})

	handler.NewCatalogHandler(a.catalog).RegisterRoutes(router.Group(""))
	handler.NewLedgerHandler(a.ledger).RegisterRoutes(router.Group(""))
	handler.NewReportHandler(a.reports).RegisterRoutes(router.Group(""))

	a.log.Info().Str("addr", *addr).Msg("serving inventory API")
	return router.Run(*addr)
}
