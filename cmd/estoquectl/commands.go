package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/catalog"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/infrastructure/session"
	"github.com/jhoicas/estoque-api/internal/infrastructure/store"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// openStore carga la configuración y abre la base (con AutoMigrate si está activo).
func openStore(ctx context.Context) (*store.Store, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel})
	s, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return nil, log, err
	}
	return s, log, nil
}

// --- migrateCmd ---

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "crea las tablas si no existen" }
func (*migrateCmd) Usage() string {
	return `migrate

  Aplica el esquema sobre DB_DRIVER (postgres|sqlite). Es idempotente.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, log, err := openStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()
	if err := s.Migrate(ctx); err != nil {
		log.Error().Err(err).Msg("migración")
		return subcommands.ExitFailure
	}
	log.Info().Str("driver", s.Driver).Msg("esquema actualizado")
	return subcommands.ExitSuccess
}

// --- createUserCmd ---

type createUserCmd struct {
	name     string
	login    string
	password string
}

func (*createUserCmd) Name() string     { return "create-user" }
func (*createUserCmd) Synopsis() string { return "crea un usuario con contraseña hasheada" }
func (*createUserCmd) Usage() string {
	return `create-user -name <nombre> -login <login> -password <contraseña>

  No hay alta de usuarios por HTTP: los usuarios se crean con este comando.
`
}
func (c *createUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Nombre visible (requerido)")
	f.StringVar(&c.login, "login", "", "Login único (requerido)")
	f.StringVar(&c.password, "password", "", fmt.Sprintf("Contraseña, mínimo %d caracteres (requerido)", auth.MinPasswordLength))
}

func (c *createUserCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.login == "" || c.password == "" {
		fmt.Fprintln(os.Stderr, "Error: -name, -login y -password son requeridos.")
		return subcommands.ExitUsageError
	}
	s, log, err := openStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	// Sólo se usa RegisterUser: el almacén de sesiones no interviene.
	uc := auth.NewAuthUseCase(s.Users, session.NewMemoryStore(time.Minute), auth.JWTConfig{})
	u, err := uc.RegisterUser(ctx, c.name, c.login, c.password)
	if err != nil {
		log.Error().Err(err).Str("login", c.login).Msg("no se pudo crear el usuario")
		return subcommands.ExitFailure
	}
	fmt.Printf("usuario %q creado (id %d)\n", u.Login, u.ID)
	return subcommands.ExitSuccess
}

// --- createCategoryCmd ---

type createCategoryCmd struct {
	name string
}

func (*createCategoryCmd) Name() string     { return "create-category" }
func (*createCategoryCmd) Synopsis() string { return "crea una categoría" }
func (*createCategoryCmd) Usage() string {
	return `create-category -name <nombre>
`
}
func (c *createCategoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Nombre de la categoría (requerido)")
}

func (c *createCategoryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name es requerido.")
		return subcommands.ExitUsageError
	}
	s, log, err := openStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	uc := catalog.NewCatalogUseCase(s.Tx, s.Products, s.Categories)
	cat, err := uc.CreateCategory(ctx, dto.CategoryRequest{Name: c.name})
	if err != nil {
		log.Error().Err(err).Str("name", c.name).Msg("no se pudo crear la categoría")
		return subcommands.ExitFailure
	}
	fmt.Printf("categoría %q creada (id %d)\n", cat.Name, cat.ID)
	return subcommands.ExitSuccess
}

// --- importProductsCmd ---

type importProductsCmd struct {
	in     string
	latin1 bool
	comma  string
}

func (*importProductsCmd) Name() string     { return "import-products" }
func (*importProductsCmd) Synopsis() string { return "importa productos desde un CSV" }
func (*importProductsCmd) Usage() string {
	return `import-products -in <archivo.csv> [-latin1] [-comma ;]

  Columnas: nome, descricao, categoria, estoque_minimo, localizacao.
  La primera fila es el encabezado. Las categorías que no existan se crean.
  Los productos entran con stock 0; las existencias se cargan como movimientos.
`
}
func (c *importProductsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "Ruta del CSV (requerido)")
	f.BoolVar(&c.latin1, "latin1", false, "El archivo está en ISO-8859-1 (exportado de planillas antiguas)")
	f.StringVar(&c.comma, "comma", ",", "Separador de columnas")
}

func (c *importProductsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in es requerido.")
		return subcommands.ExitUsageError
	}
	sep := []rune(c.comma)
	if len(sep) != 1 {
		fmt.Fprintln(os.Stderr, "Error: -comma debe ser un único carácter.")
		return subcommands.ExitUsageError
	}

	f, err := os.Open(c.in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer f.Close()
	rows, err := readProductRows(f, c.latin1, sep[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error leyendo %s: %v\n", c.in, err)
		return subcommands.ExitFailure
	}

	s, log, err := openStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	uc := catalog.NewCatalogUseCase(s.Tx, s.Products, s.Categories)
	n, err := uc.ImportProducts(ctx, rows)
	if err != nil {
		log.Error().Err(err).Int("imported", n).Msg("importación interrumpida")
		return subcommands.ExitFailure
	}
	fmt.Printf("%d producto(s) importados\n", n)
	return subcommands.ExitSuccess
}
