// estoquectl tareas administrativas: esquema, usuarios, categorías e importación de productos.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "estoquectl")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&migrateCmd{}, "base de datos")
	commander.Register(&createUserCmd{}, "datos")
	commander.Register(&createCategoryCmd{}, "datos")
	commander.Register(&importProductsCmd{}, "datos")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
