package main

import (
	"embed"
	"log"
	"os"

	"github.com/abiiranathan/pdfview/cli"
	"github.com/abiiranathan/pdfview/pdf"
	"github.com/abiiranathan/pdfview/server"
)

// Temporary storage for rendered page rasters
const pagesDir = "pages"

//go:embed all:templates
var viewsFs embed.FS

//go:embed static
var staticFs embed.FS

// Default configuration for the CLI
var config = &cli.DefaultConfig

func startServer() {
	v, doc, err := cli.OpenViewer(config)
	if err != nil {
		log.Fatalln(err)
	}
	defer doc.Close()

	server.Run(config, pagesDir, viewsFs, staticFs, v, doc)
}

func main() {
	log.SetPrefix("[pdfview]: ")
	log.SetFlags(log.Lshortfile)

	// Set the locale to the system's default
	pdf.SetLocale()

	// Parse the command line arguments
	ctx := cli.DefineFlags(config, startServer)

	// Connect the sqlite store before any subcommand runs.
	cli.SetupDatabase(config)

	subcmd, err := ctx.Parse(os.Args)
	if err != nil {
		log.Fatalln(err)
	}

	// If the subcommand is nil, print the usage and exit
	if subcmd == nil {
		ctx.PrintUsage(os.Stdout)
		os.Exit(1)
	}

	// Run the subcommand
	subcmd.Handler()
}
