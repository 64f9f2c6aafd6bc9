// Package server wires the viewer core to an http.Server with sane timeouts,
// request logging and graceful shutdown.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/abiiranathan/pdfview/cli"
	"github.com/abiiranathan/pdfview/pdf"
	"github.com/abiiranathan/pdfview/routes"
	"github.com/abiiranathan/pdfview/viewer"
)

func Run(config *cli.Config, pagesDir string, viewsFs embed.FS, staticFs embed.FS,
	v *viewer.Viewer, doc *pdf.Document) {
	// Create the pages directory if it does not exist.
	// Rendered page rasters are staged here before serving.
	err := os.MkdirAll(pagesDir, os.ModePerm)
	if err != nil {
		log.Fatalf("unable to create directory: %s: %v\n", pagesDir, err)
	}

	// Parse templates.
	tmpl, err := template.ParseFS(viewsFs, "templates/*.html")
	if err != nil {
		// we panic because we cannot proceed without the templates
		panic(fmt.Errorf("unable to parse templates: %v", err))
	}

	// Create a new serveMux
	mux := http.NewServeMux()

	// Create a new http server to customize the timeouts.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           routes.Logger(os.Stdout)(mux),
		ReadTimeout:       time.Second * 10,
		WriteTimeout:      time.Second * 10,
		ReadHeaderTimeout: time.Second * 5,
	}

	// Connect the routes.
	routes.SetupRoutes(mux, staticFs, pagesDir, tmpl, v, doc)

	// Clean up rendered rasters periodically.
	go cleanUpTemporaryFiles(pagesDir)

	defer GracefulShutdown(server)

	log.Printf("Viewing %s on http://0.0.0.0:%d\n", v.Path(), config.Port)

	// Start the server
	err = server.ListenAndServe()
	if err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server terminated with error: %v\n", err)
		}
	}
}

func cleanUpTemporaryFiles(dir string) {
	ticker := time.NewTicker(time.Minute)
	quit := make(chan struct{})

	proc := func() {
		files, err := os.ReadDir(dir)
		if err != nil {
			return
		}

		for _, file := range files {
			if strings.HasSuffix(file.Name(), ".png") {
				os.Remove(filepath.Join(dir, file.Name()))
			}
		}
		log.Println("Cleaning up rendered page rasters")
	}

	for {
		select {
		case <-ticker.C:
			proc()
		case <-quit:
			ticker.Stop()
		}
	}
}

// Gracefully shuts down the server. The default timeout is 10 seconds
// To wait for pending connections.
func GracefulShutdown(server *http.Server, timeout ...time.Duration) {
	var t time.Duration
	if len(timeout) > 0 {
		t = timeout[0]
	} else {
		t = 10 * time.Second
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	log.Println("waiting on os.Interrupt")

	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), t)
	defer cancel()

	log.Println("Shutting down the server")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalln(err)
	}
	log.Println("shutting down gracefully")
}
