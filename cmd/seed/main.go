package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/fatih/color"

	"restinvoice/internal/config"
	"restinvoice/internal/data"
	"restinvoice/internal/service"
)

func main() {
	userID := flag.String("u", "", "Owner of the seeded template")
	name := flag.String("name", "My First Invoice", "Template name")
	flag.Parse()

	if *userID == "" {
		log.Fatal("usage: seed -u <user> [-name <template name>]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	store, err := data.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	templates := service.NewTemplateService(data.NewTemplateRepo(store))
	tpl, err := templates.Create(context.Background(), *userID, service.NewTemplate{
		Name:        *name,
		HTMLContent: service.DefaultInvoiceHTML,
		Variables:   service.DefaultVariables(),
	})
	if err != nil {
		log.Fatalf("Failed to seed template: %v", err)
	}

	color.Green("Seeded template %q for %s", tpl.Name, *userID)
	fmt.Printf("  id:   %s\n  slug: %s\n", tpl.ID, tpl.Slug)
}
