package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"sitebook/collections"
	"sitebook/handlers"
	"sitebook/services"
)

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env: %v", err)
	}

	app := pocketbase.New()
	store := services.NewBrandingStore(app)

	// magic entry stays disabled (503) without a key
	var completer services.Completer
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		gc, err := services.NewGeminiCompleter(context.Background(), key, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Printf("Warning: Gemini client unavailable: %v", err)
		} else {
			completer = gc
			app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
				if err := gc.Close(); err != nil {
					log.Printf("Warning: closing Gemini client: %v", err)
				}
				return e.Next()
			})
		}
	}

	app.RootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create the collections and insert demo data into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return collections.Prepare(app)
		},
	})

	// Create collections, seed and migrate on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Prepare(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateOrphansToProject(app); err != nil {
			log.Printf("Warning: project migration failed: %v", err)
		}
		if err := collections.MigrateDefaultProjectSettings(app); err != nil {
			log.Printf("Warning: settings migration failed: %v", err)
		}
		if err := store.Load(); err != nil {
			log.Printf("Warning: branding not loaded, using defaults: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Active project, branding and sidebar counts for every request
		se.Router.BindFunc(handlers.ActiveProjectMiddleware(app, store))

		// ── Dashboard ────────────────────────────────────────────
		se.Router.GET("/{$}", handlers.HandleDashboard(app))
		se.Router.GET("/dashboard", handlers.HandleDashboard(app))

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.POST("/projects", handlers.HandleProjectCreate(app))
		se.Router.POST("/projects/deactivate", handlers.HandleProjectDeactivate(app))
		se.Router.POST("/projects/{id}/activate", handlers.HandleProjectActivate(app))
		se.Router.GET("/projects/{id}", handlers.HandleProjectView(app))
		se.Router.POST("/projects/{id}/save", handlers.HandleProjectSave(app))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app, store))

		// ── Workers ──────────────────────────────────────────────
		se.Router.GET("/workers", handlers.HandleWorkerList(app))
		se.Router.POST("/workers", handlers.HandleWorkerCreate(app))
		se.Router.GET("/workers/{id}/export", handlers.HandleWorkerExport(app))
		se.Router.POST("/workers/{id}/save", handlers.HandleWorkerSave(app))
		se.Router.DELETE("/workers/{id}", handlers.HandleWorkerDelete(app))
		se.Router.GET("/workers/{id}", handlers.HandleWorkerCard(app))

		// ── Attendance & labour ──────────────────────────────────
		se.Router.GET("/attendance", handlers.HandleAttendance(app))
		se.Router.PATCH("/attendance/{workerId}/{date}", handlers.HandleAttendanceUpdate(app))
		se.Router.GET("/labor/monthly", handlers.HandleMonthlyLabor(app))
		se.Router.GET("/labor/monthly/export", handlers.HandleMonthlyLaborExport(app))

		// ── Client ledger ────────────────────────────────────────
		se.Router.GET("/ledger", handlers.HandleLedger(app))
		se.Router.POST("/ledger", handlers.HandleLedgerAdd(app))
		se.Router.GET("/ledger/export", handlers.HandleLedgerExport(app))
		se.Router.DELETE("/ledger/{id}", handlers.HandleLedgerDelete(app))

		// ── Expenses & materials ─────────────────────────────────
		se.Router.GET("/expenses", handlers.HandleExpenses(app))
		se.Router.POST("/expenses", handlers.HandleExpenseAdd(app))
		se.Router.DELETE("/expenses/{id}", handlers.HandleExpenseDelete(app))
		se.Router.GET("/materials", handlers.HandleMaterials(app))
		se.Router.POST("/materials", handlers.HandleMaterialAdd(app))

		// ── Estimates ────────────────────────────────────────────
		se.Router.GET("/estimates", handlers.HandleEstimates(app))
		se.Router.POST("/estimates/import/preview", handlers.HandleEstimatePreview(app))
		se.Router.POST("/estimates/import", handlers.HandleEstimateImport(app))
		se.Router.POST("/estimates/{id}/activate", handlers.HandleEstimateActivate(app))
		se.Router.POST("/estimates/{id}/deactivate", handlers.HandleEstimateDeactivate(app))
		se.Router.GET("/estimates/{id}/export", handlers.HandleEstimateExport(app))
		se.Router.DELETE("/estimates/{id}", handlers.HandleEstimateDelete(app))

		// ── Payments ─────────────────────────────────────────────
		se.Router.GET("/payments", handlers.HandlePayments(app))
		se.Router.POST("/payments", handlers.HandlePaymentAdd(app))
		se.Router.GET("/payments/{id}/receipt", handlers.HandlePaymentReceipt(app))

		// ── Reports ──────────────────────────────────────────────
		se.Router.GET("/reports/monthly", handlers.HandleMonthlyReport(app))
		se.Router.GET("/reports/monthly/export", handlers.HandleMonthlyReportExport(app))

		// ── Settings (branding) ──────────────────────────────────
		se.Router.GET("/settings", handlers.HandleSettings(app))
		se.Router.POST("/settings", handlers.HandleSettingsSave(app, store))
		se.Router.GET("/settings/logo", handlers.HandleSettingsLogo(app))
		se.Router.GET("/settings/background", handlers.HandleSettingsBackground(app))

		// ── Magic entry (commit routes before {kind}) ────────────
		se.Router.POST("/magic/attendance/commit", handlers.HandleMagicAttendanceCommit(app))
		se.Router.POST("/magic/expense/commit", handlers.HandleMagicExpenseCommit(app))
		se.Router.POST("/magic/estimate/commit", handlers.HandleMagicEstimateCommit(app))
		se.Router.GET("/magic/{kind}", handlers.HandleMagicPage(app))
		se.Router.POST("/magic/{kind}", handlers.HandleMagicParse(app, completer))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
