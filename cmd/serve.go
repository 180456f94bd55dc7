package cmd

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/secinv/cpescan/config"
	"github.com/secinv/cpescan/database"
	"github.com/secinv/cpescan/model"
	"github.com/secinv/cpescan/util"
	"github.com/spf13/cobra"
)

var db database.DBConnection

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the report collection server",
	Long: `Starts the HTTP server that receives scan reports from agents, stores
them in ArangoDB, and serves stored reports and on-demand scans of the
server host.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// ReportResponse is the envelope for single-report endpoints
type ReportResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Key      string `json:"_key,omitempty"`
	ReportID string `json:"report_id,omitempty"`
}

// ReportListResponse is the envelope for the report list endpoint
type ReportListResponse struct {
	Success bool                      `json:"success"`
	Count   int                       `json:"count"`
	Reports []database.ReportListItem `json:"reports"`
}

func runServe(cmd *cobra.Command, args []string) error {
	db = database.InitializeDatabase()

	app := fiber.New(fiber.Config{
		AppName:     "cpescan API v1.0",
		BodyLimit:   50 * 1024 * 1024, // large software inventories
		ReadTimeout: time.Second * 60,
	})

	app.Use(fiberrecover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
		})
	})

	api := app.Group("/api/v1")

	api.Get("/scan", GetScan)
	api.Post("/reports", PostReport)
	api.Get("/reports", GetReports)

	port := util.GetEnvDefault("CPESCAN_PORT", "8080")

	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	return nil
}

// GetScan scans the server host itself and returns the report without
// storing it. Useful for probing what a machine would report.
func GetScan(c *fiber.Ctx) error {
	cfg := config.Default()
	cfg.SkipSoftware = c.QueryBool("skip_software", false)
	cfg.LimitSoftware = c.QueryInt("limit", 0)

	report, err := buildReport(c.UserContext(), cfg)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ReportResponse{
			Success: false,
			Message: "Scan failed: " + err.Error(),
		})
	}

	return c.JSON(report)
}

// PostReport stores a scan report pushed by an agent
func PostReport(c *fiber.Ctx) error {
	var report model.ScanReport

	if err := c.BodyParser(&report); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ReportResponse{
			Success: false,
			Message: "Invalid request body: " + err.Error(),
		})
	}

	if report.ReportID == "" || report.Hostname == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ReportResponse{
			Success: false,
			Message: "Report ID and hostname are required fields",
		})
	}

	if report.ObjType == "" {
		report.ObjType = "ScanReport"
	}
	if report.ScanTime.IsZero() {
		report.ScanTime = time.Now().UTC()
	}

	ctx := context.Background()

	existing, err := database.FindReportByID(ctx, db.Database, report.ReportID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ReportResponse{
			Success: false,
			Message: "Failed to check for existing report: " + err.Error(),
		})
	}
	if existing != "" {
		return c.Status(fiber.StatusConflict).JSON(ReportResponse{
			Success:  false,
			Message:  "Report already exists",
			Key:      existing,
			ReportID: report.ReportID,
		})
	}

	key, err := database.StoreReport(ctx, db, &report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ReportResponse{
			Success: false,
			Message: "Failed to store report: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(ReportResponse{
		Success:  true,
		Message:  "Report stored",
		Key:      key,
		ReportID: report.ReportID,
	})
}

// GetReports lists stored reports, newest first
func GetReports(c *fiber.Ctx) error {
	reports, err := database.ListReports(context.Background(), db.Database)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ReportListResponse{
			Success: false,
		})
	}

	return c.JSON(ReportListResponse{
		Success: true,
		Count:   len(reports),
		Reports: reports,
	})
}
