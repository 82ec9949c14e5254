package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hrforge/talentd/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

var equipmentNames = []string{"Laptop", "Monitor", "Dock", "Headset", "Phone"}

var equipmentStatuses = []string{"available", "assigned", "maintenance", "returned"}

var trainingCategories = []string{"security", "leadership", "tooling", "compliance"}

// Run executes the complete seeding flow against a live service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting talentd seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("employees", config.NumEmployees),
		logger.Int("checkins", config.NumCheckins),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Seed the directory (employees, equipment, trainings)
	employeeIDs, err := seedDirectory(ctx, client, config, stats)
	if err != nil {
		return fmt.Errorf("directory seeding failed: %w", err)
	}

	// Step 3: Create and approve evaluations for the seeded employees
	if err := seedEvaluations(ctx, client, config, employeeIDs, stats); err != nil {
		return fmt.Errorf("evaluation seeding failed: %w", err)
	}

	// Step 4: Generate and submit check-ins concurrently
	checkins := generateCheckins(ctx, config, employeeIDs, stats)
	if err := submitCheckins(ctx, config, checkins, stats); err != nil {
		return fmt.Errorf("check-in submission failed: %w", err)
	}

	// Step 5: Wait for the classification workers to drain the queue
	logger.Get().Info(ctx, "waiting for check-ins to be classified")
	time.Sleep(ClassificationDelay)

	// Step 6: Verify classified check-ins and dashboard rollups
	if err := verifyCheckins(ctx, client, config, checkins, stats); err != nil {
		return fmt.Errorf("check-in verification failed: %w", err)
	}
	if err := verifyDashboard(ctx, client, config, stats); err != nil {
		return fmt.Errorf("dashboard verification failed: %w", err)
	}

	// Step 7: Save generated check-ins to file
	if err := saveCheckinsToFile(ctx, config, checkins); err != nil {
		logger.Get().Warn(ctx, "failed to save check-ins to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 counts as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// seedDirectory posts employees plus a spread of equipment and trainings,
// returning the assigned employee IDs.
func seedDirectory(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) ([]string, error) {
	employees := generateEmployees(ctx, config)

	ids := make([]string, 0, len(employees))
	for i, employee := range employees {
		var resp IDResponse
		if err := client.postDecoded(ctx, config.BaseURL+"/employees", employee, &resp, StatusCreated); err != nil {
			return nil, fmt.Errorf("failed to seed employee %d: %w", i, err)
		}
		ids = append(ids, resp.ID)
	}
	stats.EmployeesSeeded = len(ids)

	// One piece of equipment and one training per few employees is enough
	// to make the rollups non-trivial.
	for i, id := range ids {
		if i%3 != 0 {
			continue
		}
		equipment := map[string]interface{}{
			"name":        equipmentNames[randIndex(len(equipmentNames))],
			"employee_id": id,
			"status":      equipmentStatuses[randIndex(len(equipmentStatuses))],
		}
		if err := client.postDecoded(ctx, config.BaseURL+"/equipment", equipment, nil, StatusCreated); err != nil {
			return nil, fmt.Errorf("failed to seed equipment for employee %d: %w", i, err)
		}

		training := map[string]interface{}{
			"employee_id": id,
			"category":    trainingCategories[randIndex(len(trainingCategories))],
			"status":      "completed",
			"score":       1 + randFloat()*9,
			"start_date":  time.Now().UTC().AddDate(0, 0, -randIndex(90)).Format("2006-01-02"),
		}
		if err := client.postDecoded(ctx, config.BaseURL+"/trainings", training, nil, StatusCreated); err != nil {
			return nil, fmt.Errorf("failed to seed training for employee %d: %w", i, err)
		}
	}

	logger.Get().Info(ctx, "directory seeded", logger.Int("employees", len(ids)))
	return ids, nil
}

// seedEvaluations drafts, submits, and approves one evaluation per employee.
func seedEvaluations(ctx context.Context, client *HTTPClient, config *Config, employeeIDs []string, stats *Stats) error {
	period := time.Now().UTC().Format("2006-Q1")

	for i, employeeID := range employeeIDs {
		evaluation := generateEvaluation(employeeID, period)

		var created struct {
			ID string `json:"id"`
		}
		if err := client.postDecoded(ctx, config.BaseURL+"/evaluations", evaluation, &created, StatusCreated); err != nil {
			return fmt.Errorf("failed to create evaluation %d: %w", i, err)
		}
		stats.EvaluationsCreated++

		if err := client.postDecoded(ctx, config.BaseURL+"/evaluations/"+created.ID+"/submit", nil, nil, StatusOK); err != nil {
			return fmt.Errorf("failed to submit evaluation %s: %w", created.ID, err)
		}

		decision := Decision{Approver: "seed-manager"}
		if err := client.postDecoded(ctx, config.BaseURL+"/evaluations/"+created.ID+"/approve", decision, nil, StatusOK); err != nil {
			return fmt.Errorf("failed to approve evaluation %s: %w", created.ID, err)
		}
		stats.EvaluationsApproved++
	}

	logger.Get().Info(ctx, "evaluations seeded",
		logger.Int("created", stats.EvaluationsCreated),
		logger.Int("approved", stats.EvaluationsApproved))
	return nil
}

// saveCheckinsToFile saves the generated check-ins to a JSON file.
func saveCheckinsToFile(ctx context.Context, config *Config, checkins []Checkin) error {
	if len(checkins) == 0 {
		return fmt.Errorf("no check-ins to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "seeded_checkins_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, checkin := range checkins {
		jsonData, err := marshalJSON(checkin)
		if err != nil {
			return fmt.Errorf("failed to marshal check-in %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write check-in %d: %w", i, err)
		}

		if i < len(checkins)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "check-ins saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final seeding statistics.
func displayFinalStats(stats *Stats) {
	var successRate, checkinsPerSecond float64

	if stats.CheckinsSubmitted > 0 {
		successRate = float64(stats.CheckinsSuccessful) / float64(stats.CheckinsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		checkinsPerSecond = float64(stats.CheckinsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("employeesSeeded", stats.EmployeesSeeded),
		logger.Int("evaluationsCreated", stats.EvaluationsCreated),
		logger.Int("evaluationsApproved", stats.EvaluationsApproved),
		logger.Int("checkinsGenerated", stats.CheckinsGenerated),
		logger.Int("checkinsSubmitted", stats.CheckinsSubmitted),
		logger.Int("checkinsSuccessful", stats.CheckinsSuccessful),
		logger.Int("checkinsDuplicate", stats.CheckinsDuplicate),
		logger.Int("checkinsFailed", stats.CheckinsFailed),
		logger.Int("checkinsVerified", stats.CheckinsVerified),
		logger.Int("dashboardEmployees", stats.DashboardEmployees),
		logger.Int("dashboardEvaluations", stats.DashboardEvaluations),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("checkinsPerSecond", checkinsPerSecond))
}
