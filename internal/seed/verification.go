package seed

import (
	"context"
	"fmt"
	"log"
)

// Sampling bounds for check-in verification.
const (
	maxVerifySamples = 25
)

// classifiedCheckin mirrors the read shape served by GET /checkins/{id}.
type classifiedCheckin struct {
	MessageID         string  `json:"message_id"`
	Sentiment         string  `json:"sentiment"`
	Confidence        float64 `json:"confidence"`
	RequiresAttention bool    `json:"requires_attention"`
}

// verifyCheckins samples submitted check-ins and confirms the classifier
// produced a coherent record for each.
func verifyCheckins(ctx context.Context, client *HTTPClient, config *Config, checkins []Checkin, stats *Stats) error {
	log.Println("verifying classified check-ins...")

	if len(checkins) == 0 {
		return fmt.Errorf("no check-ins to verify")
	}

	samples := len(checkins)
	if samples > maxVerifySamples {
		samples = maxVerifySamples
	}

	verified := 0
	for i := 0; i < samples; i++ {
		var record classifiedCheckin
		url := config.BaseURL + "/checkins/" + checkins[i].MessageID
		if err := client.getDecoded(ctx, url, &record); err != nil {
			log.Printf("check-in %s not yet classified: %v", checkins[i].MessageID, err)
			continue
		}

		if err := checkClassification(record); err != nil {
			return fmt.Errorf("check-in %s failed verification: %w", checkins[i].MessageID, err)
		}
		verified++
	}

	if verified == 0 {
		return fmt.Errorf("none of %d sampled check-ins were classified", samples)
	}

	stats.CheckinsVerified = verified
	log.Printf("verified %d/%d sampled check-ins", verified, samples)
	return nil
}

// checkClassification validates a single classified record.
func checkClassification(record classifiedCheckin) error {
	switch record.Sentiment {
	case "positive", "neutral", "negative":
	default:
		return fmt.Errorf("unknown sentiment label %q", record.Sentiment)
	}

	if record.Confidence < 0 || record.Confidence > 1 {
		return fmt.Errorf("confidence %.3f out of range", record.Confidence)
	}

	if record.RequiresAttention && record.Sentiment != "negative" {
		return fmt.Errorf("attention flag set on %s sentiment", record.Sentiment)
	}
	if !record.RequiresAttention && record.Sentiment == "negative" {
		return fmt.Errorf("attention flag missing on negative sentiment")
	}

	return nil
}

// verifyDashboard confirms the rollups reflect at least what this run seeded.
func verifyDashboard(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	log.Println("verifying dashboard rollups...")

	var dashboard Dashboard
	if err := client.getDecoded(ctx, config.BaseURL+"/dashboard", &dashboard); err != nil {
		return fmt.Errorf("failed to fetch dashboard: %w", err)
	}

	if dashboard.Employees.Total < stats.EmployeesSeeded {
		return fmt.Errorf("dashboard shows %d employees, seeded %d",
			dashboard.Employees.Total, stats.EmployeesSeeded)
	}
	if dashboard.Evaluations.Total < stats.EvaluationsApproved {
		return fmt.Errorf("dashboard shows %d evaluations, approved %d",
			dashboard.Evaluations.Total, stats.EvaluationsApproved)
	}
	if stats.EvaluationsApproved > 0 && (dashboard.Evaluations.AvgScore < 1 || dashboard.Evaluations.AvgScore > 10) {
		return fmt.Errorf("dashboard average score %.2f out of range", dashboard.Evaluations.AvgScore)
	}

	stats.DashboardEmployees = dashboard.Employees.Total
	stats.DashboardEvaluations = dashboard.Evaluations.Total

	log.Printf("dashboard verified: %d employees, %d approved evaluations, avg score %.2f",
		dashboard.Employees.Total, dashboard.Evaluations.Total, dashboard.Evaluations.AvgScore)
	return nil
}
