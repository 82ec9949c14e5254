package seed

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hrforge/talentd/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileDivisor     = 5
)

// Constants for evaluation score profiles on the [1,10] scale.
const (
	solidPerformerMin    = 5.0
	solidPerformerRange  = 3.0
	strongPerformerMin   = 8.0
	strongPerformerRange = 2.0
	strugglingMin        = 1.0
	strugglingRange      = 3.5
	mixedMin             = 3.0
	mixedRange           = 6.0
	steadyMin            = 6.0
	steadyRange          = 1.5
)

// Performance profile cases.
const (
	caseSolidPerformer  = 0
	caseStrongPerformer = 1
	caseStruggling      = 2
	caseMixed           = 3
	caseSteady          = 4
)

var departments = []string{"Engineering", "Sales", "Support", "Finance", "People Ops"}

var skillLevels = []string{"basic", "intermediate", "advanced", "expert"}

var firstNames = []string{
	"Ada", "Bram", "Carla", "Dmitri", "Elif", "Farid", "Greta", "Hiro",
	"Ines", "Jonas", "Keiko", "Lars", "Mina", "Noor", "Otto", "Priya",
}

var lastNames = []string{
	"Abbasi", "Berg", "Costa", "Dalton", "Eriksen", "Fuentes", "Grimm",
	"Haddad", "Ivanov", "Jansen", "Kato", "Lindqvist", "Moreau", "Novak",
}

var criteria = []string{"technical", "productivity", "teamwork", "innovation", "attendance"}

// positiveMessages, neutralMessages, and negativeMessages are drawn from the
// lexicon the classifier recognizes so a run exercises all three labels.
var positiveMessages = []string{
	"Great sprint, the team shipped everything and I feel motivated",
	"Really happy with my progress this week, learned a lot",
	"Excellent onboarding so far, my mentor has been amazing",
	"Good week overall, enjoyed pairing on the new scoring work",
}

var neutralMessages = []string{
	"Worked on the reporting module, nothing unusual to flag",
	"Regular week, attended the planning meetings and closed tickets",
	"Spent most days on documentation and code review",
}

var negativeMessages = []string{
	"Feeling overwhelmed and stressed, the backlog keeps growing",
	"Struggling with the current task, blocked and frustrated",
	"Bad week, too many interruptions and I feel burned out",
}

// randFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func randFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randIndex returns a random index in [0, n).
func randIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateEmployees creates plausible employee records with staggered hire
// dates so the dashboard's tenure averages are non-trivial.
func generateEmployees(ctx context.Context, config *Config) []Employee {
	logger.Get().Info(ctx, "generating employees", logger.Int("count", config.NumEmployees))

	employees := make([]Employee, config.NumEmployees)
	now := time.Now().UTC()
	for i := range employees {
		tenureDays := randIndex(6 * 365)
		employees[i] = Employee{
			Name:       firstNames[randIndex(len(firstNames))] + " " + lastNames[randIndex(len(lastNames))],
			Department: departments[randIndex(len(departments))],
			SkillLevel: skillLevels[randIndex(len(skillLevels))],
			HireDate:   now.AddDate(0, 0, -tenureDays).Format("2006-01-02"),
		}
	}
	return employees
}

// generateEvaluation creates a scored draft for the given employee using a
// varied performance profile.
func generateEvaluation(employeeID, period string) Evaluation {
	scores := make(map[string]float64, len(criteria))
	profile := randIndex(profileDivisor)
	for _, criterion := range criteria {
		scores[criterion] = clampScore(profileScore(profile))
	}
	return Evaluation{
		EmployeeID: employeeID,
		Period:     period,
		Scores:     scores,
	}
}

// profileScore draws one criterion value for a performance profile.
func profileScore(profile int) float64 {
	switch profile {
	case caseSolidPerformer:
		return solidPerformerMin + randFloat()*solidPerformerRange
	case caseStrongPerformer:
		return strongPerformerMin + randFloat()*strongPerformerRange
	case caseStruggling:
		return strugglingMin + randFloat()*strugglingRange
	case caseMixed:
		return mixedMin + randFloat()*mixedRange
	case caseSteady:
		return steadyMin + randFloat()*steadyRange
	default:
		return mixedMin + randFloat()*mixedRange
	}
}

// clampScore keeps generated values inside the accepted [1,10] scale.
func clampScore(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// generateCheckins creates the specified number of check-ins with unique
// message IDs spread across the three sentiment classes.
func generateCheckins(ctx context.Context, config *Config, internIDs []string, stats *Stats) []Checkin {
	logger.Get().Info(ctx, "generating check-ins", logger.Int("count", config.NumCheckins))

	checkins := make([]Checkin, config.NumCheckins)
	for i := range checkins {
		checkins[i] = generateSingleCheckin(i, internIDs[randIndex(len(internIDs))])
	}

	stats.CheckinsGenerated = len(checkins)
	logger.Get().Info(ctx, "generated check-ins successfully", logger.Int("count", len(checkins)))
	return checkins
}

// generateSingleCheckin creates one check-in with a unique message ID.
func generateSingleCheckin(index int, internID string) Checkin {
	var message string
	switch randIndex(3) {
	case 0:
		message = positiveMessages[randIndex(len(positiveMessages))]
	case 1:
		message = neutralMessages[randIndex(len(neutralMessages))]
	default:
		message = negativeMessages[randIndex(len(negativeMessages))]
	}

	messageID := "checkin_" + strconv.Itoa(index) + "_" + uuid.New().String()

	return Checkin{
		MessageID: messageID,
		InternID:  internID,
		Message:   message,
		TS:        time.Now().UTC().Format(time.RFC3339),
	}
}
