package notify

import "github.com/verte-zerg/coderacer/internal/model"

// Achievement describes one rule that fired for a race outcome.
type Achievement struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Badge   string `json:"badge"`
}

type achievementRule struct {
	typ     string
	message string
	badge   string
	matches func(wpm int, accuracy float64, totalRaces int) bool
}

// Static rule table. Rules are stateless and re-fire on every qualifying
// outcome; the speed tiers are disjoint so a 120+ result grants only
// speed_120.
var achievementRules = []achievementRule{
	{
		typ:     model.NotificationAchievement,
		message: "Great speed! You reached 100+ WPM!",
		badge:   "speed_100",
		matches: func(wpm int, _ float64, _ int) bool { return wpm >= 100 && wpm < 120 },
	},
	{
		typ:     model.NotificationAchievement,
		message: "Outstanding! You reached 120+ WPM!",
		badge:   "speed_120",
		matches: func(wpm int, _ float64, _ int) bool { return wpm >= 120 },
	},
	{
		typ:     model.NotificationAchievement,
		message: "Perfect accuracy! 100% with no errors!",
		badge:   "perfect_accuracy",
		matches: func(_ int, accuracy float64, _ int) bool { return accuracy >= 100 },
	},
	{
		typ:     model.NotificationMilestone,
		message: "Congratulations! You finished 10 races!",
		badge:   "races_10",
		matches: func(_ int, _ float64, totalRaces int) bool { return totalRaces == 10 },
	},
	{
		typ:     model.NotificationMilestone,
		message: "Incredible! You finished 50 races!",
		badge:   "races_50",
		matches: func(_ int, _ float64, totalRaces int) bool { return totalRaces == 50 },
	},
}

// CheckAchievements scans the rule table over one outcome. Rules are
// independent; any subset may fire. totalRaces counts the user's results
// including the outcome under evaluation.
func CheckAchievements(wpm int, accuracy float64, totalRaces int) []Achievement {
	fired := []Achievement{}
	for _, rule := range achievementRules {
		if rule.matches(wpm, accuracy, totalRaces) {
			fired = append(fired, Achievement{Type: rule.typ, Message: rule.message, Badge: rule.badge})
		}
	}
	return fired
}
