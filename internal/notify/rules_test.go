package notify

import "testing"

func badges(achievements []Achievement) map[string]bool {
	out := map[string]bool{}
	for _, a := range achievements {
		out[a.Badge] = true
	}
	return out
}

func TestCheckAchievementsCombined(t *testing.T) {
	// wpm=100, accuracy=100, totalRaces=10 fires exactly three rules.
	fired := CheckAchievements(100, 100, 10)
	if len(fired) != 3 {
		t.Fatalf("expected 3 achievements, got %d: %+v", len(fired), fired)
	}
	got := badges(fired)
	for _, want := range []string{"speed_100", "perfect_accuracy", "races_10"} {
		if !got[want] {
			t.Fatalf("expected badge %s in %v", want, got)
		}
	}
	if got["speed_120"] {
		t.Fatalf("speed tiers must not overlap: %v", got)
	}
}

func TestCheckAchievementsSpeedTiersDisjoint(t *testing.T) {
	if got := badges(CheckAchievements(119, 0, 0)); !got["speed_100"] || got["speed_120"] {
		t.Fatalf("wpm=119 should fire only speed_100, got %v", got)
	}
	if got := badges(CheckAchievements(120, 0, 0)); got["speed_100"] || !got["speed_120"] {
		t.Fatalf("wpm=120 should fire only speed_120, got %v", got)
	}
	if got := badges(CheckAchievements(99, 0, 0)); got["speed_100"] || got["speed_120"] {
		t.Fatalf("wpm=99 should fire no speed badge, got %v", got)
	}
}

func TestCheckAchievementsMilestones(t *testing.T) {
	if got := badges(CheckAchievements(0, 0, 50)); !got["races_50"] {
		t.Fatalf("expected races_50, got %v", got)
	}
	// Milestones key on the exact count, not a threshold.
	if got := badges(CheckAchievements(0, 0, 11)); len(got) != 0 {
		t.Fatalf("expected no achievements for totalRaces=11, got %v", got)
	}
}

func TestCheckAchievementsNone(t *testing.T) {
	if fired := CheckAchievements(50, 80, 3); len(fired) != 0 {
		t.Fatalf("expected no achievements, got %+v", fired)
	}
}

func TestCheckAchievementsMilestoneTypes(t *testing.T) {
	for _, a := range CheckAchievements(130, 100, 10) {
		switch a.Badge {
		case "races_10", "races_50":
			if a.Type != "milestone" {
				t.Fatalf("badge %s: expected milestone type, got %s", a.Badge, a.Type)
			}
		default:
			if a.Type != "achievement" {
				t.Fatalf("badge %s: expected achievement type, got %s", a.Badge, a.Type)
			}
		}
	}
}
