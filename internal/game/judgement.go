package game

import (
	"fmt"

	"git.lost.host/meutraa/pitchtrainer/internal/pitch"
)

const (
	FeedbackCorrect  = "Correct!"
	FeedbackFinished = "Practice finished!"
)

var naturals = map[string]bool{
	"C": true, "D": true, "E": true, "F": true, "G": true, "A": true, "B": true,
}

func missed(key string) string {
	return fmt.Sprintf("Missed %s!", key)
}

// judge compares a detected name against the target key. Only an exact key
// (letter and octave) is correct, but the mismatch message compares letters.
func judge(target, detected string) (feedback string, correct, wrong bool) {
	if detected == target {
		return FeedbackCorrect, true, false
	}
	played := pitch.Letter(detected)
	if naturals[played] {
		return fmt.Sprintf("Incorrect! You played %s instead of %s", played, pitch.Letter(target)), false, true
	}
	return fmt.Sprintf("Detected: %s", detected), false, false
}
