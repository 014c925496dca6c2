package coinflip

import "testing"

func TestAlwaysGuessingHeadsOnAnAlwaysHeadsCoin(t *testing.T) {
	env := New(1.0)
	for i := 0; i < 20; i++ {
		if err := env.Act(ActionGuessHeads); err != nil {
			t.Fatal(err)
		}
		if env.Observation() != ObservationHeads {
			t.Fatalf("expected heads, got observation %d", env.Observation())
		}
		if env.Reward() != 1 {
			t.Fatalf("expected reward 1 for a correct guess, got %d", env.Reward())
		}
	}
}

func TestGuessingTailsOnAnAlwaysHeadsCoin(t *testing.T) {
	env := New(1.0)
	if err := env.Act(ActionGuessTails); err != nil {
		t.Fatal(err)
	}
	if env.Reward() != 0 {
		t.Fatalf("expected reward 0 for an incorrect guess, got %d", env.Reward())
	}
}

func TestNeverFinishes(t *testing.T) {
	env := New(0.5)
	if env.IsFinished() {
		t.Fatal("a coinflip environment never terminates")
	}
}
