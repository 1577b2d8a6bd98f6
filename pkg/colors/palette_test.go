package colors

import "testing"

func TestTierFor(t *testing.T) {
	cases := map[int]Tier{
		-3: TierDue,
		0:  TierDue,
		1:  TierSoon,
		3:  TierSoon,
		4:  TierWeek,
		10: TierWeek,
		11: TierLater,
	}
	for days, want := range cases {
		if got := TierFor(days); got != want {
			t.Errorf("TierFor(%d) = %v, want %v", days, got, want)
		}
	}
	if TierLater.Bold() || !TierSoon.Bold() {
		t.Error("unexpected bold tiers")
	}
}
