// Package loyalty maps a customer's paid-order count to a tier and tracks
// progress toward the next free reward.
package loyalty

type Tier struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

var (
	Bronze   = Tier{Name: "Bronze", Threshold: 0}
	Silver   = Tier{Name: "Silver", Threshold: 15}
	Gold     = Tier{Name: "Gold", Threshold: 30}
	Diamond  = Tier{Name: "Diamond", Threshold: 45}
	Platinum = Tier{Name: "Platinum", Threshold: 60}
)

// Tiers is ordered by ascending threshold.
var Tiers = []Tier{Bronze, Silver, Gold, Diamond, Platinum}

// RewardInterval is the number of paid orders that earns one reward.
const RewardInterval = 15

// TierFor returns the highest tier whose threshold is <= count.
func TierFor(count int) Tier {
	tier := Tiers[0]
	for _, t := range Tiers[1:] {
		if count < t.Threshold {
			break
		}
		tier = t
	}

	return tier
}

func nextTier(current Tier) *Tier {
	for i, t := range Tiers {
		if t == current && i+1 < len(Tiers) {
			next := Tiers[i+1]
			return &next
		}
	}

	return nil
}

type Summary struct {
	OrderCount         int   `json:"order_count"`
	Tier               Tier  `json:"tier"`
	NextTier           *Tier `json:"next_tier,omitempty"`
	ProgressInTier     int   `json:"progress_in_tier"`
	OrdersToNextTier   *int  `json:"orders_to_next_tier,omitempty"`
	ProgressPercent    int   `json:"progress_percent"`
	RewardsEarned      int   `json:"rewards_earned"`
	OrdersToNextReward int   `json:"orders_to_next_reward"`
}

func Summarize(count int) Summary {
	if count < 0 {
		count = 0
	}

	tier := TierFor(count)
	s := Summary{
		OrderCount:         count,
		Tier:               tier,
		ProgressInTier:     count - tier.Threshold,
		ProgressPercent:    100,
		RewardsEarned:      RewardsEarned(count),
		OrdersToNextReward: OrdersToNextReward(count),
	}

	if next := nextTier(tier); next != nil {
		remaining := next.Threshold - count
		span := next.Threshold - tier.Threshold
		s.NextTier = next
		s.OrdersToNextTier = &remaining
		s.ProgressPercent = s.ProgressInTier * 100 / span
	}

	return s
}

// IsMilestone reports whether the seq-th paid order earns a reward.
func IsMilestone(seq int) bool {
	return seq > 0 && seq%RewardInterval == 0
}

func RewardsEarned(count int) int {
	if count <= 0 {
		return 0
	}

	return count / RewardInterval
}

func OrdersToNextReward(count int) int {
	if count < 0 {
		count = 0
	}

	return RewardInterval - count%RewardInterval
}
