package leave

// Snapshot is the state of one balance row as read under lock.
type Snapshot struct {
	LeaveType     string
	Balance       float64
	Taken         float64
	CarryOverDays float64
	Exists        bool
}

const (
	TierCarryOver    = "CARRY_OVER"
	TierBalance      = "BALANCE"
	TierBorrowAnnual = "BORROW_ANNUAL"
	TierUnpaid       = "UNPAID"
)

// Mutation is the single balance write a deduction resolves to.
type Mutation struct {
	Tier            string
	LeaveType       string
	CarryOverDelta  float64
	BalanceDelta    float64
	TakenDelta      float64
	CreateIfMissing bool
}

type tier struct {
	name      string
	available func() bool
	apply     func() Mutation
}

// PlanDeduction resolves which balance pays for an approved request. Tiers
// are tried in strict order and the first available one wins; a request is
// never split across tiers. SICK and LEAVE may borrow from the ANNUAL
// balance (not its carry-over); ANNUAL itself never borrows. When no tier
// can pay, the days land on the PAID_BY_EMPLOYEE debt ledger.
func PlanDeduction(leaveType string, days float64, own, annual Snapshot) (Mutation, error) {
	if days <= 0 {
		return Mutation{}, ErrInvalidRange
	}
	if leaveType != TypeLeave && leaveType != TypeSick && leaveType != TypeAnnual {
		return Mutation{}, ErrInvalidLeaveType
	}

	tiers := []tier{
		{
			name:      TierCarryOver,
			available: func() bool { return own.Exists && own.CarryOverDays >= days },
			apply: func() Mutation {
				return Mutation{Tier: TierCarryOver, LeaveType: leaveType, CarryOverDelta: -days, TakenDelta: days}
			},
		},
		{
			name:      TierBalance,
			available: func() bool { return own.Exists && own.Balance >= days },
			apply: func() Mutation {
				return Mutation{Tier: TierBalance, LeaveType: leaveType, BalanceDelta: -days, TakenDelta: days}
			},
		},
	}

	if leaveType == TypeSick || leaveType == TypeLeave {
		tiers = append(tiers, tier{
			name:      TierBorrowAnnual,
			available: func() bool { return annual.Exists && annual.Balance >= days },
			apply: func() Mutation {
				return Mutation{Tier: TierBorrowAnnual, LeaveType: TypeAnnual, BalanceDelta: -days, TakenDelta: days}
			},
		})
	}

	tiers = append(tiers, tier{
		name:      TierUnpaid,
		available: func() bool { return true },
		apply: func() Mutation {
			return Mutation{Tier: TierUnpaid, LeaveType: TypePaidByEmployee, TakenDelta: days, CreateIfMissing: true}
		},
	})

	for _, t := range tiers {
		if t.available() {
			return t.apply(), nil
		}
	}
	return Mutation{}, ErrInvalidLeaveType
}
