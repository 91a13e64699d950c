package domain

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return st, nil
	default:
		return "", Validationf("unknown order status %q", s)
	}
}

// transitions lists, per acting role and current status, the statuses that
// role may move an order to. Delivered and cancelled are terminal.
var transitions = map[Role]map[OrderStatus][]OrderStatus{
	RoleBuyer: {
		StatusPending: {StatusCancelled},
	},
	RoleFarmer: {
		StatusPending:   {StatusConfirmed},
		StatusConfirmed: {StatusShipped, StatusCancelled},
		StatusShipped:   {StatusDelivered},
	},
}

// CheckTransition returns an *InvalidTransitionError unless actor may move an
// order from one status to the other.
func CheckTransition(actor Role, from, to OrderStatus) error {
	for _, next := range transitions[actor][from] {
		if next == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
