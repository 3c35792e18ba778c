package apy

// Venue is a lending market the aggregator can hold funds in.
type Venue int

const (
	VenueNone Venue = iota
	VenueCompound
	VenueAave
)

func (v Venue) String() string {
	switch v {
	case VenueCompound:
		return "compound"
	case VenueAave:
		return "aave"
	default:
		return "none"
	}
}

// ParseVenue is the inverse of String. Unknown names map to VenueNone.
func ParseVenue(s string) Venue {
	switch s {
	case "compound":
		return VenueCompound
	case "aave":
		return VenueAave
	default:
		return VenueNone
	}
}

// Decision is the outcome of comparing both venues' yields.
type Decision struct {
	From     Venue
	To       Venue
	Compound Yield
	Aave     Yield
}

// Moved reports whether funds should be placed or rebalanced.
func (d Decision) Moved() bool {
	return d.From != d.To
}

// Rebalance reports whether funds already placed should switch venue.
func (d Decision) Rebalance() bool {
	return d.From != VenueNone && d.Moved()
}

// Select moves to the venue with the strictly greater yield. On a tie the
// current venue is kept; with nothing placed yet a tie goes to Compound.
func Select(current Venue, compound, aave Yield) Decision {
	d := Decision{From: current, To: current, Compound: compound, Aave: aave}

	switch compound.Cmp(aave) {
	case 1:
		d.To = VenueCompound
	case -1:
		d.To = VenueAave
	default:
		if current == VenueNone {
			d.To = VenueCompound
		}
	}
	return d
}
