package eavs

import "math"

// round1 and round2 round half away from zero, the rounding policy pinned
// for all derived percentages in this dataset.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func floatPtr(x float64) *float64 {
	return &x
}

// ComputeDerived attaches derived statistics to the aggregate. Each derived
// field is present only when its denominator is positive; it is never
// defaulted to zero, which would imply a measurement that was not made.
func (s *StateData) ComputeDerived() {
	vr := &s.VoterRegistration
	total := Count(vr.TotalActive) + Count(vr.TotalInactive)
	vr.TotalRegistered = &total

	mv := &s.MailVoting
	if Count(mv.BallotsTransmitted) > 0 {
		rate := float64(Count(mv.BallotsReturned)) / float64(Count(mv.BallotsTransmitted)) * 100
		mv.ReturnRate = floatPtr(round1(rate))
	}

	if Count(mv.BallotsReturned) > 0 {
		rate := float64(Count(mv.BallotsRejected)) / float64(Count(mv.BallotsReturned)) * 100
		mv.RejectionRate = floatPtr(round2(rate))
	}

	prov := &s.Provisional
	if Count(prov.BallotsSubmitted) > 0 {
		rate := float64(Count(prov.BallotsCounted)) / float64(Count(prov.BallotsSubmitted)) * 100
		prov.CountRate = floatPtr(round1(rate))
	}

	if total > 0 && Count(s.Turnout.TotalBallotsCast) > 0 {
		pct := float64(Count(s.Turnout.TotalBallotsCast)) / float64(total) * 100
		s.Turnout.TurnoutPercentage = floatPtr(round1(pct))
	}
}

// CleanZeros converts every zero numeric leaf in the aggregate to absent.
// This is a presentation-layer normalization: downstream consumers render
// "zero" and "not reported" identically, so emitting 0 would imply false
// precision. Applied as an explicit per-group visitor.
func (s *StateData) CleanZeros() {
	s.JurisdictionCount = zeroToNil(s.JurisdictionCount)

	vr := &s.VoterRegistration
	vr.TotalActive = zeroToNil(vr.TotalActive)
	vr.TotalInactive = zeroToNil(vr.TotalInactive)
	vr.SameDayRegistrations = zeroToNil(vr.SameDayRegistrations)
	vr.TotalRegistered = zeroToNil(vr.TotalRegistered)

	rt := &s.RegistrationTransactions
	rt.MotorVehicle = zeroToNil(rt.MotorVehicle)
	rt.Online = zeroToNil(rt.Online)
	rt.ByMail = zeroToNil(rt.ByMail)
	rt.InPerson = zeroToNil(rt.InPerson)

	mv := &s.MailVoting
	mv.BallotsTransmitted = zeroToNil(mv.BallotsTransmitted)
	mv.BallotsReturned = zeroToNil(mv.BallotsReturned)
	mv.BallotsRejected = zeroToNil(mv.BallotsRejected)
	mv.BallotsCounted = zeroToNil(mv.BallotsCounted)
	mv.ReturnRate = zeroFloatToNil(mv.ReturnRate)
	mv.RejectionRate = zeroFloatToNil(mv.RejectionRate)

	uo := &s.UOCAVA
	uo.BallotsTransmitted = zeroToNil(uo.BallotsTransmitted)
	uo.BallotsReturned = zeroToNil(uo.BallotsReturned)
	uo.BallotsCounted = zeroToNil(uo.BallotsCounted)

	p := &s.Polling
	p.Precincts = zeroToNil(p.Precincts)
	p.PollingPlaces = zeroToNil(p.PollingPlaces)
	p.PollWorkers = zeroToNil(p.PollWorkers)

	prov := &s.Provisional
	prov.BallotsSubmitted = zeroToNil(prov.BallotsSubmitted)
	prov.BallotsCounted = zeroToNil(prov.BallotsCounted)
	prov.BallotsRejected = zeroToNil(prov.BallotsRejected)
	prov.CountRate = zeroFloatToNil(prov.CountRate)

	t := &s.Turnout
	t.TotalBallotsCast = zeroToNil(t.TotalBallotsCast)
	t.TurnoutPercentage = zeroFloatToNil(t.TurnoutPercentage)
}

func zeroToNil(p *int) *int {
	if p != nil && *p == 0 {
		return nil
	}
	return p
}

func zeroFloatToNil(p *float64) *float64 {
	if p != nil && *p == 0 {
		return nil
	}
	return p
}
