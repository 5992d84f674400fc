package shot

// Resolve runs a gesture through normalization, classification, aiming, the
// ballistic solve and spin. The returned attempt is populated as far as the
// pipeline got: an INVALID swipe comes back with its analysis, a nil Result
// and ErrInvalidShot.
func Resolve(swipe SwipeData, cfg Config) (*ShotAttempt, error) {
	normalized, err := NormalizeSwipe(swipe)
	if err != nil {
		return nil, err
	}

	analysis := Classify(normalized, cfg)
	params := ResolveAim(normalized, analysis, cfg)
	attempt := &ShotAttempt{
		Swipe:      normalized,
		Analysis:   analysis,
		Parameters: params,
	}

	velocity, flightTime, err := SolveLaunch(params, cfg)
	if err != nil {
		return attempt, err
	}

	attempt.Result = &ShotResult{
		Velocity:          velocity,
		AngularVelocity:   ResolveSpin(params, velocity, cfg),
		ShotType:          analysis.Type,
		TargetPosition:    params.TargetPosition,
		AimTargetPosition: params.AimTargetPosition,
		FlightTime:        flightTime,
	}
	return attempt, nil
}
