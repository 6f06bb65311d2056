package domain

// Policy is where a user's delivery decision for one type comes from: either
// an explicit preference row or the user's master toggles.
type Policy interface {
	Effective() EffectivePolicy
	policy()
}

type ExplicitPolicy struct {
	Preference NotificationPreference
}

type InheritedPolicy struct {
	Toggles MasterToggles
}

type EffectivePolicy struct {
	InApp     bool      `json:"in_app"`
	Email     bool      `json:"email"`
	Push      bool      `json:"push"`
	Frequency Frequency `json:"frequency"`
}

func (p ExplicitPolicy) Effective() EffectivePolicy {
	return EffectivePolicy{
		InApp:     p.Preference.InApp,
		Email:     p.Preference.Email,
		Push:      p.Preference.Push,
		Frequency: p.Preference.Frequency,
	}
}

// Inherited toggles always deliver in realtime.
func (p InheritedPolicy) Effective() EffectivePolicy {
	return EffectivePolicy{
		InApp:     p.Toggles.InApp,
		Email:     p.Toggles.Email,
		Push:      p.Toggles.Push,
		Frequency: FrequencyRealtime,
	}
}

func (ExplicitPolicy) policy()  {}
func (InheritedPolicy) policy() {}

// ResolvePolicy picks the explicit row when present, the master toggles otherwise.
func ResolvePolicy(pref *NotificationPreference, toggles MasterToggles) Policy {
	if pref != nil {
		return ExplicitPolicy{Preference: *pref}
	}
	return InheritedPolicy{Toggles: toggles}
}

// Suppressed reports a hard mute: no record and no outbound job.
func (e EffectivePolicy) Suppressed() bool {
	return e.Frequency == FrequencyNone
}

func (e EffectivePolicy) SendEmail() bool {
	return e.Email && e.Frequency == FrequencyRealtime
}

func (e EffectivePolicy) SendPush() bool {
	return e.Push && e.Frequency == FrequencyRealtime
}

// DigestDeferred reports outbound channels that were enabled but held back by a
// digest frequency. Nothing compiles digests yet, so these are never sent.
func (e EffectivePolicy) DigestDeferred() bool {
	return e.Frequency.IsDigest() && (e.Email || e.Push)
}
