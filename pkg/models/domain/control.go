package domain

import "time"

// Control describes a rule a checker evaluates and the frameworks its findings count toward
type Control struct {
	ID               string
	Name             string
	Checker          string
	Frameworks       []string
	PrimaryFramework string
}

// Finding builds an account-wide finding for this control.
func (c Control) Finding(status Status, details string, ts time.Time) Finding {
	return Finding{
		ControlID:        c.ID,
		ControlName:      c.Name,
		Status:           status,
		Frameworks:       append([]string(nil), c.Frameworks...),
		PrimaryFramework: c.PrimaryFramework,
		Details:          details,
		Timestamp:        ts,
	}
}

// ResourceFinding builds a finding for one resource; the control id is suffixed with idSuffix.
func (c Control) ResourceFinding(idSuffix, resource string, status Status, details string, ts time.Time) Finding {
	f := c.Finding(status, details, ts)
	f.ControlID = c.ID + "-" + idSuffix
	f.Resource = resource
	return f
}
