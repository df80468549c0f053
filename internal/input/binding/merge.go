package binding

// Merge steps reported by BuildEffectiveTrace.
const (
	StepClone         = "clone"
	StepMergeUnbound  = "merge-unbound"
	StepApplyUnbound  = "apply-unbound"
	StepMergeBindings = "merge-bindings"
)

// BuildEffective returns the bindings a player experiences: base with the
// override's unbound markers applied and its real bindings laid on top.
// Neither argument is modified.
func BuildEffective(cfg Config, base, overrides Layout) Layout {
	return BuildEffectiveTrace(cfg, base, overrides, nil)
}

// BuildEffectiveTrace is BuildEffective that calls trace with a copy of the
// intermediate layout after each step. trace may be nil.
func BuildEffectiveTrace(cfg Config, base, overrides Layout, trace func(step string, l Layout)) Layout {
	report := func(step string, l Layout) {
		if trace != nil {
			trace(step, l.Clone())
		}
	}

	effective := base.Clone()
	report(StepClone, effective)

	// Markers go first so they can suppress base defaults in slots the
	// override does not otherwise touch.
	effective.MergeUnbound(cfg, overrides)
	report(StepMergeUnbound, effective)

	effective.ApplyUnbound(cfg)
	report(StepApplyUnbound, effective)

	effective.MergeBindings(cfg, overrides)
	report(StepMergeBindings, effective)

	return effective
}
