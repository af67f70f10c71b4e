package undrstnd

// Warning types reported in CallWarning.Type.
const (
	WarningUnsupportedSetting = "unsupported-setting"
	WarningUnsupportedTool    = "unsupported-tool"
	WarningOther              = "other"
)

// CallWarning is a sealed interface for non-fatal diagnostics of a call.
// The call still proceeds; the warning tells the caller what was ignored.
type CallWarning interface {
	isCallWarning()
	Type() string
}

// UnsupportedSettingWarning reports a model setting the provider ignores.
type UnsupportedSettingWarning struct {
	Setting string
	Details string
}

// UnsupportedToolWarning reports a tool that was dropped from the request.
type UnsupportedToolWarning struct {
	Tool    Tool
	Details string
}

// OtherWarning is a free-form warning.
type OtherWarning struct {
	Message string
}

func (UnsupportedSettingWarning) isCallWarning() {}
func (UnsupportedToolWarning) isCallWarning()    {}
func (OtherWarning) isCallWarning()              {}

// Type implements CallWarning.
func (UnsupportedSettingWarning) Type() string { return WarningUnsupportedSetting }

// Type implements CallWarning.
func (UnsupportedToolWarning) Type() string { return WarningUnsupportedTool }

// Type implements CallWarning.
func (OtherWarning) Type() string { return WarningOther }
