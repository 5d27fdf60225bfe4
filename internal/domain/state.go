package domain

// Dialog modes. An empty mode means the chat is idle.
const (
	ModeProduct = "product"
	ModeConfig  = "config_set"
	ModeLoyalty = "loyalty"
	ModePromo   = "promo"
)

// Product dialog submodes.
const (
	SubmodeCreate = "create"
	SubmodeEdit   = "edit"
)

// DialogState is the per-chat conversation state persisted between updates
// under the state:<chat_id> key.
type DialogState struct {
	Mode    string `json:"mode,omitempty"`
	Submode string `json:"submode,omitempty"`
	// Step indexes the current wizard field for product dialogs.
	Step int `json:"step,omitempty"`
	// EditID is the identifier of the product being edited, empty for create.
	EditID string `json:"edit_id,omitempty"`
	// Draft accumulates field answers until the dialog commits.
	Draft Product `json:"draft,omitempty"`
	// ConfigKey is the pending site-config field for config_set dialogs.
	ConfigKey string `json:"config_key,omitempty"`
}

// Active reports whether a dialog is in progress.
func (s DialogState) Active() bool {
	return s.Mode != ""
}

// Reset returns the idle state.
func (s DialogState) Reset() DialogState {
	return DialogState{}
}
